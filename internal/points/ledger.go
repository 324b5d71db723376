// Package points is the sole mutator of member balances: task completion,
// reward redemption, and peer kudos/shame all funnel through the Ledger.
package points

import (
	"errors"
	"log/slog"

	"github.com/davidbloss/wghub/internal/model"
	"github.com/davidbloss/wghub/internal/store"
)

// Fixed deltas. A completed task always pays the same amount so the undo
// path can reverse it exactly.
const (
	TaskCompletionAward = 10
	KudosAward          = 5
	ShamePenalty        = -5
)

// ErrInsufficientFunds is returned when a redemption is attempted with a
// balance below the reward's cost. Distinct from validation failures so
// clients can show the "not enough points" message.
var ErrInsufficientFunds = errors.New("not enough points")

// ErrUnknownUser is returned when a ledger operation references a member
// the store does not hold.
var ErrUnknownUser = errors.New("unknown user")

// ErrUnknownReward is returned when a redemption references an absent
// reward.
var ErrUnknownReward = errors.New("unknown reward")

type Ledger struct {
	store  *store.Store
	logger *slog.Logger
}

func NewLedger(s *store.Store, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: s, logger: logger}
}

// Award adds delta (positive or negative) to a member's balance. The store
// clamps the result at zero: balances never go negative, whatever the
// delta. Returns the new balance.
func (l *Ledger) Award(userID string, delta int) (int, error) {
	balance, ok := l.store.AdjustPoints(userID, delta)
	if !ok {
		return 0, ErrUnknownUser
	}
	return balance, nil
}

// CompleteTask marks the task done, bumps its streak, and pays the fixed
// award to its assignee. Completing an already-completed task changes
// nothing: the double-tap case pays once. Returns the updated task.
func (l *Ledger) CompleteTask(taskID string) (model.Task, error) {
	t, changed := l.store.MarkTaskCompleted(taskID)
	if !changed {
		existing, ok := l.store.Task(taskID)
		if !ok {
			return model.Task{}, errors.New("unknown task")
		}
		return existing, nil
	}
	l.awardAssignee(t, TaskCompletionAward)
	return t, nil
}

// UncompleteTask is the exact inverse of CompleteTask: completed flips
// back, the streak steps down, and the fixed award is taken back (floored
// at zero by the store). Uncompleting a task that is not completed changes
// nothing.
func (l *Ledger) UncompleteTask(taskID string) (model.Task, error) {
	t, changed := l.store.MarkTaskUncompleted(taskID)
	if !changed {
		existing, ok := l.store.Task(taskID)
		if !ok {
			return model.Task{}, errors.New("unknown task")
		}
		return existing, nil
	}
	l.awardAssignee(t, -TaskCompletionAward)
	return t, nil
}

// SendKudos pays the fixed kudos amount to the named member. The sender's
// own balance is untouched.
func (l *Ledger) SendKudos(targetName string) (model.User, error) {
	return l.adjustByName(targetName, KudosAward)
}

// SendShame applies the fixed shame penalty to the named member, floored
// at zero.
func (l *Ledger) SendShame(targetName string) (model.User, error) {
	return l.adjustByName(targetName, ShamePenalty)
}

// Redeem spends points on a reward. The balance check and the debit are a
// single indivisible step inside the store, so two concurrent taps whose
// combined cost exceeds the balance settle with exactly one winner; the
// loser gets ErrInsufficientFunds and no mutation.
func (l *Ledger) Redeem(userID, rewardID string) (model.RewardItem, error) {
	reward, ok := l.store.Reward(rewardID)
	if !ok {
		return model.RewardItem{}, ErrUnknownReward
	}
	debited, found := l.store.SpendPoints(userID, reward.Cost)
	if !found {
		return model.RewardItem{}, ErrUnknownUser
	}
	if !debited {
		return model.RewardItem{}, ErrInsufficientFunds
	}
	l.logger.Info("reward redeemed", "user_id", userID, "reward", reward.Title, "cost", reward.Cost)
	return reward, nil
}

func (l *Ledger) awardAssignee(t model.Task, delta int) {
	if t.AssignedTo == "" {
		return
	}
	u, ok := l.store.UserByName(t.AssignedTo)
	if !ok {
		l.logger.Warn("task assignee is not a member, no points moved", "task_id", t.ID, "assignee", t.AssignedTo)
		return
	}
	l.store.AdjustPoints(u.ID, delta)
}

func (l *Ledger) adjustByName(name string, delta int) (model.User, error) {
	u, ok := l.store.UserByName(name)
	if !ok {
		return model.User{}, ErrUnknownUser
	}
	l.store.AdjustPoints(u.ID, delta)
	updated, _ := l.store.User(u.ID)
	return updated, nil
}
