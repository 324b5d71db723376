package push

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/davidbloss/wghub/internal/model"
)

// Notifier fans household events out to every subscribed device and
// prunes subscriptions the push service reports as gone. A nil Notifier
// is safe to call, so wiring can skip it when VAPID keys are absent.
type Notifier struct {
	service *Service
	store   *SubscriptionStore
	logger  *slog.Logger
}

func NewNotifier(service *Service, store *SubscriptionStore, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{service: service, store: store, logger: logger}
}

// KudosReceived announces a kudos to the household's devices.
func (n *Notifier) KudosReceived(from, to string) {
	n.sendAll(Payload{
		Title: "Kudos!",
		Body:  fmt.Sprintf("%s sent kudos to %s", from, to),
		Tag:   "kudos",
	})
}

// ShameReceived announces a shame to the household's devices.
func (n *Notifier) ShameReceived(from, to string) {
	n.sendAll(Payload{
		Title: "Shame...",
		Body:  fmt.Sprintf("%s called out %s", from, to),
		Tag:   "shame",
	})
}

// SceneActivated pushes a scene's notification text when it turns on.
// Scenes without text stay silent.
func (n *Notifier) SceneActivated(scene model.SmartScene) {
	if scene.NotificationText == "" {
		return
	}
	n.sendAll(Payload{
		Title: fmt.Sprintf("%s %s", scene.Emoji, scene.Name),
		Body:  scene.NotificationText,
		Tag:   "scene_" + scene.ID,
	})
}

func (n *Notifier) sendAll(payload Payload) {
	if n == nil {
		return
	}
	subs, err := n.store.List()
	if err != nil {
		n.logger.Error("list subscriptions", "error", err)
		return
	}
	for _, sub := range subs {
		if err := n.service.Send(sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				if derr := n.store.Delete(sub.ID); derr != nil {
					n.logger.Error("prune expired subscription", "id", sub.ID, "error", derr)
				}
				continue
			}
			n.logger.Warn("push failed", "id", sub.ID, "error", err)
		}
	}
}
