package model

import "time"

type CostFrequency string

const (
	CostMonthly CostFrequency = "monthly"
	CostWeekly  CostFrequency = "weekly"
)

// ValidCostFrequency reports whether f is one of the known frequencies.
func ValidCostFrequency(f CostFrequency) bool {
	return f == CostMonthly || f == CostWeekly
}

// RecurringCost is a shared expense split evenly across current members.
// TotalCents is the full amount per billing cycle; the per-person share is
// always recomputed from the member count at read time, never stored.
type RecurringCost struct {
	ID         string        `json:"id"`
	WGID       string        `json:"wg_id"`
	Name       string        `json:"name"`
	Emoji      string        `json:"emoji"`
	TotalCents int64         `json:"total_cents"`
	PaidBy     string        `json:"paid_by"`
	Frequency  CostFrequency `json:"frequency"`
	IsActive   bool          `json:"is_active"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  int64         `json:"updated_at"`
}
