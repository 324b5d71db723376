package model

import "time"

// SmartScene is a named household automation toggle. Activation has no
// scheduling semantics; NotificationText is pushed to subscribed devices
// when the scene turns on.
type SmartScene struct {
	ID               string    `json:"id"`
	WGID             string    `json:"wg_id"`
	Name             string    `json:"name"`
	Emoji            string    `json:"emoji"`
	Description      string    `json:"description"`
	NotificationText string    `json:"notification_text"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        int64     `json:"updated_at"`
}
