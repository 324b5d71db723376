package model

import "time"

// GuestPass is a revocable access credential for a non-member. Revocation
// is irreversible: once IsActive is false the pass never validates again.
type GuestPass struct {
	ID           string    `json:"id"`
	WGID         string    `json:"wg_id"`
	GuestName    string    `json:"guest_name"`
	AccessCode   string    `json:"access_code"`
	WifiPassword string    `json:"wifi_password,omitempty"`
	CreatedBy    string    `json:"created_by"`
	CreatedDate  time.Time `json:"created_date"`
	IsActive     bool      `json:"is_active"`
	UpdatedAt    int64     `json:"updated_at"`
}
