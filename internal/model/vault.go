package model

import "time"

type VaultType string

const (
	VaultWifi  VaultType = "wifi"
	VaultPhone VaultType = "phone"
	VaultIBAN  VaultType = "iban"
	VaultCode  VaultType = "code"
	VaultText  VaultType = "text"
)

// ValidVaultType reports whether t is one of the known vault item types.
func ValidVaultType(t VaultType) bool {
	switch t {
	case VaultWifi, VaultPhone, VaultIBAN, VaultCode, VaultText:
		return true
	}
	return false
}

// VaultItem is a shared household credential or note. IsSecure controls
// display only: secure items are hidden by default in clients, non-secure
// items always render in clear. The core stores the value as given.
type VaultItem struct {
	ID         string    `json:"id"`
	WGID       string    `json:"wg_id"`
	Label      string    `json:"label"`
	Value      string    `json:"value"`
	Type       VaultType `json:"type"`
	IsSecure   bool      `json:"is_secure"`
	CustomIcon string    `json:"custom_icon,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  int64     `json:"updated_at"`
}
