package model

import "time"

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID                  string          `json:"id"`
	WGID                string          `json:"wg_id"`
	Name                string          `json:"name"`
	Role                Role            `json:"role"`
	Points              int             `json:"points"`
	AvatarEmoji         string          `json:"avatar_emoji"`
	LevelTitle          string          `json:"level_title"`
	OnboardingCompleted bool            `json:"onboarding_completed"`
	OnboardingSteps     map[string]bool `json:"onboarding_steps,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           int64           `json:"updated_at"`
}
