package model

import "time"

const (
	RoleChild = "child"
	RoleAdult = "adult"

	// MaxFamilyMembers caps the household size; the dashboard layout assumes
	// at most four columns.
	MaxFamilyMembers = 4
)

type FamilyMember struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Color       string    `json:"color"`
	AvatarEmoji string    `json:"avatar_emoji"`
	HasPIN      bool      `json:"has_pin"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidRole reports whether role is one of the two supported member roles.
func ValidRole(role string) bool {
	return role == RoleChild || role == RoleAdult
}
