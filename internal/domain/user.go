package domain

import "time"

// Role classifies what a caller may do across the ticket lifecycle.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
	RoleUser  Role = "user"
)

// ValidRole reports whether r is a member of the role enumeration.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleUser:
		return true
	}
	return false
}

// Staff reports whether the role grants triage privileges.
func (r Role) Staff() bool {
	return r == RoleAdmin || r == RoleAgent
}

// User is the domain model for registered accounts.
type User struct {
	ID           string
	Username     string
	Email        string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}

// PublicUser is the credential-free projection returned by the API.
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Public strips the password hash for external consumption.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
