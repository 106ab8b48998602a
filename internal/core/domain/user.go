package domain

import (
	"net/mail"
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the profile of an account. Role defaults to RoleUser.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EffectiveRole returns the user's role, defaulting to RoleUser.
func (u *User) EffectiveRole() string {
	if u == nil || u.Role == "" {
		return RoleUser
	}
	return u.Role
}

// IsAdmin is the capability check guarding back-office operations.
func IsAdmin(u *User) bool {
	return u != nil && u.Role == RoleAdmin
}

// SystemActor is the identity used by operator tooling (CLI bootstrap).
var SystemActor = &User{ID: "system", Name: "system", Role: RoleAdmin}

// Credential is the secret half of an account, kept apart from the profile.
type Credential struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserStats summarizes accounts by role.
type UserStats struct {
	TotalUsers   int `json:"totalUsers"`
	Admins       int `json:"admins"`
	RegularUsers int `json:"regularUsers"`
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email parses as a bare address.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// AvatarURL returns the generated avatar for an address.
func AvatarURL(email string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + email
}

// UserFromRecord decodes a users document.
func UserFromRecord(id string, data map[string]any) User {
	return User{
		ID:        id,
		Name:      asString(data["name"]),
		Email:     asString(data["email"]),
		Avatar:    asString(data["avatar"]),
		Role:      asString(data["role"]),
		CreatedAt: asTime(data["createdAt"]),
		UpdatedAt: asTime(data["updatedAt"]),
	}
}

// Record encodes the profile for the users collection.
func (u User) Record() map[string]any {
	rec := map[string]any{
		"name":      u.Name,
		"email":     u.Email,
		"role":      u.EffectiveRole(),
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	}
	if u.Avatar != "" {
		rec["avatar"] = u.Avatar
	}
	return rec
}
