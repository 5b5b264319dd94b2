// Package model defines the data structures used throughout the application.
package model

import "time"

// Role is the authorization tag attached to every user account.
//
// There are exactly two roles today. Modelling the check as methods on Role
// (rather than string comparisons scattered through the routes) means a
// third role only touches this file and the middleware that consumes it.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Is reports whether the role matches the required role.
func (r Role) Is(required Role) bool {
	return r == required
}

// SocialProvider identifies which third-party identity provider a
// social-only account came from.
type SocialProvider string

const (
	ProviderKakao  SocialProvider = "kakao"
	ProviderNaver  SocialProvider = "naver"
	ProviderGoogle SocialProvider = "google"
)

// ValidProvider reports whether p is one of the known providers.
func ValidProvider(p SocialProvider) bool {
	switch p {
	case ProviderKakao, ProviderNaver, ProviderGoogle:
		return true
	}
	return false
}

// User represents a registered account.
//
// WHY PasswordHash HAS json:"-"?
// The bcrypt hash must never appear in a response payload. Tagging the field
// with "-" makes encoding/json skip it entirely, so no handler can leak it
// by accident — the only way to read it is server-side, for verification.
//
// PasswordHash is empty for social-only accounts (SocialProvider set); the
// login flow treats that case separately from a wrong password.
type User struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"` // unique, stored lowercase
	Phone          string         `json:"phone"`
	CompanyName    string         `json:"companyName"`
	Memo           string         `json:"memo"`
	PasswordHash   string         `json:"-"`
	SocialProvider SocialProvider `json:"socialProvider,omitempty"`
	SocialID       string         `json:"socialId,omitempty"`
	Role           Role           `json:"userType"` // wire name kept for the existing clients
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// IsAdmin is a convenience wrapper used by list filters.
func (u *User) IsAdmin() bool {
	return u.Role.Is(RoleAdmin)
}
