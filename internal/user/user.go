package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    *string   `json:"first_name"`
	LastName     *string   `json:"last_name"`
	AvatarURL    *string   `json:"avatar_url"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Changes is a partial update. Nil fields are left as stored.
type Changes struct {
	FirstName    *string
	LastName     *string
	AvatarURL    *string
	PasswordHash *string
	Role         *string
	IsActive     *bool
}

func (c Changes) Empty() bool {
	return c.FirstName == nil && c.LastName == nil && c.AvatarURL == nil &&
		c.PasswordHash == nil && c.Role == nil && c.IsActive == nil
}

// RegisterInput is a new account before hashing.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName *string
	LastName  *string
}

// ProfileUpdate is what a user may change about their own account.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	AvatarURL *string
	Password  *string
}

// AdminUpdate extends ProfileUpdate with the fields only admins may set.
type AdminUpdate struct {
	ProfileUpdate
	Role     *string
	IsActive *bool
}

type ListQuery struct {
	Page  int
	Limit int
}

type Page struct {
	Users      []User `json:"users"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}
