package model

import "errors"

// User represents a registered account.
type User struct {
	UserID       int64  `db:"user_id" json:"user_id"`
	Username     string `db:"username" json:"username"`
	Salt         string `db:"salt" json:"-"` // "-" hides credentials from JSON output
	HashPassword string `db:"hash_password" json:"-"`
}

// RegisterRequest represents the data needed to sign up
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by signup and login alongside the access-token cookie.
type AuthResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Username and password validation bounds
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 8
	// MaxPasswordLength keeps salt+password inside bcrypt's 72 byte input
	// cap; the 32 character hex salt takes the rest.
	MaxPasswordLength = 40
)

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Validation errors for signup input
var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTooShort = errors.New("username too short")
	ErrUsernameTooLong  = errors.New("username too long")
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
)
