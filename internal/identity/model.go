package identity

import (
	"errors"
	"time"
)

// ErrInvalidCredentials covers every authentication failure: unknown email,
// wrong password, duplicate registration. Collapsing them avoids leaking
// which accounts exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidInput rejects registration input that fails basic validation
// before any account lookup happens.
var ErrInvalidInput = errors.New("invalid registration input")

// User represents a registered wallet owner.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Credentials request structure.
type Credentials struct {
	Email    string
	Password string
}
