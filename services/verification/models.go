package verification

import (
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleUser     Role = "user"
)

// VerificationToken proves control of an email address during registration.
// At most one active token exists per email; issuing a new one invalidates
// any prior tokens for that address.
type VerificationToken struct {
	Token     string    `json:"-" gorm:"primaryKey;size:128"`
	Email     string    `json:"email" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
}

func (VerificationToken) TableName() string {
	return "verification_tokens"
}

func (t *VerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// PendingRegistration is an unconfirmed signup awaiting token consumption.
// The password is stored as a bcrypt hash, never in the clear.
type PendingRegistration struct {
	Email        string    `json:"email" gorm:"primaryKey;size:255"`
	FirstName    string    `json:"first_name" gorm:"not null"`
	LastName     string    `json:"last_name" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Token        string    `json:"-" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
}

func (PendingRegistration) TableName() string {
	return "pending_registrations"
}

// Identity is a confirmed user record usable for session establishment.
type Identity struct {
	ID            uint   `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Role          Role   `json:"role"`
	EmailVerified bool   `json:"emailVerified"`
}

// IssuedToken is what send/resend hand back to the caller.
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
