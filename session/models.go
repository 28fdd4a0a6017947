package session

import (
	"time"
)

// UserSession is the tracked-session record kept per device so users can
// review where they are signed in. The token column stores a digest of the
// scs session token, never the token itself.
type UserSession struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Token     string    `json:"-" gorm:"uniqueIndex;size:64;not null"`
	IPAddress string    `json:"ip_address" gorm:"size:45"`
	UserAgent string    `json:"-" gorm:"size:500"`
	Browser   string    `json:"browser" gorm:"size:100"`
	OS        string    `json:"os" gorm:"size:100"`
	Current   bool      `json:"current" gorm:"-"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

// Service tracks active sessions per user.
type Service interface {
	TrackSession(userID uint, token, ipAddress, userAgent string, expiresAt time.Time) error
	SessionExists(token string) (bool, error)
	UpdateLastUsed(token string) error
	GetUserSessions(userID uint, currentToken string) ([]UserSession, error)
	RemoveSessionByToken(token string) error
	CleanupExpiredSessions() error
}
