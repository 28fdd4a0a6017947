package testutils

import (
	"time"

	"github.com/staffdesk/identity/config"
	"golang.org/x/crypto/bcrypt"
)

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "StaffDesk Test",
			URL:  "http://localhost:8080",
		},
		Server: config.ServerConfig{
			Host: "localhost",
			Port: "8080",
		},
		Log: config.LogConfig{
			Level:  "error",
			Format: "json",
			Output: "stdout",
		},
		Verification: config.VerificationConfig{
			TokenLength: 32,
			TokenExpiry: 24 * time.Hour,
			Store:       "memory",
		},
		Auth: config.AuthConfig{
			BackendTimeout: time.Second,
			BcryptCost:     bcrypt.MinCost,
			MinLength:      8,
			RequireUpper:   false,
			RequireLower:   true,
			RequireNumber:  true,
			RequireSpecial: false,
		},
		Session: config.SessionConfig{
			Store:    "memory",
			Name:     "staffdesk_session",
			MaxAge:   time.Hour,
			Path:     "/",
			HttpOnly: true,
			SameSite: "lax",
		},
		JWT: config.JWTConfig{
			SecretKey:    "test-secret-key-32-chars-long!!!",
			Issuer:       "staffdesk-test",
			AccessExpiry: time.Hour,
		},
		RateLimit: config.RateLimitConfig{
			Enabled: false,
		},
	}
}

var TestPasswords = struct {
	Valid    string
	TooShort string
	NoNumber string
}{
	Valid:    "secret123",
	TooShort: "sec1",
	NoNumber: "secretword",
}
