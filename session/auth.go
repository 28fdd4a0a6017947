package session

import (
	"encoding/json"

	"github.com/labstack/echo/v4"
	"github.com/staffdesk/identity/services/verification"
)

// Persisted session keys. They are written together by Establish and
// removed together by Clear; partial state is treated as corruption.
const (
	AuthTokenKey     = "authToken"
	UserKey          = "user"
	EmailVerifiedKey = "emailVerified"
)

// Establish persists the authenticated identity and its session credential.
// The identity is serialized to JSON so durable stores only ever see a
// string payload.
func Establish(c echo.Context, identity *verification.Identity, token string) error {
	manager := GetManager(c)
	if manager == nil {
		return nil
	}

	payload, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	manager.Put(ctx, AuthTokenKey, token)
	manager.Put(ctx, UserKey, string(payload))
	manager.Put(ctx, EmailVerifiedKey, identity.EmailVerified)

	// Device-session tracking happens post-commit in the middleware; the
	// session token does not exist yet at this point.
	return nil
}

// Clear removes every persisted session key and destroys the session.
// Calling it without an active session is a no-op.
func Clear(c echo.Context) {
	manager := GetManager(c)
	if manager == nil {
		return
	}

	ctx := c.Request().Context()

	if service := GetService(c); service != nil {
		if sessionToken := manager.Token(ctx); sessionToken != "" {
			_ = service.RemoveSessionByToken(sessionToken)
		}
	}

	manager.Remove(ctx, AuthTokenKey)
	manager.Remove(ctx, UserKey)
	manager.Remove(ctx, EmailVerifiedKey)
	_ = manager.Destroy(ctx)
}

// Current returns the restored identity, or nil when unauthenticated. A
// payload that no longer parses is cleared and reported as no session.
func Current(c echo.Context) *verification.Identity {
	manager := GetManager(c)
	if manager == nil {
		return nil
	}

	ctx := c.Request().Context()
	payload := manager.GetString(ctx, UserKey)
	if payload == "" {
		return nil
	}

	var identity verification.Identity
	if err := json.Unmarshal([]byte(payload), &identity); err != nil {
		Clear(c)
		return nil
	}

	return &identity
}

// Token returns the persisted session credential, empty when absent.
func Token(c echo.Context) string {
	manager := GetManager(c)
	if manager == nil {
		return ""
	}
	return manager.GetString(c.Request().Context(), AuthTokenKey)
}

func IsAuthenticated(c echo.Context) bool {
	return Current(c) != nil
}

func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IsAuthenticated(c) {
				return echo.NewHTTPError(401, "Authentication required")
			}
			return next(c)
		}
	}
}
