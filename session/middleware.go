package session

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	sessionManagerKey = "session_manager"
	sessionServiceKey = "session_service"
)

// Middleware bridges scs's LoadAndSave into echo's handler chain. Loading
// the persisted session here is what restores a returning user's state;
// anything scs cannot decode is discarded by scs itself, so a corrupt
// cookie degrades to an empty session rather than an error.
func Middleware(manager *Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if manager == nil {
				return next(c)
			}

			c.Set(sessionManagerKey, manager)

			var handlerErr error

			rw := &responseWriterWrapper{
				ResponseWriter: c.Response().Writer,
				echo:           c.Response(),
			}

			handler := manager.SessionManager.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := context.WithValue(r.Context(), sessionManagerKey, manager)
				c.SetRequest(r.WithContext(ctx))
				c.Response().Writer = w
				handlerErr = next(c)
			}))

			handler.ServeHTTP(rw, c.Request())

			trackAuthenticatedSession(c, manager)

			return handlerErr
		}
	}
}

// scs only mints the session token when it commits, after the handler has
// returned, so a fresh login cannot be tracked from inside the handler.
// Tracking runs post-commit instead: unseen sessions are recorded, known
// ones get their last-used timestamp refreshed.
func trackAuthenticatedSession(c echo.Context, manager *Manager) {
	service := GetService(c)
	if service == nil {
		return
	}

	identity := Current(c)
	if identity == nil {
		return
	}

	token := manager.Token(c.Request().Context())
	if token == "" {
		return
	}

	exists, err := service.SessionExists(token)
	if err != nil {
		return
	}
	if exists {
		_ = service.UpdateLastUsed(token)
		return
	}

	expiresAt := time.Now().Add(manager.config.MaxAge)
	_ = service.TrackSession(identity.ID, token, c.RealIP(), c.Request().UserAgent(), expiresAt)
}

// responseWriterWrapper keeps echo's response status bookkeeping intact
// while scs writes through the raw writer.
type responseWriterWrapper struct {
	http.ResponseWriter
	echo *echo.Response
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	if w.echo.Status == 0 {
		w.echo.Status = statusCode
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func GetManager(c echo.Context) *Manager {
	if manager := c.Get(sessionManagerKey); manager != nil {
		return manager.(*Manager)
	}
	return nil
}

// ServiceMiddleware injects the tracked-session service so handlers can
// list and revoke device sessions.
func ServiceMiddleware(service Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if service != nil {
				c.Set(sessionServiceKey, service)
			}
			return next(c)
		}
	}
}

func GetService(c echo.Context) Service {
	if service, ok := c.Get(sessionServiceKey).(Service); ok {
		return service
	}
	return nil
}
