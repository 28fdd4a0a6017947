package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/staffdesk/identity/services/auth"
	"github.com/staffdesk/identity/services/logging"
	"github.com/staffdesk/identity/services/verification"
	"github.com/staffdesk/identity/session"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

type AuthHandler struct {
	auth   *auth.Service
	logger *logging.Service
}

func NewAuthHandler(authSvc *auth.Service, logger *logging.Service) *AuthHandler {
	return &AuthHandler{
		auth:   authSvc,
		logger: logger,
	}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrMissingCredentials) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		h.logger.Error("login failed unexpectedly", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "login failed"})
	}

	if err := session.Establish(c, result.Identity, result.Token); err != nil {
		h.logger.Error("failed to establish session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "login failed"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"user":    result.Identity,
		"token":   result.Token,
	})
}

// Register routes through the verification service; the response mirrors
// the send-verification action since that is what actually happened.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	issued, err := h.auth.Register(req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		if issued != nil {
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: transportMessage(err)})
		}
		if errors.Is(err, verification.ErrMissingFields) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		// Password-policy violations read as client errors too.
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Registration received. Please verify your email address.",
		"details": map[string]any{
			"expiresAt": issued.ExpiresAt,
		},
	})
}

// Logout clears the persisted session. It is idempotent: logging out
// without a session still returns success.
func (h *AuthHandler) Logout(c echo.Context) error {
	session.Clear(c)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// Me restores the persisted session, returning a null user when there is
// none (or when the persisted state is corrupt and was cleared).
func (h *AuthHandler) Me(c echo.Context) error {
	identity := session.Current(c)
	return c.JSON(http.StatusOK, map[string]any{
		"user": identity,
	})
}

// Sessions lists the caller's tracked device sessions.
func (h *AuthHandler) Sessions(c echo.Context) error {
	identity := session.Current(c)
	if identity == nil {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "authentication required"})
	}

	service := session.GetService(c)
	if service == nil {
		return c.JSON(http.StatusOK, map[string]any{"sessions": []session.UserSession{}})
	}

	manager := session.GetManager(c)
	currentToken := ""
	if manager != nil {
		currentToken = manager.Token(c.Request().Context())
	}

	sessions, err := service.GetUserSessions(identity.ID, currentToken)
	if err != nil {
		h.logger.Error("failed to list sessions", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to list sessions"})
	}

	return c.JSON(http.StatusOK, map[string]any{"sessions": sessions})
}
