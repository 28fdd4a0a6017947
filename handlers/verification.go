package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/staffdesk/identity/services/jwt"
	"github.com/staffdesk/identity/services/logging"
	"github.com/staffdesk/identity/services/mail"
	"github.com/staffdesk/identity/services/verification"
	"github.com/staffdesk/identity/session"
	"go.uber.org/zap"
)

const (
	actionSendVerification   = "send-verification"
	actionVerifyToken        = "verify-token"
	actionResendVerification = "resend-verification"
)

type verificationRequest struct {
	Action    string `json:"action"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type VerificationHandler struct {
	verification *verification.Service
	jwtService   *jwt.Service
	logger       *logging.Service
}

func NewVerificationHandler(verificationSvc *verification.Service, jwtSvc *jwt.Service, logger *logging.Service) *VerificationHandler {
	return &VerificationHandler{
		verification: verificationSvc,
		jwtService:   jwtSvc,
		logger:       logger,
	}
}

// Handle dispatches on the request's action field, mirroring the single
// endpoint the dashboard talks to.
func (h *VerificationHandler) Handle(c echo.Context) error {
	var req verificationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	switch req.Action {
	case actionSendVerification:
		return h.sendVerification(c, req)
	case actionVerifyToken:
		return h.verifyToken(c, req)
	case actionResendVerification:
		return h.resendVerification(c, req)
	default:
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown action"})
	}
}

func (h *VerificationHandler) sendVerification(c echo.Context, req verificationRequest) error {
	issued, err := h.verification.SendVerification(req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		// A dispatch failure leaves the token committed; the response says
		// so without invalidating anything.
		if issued != nil {
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: transportMessage(err)})
		}
		return h.errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Verification email sent. Please check your inbox.",
		"details": map[string]any{
			"expiresAt": issued.ExpiresAt,
		},
	})
}

func (h *VerificationHandler) verifyToken(c echo.Context, req verificationRequest) error {
	if req.Token == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "token is required"})
	}

	identity, err := h.verification.Verify(req.Token)
	if err != nil {
		return h.errorJSON(c, err)
	}

	sessionToken, err := h.jwtService.GenerateToken(identity.ID, identity.Email, string(identity.Role))
	if err != nil {
		return h.errorJSON(c, err)
	}

	if err := session.Establish(c, identity, sessionToken); err != nil {
		h.logger.Error("failed to establish session after verification", zap.Error(err))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":         true,
		"message":         "Email verified successfully.",
		"user":            identity,
		"shouldAutoLogin": true,
	})
}

func (h *VerificationHandler) resendVerification(c echo.Context, req verificationRequest) error {
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "email is required"})
	}

	issued, err := h.verification.Resend(req.Email)
	if err != nil {
		if issued != nil {
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: transportMessage(err)})
		}
		return h.errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Verification email resent. Please check your inbox.",
		"details": map[string]any{
			"expiresAt": issued.ExpiresAt,
		},
	})
}

func (h *VerificationHandler) errorJSON(c echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, verification.ErrMissingFields),
		errors.Is(err, verification.ErrTokenNotFound),
		errors.Is(err, verification.ErrTokenExpired),
		errors.Is(err, verification.ErrRegistrationNotFound):
		status = http.StatusBadRequest
	default:
		h.logger.Error("verification request failed", zap.Error(err))
	}

	return c.JSON(status, errorResponse{Error: err.Error()})
}

func transportMessage(err error) string {
	switch {
	case errors.Is(err, mail.ErrAuthFailed):
		return "The email service rejected our credentials. Please contact an administrator."
	case errors.Is(err, mail.ErrConnectFailed):
		return "Could not reach the email service. Your verification token is still valid; try resending later."
	default:
		return "Failed to send the verification email. Your verification token is still valid; try resending later."
	}
}
