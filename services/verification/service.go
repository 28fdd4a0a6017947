package verification

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	mathrand "math/rand/v2"
	"time"

	"github.com/staffdesk/identity/config"
	"github.com/staffdesk/identity/services/logging"
	"github.com/staffdesk/identity/services/mail"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingFields        = errors.New("email, first name, last name and password are required")
	ErrTokenNotFound        = errors.New("invalid verification token")
	ErrTokenExpired         = errors.New("verification token has expired")
	ErrRegistrationNotFound = errors.New("no pending registration found for this email")
)

// Service owns the token and pending-registration stores and drives the
// verification lifecycle: NONE -> PENDING -> VERIFIED, with resend looping
// an expired or superseded registration back to PENDING.
type Service struct {
	config   *config.Config
	tokens   TokenStore
	pending  PendingStore
	notifier mail.Notifier
	logger   *logging.Service
}

func NewService(cfg *config.Config, tokens TokenStore, pending PendingStore, notifier mail.Notifier, logger *logging.Service) *Service {
	return &Service{
		config:   cfg,
		tokens:   tokens,
		pending:  pending,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *Service) generateToken() (string, error) {
	bytes := make([]byte, s.config.Verification.TokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// SendVerification records a pending registration for the email, issues a
// fresh token (invalidating any earlier ones) and dispatches the
// verification email. A dispatch failure is returned alongside the issued
// token: the token stays valid, the caller decides how to report it.
func (s *Service) SendVerification(email, firstName, lastName, password string) (*IssuedToken, error) {
	if email == "" || firstName == "" || lastName == "" || password == "" {
		return nil, ErrMissingFields
	}

	s.logger.Info("issuing verification token", zap.String("email", email))

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	issued, err := s.issueToken(email)
	if err != nil {
		return nil, err
	}

	pending := &PendingRegistration{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(passwordHash),
		Token:        issued.Token,
		CreatedAt:    time.Now(),
	}
	if err := s.pending.Put(pending); err != nil {
		// A token must not outlive its registration.
		_ = s.tokens.Delete(issued.Token)
		return nil, err
	}

	if err := s.dispatch(email, firstName, issued); err != nil {
		// Token and pending state stay committed; the user can still verify
		// or resend even though this delivery attempt failed.
		return issued, err
	}

	return issued, nil
}

// Verify consumes a token exactly once and promotes its pending
// registration into a confirmed identity. Expired tokens are evicted as a
// side effect of being reported.
func (s *Service) Verify(token string) (*Identity, error) {
	t, ok, err := s.tokens.Get(token)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Warn("unknown verification token presented")
		return nil, ErrTokenNotFound
	}

	if t.Expired(time.Now()) {
		s.logger.Info("expired verification token evicted", zap.String("email", t.Email))
		if err := s.tokens.Delete(token); err != nil {
			return nil, err
		}
		return nil, ErrTokenExpired
	}

	pending, ok, err := s.pending.Get(t.Email)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Token without a pending registration is an inconsistent leftover.
		s.logger.Warn("verification token without pending registration", zap.String("email", t.Email))
		return nil, ErrRegistrationNotFound
	}

	identity := &Identity{
		ID:            newIdentityID(),
		Email:         pending.Email,
		FirstName:     pending.FirstName,
		LastName:      pending.LastName,
		Role:          RoleEmployee,
		EmailVerified: true,
	}

	if err := s.pending.Delete(t.Email); err != nil {
		return nil, err
	}
	if err := s.tokens.Delete(token); err != nil {
		return nil, err
	}

	s.logger.Info("email verified",
		zap.String("email", identity.Email),
		zap.Uint("user_id", identity.ID))

	return identity, nil
}

// Resend replaces every outstanding token for the email with a fresh one
// and dispatches a new verification email.
func (s *Service) Resend(email string) (*IssuedToken, error) {
	pending, ok, err := s.pending.Get(email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRegistrationNotFound
	}

	issued, err := s.issueToken(email)
	if err != nil {
		return nil, err
	}

	pending.Token = issued.Token
	if err := s.pending.Put(pending); err != nil {
		return nil, err
	}

	s.logger.Info("verification token reissued", zap.String("email", email))

	if err := s.dispatch(email, pending.FirstName, issued); err != nil {
		return issued, err
	}

	return issued, nil
}

// issueToken enforces the one-active-token-per-email invariant before
// storing the replacement.
func (s *Service) issueToken(email string) (*IssuedToken, error) {
	removed, err := s.tokens.DeleteByEmail(email)
	if err != nil {
		return nil, err
	}
	if removed > 0 {
		s.logger.Debug("superseded verification tokens removed",
			zap.String("email", email),
			zap.Int("tokens_removed", removed))
	}

	value, err := s.generateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	token := &VerificationToken{
		Token:     value,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.Verification.TokenExpiry),
	}
	if err := s.tokens.Put(token); err != nil {
		return nil, err
	}

	return &IssuedToken{Token: value, ExpiresAt: token.ExpiresAt}, nil
}

func (s *Service) dispatch(email, firstName string, issued *IssuedToken) error {
	msg := verificationMessage(s.config.App.Name, s.config.App.URL, email, firstName, issued)
	if err := s.notifier.Send(msg); err != nil {
		s.logger.Error("failed to dispatch verification email",
			zap.Error(err),
			zap.String("email", email))
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func newIdentityID() uint {
	return uint(mathrand.Uint32N(1_000_000_000) + 1)
}
