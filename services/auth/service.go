package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/staffdesk/identity/config"
	"github.com/staffdesk/identity/services/jwt"
	"github.com/staffdesk/identity/services/logging"
	"github.com/staffdesk/identity/services/verification"
	"go.uber.org/zap"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service authenticates users against the external identity backend,
// falling back to the static directory when the backend is unreachable or
// rejects the request. Registration is routed through the verification
// service; there is no second, unverified registration path.
type Service struct {
	config       *config.Config
	directory    *Directory
	verification *verification.Service
	jwtService   *jwt.Service
	httpClient   *http.Client
	logger       *logging.Service
}

func NewService(cfg *config.Config, directory *Directory, verificationSvc *verification.Service, jwtSvc *jwt.Service, logger *logging.Service) *Service {
	return &Service{
		config:       cfg,
		directory:    directory,
		verification: verificationSvc,
		jwtService:   jwtSvc,
		httpClient: &http.Client{
			Timeout: cfg.Auth.BackendTimeout,
		},
		logger: logger,
	}
}

// LoginResult carries the authenticated identity plus the session
// credential: backend-issued in delegated mode, locally signed in fallback
// mode.
type LoginResult struct {
	Identity *verification.Identity
	Token    string
	Fallback bool
}

// Login tries the external backend first. Backend unreachability is not
// surfaced to the caller; only exhaustion of both paths is an error.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	if s.config.Auth.BackendURL != "" {
		result, err := s.loginBackend(ctx, email, password)
		if err == nil {
			s.logger.Info("login delegated to identity backend", zap.String("email", email))
			return result, nil
		}
		s.logger.Warn("identity backend login failed, using fallback directory",
			zap.Error(err),
			zap.String("email", email))
	}

	identity, err := s.directory.Authenticate(email, password)
	if err != nil {
		s.logger.Warn("login failed", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(identity.ID, identity.Email, string(identity.Role))
	if err != nil {
		return nil, err
	}

	s.logger.Info("fallback directory login succeeded",
		zap.String("email", email),
		zap.String("role", string(identity.Role)))

	return &LoginResult{
		Identity: identity,
		Token:    token,
		Fallback: true,
	}, nil
}

type backendLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type backendLoginResponse struct {
	Token string                `json:"token"`
	User  verification.Identity `json:"user"`
}

func (s *Service) loginBackend(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := json.Marshal(backendLoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	url := strings.TrimSuffix(s.config.Auth.BackendURL, "/") + "/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("identity backend returned status %d", resp.StatusCode)
	}

	var parsed backendLoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode identity backend response: %w", err)
	}
	if parsed.Token == "" {
		return nil, fmt.Errorf("identity backend response missing token")
	}

	return &LoginResult{
		Identity: &parsed.User,
		Token:    parsed.Token,
	}, nil
}

// Register is the single canonical registration path: it validates the
// password policy and hands off to the verification service, which records
// the pending registration and emails the token. No identity exists until
// the token is consumed.
func (s *Service) Register(email, firstName, lastName, password string) (*verification.IssuedToken, error) {
	if email == "" || firstName == "" || lastName == "" || password == "" {
		return nil, verification.ErrMissingFields
	}

	if err := s.ValidatePassword(password); err != nil {
		return nil, err
	}

	return s.verification.SendVerification(email, firstName, lastName, password)
}

func (s *Service) ValidatePassword(password string) error {
	if len(password) < s.config.Auth.MinLength {
		return fmt.Errorf("password must be at least %d characters", s.config.Auth.MinLength)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	var missing []string

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if s.config.Auth.RequireUpper && !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if s.config.Auth.RequireLower && !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if s.config.Auth.RequireNumber && !hasNumber {
		missing = append(missing, "one number")
	}
	if s.config.Auth.RequireSpecial && !hasSpecial {
		missing = append(missing, "one special character")
	}

	if len(missing) > 0 {
		return fmt.Errorf("password must contain at least %s", strings.Join(missing, ", "))
	}

	return nil
}
