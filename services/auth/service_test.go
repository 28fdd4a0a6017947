package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/staffdesk/identity/config"
	"github.com/staffdesk/identity/services/jwt"
	"github.com/staffdesk/identity/services/logging"
	"github.com/staffdesk/identity/services/verification"
	"github.com/staffdesk/identity/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T, cfg *config.Config) (*Service, *testutils.CapturingNotifier) {
	t.Helper()

	notifier := &testutils.CapturingNotifier{}
	verificationSvc := verification.NewService(cfg,
		verification.NewMemoryTokenStore(),
		verification.NewMemoryPendingStore(),
		notifier,
		logging.NewNop())
	jwtSvc := jwt.NewService(cfg, logging.NewNop())

	return NewService(cfg, testDirectory(t, "employee123"), verificationSvc, jwtSvc, logging.NewNop()), notifier
}

func TestService_Login_Fallback(t *testing.T) {
	cfg := testutils.GetTestConfig()
	svc, _ := newTestAuthService(t, cfg)

	t.Run("wrong password against fallback directory", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "john@company.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("correct fallback password establishes identity and token", func(t *testing.T) {
		result, err := svc.Login(context.Background(), "john@company.com", "employee123")
		require.NoError(t, err)
		assert.True(t, result.Fallback)
		assert.Equal(t, "john@company.com", result.Identity.Email)
		assert.Equal(t, verification.RoleEmployee, result.Identity.Role)
		assert.NotEmpty(t, result.Token)

		jwtSvc := jwt.NewService(cfg, logging.NewNop())
		claims, err := jwtSvc.ValidateToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, uint(1), claims.UserID)
		assert.Equal(t, "employee", claims.Role)
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "", "")
		assert.ErrorIs(t, err, ErrMissingCredentials)
	})
}

func TestService_Login_Backend(t *testing.T) {
	t.Run("delegates to the identity backend", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/login", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"token":"backend-token","user":{"id":42,"email":"jane@company.com","first_name":"Jane","last_name":"Ray","role":"admin","emailVerified":true}}`))
		}))
		defer backend.Close()

		cfg := testutils.GetTestConfig()
		cfg.Auth.BackendURL = backend.URL
		svc, _ := newTestAuthService(t, cfg)

		result, err := svc.Login(context.Background(), "jane@company.com", "whatever")
		require.NoError(t, err)
		assert.False(t, result.Fallback)
		assert.Equal(t, "backend-token", result.Token)
		assert.Equal(t, uint(42), result.Identity.ID)
		assert.Equal(t, verification.RoleAdmin, result.Identity.Role)
	})

	t.Run("backend rejection falls back to the directory", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer backend.Close()

		cfg := testutils.GetTestConfig()
		cfg.Auth.BackendURL = backend.URL
		svc, _ := newTestAuthService(t, cfg)

		result, err := svc.Login(context.Background(), "john@company.com", "employee123")
		require.NoError(t, err)
		assert.True(t, result.Fallback)
	})

	t.Run("unreachable backend falls back to the directory", func(t *testing.T) {
		cfg := testutils.GetTestConfig()
		cfg.Auth.BackendURL = "http://127.0.0.1:1"
		svc, _ := newTestAuthService(t, cfg)

		result, err := svc.Login(context.Background(), "john@company.com", "employee123")
		require.NoError(t, err)
		assert.True(t, result.Fallback)
	})

	t.Run("both paths exhausted", func(t *testing.T) {
		cfg := testutils.GetTestConfig()
		cfg.Auth.BackendURL = "http://127.0.0.1:1"
		svc, _ := newTestAuthService(t, cfg)

		_, err := svc.Login(context.Background(), "john@company.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_Register(t *testing.T) {
	t.Run("routes through the verification service", func(t *testing.T) {
		svc, notifier := newTestAuthService(t, testutils.GetTestConfig())

		issued, err := svc.Register("new@company.com", "New", "Hire", testutils.TestPasswords.Valid)
		require.NoError(t, err)
		assert.NotEmpty(t, issued.Token)
		require.Len(t, notifier.Messages, 1)
		assert.Equal(t, "new@company.com", notifier.Messages[0].To)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		svc, _ := newTestAuthService(t, testutils.GetTestConfig())

		_, err := svc.Register("", "New", "Hire", testutils.TestPasswords.Valid)
		assert.ErrorIs(t, err, verification.ErrMissingFields)
	})

	t.Run("enforces the password policy", func(t *testing.T) {
		svc, notifier := newTestAuthService(t, testutils.GetTestConfig())

		_, err := svc.Register("new@company.com", "New", "Hire", testutils.TestPasswords.TooShort)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")

		_, err = svc.Register("new@company.com", "New", "Hire", testutils.TestPasswords.NoNumber)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "one number")

		assert.Empty(t, notifier.Messages)
	})
}
