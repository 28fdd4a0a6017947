package handlers

import (
	"net/http"
	"testing"

	"github.com/staffdesk/identity/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthEndpoints_Login(t *testing.T) {
	ts := newTestServer(t, testutils.GetTestConfig())

	t.Run("wrong fallback password", func(t *testing.T) {
		rec := ts.request(http.MethodPost, "/api/auth/login",
			`{"email":"john@company.com","password":"wrong"}`, nil)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeJSON(t, rec)
		assert.NotEmpty(t, body["error"])
	})

	t.Run("missing credentials", func(t *testing.T) {
		rec := ts.request(http.MethodPost, "/api/auth/login", `{"email":"john@company.com"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("correct fallback password persists a session", func(t *testing.T) {
		rec := ts.request(http.MethodPost, "/api/auth/login",
			`{"email":"john@company.com","password":"employee123"}`, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeJSON(t, rec)
		assert.Equal(t, true, body["success"])
		assert.NotEmpty(t, body["token"])

		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "john@company.com", user["email"])
		assert.Equal(t, "employee", user["role"])

		meRec := ts.request(http.MethodGet, "/api/auth/me", "", rec.Result().Cookies())
		meBody := decodeJSON(t, meRec)
		meUser, ok := meBody["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "john@company.com", meUser["email"])
	})
}

func TestAuthEndpoints_Logout(t *testing.T) {
	ts := newTestServer(t, testutils.GetTestConfig())

	loginRec := ts.request(http.MethodPost, "/api/auth/login",
		`{"email":"john@company.com","password":"employee123"}`, nil)
	require.Equal(t, http.StatusOK, loginRec.Code)
	cookies := loginRec.Result().Cookies()

	logoutRec := ts.request(http.MethodPost, "/api/auth/logout", "", cookies)
	require.Equal(t, http.StatusOK, logoutRec.Code)

	t.Run("restore after logout yields null", func(t *testing.T) {
		meRec := ts.request(http.MethodGet, "/api/auth/me", "", logoutRec.Result().Cookies())
		body := decodeJSON(t, meRec)
		assert.Nil(t, body["user"])
	})

	t.Run("logout is idempotent", func(t *testing.T) {
		rec := ts.request(http.MethodPost, "/api/auth/logout", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAuthEndpoints_Register(t *testing.T) {
	ts := newTestServer(t, testutils.GetTestConfig())

	t.Run("register issues a verification email", func(t *testing.T) {
		rec := ts.request(http.MethodPost, "/api/auth/register",
			`{"email":"new@company.com","firstName":"New","lastName":"Hire","password":"secret123"}`, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeJSON(t, rec)
		assert.Equal(t, true, body["success"])
		require.Len(t, ts.notifier.Messages, 1)
		assert.Equal(t, "new@company.com", ts.notifier.Messages[0].To)
	})

	t.Run("weak password is rejected", func(t *testing.T) {
		rec := ts.request(http.MethodPost, "/api/auth/register",
			`{"email":"new@company.com","firstName":"New","lastName":"Hire","password":"short"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthEndpoints_Sessions(t *testing.T) {
	ts := newTestServer(t, testutils.GetTestConfig())

	t.Run("requires authentication", func(t *testing.T) {
		rec := ts.request(http.MethodGet, "/api/auth/sessions", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("returns empty list when tracking is disabled", func(t *testing.T) {
		loginRec := ts.request(http.MethodPost, "/api/auth/login",
			`{"email":"john@company.com","password":"employee123"}`, nil)
		require.Equal(t, http.StatusOK, loginRec.Code)

		rec := ts.request(http.MethodGet, "/api/auth/sessions", "", loginRec.Result().Cookies())
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeJSON(t, rec)
		assert.Empty(t, body["sessions"])
	})
}
