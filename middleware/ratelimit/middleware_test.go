package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newLimitedEcho(rate int) *echo.Echo {
	e := echo.New()
	e.Use(Middleware(&Config{
		Rate:   rate,
		Period: time.Minute,
	}))
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return e
}

func get(e *echo.Echo) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware(t *testing.T) {
	t.Run("allows requests up to the limit", func(t *testing.T) {
		e := newLimitedEcho(2)

		first := get(e)
		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

		second := get(e)
		assert.Equal(t, http.StatusOK, second.Code)
		assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("rejects requests over the limit", func(t *testing.T) {
		e := newLimitedEcho(1)

		assert.Equal(t, http.StatusOK, get(e).Code)
		over := get(e)
		assert.Equal(t, http.StatusTooManyRequests, over.Code)
		assert.Equal(t, "0", over.Header().Get("X-RateLimit-Remaining"))
	})
}
