package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func corsServer(origins ...string) *echo.Echo {
	e := echo.New()
	e.Use(CORS(CORSConfig{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost},
		AllowHeaders:  []string{echo.HeaderContentType},
		ExposeHeaders: []string{"Retry-After"},
		MaxAge:        10 * time.Minute,
	}))
	e.GET("/api/roles", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	return e
}

func TestCORSPreflight(t *testing.T) {
	e := corsServer("https://desk.example.com")

	req := httptest.NewRequest(http.MethodOptions, "/api/roles", nil)
	req.Header.Set(echo.HeaderOrigin, "https://desk.example.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://desk.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "GET, POST", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	assert.Equal(t, "600", rec.Header().Get(echo.HeaderAccessControlMaxAge))
	assert.Equal(t, echo.HeaderOrigin, rec.Header().Get(echo.HeaderVary))
}

func TestCORSSimpleRequest(t *testing.T) {
	e := corsServer("*")

	req := httptest.NewRequest(http.MethodGet, "/api/roles", nil)
	req.Header.Set(echo.HeaderOrigin, "https://anywhere.example.org")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "Retry-After", rec.Header().Get(echo.HeaderAccessControlExposeHeaders))
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	e := corsServer("https://desk.example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/roles", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example.net")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
