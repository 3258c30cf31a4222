package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer() *echo.Echo {
	e := echo.New()
	e.Use(Middleware("/api/v1/auth/login"))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/api/v1/cart", ok)
	e.POST("/api/v1/cart/items", ok)
	e.POST("/api/v1/auth/login", ok)
	return e
}

func TestMiddleware(t *testing.T) {
	e := newServer()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var token string
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			token = ck.Value
		}
	}
	require.NotEmpty(t, token)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing header")

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	req.Header.Set(HeaderName, "forged")
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	req.Header.Set(HeaderName, token)
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware_SkipPaths(t *testing.T) {
	e := newServer()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
