package csrf

import (
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const (
	CookieName = "XSRF-TOKEN"
	HeaderName = "X-CSRF-Token"
)

// Middleware is a double-submit token check for cookie-authenticated
// requests. Safe methods receive the token, unsafe ones must echo it back in
// HeaderName.
func Middleware(skipPaths ...string) echo.MiddlewareFunc {
	return echomw.CSRFWithConfig(echomw.CSRFConfig{
		Skipper: func(c echo.Context) bool {
			return slices.Contains(skipPaths, c.Request().URL.Path)
		},
		TokenLookup:    "header:" + HeaderName,
		CookieName:     CookieName,
		CookiePath:     "/",
		CookieMaxAge:   int((24 * time.Hour).Seconds()),
		CookieSameSite: http.SameSiteLaxMode,
		ContextKey:     "csrf_token",
	})
}
