package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	jwthelp "github.com/maritani/marketplace/pkg/jwt"
	"github.com/maritani/marketplace/pkg/tokens"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

type CookieAuth struct {
	JWTSecret []byte
}

func NewCookieAuth(secret []byte) *CookieAuth {
	return &CookieAuth{JWTSecret: secret}
}

// RequireAuth rejects requests without a valid access cookie and exposes
// the token subject and role through the echo context.
func (m *CookieAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie(jwthelp.AccessCookie)
		if err != nil || accessCookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
		if err != nil || claims == nil {
			c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/"))
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		if claims.Subject == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, claims.Role)
		return next(c)
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing role")
			}
			if !slices.Contains(allowed, role) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}
