package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maritani/marketplace/internal/auth"
	"github.com/maritani/marketplace/internal/identity"
	"github.com/maritani/marketplace/internal/models"
	jwthelp "github.com/maritani/marketplace/pkg/jwt"
	"github.com/maritani/marketplace/pkg/logging"
)

type AuthHTTP struct {
	Svc *auth.Service
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	User *models.User `json:"user"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req auth.RegisterInput
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrValidation):
			l.Warn("register_error", "status", 400, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrConflict):
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot register user")
		}
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, userView{User: user})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrInvalidCredentials):
			l.Warn("login_error", "status", 401, "reason", "invalid credentials")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot log in")
		}
	}

	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, res.AccessToken, "/", res.AccessExp))

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, userView{User: res.User})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/"))
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	caller := identity.FromEcho(c)
	if caller == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	user, err := h.Svc.Me(c.Request().Context(), caller.ID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load user")
	}
	return c.JSON(http.StatusOK, userView{User: user})
}
