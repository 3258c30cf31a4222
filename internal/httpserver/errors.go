package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maritani/marketplace/pkg/logging"
)

type errorBody struct {
	Error string `json:"error"`
}

// ErrorHandler renders every failure as {"error": "<message>"}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := http.StatusText(status)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
	} else {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, errorBody{Error: msg})
}
