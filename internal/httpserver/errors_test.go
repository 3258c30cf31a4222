package httpserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"http error", echo.NewHTTPError(http.StatusConflict, "insufficient stock"), http.StatusConflict, `{"error":"insufficient stock"}`},
		{"echo default message", echo.ErrNotFound, http.StatusNotFound, `{"error":"Not Found"}`},
		{"plain error hides cause", errors.New("pq: connection refused"), http.StatusInternalServerError, `{"error":"Internal Server Error"}`},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			ErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
