package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	middleware "github.com/maritani/marketplace/pkg/middleware/auth"
)

func newContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromEcho(t *testing.T) {
	id := uuid.New()

	c := newContext()
	c.Set(middleware.CtxUserID, id.String())
	c.Set(middleware.CtxRole, "SELLER")

	caller := FromEcho(c)
	require.NotNil(t, caller)
	assert.Equal(t, id, caller.ID)
	assert.True(t, caller.IsSeller())
}

func TestFromEcho_Missing(t *testing.T) {
	assert.Nil(t, FromEcho(newContext()))

	c := newContext()
	c.Set(middleware.CtxUserID, "not-a-uuid")
	assert.Nil(t, FromEcho(c))

	var nilCaller *Caller
	assert.False(t, nilCaller.IsSeller())
}
