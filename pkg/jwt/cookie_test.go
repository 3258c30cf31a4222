package jwt

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateCookie(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	c := CreateCookie(AccessCookie, "token", "/", exp)

	assert.Equal(t, AccessCookie, c.Name)
	assert.Equal(t, "token", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, exp, c.Expires)
	assert.InDelta(t, 3600, c.MaxAge, 2)
}

func TestCreateCookie_PastExpiryDeletes(t *testing.T) {
	c := CreateCookie(AccessCookie, "token", "/", time.Now().Add(-time.Minute))
	assert.Equal(t, -1, c.MaxAge)
}

func TestDeleteCookie(t *testing.T) {
	c := DeleteCookie(AccessCookie, "/")

	assert.Equal(t, AccessCookie, c.Name)
	assert.Empty(t, c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, -1, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Expires.Before(time.Now()))
}
