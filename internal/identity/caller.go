package identity

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/maritani/marketplace/internal/models"
	middleware "github.com/maritani/marketplace/pkg/middleware/auth"
)

// Caller is the authenticated principal behind a request.
type Caller struct {
	ID   uuid.UUID
	Role string
}

func (c *Caller) IsSeller() bool {
	return c != nil && c.Role == models.RoleSeller
}

// FromEcho returns nil when the request carries no usable identity.
func FromEcho(c echo.Context) *Caller {
	s, ok := c.Get(middleware.CtxUserID).(string)
	if !ok || s == "" {
		return nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}

	role, _ := c.Get(middleware.CtxRole).(string)
	return &Caller{ID: id, Role: role}
}
