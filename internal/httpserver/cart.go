package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/maritani/marketplace/internal/cart"
	"github.com/maritani/marketplace/internal/catalog"
	"github.com/maritani/marketplace/internal/identity"
	"github.com/maritani/marketplace/pkg/logging"
)

type CartHTTP struct {
	Svc *cart.Service
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartView struct {
	Items      []cart.Item  `json:"items"`
	TotalItems int          `json:"total_items"`
	Subtotal   int64        `json:"subtotal"`
	Result     *cart.Result `json:"result,omitempty"`
}

func viewOf(c *cart.Cart) cartView {
	items := c.Items()
	if items == nil {
		items = []cart.Item{}
	}
	return cartView{Items: items, TotalItems: c.TotalItems(), Subtotal: c.Subtotal()}
}

func withResult(c *cart.Cart, res cart.Result) cartView {
	v := viewOf(c)
	v.Result = &res
	return v
}

func cartOwner(c echo.Context) (uuid.UUID, error) {
	caller := identity.FromEcho(c)
	if caller == nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	return caller.ID, nil
}

func (h *CartHTTP) Get(c echo.Context) error {
	owner, err := cartOwner(c)
	if err != nil {
		return err
	}

	ct, err := h.Svc.Get(c.Request().Context(), owner)
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("get_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cart")
	}
	return c.JSON(http.StatusOK, viewOf(ct))
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	owner, err := cartOwner(c)
	if err != nil {
		return err
	}

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ct, res, err := h.Svc.AddItem(ctx, owner, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "product_id required")
		case errors.Is(err, catalog.ErrNotFound), errors.Is(err, cart.ErrNotFound):
			l.Warn("add_item_error", "status", 404, "reason", "product not found", "product_id", req.ProductID)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		default:
			l.Error("add_item_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
		}
	}

	l.Info("add_item_success", "product_id", req.ProductID, "outcome", res.Outcome.String())
	return c.JSON(http.StatusOK, withResult(ct, res))
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()

	owner, err := cartOwner(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id not an uuid")
	}

	var req updateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ct, res, err := h.Svc.UpdateQuantity(ctx, owner, id, req.Quantity)
	if err != nil {
		logging.FromContext(ctx).Error("update_quantity_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
	}
	return c.JSON(http.StatusOK, withResult(ct, res))
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	owner, err := cartOwner(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id not an uuid")
	}

	ct, res, err := h.Svc.RemoveItem(ctx, owner, id)
	if err != nil {
		logging.FromContext(ctx).Error("remove_item_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
	}
	return c.JSON(http.StatusOK, withResult(ct, res))
}

func (h *CartHTTP) Clear(c echo.Context) error {
	owner, err := cartOwner(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Clear(c.Request().Context(), owner); err != nil {
		logging.FromContext(c.Request().Context()).Error("clear_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot clear cart")
	}
	return c.NoContent(http.StatusNoContent)
}
