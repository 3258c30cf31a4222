package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/maritani/marketplace/internal/checkout"
	"github.com/maritani/marketplace/internal/identity"
	"github.com/maritani/marketplace/internal/order"
	"github.com/maritani/marketplace/internal/util"
	"github.com/maritani/marketplace/pkg/logging"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type OrderHTTP struct {
	Orders    order.Placer
	Reader    *order.Service
	Checkouts *checkout.Service
}

// orderStatus maps commit errors onto HTTP status and message. Messages for
// the 4xx cases are part of the public contract.
func orderStatus(err error) (int, string) {
	switch {
	case errors.Is(err, order.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, order.ErrForbiddenRole):
		return http.StatusForbidden, "sellers may not purchase"
	case errors.Is(err, order.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest, "cart is empty"
	case errors.Is(err, order.ErrInsufficientStock):
		return http.StatusConflict, "insufficient stock"
	case errors.Is(err, order.ErrPriceMismatch):
		return http.StatusConflict, "price changed"
	case errors.Is(err, order.ErrDuplicateRequest):
		return http.StatusConflict, "request already in progress"
	case errors.Is(err, order.ErrNotFound):
		return http.StatusNotFound, "order not found"
	default:
		return http.StatusInternalServerError, "Gagal memproses pesanan"
	}
}

func failOrder(c echo.Context, event string, err error) error {
	status, msg := orderStatus(err)
	l := logging.FromContext(c.Request().Context())
	if status >= 500 {
		l.Error(event, "status", status, "reason", msg, "error", err)
	} else {
		l.Warn(event, "status", status, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(status, msg)
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	var req order.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("place_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.IdempotencyKey = c.Request().Header.Get(HeaderIdempotencyKey)

	res, err := h.Orders.PlaceOrder(ctx, identity.FromEcho(c), req)
	if err != nil {
		return failOrder(c, "place_order_error", err)
	}

	l.Info("place_order_success", "order_id", res.OrderID)
	return c.JSON(http.StatusCreated, res)
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	var req checkout.Request
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			l.Warn("checkout_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
	}
	req.IdempotencyKey = c.Request().Header.Get(HeaderIdempotencyKey)

	res, err := h.Checkouts.Checkout(ctx, identity.FromEcho(c), req)
	if err != nil {
		return failOrder(c, "checkout_error", err)
	}

	l.Info("checkout_success", "order_id", res.OrderID)
	return c.JSON(http.StatusCreated, res)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id not an uuid")
	}

	o, err := h.Reader.GetOrder(c.Request().Context(), identity.FromEcho(c), id)
	if err != nil {
		return failOrder(c, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, total, err := h.Reader.ListOrders(c.Request().Context(), identity.FromEcho(c), offset, limit)
	if err != nil {
		return failOrder(c, "list_orders_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": util.Meta(page, offset, limit, total),
	})
}
