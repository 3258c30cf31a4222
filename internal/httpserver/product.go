package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/maritani/marketplace/internal/catalog"
	"github.com/maritani/marketplace/internal/identity"
	"github.com/maritani/marketplace/internal/util"
	"github.com/maritani/marketplace/pkg/logging"
)

type CatalogHTTP struct {
	Svc *catalog.Service
}

// catalogStatus maps catalog errors onto HTTP status and message.
func catalogStatus(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, catalog.ErrUnauthorized):
		return http.StatusForbidden, "seller role required"
	case errors.Is(err, catalog.ErrSellerProfileMissing):
		return http.StatusForbidden, "seller profile missing"
	case errors.Is(err, catalog.ErrForbidden):
		return http.StatusForbidden, "product belongs to another seller"
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, catalog.ErrConflict):
		return http.StatusConflict, "seller profile already exists"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (h *CatalogHTTP) fail(c echo.Context, event string, err error) error {
	status, msg := catalogStatus(err)
	l := logging.FromContext(c.Request().Context())
	if status >= 500 {
		l.Error(event, "status", status, "reason", msg, "error", err)
	} else {
		l.Warn(event, "status", status, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(status, msg)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return h.fail(c, "get_product_failed", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	filter := catalog.ListFilter{
		Category:  c.QueryParam("category"),
		Condition: c.QueryParam("condition"),
		Sort:      c.QueryParam("sort"),
	}
	if fresh, _ := strconv.ParseBool(c.QueryParam("fresh")); fresh {
		filter.Condition = catalog.ConditionFresh
	}
	for param, dst := range map[string]*int64{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice} {
		raw := c.QueryParam(param)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			l.Warn("get_products_error", "status", 400, "reason", "invalid "+param, "value", raw)
			return echo.NewHTTPError(http.StatusBadRequest, param+" must be a non-negative integer")
		}
		*dst = v
	}

	res, err := h.Svc.ListProducts(ctx, filter, offset, limit)
	if err != nil {
		return h.fail(c, "get_products_error", err)
	}

	l.Info("get_products_success")
	return c.JSON(http.StatusOK, map[string]any{
		"data": res.Items,
		"meta": util.Meta(page, offset, limit, res.Total),
	})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	res, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return h.fail(c, "search_products_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": res.Items,
		"meta": util.Meta(page, offset, limit, res.Total),
	})
}

func (h *CatalogHTTP) CreateSellerProfile(c echo.Context) error {
	ctx := c.Request().Context()

	var req catalog.CreateSellerProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sp, err := h.Svc.CreateSellerProfile(ctx, identity.FromEcho(c), req)
	if err != nil {
		return h.fail(c, "seller_profile_create_error", err)
	}
	return c.JSON(http.StatusCreated, sp)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_product")

	var req catalog.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := h.Svc.CreateProduct(ctx, identity.FromEcho(c), req)
	if err != nil {
		return h.fail(c, "product_create_error", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("product_delete_error", "status", 400, "reason", "id not an uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not an uuid")
	}

	if err := h.Svc.DeleteProduct(ctx, identity.FromEcho(c), id); err != nil {
		return h.fail(c, "product_delete_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) SellerStats(c echo.Context) error {
	st, err := h.Svc.SellerStats(c.Request().Context(), identity.FromEcho(c))
	if err != nil {
		return h.fail(c, "seller_stats_error", err)
	}
	return c.JSON(http.StatusOK, st)
}
