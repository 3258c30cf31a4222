package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/maritani/marketplace/internal/models"
	authmw "github.com/maritani/marketplace/pkg/middleware/auth"
	"github.com/maritani/marketplace/pkg/middleware/csrf"
	loggingmw "github.com/maritani/marketplace/pkg/middleware/logging"
)

type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client

	JWTSecret []byte
	CSRF      bool

	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
}

// Common installs the middleware chain shared by every route.
func Common(e *echo.Echo, base *slog.Logger) {
	e.HTTPErrorHandler = ErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(
		echomw.Recover(),
		echomw.RequestID(),
		loggingmw.RequestLogger(base),
		echomw.Secure(),
		echomw.CORSWithConfig(echomw.CORSConfig{
			AllowCredentials: true,
			AllowHeaders: []string{
				echo.HeaderContentType,
				echo.HeaderXRequestID,
				csrf.HeaderName,
				HeaderIdempotencyKey,
			},
		}),
	)
}

func (d *Deps) ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if d.DB != nil {
		sqlDB, err := d.DB.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Ping(ctx).Err(); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
	}
	return c.NoContent(http.StatusOK)
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	auth := authmw.NewCookieAuth(d.JWTSecret)

	v1 := e.Group("/api/v1")
	if d.CSRF {
		v1.Use(csrf.Middleware("/api/v1/auth/login", "/api/v1/auth/register"))
	}

	v1.POST("/auth/register", d.AuthHandler.Register)
	v1.POST("/auth/login", d.AuthHandler.Login)
	v1.POST("/auth/logout", d.AuthHandler.Logout)
	v1.GET("/auth/me", d.AuthHandler.Me, auth.RequireAuth)

	products := v1.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)

	cart := v1.Group("/cart", auth.RequireAuth)
	cart.GET("", d.CartHandler.Get)
	cart.DELETE("", d.CartHandler.Clear)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.PATCH("/items/:id", d.CartHandler.UpdateQuantity)
	cart.DELETE("/items/:id", d.CartHandler.RemoveItem)

	v1.POST("/checkout", d.OrderHandler.Checkout, auth.RequireAuth)

	orders := v1.Group("/orders", auth.RequireAuth)
	orders.POST("", d.OrderHandler.PlaceOrder)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)

	seller := v1.Group("/seller", auth.RequireAuth, authmw.RequireRole(models.RoleSeller))
	seller.POST("/profile", d.CatalogHandler.CreateSellerProfile)
	seller.POST("/products", d.CatalogHandler.CreateProduct)
	seller.DELETE("/products/:id", d.CatalogHandler.DeleteProduct)
	seller.GET("/stats", d.CatalogHandler.SellerStats)
}
