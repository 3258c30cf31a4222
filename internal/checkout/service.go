package checkout

import (
	"context"
	"errors"

	"github.com/maritani/marketplace/internal/cart"
	"github.com/maritani/marketplace/internal/identity"
	"github.com/maritani/marketplace/internal/order"
	"github.com/maritani/marketplace/pkg/logging"
)

var ErrEmptyCart = errors.New("cart is empty")

type Request struct {
	Shipping       *order.Shipping `json:"shipping,omitempty"`
	IdempotencyKey string          `json:"-"`
}

// ReplayLookup finds an order already placed under an idempotency key.
// IdempotentPlacer satisfies it.
type ReplayLookup interface {
	Lookup(ctx context.Context, caller *identity.Caller, key string) (*order.PlaceOrderResult, error)
}

// Service turns the caller's stored cart into an order. The cart is cleared
// only after the order commits, so a failed attempt can be retried as is.
type Service struct {
	Carts  cart.Repository
	Orders order.Placer
}

func NewService(carts cart.Repository, orders order.Placer) *Service {
	return &Service{Carts: carts, Orders: orders}
}

func (s *Service) Checkout(ctx context.Context, caller *identity.Caller, req Request) (*order.PlaceOrderResult, error) {
	l := logging.FromContext(ctx).With("svc", "checkout")

	if caller == nil {
		return nil, order.ErrUnauthenticated
	}
	if caller.IsSeller() {
		return nil, order.ErrForbiddenRole
	}

	// A retried checkout answers with its own order and leaves whatever the
	// cart holds now alone.
	if lk, ok := s.Orders.(ReplayLookup); ok && req.IdempotencyKey != "" {
		res, err := lk.Lookup(ctx, caller, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if res != nil {
			l.Info("checkout_replayed", "order_id", res.OrderID)
			return res, nil
		}
	}

	c, err := s.Carts.Load(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if c.Len() == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]order.Item, 0, c.Len())
	for _, it := range c.Items() {
		items = append(items, order.Item{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.UnitPrice})
	}

	res, err := s.Orders.PlaceOrder(ctx, caller, order.PlaceOrderRequest{
		Items:          items,
		TotalAmount:    c.Subtotal(),
		Shipping:       req.Shipping,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		l.Warn("checkout_error", "buyer_id", caller.ID, "error", err)
		return nil, err
	}

	if res.Replayed {
		l.Info("checkout_replayed", "order_id", res.OrderID)
		return res, nil
	}

	c.Clear()
	if err := s.Carts.Save(context.WithoutCancel(ctx), caller.ID, c); err != nil {
		l.Error("checkout_cart_clear_failed", "buyer_id", caller.ID, "order_id", res.OrderID, "error", err)
	}

	l.Info("checkout_success", "order_id", res.OrderID)
	return res, nil
}
