package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maritani/marketplace/internal/identity"
	"github.com/maritani/marketplace/internal/models"
	"github.com/maritani/marketplace/pkg/events"
	"github.com/maritani/marketplace/pkg/logging"
)

type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"`
}

type Shipping struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
}

// DefaultShipping fills orders placed without a shipping form.
var DefaultShipping = Shipping{
	RecipientName: "Pembeli Maritani",
	Phone:         "-",
	Address:       "Ambil di tempat",
	City:          "Jakarta",
	PostalCode:    "00000",
}

type PlaceOrderRequest struct {
	Items       []Item    `json:"items"`
	TotalAmount int64     `json:"total_amount"`
	Shipping    *Shipping `json:"shipping,omitempty"`

	// IdempotencyKey is read by IdempotentPlacer only.
	IdempotencyKey string `json:"-"`
}

type PlaceOrderResult struct {
	OrderID uuid.UUID `json:"order_id"`

	// Replayed is set when the id comes from an earlier placement with the
	// same idempotency key and nothing was committed by this call.
	Replayed bool `json:"replayed,omitempty"`
}

type Placer interface {
	PlaceOrder(ctx context.Context, caller *identity.Caller, req PlaceOrderRequest) (*PlaceOrderResult, error)
}

type Service struct {
	Repo   Repository
	Events events.Publisher

	// VerifyPrices rejects lines whose price differs from the catalog and
	// totals that differ from the line sum.
	VerifyPrices bool
}

func NewService(repo Repository, pub events.Publisher, verifyPrices bool) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{Repo: repo, Events: pub, VerifyPrices: verifyPrices}
}

func validate(req PlaceOrderRequest) error {
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: items required", ErrValidation)
	}
	var sum int64
	for _, it := range req.Items {
		if it.ProductID == uuid.Nil {
			return fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		if it.Price < 0 {
			return fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
		line := it.Price * int64(it.Quantity)
		if it.Price > math.MaxInt64/int64(it.Quantity) || sum > math.MaxInt64-line {
			return fmt.Errorf("%w: amount out of range", ErrValidation)
		}
		sum += line
	}
	if req.TotalAmount < 0 {
		return fmt.Errorf("%w: total_amount must be >= 0", ErrValidation)
	}
	if s := req.Shipping; s != nil {
		for _, f := range []string{s.RecipientName, s.Phone, s.Address, s.City, s.PostalCode} {
			if strings.TrimSpace(f) == "" {
				return fmt.Errorf("%w: shipping fields required", ErrValidation)
			}
		}
	}
	return nil
}

func lineSum(items []Item) int64 {
	var total int64
	for _, it := range items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}

// PlaceOrder records a PAID order and moves stock to sold for every line in
// one transaction. Nothing is persisted unless every step succeeds.
func (s *Service) PlaceOrder(ctx context.Context, caller *identity.Caller, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	l := logging.FromContext(ctx).With("svc", "order.place_order")

	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if caller.IsSeller() {
		return nil, ErrForbiddenRole
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	if s.VerifyPrices && lineSum(req.Items) != req.TotalAmount {
		return nil, fmt.Errorf("%w: total_amount does not match items", ErrPriceMismatch)
	}

	shipping := DefaultShipping
	if req.Shipping != nil {
		shipping = *req.Shipping
	}

	lines := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, models.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	order := &models.Order{
		BuyerID:       caller.ID,
		TotalAmount:   req.TotalAmount,
		Status:        models.OrderStatusPaid,
		RecipientName: shipping.RecipientName,
		Phone:         shipping.Phone,
		Address:       shipping.Address,
		City:          shipping.City,
		PostalCode:    shipping.PostalCode,
		Items:         lines,
	}

	err := s.Repo.Transaction(ctx, func(tx Tx) error {
		for _, it := range req.Items {
			p, err := tx.FindProduct(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if s.VerifyPrices && p.Price != it.Price {
				return fmt.Errorf("%w: product %s costs %d", ErrPriceMismatch, p.ID, p.Price)
			}
		}

		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, it := range req.Items {
			if err := tx.DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
			if err := tx.IncrementSold(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrPriceMismatch):
			l.Warn("place_order_rejected", "buyer_id", caller.ID, "error", err)
			return nil, err
		default:
			l.Error("place_order_failed", "buyer_id", caller.ID, "error", err)
			return nil, ErrOrderCreationFailed
		}
	}

	s.publishPlaced(ctx, order)
	l.Info("place_order_success", "order_id", order.ID, "items", len(lines), "total_amount", order.TotalAmount)
	return &PlaceOrderResult{OrderID: order.ID}, nil
}

func (s *Service) publishPlaced(ctx context.Context, o *models.Order) {
	items := make([]map[string]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{
			"product_id": it.ProductID,
			"quantity":   it.Quantity,
			"price":      it.Price,
		})
	}
	event := map[string]any{
		"type":         "order_placed",
		"order_id":     o.ID,
		"buyer_id":     o.BuyerID,
		"total_amount": o.TotalAmount,
		"status":       o.Status,
		"items":        items,
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Events.Publish(pubCtx, events.TopicOrders, o.ID.String(), event); err != nil {
		logging.FromContext(ctx).Error("order_event_publish_failed", "order_id", o.ID, "error", err)
	}
}

func (s *Service) GetOrder(ctx context.Context, caller *identity.Caller, id uuid.UUID) (*models.Order, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.BuyerID != caller.ID {
		return nil, ErrNotFound
	}
	return o, nil
}

// ListOrders returns the caller's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, caller *identity.Caller, offset, limit int) ([]models.Order, int64, error) {
	if caller == nil {
		return nil, 0, ErrUnauthenticated
	}
	return s.Repo.ListOrders(ctx, caller.ID, offset, limit)
}
