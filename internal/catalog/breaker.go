package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/maritani/marketplace/internal/models"
)

type hits struct {
	total int64
	items []models.Product
}

// BreakerIndex trips after consecutive index failures and fails fast until
// the cooldown passes, so a dead search cluster does not slow every write.
type BreakerIndex struct {
	next SearchIndex
	cb   *gobreaker.CircuitBreaker[hits]
}

func NewBreakerIndex(next SearchIndex, failures uint32, cooldown time.Duration) *BreakerIndex {
	if failures == 0 {
		failures = 5
	}
	cb := gobreaker.NewCircuitBreaker[hits](gobreaker.Settings{
		Name:        "search-index",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit_breaker_state", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return &BreakerIndex{next: next, cb: cb}
}

func (b *BreakerIndex) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerIndex) Index(ctx context.Context, p *models.Product) error {
	_, err := b.cb.Execute(func() (hits, error) {
		return hits{}, b.next.Index(ctx, p)
	})
	return err
}

func (b *BreakerIndex) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := b.cb.Execute(func() (hits, error) {
		return hits{}, b.next.Delete(ctx, id)
	})
	return err
}

func (b *BreakerIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	h, err := b.cb.Execute(func() (hits, error) {
		total, items, err := b.next.Search(ctx, query, from, size)
		return hits{total: total, items: items}, err
	})
	return h.total, h.items, err
}
