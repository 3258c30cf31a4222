package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/maritani/marketplace/internal/identity"
	"github.com/maritani/marketplace/pkg/logging"
)

const pendingMarker = "pending"

// IdempotentPlacer deduplicates placements that carry a client request key.
// The first call claims the key, a replay after success returns the stored
// order id, and a failed placement releases the key so the client may retry.
type IdempotentPlacer struct {
	Next   Placer
	Client *redis.Client
	TTL    time.Duration
}

func NewIdempotentPlacer(next Placer, client *redis.Client, ttl time.Duration) *IdempotentPlacer {
	return &IdempotentPlacer{Next: next, Client: client, TTL: ttl}
}

func idempotencyKey(buyer uuid.UUID, key string) string {
	return fmt.Sprintf("idem:order:%s:%s", buyer, key)
}

func (p *IdempotentPlacer) PlaceOrder(ctx context.Context, caller *identity.Caller, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if caller == nil || req.IdempotencyKey == "" {
		return p.Next.PlaceOrder(ctx, caller, req)
	}

	l := logging.FromContext(ctx).With("svc", "order.idempotency")
	key := idempotencyKey(caller.ID, req.IdempotencyKey)

	claimed, err := p.Client.SetNX(ctx, key, pendingMarker, p.TTL).Result()
	if err != nil {
		return nil, fmt.Errorf("claim idempotency key: %w", err)
	}

	if !claimed {
		res, err := p.stored(ctx, key)
		if err != nil {
			return nil, err
		}
		if res == nil {
			// released between SetNX and Get by a failed attempt
			return nil, ErrDuplicateRequest
		}
		l.Info("place_order_replayed", "order_id", res.OrderID)
		return res, nil
	}

	res, err := p.Next.PlaceOrder(ctx, caller, req)
	if err != nil {
		if delErr := p.Client.Del(context.WithoutCancel(ctx), key).Err(); delErr != nil {
			l.Error("idempotency_release_failed", "error", delErr)
		}
		return nil, err
	}

	if err := p.Client.Set(context.WithoutCancel(ctx), key, res.OrderID.String(), p.TTL).Err(); err != nil {
		l.Error("idempotency_store_failed", "order_id", res.OrderID, "error", err)
	}
	return res, nil
}

// Lookup reports the order already placed under key without claiming it. It
// returns nil when the key is unused and ErrDuplicateRequest while a
// placement holding the key is still running.
func (p *IdempotentPlacer) Lookup(ctx context.Context, caller *identity.Caller, key string) (*PlaceOrderResult, error) {
	if caller == nil || key == "" {
		return nil, nil
	}
	return p.stored(ctx, idempotencyKey(caller.ID, key))
}

func (p *IdempotentPlacer) stored(ctx context.Context, key string) (*PlaceOrderResult, error) {
	val, err := p.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read idempotency key: %w", err)
	}
	if val == pendingMarker {
		return nil, ErrDuplicateRequest
	}

	id, err := uuid.Parse(val)
	if err != nil {
		return nil, fmt.Errorf("stored order id %q: %w", val, err)
	}
	return &PlaceOrderResult{OrderID: id, Replayed: true}, nil
}
