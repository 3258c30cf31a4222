package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/maritani/marketplace/internal/models"
)

type stubProducts map[uuid.UUID]models.Product

func (s stubProducts) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func TestService_AddItemUsesCatalogSnapshot(t *testing.T) {
	repo, _ := setupTestRedis(t)
	ctx := context.Background()
	owner := uuid.New()

	prod := models.Product{ID: uuid.New(), SellerID: uuid.New(), Name: "Kerapu Segar", Price: 85000, Stock: 2}
	svc := NewService(repo, stubProducts{prod.ID: prod})

	_, res, err := svc.AddItem(ctx, owner, prod.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, res.Outcome)

	_, _, err = svc.AddItem(ctx, owner, prod.ID)
	require.NoError(t, err)
	_, res, err = svc.AddItem(ctx, owner, prod.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRefusedAtCap, res.Outcome)

	c, err := svc.Get(ctx, owner)
	require.NoError(t, err)
	it, ok := c.Get(prod.ID)
	require.True(t, ok)
	assert.Equal(t, "Kerapu Segar", it.Name)
	assert.Equal(t, int64(85000), it.UnitPrice)
	assert.Equal(t, prod.SellerID, it.SellerID)
	assert.Equal(t, 2, it.Quantity)
}

func TestService_AddItemErrors(t *testing.T) {
	repo, _ := setupTestRedis(t)
	svc := NewService(repo, stubProducts{})

	_, _, err := svc.AddItem(context.Background(), uuid.New(), uuid.Nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.AddItem(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestService_UpdateRemoveClear(t *testing.T) {
	repo, _ := setupTestRedis(t)
	ctx := context.Background()
	owner := uuid.New()

	prod := models.Product{ID: uuid.New(), Name: "Cabai", Price: 4000, Stock: 10}
	svc := NewService(repo, stubProducts{prod.ID: prod})

	_, _, err := svc.AddItem(ctx, owner, prod.ID)
	require.NoError(t, err)

	c, res, err := svc.UpdateQuantity(ctx, owner, prod.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, Result{Outcome: OutcomeClamped, Quantity: 10}, res)
	assert.Equal(t, int64(40000), c.Subtotal())

	c, res, err = svc.RemoveItem(ctx, owner, prod.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, res.Outcome)
	assert.Equal(t, 0, c.Len())

	_, _, err = svc.AddItem(ctx, owner, prod.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, owner))

	c, err = svc.Get(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, c.TotalItems())
}
