package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/maritani/marketplace/internal/models"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

// ProductLookup supplies the catalog snapshot captured on add.
type ProductLookup interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type Service struct {
	Repo     Repository
	Products ProductLookup
}

func NewService(repo Repository, products ProductLookup) *Service {
	return &Service{Repo: repo, Products: products}
}

func (s *Service) Get(ctx context.Context, owner uuid.UUID) (*Cart, error) {
	return s.Repo.Load(ctx, owner)
}

func (s *Service) AddItem(ctx context.Context, owner, productID uuid.UUID) (*Cart, Result, error) {
	if productID == uuid.Nil {
		return nil, Result{}, fmt.Errorf("product_id required: %w", ErrValidation)
	}

	prod, err := s.Products.GetProduct(ctx, productID)
	if err != nil {
		return nil, Result{}, fmt.Errorf("lookup product %s: %w", productID, err)
	}

	return s.mutate(ctx, owner, func(c *Cart) Result {
		return c.AddItem(Candidate{
			ProductID: prod.ID,
			Name:      prod.Name,
			UnitPrice: prod.Price,
			ImageRef:  prod.Images,
			MaxStock:  prod.Stock,
			SellerID:  prod.SellerID,
		})
	})
}

func (s *Service) RemoveItem(ctx context.Context, owner, productID uuid.UUID) (*Cart, Result, error) {
	return s.mutate(ctx, owner, func(c *Cart) Result { return c.RemoveItem(productID) })
}

func (s *Service) UpdateQuantity(ctx context.Context, owner, productID uuid.UUID, quantity int) (*Cart, Result, error) {
	return s.mutate(ctx, owner, func(c *Cart) Result { return c.UpdateQuantity(productID, quantity) })
}

func (s *Service) Clear(ctx context.Context, owner uuid.UUID) error {
	return s.Repo.Delete(ctx, owner)
}

func (s *Service) mutate(ctx context.Context, owner uuid.UUID, fn func(*Cart) Result) (*Cart, Result, error) {
	c, err := s.Repo.Load(ctx, owner)
	if err != nil {
		return nil, Result{}, err
	}

	res := fn(c)
	if res.Outcome == OutcomeNoop || res.Outcome == OutcomeRefusedAtCap {
		return c, res, nil
	}

	if err := s.Repo.Save(ctx, owner, c); err != nil {
		return nil, Result{}, err
	}
	return c, res, nil
}
