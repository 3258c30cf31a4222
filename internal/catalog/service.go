package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maritani/marketplace/internal/identity"
	"github.com/maritani/marketplace/internal/models"
	"github.com/maritani/marketplace/pkg/events"
	"github.com/maritani/marketplace/pkg/logging"
)

var (
	ErrValidation           = errors.New("validation")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrUnauthorized         = errors.New("seller role required")
	ErrSellerProfileMissing = errors.New("seller profile missing")
	ErrForbidden            = errors.New("product belongs to another seller")
)

type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
	Unit        string `json:"unit"`
	Images      string `json:"images"`
	IsFresh     bool   `json:"is_fresh"`
	HarvestTime string `json:"harvest_time"`
}

type CreateSellerProfileRequest struct {
	StoreName   string `json:"store_name"`
	Description string `json:"description"`
	City        string `json:"city"`
	Address     string `json:"address"`
}

type Service struct {
	Repo   *GormRepo
	Cache  *ListCache
	Index  SearchIndex
	Events events.Publisher
}

func NewService(repo *GormRepo, cache *ListCache, index SearchIndex, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{Repo: repo, Cache: cache, Index: index, Events: pub}
}

// sellerProfile enforces the SELLER role and returns the caller's profile.
func (s *Service) sellerProfile(ctx context.Context, caller *identity.Caller) (*models.SellerProfile, error) {
	if !caller.IsSeller() {
		return nil, ErrUnauthorized
	}

	sp, err := s.Repo.FindSellerProfile(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("find seller profile: %w", err)
	}
	if sp == nil {
		return nil, ErrSellerProfileMissing
	}
	return sp, nil
}

func (s *Service) CreateSellerProfile(ctx context.Context, caller *identity.Caller, req CreateSellerProfileRequest) (*models.SellerProfile, error) {
	if !caller.IsSeller() {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(req.StoreName) == "" {
		return nil, fmt.Errorf("%w: store_name required", ErrValidation)
	}

	existing, err := s.Repo.FindSellerProfile(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("find seller profile: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: seller profile already exists", ErrConflict)
	}

	sp := &models.SellerProfile{
		UserID:      caller.ID,
		StoreName:   strings.TrimSpace(req.StoreName),
		Description: req.Description,
		City:        req.City,
		Address:     req.Address,
		Status:      "ACTIVE",
	}
	if err := s.Repo.CreateSellerProfile(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

func validateProduct(req CreateProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if req.Price <= 0 {
		return fmt.Errorf("%w: price must be > 0", ErrValidation)
	}
	if req.Stock < 1 {
		return fmt.Errorf("%w: stock must be >= 1", ErrValidation)
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, caller *identity.Caller, req CreateProductRequest) (*models.Product, error) {
	sp, err := s.sellerProfile(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	p := &models.Product{
		SellerID:    sp.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Unit:        req.Unit,
		Images:      req.Images,
		IsFresh:     req.IsFresh,
		HarvestTime: req.HarvestTime,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "product_created", p.ID, func(ctx context.Context) error { return s.Index.Index(ctx, p) })
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, caller *identity.Caller, id uuid.UUID) error {
	sp, err := s.sellerProfile(ctx, caller)
	if err != nil {
		return err
	}

	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if p.SellerID != sp.ID {
		return ErrForbidden
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.afterWrite(ctx, "product_deleted", id, func(ctx context.Context) error { return s.Index.Delete(ctx, id) })
	return nil
}

// afterWrite refreshes derived views. Failures are logged, the write stands.
func (s *Service) afterWrite(ctx context.Context, eventType string, id uuid.UUID, reindex func(context.Context) error) {
	l := logging.FromContext(ctx).With("svc", "catalog")
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx); err != nil {
			l.Error("catalog_cache_invalidate_failed", "product_id", id, "error", err)
		}
	}
	if s.Index != nil {
		if err := reindex(ctx); err != nil {
			l.Error("search_index_failed", "product_id", id, "event", eventType, "error", err)
		}
	}

	event := map[string]any{"type": eventType, "product_id": id}
	if err := s.Events.Publish(ctx, events.TopicProducts, id.String(), event); err != nil {
		l.Error("product_event_publish_failed", "product_id", id, "error", err)
	}
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, f ListFilter, offset, limit int) (*ProductPage, error) {
	l := logging.FromContext(ctx).With("svc", "catalog")
	key := listKey(f, offset, limit)

	if s.Cache != nil {
		page, err := s.Cache.Get(ctx, key)
		if err == nil {
			return page, nil
		}
		if !errors.Is(err, errCacheMiss) {
			l.Warn("catalog_cache_get_failed", "key", key, "error", err)
		}
	}

	total, items, err := s.Repo.ListProducts(ctx, f, offset, limit)
	if err != nil {
		return nil, err
	}
	page := &ProductPage{Total: total, Items: items}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, page); err != nil {
			l.Warn("catalog_cache_set_failed", "key", key, "error", err)
		}
	}
	return page, nil
}

func (s *Service) SearchProducts(ctx context.Context, q string, offset, limit int) (*ProductPage, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return &ProductPage{Items: []models.Product{}}, nil
	}

	var (
		total int64
		items []models.Product
		err   error
	)
	if s.Index != nil {
		total, items, err = s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			return &ProductPage{Total: total, Items: items}, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "reason", "falling back to database", "error", err)
	}

	total, items, err = s.Repo.SearchProducts(ctx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Total: total, Items: items}, nil
}

func (s *Service) SellerStats(ctx context.Context, caller *identity.Caller) (*SellerStats, error) {
	sp, err := s.sellerProfile(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.Repo.SellerStats(ctx, sp.ID)
}
