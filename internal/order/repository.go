package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maritani/marketplace/internal/models"
)

// Tx is the persistence surface available inside one order commit.
type Tx interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	DecrementStock(ctx context.Context, productID uuid.UUID, amount int) error
	IncrementSold(ctx context.Context, productID uuid.UUID, amount int) error
}

type Repository interface {
	// Transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Tx) error) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, buyerID uuid.UUID, offset, limit int) ([]models.Order, int64, error)
}

type GormRepo struct {
	DB *gorm.DB
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func (r *GormRepo) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	err := r.DB.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, buyerID uuid.UUID, offset, limit int) ([]models.Order, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("buyer_id = ?", buyerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := r.DB.WithContext(ctx).Where("buyer_id = ?", buyerID).Preload("Items").Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := t.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (t *gormTx) CreateOrder(ctx context.Context, order *models.Order) error {
	return t.db.WithContext(ctx).Create(order).Error
}

// DecrementStock only succeeds while the row still holds amount units.
func (t *gormTx) DecrementStock(ctx context.Context, productID uuid.UUID, amount int) error {
	res := t.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, amount).
		Update("stock", gorm.Expr("stock - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrInsufficientStock)
	}
	return nil
}

func (t *gormTx) IncrementSold(ctx context.Context, productID uuid.UUID, amount int) error {
	res := t.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		Update("sold", gorm.Expr("sold + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return nil
}
