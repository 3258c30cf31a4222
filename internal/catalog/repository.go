package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maritani/marketplace/internal/models"
)

const (
	ConditionFresh  = "fresh"
	ConditionFrozen = "frozen"
)

const (
	SortNewest     = "terbaru"
	SortBestSeller = "terlaris"
	SortCheapest   = "termurah"
	SortPriciest   = "termahal"
)

// ListFilter narrows the catalog listing. Zero values mean no constraint;
// an unknown Sort lists newest first.
type ListFilter struct {
	Category  string
	Condition string
	MinPrice  int64
	MaxPrice  int64
	Sort      string
}

func (f ListFilter) order() string {
	switch f.Sort {
	case SortBestSeller:
		return "sold DESC, created_at DESC"
	case SortCheapest:
		return "price ASC, created_at DESC"
	case SortPriciest:
		return "price DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

type SellerStats struct {
	TotalProducts  int64 `json:"total_products"`
	ActiveProducts int64 `json:"active_products"`
	TotalSold      int64 `json:"total_sold"`
	Orders         int64 `json:"orders"`
	Revenue        int64 `json:"revenue"`
}

type GormRepo struct {
	DB *gorm.DB
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func (r *GormRepo) FindSellerProfile(ctx context.Context, userID uuid.UUID) (*models.SellerProfile, error) {
	var sp models.SellerProfile
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&sp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *GormRepo) CreateSellerProfile(ctx context.Context, sp *models.SellerProfile) error {
	return r.DB.WithContext(ctx).Create(sp).Error
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) filtered(ctx context.Context, f ListFilter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	switch f.Condition {
	case ConditionFresh:
		q = q.Where("is_fresh = ?", true)
	case ConditionFrozen:
		q = q.Where("is_fresh = ?", false)
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	return q
}

func (r *GormRepo) ListProducts(ctx context.Context, f ListFilter, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := r.filtered(ctx, f).Order(f.order()).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// SearchProducts is the substring match used when no search index is configured.
func (r *GormRepo) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	like := "%" + strings.ToLower(q) + "%"
	where := "LOWER(name) LIKE ? OR LOWER(description) LIKE ?"

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where(where, like, like).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).Where(where, like, like).Order("sold DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) SellerStats(ctx context.Context, sellerID uuid.UUID) (*SellerStats, error) {
	var st SellerStats

	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Select("COUNT(*) AS total_products, "+
			"COALESCE(SUM(CASE WHEN stock > 0 THEN 1 ELSE 0 END), 0) AS active_products, "+
			"COALESCE(SUM(sold), 0) AS total_sold").
		Where("seller_id = ?", sellerID).
		Scan(&st).Error
	if err != nil {
		return nil, err
	}

	var sales struct {
		Orders  int64
		Revenue int64
	}
	err = r.DB.WithContext(ctx).Table("order_items").
		Select("COUNT(DISTINCT order_items.order_id) AS orders, "+
			"COALESCE(SUM(order_items.quantity * order_items.price), 0) AS revenue").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", sellerID).
		Scan(&sales).Error
	if err != nil {
		return nil, err
	}

	st.Orders = sales.Orders
	st.Revenue = sales.Revenue
	return &st, nil
}
