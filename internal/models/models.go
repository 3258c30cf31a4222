package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser   = "USER"
	RoleSeller = "SELLER"
	RoleAdmin  = "ADMIN"
)

const (
	AccountPersonal = "PERSONAL"
	AccountBusiness = "BUSINESS"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"       json:"email"`
	Name         string    `gorm:"not null"                   json:"name"`
	Phone        string    `                                  json:"phone,omitempty"`
	PasswordHash string    `gorm:"not null"                   json:"-"`
	Role         string    `gorm:"not null;default:USER"      json:"role"`
	AccountType  string    `gorm:"not null;default:PERSONAL"  json:"account_type"`
	CreatedAt    time.Time `                                  json:"created_at"`
}

type SellerProfile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	StoreName   string    `gorm:"not null"               json:"store_name"`
	Description string    `                              json:"description"`
	City        string    `                              json:"city"`
	Address     string    `                              json:"address"`
	Status      string    `gorm:"not null;default:ACTIVE" json:"status"`
	CreatedAt   time.Time `                              json:"created_at"`
}

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	SellerID    uuid.UUID `gorm:"type:uuid;index;not null"   json:"seller_id"`
	Name        string    `gorm:"not null"                   json:"name"`
	Description string    `                                  json:"description"`
	Price       int64     `gorm:"not null"                   json:"price"`
	Stock       int       `gorm:"not null;default:0"         json:"stock"`
	Sold        int       `gorm:"not null;default:0"         json:"sold"`
	Category    string    `gorm:"index"                      json:"category"`
	Unit        string    `                                  json:"unit"`
	Images      string    `                                  json:"images"`
	IsFresh     bool      `                                  json:"is_fresh"`
	HarvestTime string    `                                  json:"harvest_time,omitempty"`
	CreatedAt   time.Time `                                  json:"created_at"`
	UpdatedAt   time.Time `                                  json:"updated_at"`
}

type Order struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey"       json:"id"`
	BuyerID       uuid.UUID   `gorm:"type:uuid;index;not null"   json:"buyer_id"`
	TotalAmount   int64       `gorm:"not null"                   json:"total_amount"`
	Status        OrderStatus `gorm:"not null"                   json:"status"`
	RecipientName string      `                                  json:"recipient_name"`
	Phone         string      `                                  json:"phone"`
	Address       string      `                                  json:"address"`
	City          string      `                                  json:"city"`
	PostalCode    string      `                                  json:"postal_code"`
	Items         []OrderItem `gorm:"foreignKey:OrderID"         json:"items"`
	CreatedAt     time.Time   `gorm:"index"                      json:"created_at"`
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"   json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"   json:"product_id"`
	Quantity  int       `gorm:"not null;check:quantity>0"  json:"quantity"`
	Price     int64     `gorm:"not null"                   json:"price"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (s *SellerProfile) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// All lists every entity for AutoMigrate.
func All() []any {
	return []any{&User{}, &SellerProfile{}, &Product{}, &Order{}, &OrderItem{}}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
