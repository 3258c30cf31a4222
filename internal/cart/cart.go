package cart

import (
	"slices"

	"github.com/google/uuid"
)

type Outcome int

const (
	OutcomeNoop Outcome = iota
	OutcomeApplied
	OutcomeClamped
	OutcomeRefusedAtCap
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeClamped:
		return "clamped"
	case OutcomeRefusedAtCap:
		return "refused_at_cap"
	default:
		return "noop"
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Result reports what a mutation did. Quantity is the entry's quantity
// after the call, or 0 when no entry exists.
type Result struct {
	Outcome  Outcome `json:"outcome"`
	Quantity int     `json:"quantity"`
}

type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"`
	ImageRef  string    `json:"image,omitempty"`
	Quantity  int       `json:"quantity"`
	MaxStock  int       `json:"max_stock"`
	SellerID  uuid.UUID `json:"seller_id"`
}

// Candidate is the catalog snapshot captured when a product is added.
type Candidate struct {
	ProductID uuid.UUID
	Name      string
	UnitPrice int64
	ImageRef  string
	MaxStock  int
	SellerID  uuid.UUID
}

// Cart holds entries keyed by product id in insertion order.
// Every entry satisfies 1 <= Quantity <= MaxStock. It is not safe for
// concurrent use.
type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// Restore rebuilds a cart from a snapshot. Entries that cannot satisfy the
// bounds are dropped, out of range quantities are clamped and repeated
// product ids keep their first occurrence.
func Restore(items []Item) *Cart {
	c := New()
	for _, it := range items {
		if it.MaxStock < 1 || c.find(it.ProductID) >= 0 {
			continue
		}
		it.Quantity = clamp(it.Quantity, it.MaxStock)
		c.items = append(c.items, it)
	}
	return c
}

func (c *Cart) find(id uuid.UUID) int {
	return slices.IndexFunc(c.items, func(it Item) bool { return it.ProductID == id })
}

func clamp(n, maxStock int) int {
	if n < 1 {
		return 1
	}
	if n > maxStock {
		return maxStock
	}
	return n
}

// AddItem inserts a new entry with quantity 1 or increments an existing one.
// The increment is refused when it would pass the entry's recorded MaxStock.
func (c *Cart) AddItem(cand Candidate) Result {
	if i := c.find(cand.ProductID); i >= 0 {
		it := &c.items[i]
		if it.Quantity >= it.MaxStock {
			return Result{Outcome: OutcomeRefusedAtCap, Quantity: it.Quantity}
		}
		it.Quantity++
		return Result{Outcome: OutcomeApplied, Quantity: it.Quantity}
	}

	if cand.MaxStock < 1 {
		return Result{Outcome: OutcomeRefusedAtCap}
	}

	c.items = append(c.items, Item{
		ProductID: cand.ProductID,
		Name:      cand.Name,
		UnitPrice: cand.UnitPrice,
		ImageRef:  cand.ImageRef,
		Quantity:  1,
		MaxStock:  cand.MaxStock,
		SellerID:  cand.SellerID,
	})
	return Result{Outcome: OutcomeApplied, Quantity: 1}
}

func (c *Cart) RemoveItem(id uuid.UUID) Result {
	i := c.find(id)
	if i < 0 {
		return Result{Outcome: OutcomeNoop}
	}
	c.items = slices.Delete(c.items, i, i+1)
	return Result{Outcome: OutcomeApplied}
}

// UpdateQuantity clamps requested into [1, MaxStock]. It never removes the
// entry, a request of 0 or less lands on 1.
func (c *Cart) UpdateQuantity(id uuid.UUID, requested int) Result {
	i := c.find(id)
	if i < 0 {
		return Result{Outcome: OutcomeNoop}
	}

	it := &c.items[i]
	it.Quantity = clamp(requested, it.MaxStock)
	if it.Quantity != requested {
		return Result{Outcome: OutcomeClamped, Quantity: it.Quantity}
	}
	return Result{Outcome: OutcomeApplied, Quantity: it.Quantity}
}

func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, it := range c.items {
		total += it.Quantity
	}
	return total
}

func (c *Cart) Subtotal() int64 {
	var total int64
	for _, it := range c.items {
		total += it.UnitPrice * int64(it.Quantity)
	}
	return total
}

// Items returns a copy in insertion order.
func (c *Cart) Items() []Item {
	return slices.Clone(c.items)
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) Get(id uuid.UUID) (Item, bool) {
	i := c.find(id)
	if i < 0 {
		return Item{}, false
	}
	return c.items[i], true
}
