package cart

import (
	"sync"

	"arayesh-shop/internal/domain"
	"github.com/shopspring/decimal"
)

// Item is a cart line. Product is the snapshot taken when the line was
// first added.
type Item struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// UnitPrice is the discounted price of one unit.
func (i Item) UnitPrice() decimal.Decimal {
	return i.Product.DiscountedPrice()
}

func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Store is one shopper's cart. Lines keep insertion order and a product id
// appears at most once. Quantities are always at least 1.
type Store struct {
	mu    sync.Mutex
	items []Item
}

func NewStore() *Store {
	return &Store{}
}

// Add merges quantity into an existing line or appends a new one.
func (s *Store) Add(p domain.Product, quantity int) error {
	if quantity < 1 {
		return &domain.ValidationError{Field: "quantity", Message: "must be at least 1"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(p.ID); i >= 0 {
		s.items[i].Quantity += quantity
		return nil
	}
	s.items = append(s.items, Item{Product: p, Quantity: quantity})
	return nil
}

// Remove drops the line for productID if present.
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(productID); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
}

// UpdateQuantity sets the quantity of an existing line, clamped to 1.
// Unknown products are ignored.
func (s *Store) UpdateQuantity(productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(productID); i >= 0 {
		s.items[i].Quantity = max(1, quantity)
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// Settle takes ordered lines out of the cart. Each line's quantity is
// subtracted from the matching cart line, which is dropped once it reaches
// zero. Lines added or raised after the order was taken stay.
func (s *Store) Settle(ordered []domain.OrderItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range ordered {
		i := s.indexOf(o.ProductID)
		if i < 0 {
			continue
		}
		if s.items[i].Quantity <= o.Quantity {
			s.items = append(s.items[:i], s.items[i+1:]...)
			continue
		}
		s.items[i].Quantity -= o.Quantity
	}
}

// TotalPrice sums discounted line totals without rounding.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Lines converts the cart into order lines priced after discount.
func (s *Store) Lines() []domain.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.OrderItem, len(s.items))
	for i, it := range s.items {
		out[i] = domain.OrderItem{ProductID: it.Product.ID, Quantity: it.Quantity, Price: it.UnitPrice()}
	}
	return out
}

// Len is the number of distinct products.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) indexOf(productID int64) int {
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}
