package cart

import (
	"context"
	"fmt"
	"io"
	"log"

	"arayesh-shop/internal/domain"
	orderservice "arayesh-shop/internal/service/order"
	"github.com/shopspring/decimal"
)

var (
	ErrSessionNotFound = fmt.Errorf("%w: cart session", domain.ErrNotFound)
	// ErrOutOfStock blocks adding more units than the product has in stock.
	ErrOutOfStock = &domain.ValidationError{Field: "quantity", Message: "insufficient inventory"}
)

type catalogReader interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

type orderSubmitter interface {
	Submit(ctx context.Context, token string, in orderservice.SubmitInput) (*domain.Order, error)
}

// View is a read-only rendering of a cart.
type View struct {
	SessionID string          `json:"session_id"`
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Count     int             `json:"count"`
}

// Shipping is the checkout form.
type Shipping struct {
	Phone      string `json:"phone"`
	PostalCode string `json:"postal_code"`
	Address    string `json:"address"`
}

type Service struct {
	sessions *Sessions
	catalog  catalogReader
	orders   orderSubmitter
	logger   *log.Logger
}

func New(sessions *Sessions, catalog catalogReader, orders orderSubmitter, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{sessions: sessions, catalog: catalog, orders: orders, logger: logger}
}

func (s *Service) Open() (*View, error) {
	id, store, err := s.sessions.Open()
	if err != nil {
		return nil, err
	}
	return view(id, store), nil
}

func (s *Service) Get(sessionID string) (*View, error) {
	store, err := s.store(sessionID)
	if err != nil {
		return nil, err
	}
	return view(sessionID, store), nil
}

// AddProduct loads the product and adds it, refusing quantities above the
// known inventory.
func (s *Service) AddProduct(ctx context.Context, sessionID string, productID int64, quantity int) (*View, error) {
	store, err := s.store(sessionID)
	if err != nil {
		return nil, err
	}
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Inventory != nil && *p.Inventory < quantity {
		return nil, ErrOutOfStock
	}
	if err := store.Add(*p, quantity); err != nil {
		return nil, err
	}
	return view(sessionID, store), nil
}

func (s *Service) UpdateQuantity(sessionID string, productID int64, quantity int) (*View, error) {
	store, err := s.store(sessionID)
	if err != nil {
		return nil, err
	}
	store.UpdateQuantity(productID, quantity)
	return view(sessionID, store), nil
}

func (s *Service) Remove(sessionID string, productID int64) (*View, error) {
	store, err := s.store(sessionID)
	if err != nil {
		return nil, err
	}
	store.Remove(productID)
	return view(sessionID, store), nil
}

func (s *Service) Clear(sessionID string) (*View, error) {
	store, err := s.store(sessionID)
	if err != nil {
		return nil, err
	}
	store.Clear()
	return view(sessionID, store), nil
}

// Checkout submits the cart as an order. Only after the submission succeeds
// are the ordered lines taken out of the cart; changes made while the order
// was being written survive.
func (s *Service) Checkout(ctx context.Context, sessionID, token string, ship Shipping) (*domain.Order, error) {
	store, err := s.store(sessionID)
	if err != nil {
		return nil, err
	}
	lines := store.Lines()
	items := make([]orderservice.ItemInput, len(lines))
	for i, l := range lines {
		items[i] = orderservice.ItemInput{ProductID: l.ProductID, Quantity: l.Quantity, Price: l.Price}
	}
	o, err := s.orders.Submit(ctx, token, orderservice.SubmitInput{
		Phone:      ship.Phone,
		PostalCode: ship.PostalCode,
		Address:    ship.Address,
		Items:      items,
	})
	if err != nil {
		return nil, err
	}
	store.Settle(lines)
	s.logger.Printf("cart: checkout session order_id=%d lines=%d", o.ID, len(lines))
	return o, nil
}

func (s *Service) store(sessionID string) (*Store, error) {
	store, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return store, nil
}

func view(id string, store *Store) *View {
	items := store.Items()
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	return &View{SessionID: id, Items: items, Total: store.TotalPrice(), Count: count}
}
