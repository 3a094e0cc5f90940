package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"arayesh-shop/internal/domain"
	orderrepo "arayesh-shop/internal/repository/order"
	"github.com/shopspring/decimal"
)

var (
	// ErrIncomplete is returned when shipping fields or items are missing.
	ErrIncomplete = &domain.ValidationError{Message: "incomplete order data"}
	// ErrTrackingDisabled is returned by Track when the lookup is switched off.
	ErrTrackingDisabled = errors.New("order tracking disabled")

	notifyTimeout = 5 * time.Second

	phonePattern  = regexp.MustCompile(`^09\d{9}$`)
	postalPattern = regexp.MustCompile(`^\d{10}$`)
)

// Write stages re-exported for callers that report which insert failed.
const (
	StageOrder = orderrepo.StageOrder
	StageItems = orderrepo.StageItems
)

// FailedStage reports which insert of a failed submission broke.
func FailedStage(err error) orderrepo.Stage {
	return orderrepo.StageOf(err)
}

type identity interface {
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
}

type productReader interface {
	GetMany(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
}

// Notifier is told about every committed order. Failures are logged only.
type Notifier interface {
	OrderPlaced(ctx context.Context, o domain.Order, c domain.Customer) error
}

type Options struct {
	// Reprice replaces caller supplied unit prices with the current
	// discounted catalog price before insert.
	Reprice         bool
	TrackingEnabled bool
	Notifiers       []Notifier
	Logger          *log.Logger
}

type Service struct {
	repo      orderrepo.Repository
	identity  identity
	products  productReader
	reprice   bool
	tracking  bool
	notifiers []Notifier
	logger    *log.Logger

	notifying sync.WaitGroup
}

func New(repo orderrepo.Repository, identity identity, products productReader, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		repo:      repo,
		identity:  identity,
		products:  products,
		reprice:   opts.Reprice,
		tracking:  opts.TrackingEnabled,
		notifiers: opts.Notifiers,
		logger:    opts.Logger,
	}
}

// ItemInput is one checkout line: the unit price is the post-discount price
// the shopper saw.
type ItemInput struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type SubmitInput struct {
	Phone      string      `json:"phone"`
	PostalCode string      `json:"postal_code"`
	Address    string      `json:"address"`
	Items      []ItemInput `json:"items"`
}

// Validate runs the input checks that do not need the identity backend.
func (in SubmitInput) Validate() error {
	if strings.TrimSpace(in.Phone) == "" || strings.TrimSpace(in.PostalCode) == "" ||
		strings.TrimSpace(in.Address) == "" || len(in.Items) == 0 {
		return ErrIncomplete
	}
	for i, it := range in.Items {
		switch {
		case it.ProductID <= 0:
			return &domain.ValidationError{Field: fmt.Sprintf("items[%d].product_id", i), Message: "must be positive"}
		case it.Quantity < 1:
			return &domain.ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be at least 1"}
		case it.Price.IsNegative():
			return &domain.ValidationError{Field: fmt.Sprintf("items[%d].price", i), Message: "must not be negative"}
		}
	}
	if !phonePattern.MatchString(strings.TrimSpace(in.Phone)) {
		return &domain.ValidationError{Field: "phone", Message: "must look like 09xxxxxxxxx"}
	}
	if !postalPattern.MatchString(strings.TrimSpace(in.PostalCode)) {
		return &domain.ValidationError{Field: "postal_code", Message: "must be 10 digits"}
	}
	return nil
}

// Submit validates the request, resolves the caller and stores the order
// with its items in one transaction.
func (s *Service) Submit(ctx context.Context, token string, in SubmitInput) (*domain.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrUnauthorized
	}
	customer, err := s.identity.LookupByToken(ctx, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	items := make([]domain.OrderItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = domain.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
	}
	if s.reprice {
		if items, err = s.repriceItems(ctx, items); err != nil {
			return nil, err
		}
	}

	o, err := s.repo.Create(ctx, domain.Order{
		Phone:      strings.TrimSpace(in.Phone),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Address:    strings.TrimSpace(in.Address),
		TotalPrice: domain.SumItems(items),
		UserID:     customer.ID,
		Items:      items,
	})
	if err != nil {
		s.logger.Printf("order: submit user_id=%s stage=%s error=%v", customer.ID, FailedStage(err), err)
		return nil, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	s.logger.Printf("order: submitted order_id=%d user_id=%s total=%s", o.ID, customer.ID, o.TotalPrice)

	s.notify(ctx, *o, *customer)
	return o, nil
}

func (s *Service) repriceItems(ctx context.Context, items []domain.OrderItem) ([]domain.OrderItem, error) {
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	current, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	out := make([]domain.OrderItem, len(items))
	for i, it := range items {
		p, ok := current[it.ProductID]
		if !ok {
			return nil, &domain.ValidationError{Field: fmt.Sprintf("items[%d].product_id", i), Message: "unknown product"}
		}
		price := p.DiscountedPrice().Round(2)
		if !price.Equal(it.Price) {
			s.logger.Printf("order: repriced product_id=%d submitted=%s current=%s", it.ProductID, it.Price, price)
		}
		it.Price = price
		out[i] = it
	}
	return out, nil
}

// notify tells the notifiers about a committed order in the background.
func (s *Service) notify(ctx context.Context, o domain.Order, c domain.Customer) {
	if len(s.notifiers) == 0 {
		return
	}
	s.notifying.Add(1)
	go func() {
		defer s.notifying.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		for _, n := range s.notifiers {
			if err := n.OrderPlaced(nctx, o, c); err != nil {
				s.logger.Printf("order: notify order_id=%d notifier=%T error=%v", o.ID, n, err)
			}
		}
	}()
}

// Wait blocks until every notification started so far has finished.
func (s *Service) Wait() {
	s.notifying.Wait()
}

// ListForUser returns the caller's orders, newest first.
func (s *Service) ListForUser(ctx context.Context, token string) ([]domain.Order, error) {
	customer, err := s.identity.LookupByToken(ctx, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	orders, err := s.repo.ListByUser(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}
