package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"arayesh-shop/internal/domain"
	orderservice "arayesh-shop/internal/service/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog map[int64]domain.Product

func (s stubCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

type stubOrders struct {
	got   []orderservice.SubmitInput
	token string
	err   error
	// during runs while the order is being submitted.
	during func()
}

func (s *stubOrders) Submit(_ context.Context, token string, in orderservice.SubmitInput) (*domain.Order, error) {
	s.got = append(s.got, in)
	s.token = token
	if s.during != nil {
		s.during()
	}
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{ID: 11}, nil
}

func newService(orders *stubOrders) *Service {
	two := 2
	ten := 10
	catalog := stubCatalog{
		1: {ID: 1, Name: "کرم", Price: decimal.NewFromInt(100000), DiscountPercentage: &ten, Inventory: &two},
		2: {ID: 2, Name: "شامپو", Price: decimal.NewFromInt(50000)},
	}
	return New(NewSessions(time.Hour), catalog, orders, nil)
}

func TestServiceAddBlocksOverInventory(t *testing.T) {
	svc := newService(&stubOrders{})
	v, err := svc.Open()
	require.NoError(t, err)

	_, err = svc.AddProduct(context.Background(), v.SessionID, 1, 3)
	assert.True(t, errors.Is(err, ErrOutOfStock))
	assert.True(t, errors.Is(err, domain.ErrValidation))

	v, err = svc.AddProduct(context.Background(), v.SessionID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Count)

	v, err = svc.AddProduct(context.Background(), v.SessionID, 2, 5)
	require.NoError(t, err, "nil inventory is unlimited")
	assert.Equal(t, 7, v.Count)
	assert.Equal(t, "430000", v.Total.String())

	_, err = svc.AddProduct(context.Background(), v.SessionID, 404, 1)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestServiceUnknownSession(t *testing.T) {
	svc := newService(&stubOrders{})
	_, err := svc.Get("missing")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = svc.AddProduct(context.Background(), "missing", 1, 1)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestServiceUpdateRemoveClear(t *testing.T) {
	svc := newService(&stubOrders{})
	v, _ := svc.Open()
	id := v.SessionID
	_, err := svc.AddProduct(context.Background(), id, 2, 3)
	require.NoError(t, err)

	v, err = svc.UpdateQuantity(id, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Count)

	v, err = svc.Remove(id, 2)
	require.NoError(t, err)
	assert.Empty(t, v.Items)

	_, _ = svc.AddProduct(context.Background(), id, 2, 1)
	v, err = svc.Clear(id)
	require.NoError(t, err)
	assert.Zero(t, v.Count)
}

func TestServiceCheckout(t *testing.T) {
	orders := &stubOrders{}
	svc := newService(orders)
	v, _ := svc.Open()
	_, err := svc.AddProduct(context.Background(), v.SessionID, 1, 1)
	require.NoError(t, err)
	_, err = svc.AddProduct(context.Background(), v.SessionID, 2, 2)
	require.NoError(t, err)

	ship := Shipping{Phone: "09121234567", PostalCode: "1234567890", Address: "شیراز"}
	o, err := svc.Checkout(context.Background(), v.SessionID, "tok", ship)
	require.NoError(t, err)
	assert.Equal(t, int64(11), o.ID)
	assert.Equal(t, "tok", orders.token)

	require.Len(t, orders.got, 1)
	in := orders.got[0]
	require.Len(t, in.Items, 2)
	assert.Equal(t, "90000", in.Items[0].Price.String(), "post-discount unit price")
	assert.Equal(t, 2, in.Items[1].Quantity)

	after, _ := svc.Get(v.SessionID)
	assert.Zero(t, after.Count, "cart cleared after success")
}

func TestServiceCheckoutKeepsCartOnFailure(t *testing.T) {
	orders := &stubOrders{err: domain.ErrUnauthorized}
	svc := newService(orders)
	v, _ := svc.Open()
	_, err := svc.AddProduct(context.Background(), v.SessionID, 2, 1)
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), v.SessionID, "", Shipping{})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	after, _ := svc.Get(v.SessionID)
	assert.Equal(t, 1, after.Count)
}

func TestServiceCheckoutKeepsLinesChangedMeanwhile(t *testing.T) {
	orders := &stubOrders{}
	svc := newService(orders)
	ctx := context.Background()
	v, err := svc.Open()
	require.NoError(t, err)
	id := v.SessionID

	_, err = svc.AddProduct(ctx, id, 1, 1)
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, id, 2, 1)
	require.NoError(t, err)

	orders.during = func() {
		_, err := svc.AddProduct(ctx, id, 2, 2)
		require.NoError(t, err)
	}
	_, err = svc.Checkout(ctx, id, "tok", Shipping{Phone: "09121234567", PostalCode: "1234567890", Address: "تبریز"})
	require.NoError(t, err)

	require.Len(t, orders.got, 1)
	require.Len(t, orders.got[0].Items, 2)
	assert.Equal(t, 1, orders.got[0].Items[1].Quantity)

	v, err = svc.Get(id)
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, int64(2), v.Items[0].Product.ID)
	assert.Equal(t, 2, v.Items[0].Quantity)
}
