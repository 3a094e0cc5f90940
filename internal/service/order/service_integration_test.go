package order

import (
	"context"
	"testing"

	"arayesh-shop/internal/dbtest"
	"arayesh-shop/internal/domain"
	orderrepo "arayesh-shop/internal/repository/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_Postgres_NotifiesWithProductNames(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)

	userID := dbtest.InsertUser(t, pool, "mail@example.com")
	var creamID, maskID int64
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO products (sku, name, price) VALUES ('cream', 'کرم مرطوب کننده', 120000) RETURNING id`).Scan(&creamID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO products (sku, name, price) VALUES ('mask', 'ماسک صورت', 60000) RETURNING id`).Scan(&maskID))

	notifier := &recordingNotifier{}
	customer := domain.Customer{ID: userID, Email: "mail@example.com"}
	svc := New(orderrepo.NewPostgres(pool, nil), &stubIdentity{tokens: map[string]domain.Customer{"tok": customer}}, nil, Options{
		Notifiers: []Notifier{notifier},
	})

	in := validInput()
	in.Items = []ItemInput{
		{ProductID: creamID, Quantity: 1, Price: decimal.NewFromInt(120000)},
		{ProductID: maskID, Quantity: 3, Price: decimal.NewFromInt(60000)},
	}
	o, err := svc.Submit(ctx, "tok", in)
	require.NoError(t, err)
	svc.Wait()

	require.Len(t, notifier.orders, 1)
	sent := notifier.orders[0]
	assert.Equal(t, o.ID, sent.ID)
	require.Len(t, sent.Items, 2)
	assert.Equal(t, "کرم مرطوب کننده", sent.Items[0].ProductName)
	assert.Equal(t, "ماسک صورت", sent.Items[1].ProductName)
	assert.True(t, sent.TotalPrice.Equal(decimal.NewFromInt(300000)), sent.TotalPrice.String())
}
