package mail

import (
	"context"
	"errors"
	"strings"
	"testing"

	"arayesh-shop/internal/domain"
	"github.com/keighl/postmark"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []postmark.Email
	res  postmark.EmailResponse
	err  error
}

func (f *fakeSender) SendEmail(e postmark.Email) (postmark.EmailResponse, error) {
	f.sent = append(f.sent, e)
	return f.res, f.err
}

func order() domain.Order {
	return domain.Order{
		ID:         77,
		Address:    "تبریز",
		PostalCode: "5155555555",
		TotalPrice: decimal.NewFromInt(180000),
		Items: []domain.OrderItem{
			{ProductID: 3, ProductName: "کرم <b>", Quantity: 2, Price: decimal.NewFromInt(90000)},
			{ProductID: 4, Quantity: 1, Price: decimal.Zero},
		},
	}
}

func TestOrderPlacedSendsConfirmation(t *testing.T) {
	fs := &fakeSender{res: postmark.EmailResponse{MessageID: "m-1"}}
	m := newMailer(fs, "shop@example.com", nil)

	require.NoError(t, m.OrderPlaced(context.Background(), order(), domain.Customer{Email: "buyer@example.com"}))
	require.Len(t, fs.sent, 1)

	e := fs.sent[0]
	assert.Equal(t, "shop@example.com", e.From)
	assert.Equal(t, "buyer@example.com", e.To)
	assert.Equal(t, confirmationSubject, e.Subject)
	assert.Contains(t, e.HtmlBody, "77")
	assert.Contains(t, e.HtmlBody, "کرم &lt;b&gt;", "product names are escaped")
	assert.Contains(t, e.TextBody, "#4 × 1")
	assert.Equal(t, 4, strings.Count(e.TextBody, "\n")+1)
}

func TestOrderPlacedSkipsCustomersWithoutEmail(t *testing.T) {
	fs := &fakeSender{}
	m := newMailer(fs, "shop@example.com", nil)
	require.NoError(t, m.OrderPlaced(context.Background(), order(), domain.Customer{}))
	assert.Empty(t, fs.sent)
}

func TestOrderPlacedReportsFailures(t *testing.T) {
	m := newMailer(&fakeSender{err: errors.New("timeout")}, "shop@example.com", nil)
	assert.Error(t, m.OrderPlaced(context.Background(), order(), domain.Customer{Email: "a@example.com"}))

	m = newMailer(&fakeSender{res: postmark.EmailResponse{ErrorCode: 300, Message: "Invalid email request"}}, "shop@example.com", nil)
	assert.Error(t, m.OrderPlaced(context.Background(), order(), domain.Customer{Email: "a@example.com"}))
}
