// Package mail sends order confirmation e-mails through Postmark.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log"
	"strings"

	"arayesh-shop/internal/domain"
	"github.com/keighl/postmark"
	"golang.org/x/text/language"
)

const confirmationSubject = "سفارش شما ثبت شد"

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<div dir="rtl">
<p>سفارش شماره {{.ID}} با موفقیت ثبت شد.</p>
<ul>
{{- range .Lines}}
<li>{{.Name}} × {{.Quantity}}: {{.Price}}</li>
{{- end}}
</ul>
<p>مبلغ کل: {{.Total}}</p>
<p>ارسال به: {{.Address}}، کد پستی {{.PostalCode}}</p>
</div>`))

type sender interface {
	SendEmail(email postmark.Email) (postmark.EmailResponse, error)
}

// Mailer implements the order notifier contract with an e-mail to the buyer.
type Mailer struct {
	client sender
	from   string
	prices domain.PriceFormatter
	logger *log.Logger
}

// NewPostmark builds a Mailer on a Postmark server token.
func NewPostmark(serverToken, from string, logger *log.Logger) *Mailer {
	return newMailer(postmark.NewClient(serverToken, ""), from, logger)
}

func newMailer(client sender, from string, logger *log.Logger) *Mailer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Mailer{client: client, from: from, prices: domain.NewPriceFormatter(language.Persian), logger: logger}
}

type line struct {
	Name     string
	Quantity int
	Price    string
}

type confirmation struct {
	ID         int64
	Lines      []line
	Total      string
	Address    string
	PostalCode string
}

func (m *Mailer) OrderPlaced(_ context.Context, o domain.Order, c domain.Customer) error {
	if c.Email == "" {
		return nil
	}
	data := confirmation{
		ID:         o.ID,
		Total:      m.prices.FormatWithCurrency(o.TotalPrice),
		Address:    o.Address,
		PostalCode: o.PostalCode,
	}
	text := []string{fmt.Sprintf("سفارش شماره %d با موفقیت ثبت شد.", o.ID)}
	for _, it := range o.Items {
		name := it.ProductName
		if name == "" {
			name = fmt.Sprintf("#%d", it.ProductID)
		}
		l := line{Name: name, Quantity: it.Quantity, Price: m.prices.FormatWithCurrency(it.LineTotal())}
		data.Lines = append(data.Lines, l)
		text = append(text, fmt.Sprintf("%s × %d: %s", l.Name, l.Quantity, l.Price))
	}
	text = append(text, "مبلغ کل: "+data.Total)

	var html bytes.Buffer
	if err := confirmationTemplate.Execute(&html, data); err != nil {
		return fmt.Errorf("mail: render confirmation: %w", err)
	}

	res, err := m.client.SendEmail(postmark.Email{
		From:     m.from,
		To:       c.Email,
		Subject:  confirmationSubject,
		HtmlBody: html.String(),
		TextBody: strings.Join(text, "\n"),
		Tag:      "order-confirmation",
	})
	if err != nil {
		return fmt.Errorf("mail: send confirmation order_id=%d: %w", o.ID, err)
	}
	if res.ErrorCode != 0 {
		return fmt.Errorf("mail: postmark rejected order_id=%d: %d %s", o.ID, res.ErrorCode, res.Message)
	}
	m.logger.Printf("mail: confirmation sent order_id=%d message_id=%s", o.ID, res.MessageID)
	return nil
}
