package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyLabel is appended to formatted prices.
const CurrencyLabel = "تومان"

// PriceFormatter renders prices in a locale's digit grouping.
type PriceFormatter struct {
	printer *message.Printer
}

// NewPriceFormatter returns a formatter for tag. The storefront uses language.Persian.
func NewPriceFormatter(tag language.Tag) PriceFormatter {
	return PriceFormatter{printer: message.NewPrinter(tag)}
}

// Format rounds the amount to a whole unit and groups its digits.
func (f PriceFormatter) Format(amount decimal.Decimal) string {
	return f.printer.Sprintf("%d", amount.Round(0).IntPart())
}

// FormatWithCurrency is Format followed by the currency label.
func (f PriceFormatter) FormatWithCurrency(amount decimal.Decimal) string {
	return f.Format(amount) + " " + CurrencyLabel
}
