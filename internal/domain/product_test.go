package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

func intPtr(v int) *int { return &v }

func TestDiscountedPrice(t *testing.T) {
	cases := []struct {
		name     string
		price    string
		discount *int
		want     string
		display  string
	}{
		{"no discount", "250000", nil, "250000", "250000"},
		{"zero discount", "250000", intPtr(0), "250000", "250000"},
		{"ten percent", "250000", intPtr(10), "225000", "225000"},
		{"fractional", "99999", intPtr(15), "84999.15", "84999"},
		{"full discount", "1000", intPtr(100), "0", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Product{Price: decimal.RequireFromString(tc.price), DiscountPercentage: tc.discount}
			if got := p.DiscountedPrice(); !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("discounted price = %s, want %s", got, tc.want)
			}
			if got := p.DisplayPrice(); !got.Equal(decimal.RequireFromString(tc.display)) {
				t.Fatalf("display price = %s, want %s", got, tc.display)
			}
		})
	}
}

func TestProductValidate(t *testing.T) {
	valid := Product{ID: 1, Name: "کرم", Price: decimal.NewFromInt(10)}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid product, got %v", err)
	}

	bad := []Product{
		{ID: 0, Name: "x", Price: decimal.NewFromInt(1)},
		{ID: 1, Name: "", Price: decimal.NewFromInt(1)},
		{ID: 1, Name: "x", Price: decimal.NewFromInt(-1)},
		{ID: 1, Name: "x", Price: decimal.NewFromInt(1), DiscountPercentage: intPtr(101)},
		{ID: 1, Name: "x", Price: decimal.NewFromInt(1), Inventory: intPtr(-2)},
	}
	for i, p := range bad {
		err := p.Validate()
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestSumItems(t *testing.T) {
	items := []OrderItem{
		{ProductID: 1, Quantity: 2, Price: decimal.RequireFromString("100.50")},
		{ProductID: 2, Quantity: 1, Price: decimal.NewFromInt(30)},
	}
	if got := SumItems(items); !got.Equal(decimal.NewFromInt(231)) {
		t.Fatalf("sum = %s, want 231", got)
	}
	if got := SumItems(nil); !got.IsZero() {
		t.Fatalf("empty sum = %s", got)
	}
}

func TestPriceFormatter(t *testing.T) {
	f := NewPriceFormatter(language.English)
	if got := f.Format(decimal.RequireFromString("1234567.6")); got != "1,234,568" {
		t.Fatalf("format = %q", got)
	}
	if got := f.FormatWithCurrency(decimal.NewFromInt(500)); got != "500 "+CurrencyLabel {
		t.Fatalf("format with currency = %q", got)
	}
}
