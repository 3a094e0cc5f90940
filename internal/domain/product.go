package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Product struct {
	ID                 int64           `json:"id"`
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	Price              decimal.Decimal `json:"price"`
	ImageURL           string          `json:"image_url"`
	DiscountPercentage *int            `json:"discount_percentage,omitempty"`
	Description        string          `json:"description,omitempty"`
	Category           string          `json:"category,omitempty"`
	CategorySlug       string          `json:"category_slug,omitempty"`
	Inventory          *int            `json:"inventory,omitempty"`
	Brand              string          `json:"brand,omitempty"`
	BrandID            *int64          `json:"brand_id,omitempty"`
	Features           []string        `json:"features,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// HasDiscount reports whether a non-zero discount applies.
func (p Product) HasDiscount() bool {
	return p.DiscountPercentage != nil && *p.DiscountPercentage > 0
}

// DiscountedPrice returns price × (1 − discount/100) without rounding.
func (p Product) DiscountedPrice() decimal.Decimal {
	if !p.HasDiscount() {
		return p.Price
	}
	factor := hundred.Sub(decimal.NewFromInt(int64(*p.DiscountPercentage))).Div(hundred)
	return p.Price.Mul(factor)
}

// DisplayPrice is the discounted price rounded to the nearest whole currency unit.
func (p Product) DisplayPrice() decimal.Decimal {
	return p.DiscountedPrice().Round(0)
}

// Validate checks the row invariants the storefront relies on.
func (p Product) Validate() error {
	if p.ID <= 0 {
		return &ValidationError{Field: "id", Message: "must be positive"}
	}
	if p.Name == "" {
		return &ValidationError{Field: "name", Message: "required"}
	}
	if p.Price.IsNegative() {
		return &ValidationError{Field: "price", Message: "must not be negative"}
	}
	if d := p.DiscountPercentage; d != nil && (*d < 0 || *d > 100) {
		return &ValidationError{Field: "discount_percentage", Message: "must be between 0 and 100"}
	}
	if p.Inventory != nil && *p.Inventory < 0 {
		return &ValidationError{Field: "inventory", Message: "must not be negative"}
	}
	return nil
}
