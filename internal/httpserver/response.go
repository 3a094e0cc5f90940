package httpserver

import (
	"time"

	"arayesh-shop/internal/domain"
	"arayesh-shop/internal/service/cart"
	"arayesh-shop/internal/service/catalog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

func init() {
	// Prices go out as JSON numbers, the way the web client reads them.
	decimal.MarshalJSONWithoutQuotes = true
}

var prices = domain.NewPriceFormatter(language.Persian)

const defaultPageSize = 20

type productResponse struct {
	ID                 int64           `json:"id"`
	SKU                string          `json:"sku,omitempty"`
	Name               string          `json:"name"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage int             `json:"discount_percentage"`
	DiscountedPrice    decimal.Decimal `json:"discounted_price"`
	DisplayPrice       string          `json:"display_price"`
	ImageURL           string          `json:"image_url"`
	Description        string          `json:"description,omitempty"`
	Category           string          `json:"category,omitempty"`
	CategorySlug       string          `json:"category_slug,omitempty"`
	Brand              string          `json:"brand,omitempty"`
	BrandID            *int64          `json:"brand_id,omitempty"`
	Inventory          *int            `json:"inventory,omitempty"`
	InStock            bool            `json:"in_stock"`
	Features           []string        `json:"features"`
	CreatedAt          time.Time       `json:"created_at"`
}

func toProductResponse(p domain.Product) productResponse {
	discount := 0
	if p.HasDiscount() {
		discount = *p.DiscountPercentage
	}
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return productResponse{
		ID:                 p.ID,
		SKU:                p.SKU,
		Name:               p.Name,
		Price:              p.Price,
		DiscountPercentage: discount,
		DiscountedPrice:    p.DisplayPrice(),
		DisplayPrice:       prices.FormatWithCurrency(p.DisplayPrice()),
		ImageURL:           p.ImageURL,
		Description:        p.Description,
		Category:           p.Category,
		CategorySlug:       p.CategorySlug,
		Brand:              p.Brand,
		BrandID:            p.BrandID,
		Inventory:          p.Inventory,
		InStock:            p.Inventory == nil || *p.Inventory > 0,
		Features:           features,
		CreatedAt:          p.CreatedAt,
	}
}

// listResponse is a paged collection. Degraded collections are empty and
// carry a message for the shopper.
type listResponse[T any] struct {
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
	Count    int    `json:"count"`
	Total    int    `json:"total"`
	Results  []T    `json:"results"`
	Degraded bool   `json:"degraded,omitempty"`
	Message  string `json:"message,omitempty"`
}

func pageOf[T any](all []T, limit, offset int) listResponse[T] {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	sliced := []T{}
	if offset < len(all) {
		sliced = all[offset:end]
	}
	return listResponse[T]{
		Limit:   limit,
		Offset:  offset,
		Count:   len(sliced),
		Total:   len(all),
		Results: sliced,
	}
}

func productList(r catalog.Result[domain.Product], limit, offset int) listResponse[productResponse] {
	out := make([]productResponse, 0, len(r.Items))
	for _, p := range r.Items {
		out = append(out, toProductResponse(p))
	}
	page := pageOf(out, limit, offset)
	page.Degraded, page.Message = r.Degraded, r.Message
	return page
}

func allProducts(r catalog.Result[domain.Product]) listResponse[productResponse] {
	return productList(r, len(r.Items), 0)
}

func fullList[T any](r catalog.Result[T]) listResponse[T] {
	items := r.Items
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{
		Limit:    len(items),
		Count:    len(items),
		Total:    len(items),
		Results:  items,
		Degraded: r.Degraded,
		Message:  r.Message,
	}
}

type homeResponse struct {
	Slides     listResponse[domain.Slide]    `json:"slides"`
	Categories listResponse[domain.Category] `json:"categories"`
	Products   listResponse[productResponse] `json:"products"`
}

type categoryResponse struct {
	Category domain.Category               `json:"category"`
	Products listResponse[productResponse] `json:"products"`
}

type brandResponse struct {
	Brand    domain.Brand                  `json:"brand"`
	Products listResponse[productResponse] `json:"products"`
}

type cartLineResponse struct {
	Product   productResponse `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type cartResponse struct {
	SessionID    string             `json:"session_id"`
	Items        []cartLineResponse `json:"items"`
	Count        int                `json:"count"`
	Total        decimal.Decimal    `json:"total"`
	DisplayTotal string             `json:"display_total"`
}

func toCartResponse(v *cart.View) cartResponse {
	lines := make([]cartLineResponse, 0, len(v.Items))
	for _, it := range v.Items {
		lines = append(lines, cartLineResponse{
			Product:   toProductResponse(it.Product),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice(),
			LineTotal: it.LineTotal(),
		})
	}
	return cartResponse{
		SessionID:    v.SessionID,
		Items:        lines,
		Count:        v.Count,
		Total:        v.Total,
		DisplayTotal: prices.FormatWithCurrency(v.Total),
	}
}

type customerResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toCustomerResponse(c domain.Customer) customerResponse {
	return customerResponse{ID: c.ID, Email: c.Email, FullName: c.FullName, CreatedAt: c.CreatedAt}
}

type tokenResponse struct {
	AccessToken  string            `json:"access_token"`
	TokenType    string            `json:"token_type"`
	ExpiresIn    int               `json:"expires_in"`
	RefreshToken string            `json:"refresh_token,omitempty"`
	Customer     *customerResponse `json:"customer,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Field   string `json:"field,omitempty"`
}
