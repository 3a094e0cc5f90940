package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"arayesh-shop/internal/domain"
	brandrepo "arayesh-shop/internal/repository/brand"
	categoryrepo "arayesh-shop/internal/repository/category"
	productrepo "arayesh-shop/internal/repository/product"
	sliderepo "arayesh-shop/internal/repository/slide"
)

// UnavailableMessage is shown in place of a collection the store could not load.
const UnavailableMessage = "خطا در دریافت اطلاعات. لطفا دوباره تلاش کنید."

type SortOrder string

const (
	SortDefault SortOrder = "default"
	SortAsc     SortOrder = "asc"
	SortDesc    SortOrder = "desc"
)

// ParseSortOrder maps unknown values to SortDefault.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortAsc:
		return SortAsc
	case SortDesc:
		return SortDesc
	default:
		return SortDefault
	}
}

// Result is a collection read. When the store fails the collection is empty
// and Degraded is set; callers render Message instead of failing.
type Result[T any] struct {
	Items    []T    `json:"items"`
	Degraded bool   `json:"degraded,omitempty"`
	Message  string `json:"message,omitempty"`
}

type Filter struct {
	CategorySlug string
	BrandID      int64
	Term         string
	Sort         SortOrder
}

type CategoryPage struct {
	Category domain.Category        `json:"category"`
	Products Result[domain.Product] `json:"products"`
}

type BrandPage struct {
	Brand    domain.Brand           `json:"brand"`
	Products Result[domain.Product] `json:"products"`
}

type HomePage struct {
	Slides     Result[domain.Slide]    `json:"slides"`
	Categories Result[domain.Category] `json:"categories"`
	Products   Result[domain.Product]  `json:"products"`
}

type Service struct {
	products   productrepo.Repository
	categories categoryrepo.Repository
	brands     brandrepo.Repository
	slides     sliderepo.Repository
	logger     *log.Logger
}

func New(products productrepo.Repository, categories categoryrepo.Repository, brands brandrepo.Repository, slides sliderepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{products: products, categories: categories, brands: brands, slides: slides, logger: logger}
}

// ListProducts fetches all products, or those of one category or brand, then
// applies the search term and sort order over the fetched collection.
func (s *Service) ListProducts(ctx context.Context, f Filter) Result[domain.Product] {
	var (
		list []domain.Product
		err  error
	)
	switch {
	case f.CategorySlug != "":
		list, err = s.products.ListByCategory(ctx, f.CategorySlug)
	case f.BrandID > 0:
		list, err = s.products.ListByBrand(ctx, f.BrandID)
	default:
		list, err = s.products.List(ctx)
	}
	if err != nil {
		s.logger.Printf("catalog: list products filter=%+v error=%v", f, err)
		return degraded[domain.Product]()
	}
	list = s.validOnly(list)
	list = Search(list, f.Term)
	list = SortProducts(list, f.Sort)
	return Result[domain.Product]{Items: list}
}

// GetProduct returns one product or domain.ErrNotFound.
func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		s.logger.Printf("catalog: get product id=%d error=%v", id, err)
		return nil, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	if err := p.Validate(); err != nil {
		s.logger.Printf("catalog: skipping invalid product id=%d: %v", id, err)
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *Service) Categories(ctx context.Context) Result[domain.Category] {
	list, err := s.categories.List(ctx)
	if err != nil {
		s.logger.Printf("catalog: list categories error=%v", err)
		return degraded[domain.Category]()
	}
	return Result[domain.Category]{Items: nonNil(list)}
}

// Category returns a category with its products. An unknown slug is
// domain.ErrNotFound.
func (s *Service) Category(ctx context.Context, slug string, order SortOrder) (*CategoryPage, error) {
	c, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		s.logger.Printf("catalog: get category slug=%s error=%v", slug, err)
		return nil, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	return &CategoryPage{
		Category: *c,
		Products: s.ListProducts(ctx, Filter{CategorySlug: slug, Sort: order}),
	}, nil
}

func (s *Service) Brands(ctx context.Context) Result[domain.Brand] {
	list, err := s.brands.List(ctx)
	if err != nil {
		s.logger.Printf("catalog: list brands error=%v", err)
		return degraded[domain.Brand]()
	}
	return Result[domain.Brand]{Items: nonNil(list)}
}

func (s *Service) BrandProducts(ctx context.Context, id int64, order SortOrder) (*BrandPage, error) {
	b, err := s.brands.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		s.logger.Printf("catalog: get brand id=%d error=%v", id, err)
		return nil, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	return &BrandPage{
		Brand:    *b,
		Products: s.ListProducts(ctx, Filter{BrandID: id, Sort: order}),
	}, nil
}

func (s *Service) Slides(ctx context.Context) Result[domain.Slide] {
	list, err := s.slides.List(ctx)
	if err != nil {
		s.logger.Printf("catalog: list slides error=%v", err)
		return degraded[domain.Slide]()
	}
	return Result[domain.Slide]{Items: nonNil(list)}
}

// Home gathers everything the landing page renders. Each part degrades on
// its own.
func (s *Service) Home(ctx context.Context) HomePage {
	return HomePage{
		Slides:     s.Slides(ctx),
		Categories: s.Categories(ctx),
		Products:   s.ListProducts(ctx, Filter{}),
	}
}

// Search keeps products whose name contains term, ignoring case. An empty
// term keeps everything.
func Search(products []domain.Product, term string) []domain.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return products
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}

// SortProducts orders a copy of products by base price. SortDefault keeps
// the fetch order. Equal prices keep their relative order.
func SortProducts(products []domain.Product, order SortOrder) []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)
	switch order {
	case SortAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	}
	return out
}

func (s *Service) validOnly(list []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(list))
	for _, p := range list {
		if err := p.Validate(); err != nil {
			s.logger.Printf("catalog: skipping invalid product id=%d: %v", p.ID, err)
			continue
		}
		out = append(out, p)
	}
	return out
}

func degraded[T any]() Result[T] {
	return Result[T]{Items: []T{}, Degraded: true, Message: UnavailableMessage}
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
