package catalog

import (
	"context"
	"errors"
	"testing"

	"arayesh-shop/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("connection refused")

type stubProducts struct {
	all []domain.Product
	err error
}

func (s *stubProducts) List(context.Context) ([]domain.Product, error) { return s.all, s.err }

func (s *stubProducts) ListByCategory(_ context.Context, slug string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.all {
		if p.CategorySlug == slug {
			out = append(out, p)
		}
	}
	return out, s.err
}

func (s *stubProducts) ListByBrand(_ context.Context, id int64) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.all {
		if p.BrandID != nil && *p.BrandID == id {
			out = append(out, p)
		}
	}
	return out, s.err
}

func (s *stubProducts) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.all {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubProducts) GetMany(context.Context, []int64) (map[int64]domain.Product, error) {
	return nil, nil
}

func (s *stubProducts) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, nil
}

type stubCategories struct {
	list []domain.Category
	err  error
}

func (s *stubCategories) List(context.Context) ([]domain.Category, error) { return s.list, s.err }

func (s *stubCategories) GetBySlug(_ context.Context, slug string) (*domain.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, c := range s.list {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCategories) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	return &c, nil
}

type stubBrands struct{ list []domain.Brand }

func (s *stubBrands) List(context.Context) ([]domain.Brand, error) { return s.list, nil }

func (s *stubBrands) GetByID(_ context.Context, id int64) (*domain.Brand, error) {
	for _, b := range s.list {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubBrands) Upsert(_ context.Context, b domain.Brand) (*domain.Brand, error) {
	return &b, nil
}

type stubSlides struct {
	list []domain.Slide
	err  error
}

func (s *stubSlides) List(context.Context) ([]domain.Slide, error) { return s.list, s.err }

func (s *stubSlides) Create(_ context.Context, sl domain.Slide) (*domain.Slide, error) {
	return &sl, nil
}

func prod(id int64, name string, price int64) domain.Product {
	return domain.Product{ID: id, Name: name, Price: decimal.NewFromInt(price)}
}

func ids(list []domain.Product) []int64 {
	out := make([]int64, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func TestSearchIsCaseInsensitiveAndUnicodeAware(t *testing.T) {
	list := []domain.Product{
		prod(1, "Hydrating Cream", 10),
		prod(2, "کرم ضد آفتاب", 20),
		prod(3, "Shampoo", 30),
	}
	assert.Equal(t, []int64{1}, ids(Search(list, "CREAM")))
	assert.Equal(t, []int64{2}, ids(Search(list, "ضد آفتاب")))
	assert.Equal(t, []int64{1, 2, 3}, ids(Search(list, "  ")))
	assert.Empty(t, Search(list, "serum"))
}

func TestSortProducts(t *testing.T) {
	list := []domain.Product{prod(1, "a", 300), prod(2, "b", 100), prod(3, "c", 300), prod(4, "d", 200)}

	if diff := cmp.Diff([]int64{2, 4, 1, 3}, ids(SortProducts(list, SortAsc))); diff != "" {
		t.Fatalf("asc (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{1, 3, 4, 2}, ids(SortProducts(list, SortDesc))); diff != "" {
		t.Fatalf("desc (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{1, 2, 3, 4}, ids(SortProducts(list, SortDefault))); diff != "" {
		t.Fatalf("default (-want +got):\n%s", diff)
	}
	assert.Equal(t, int64(1), list[0].ID, "input left untouched")
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortAsc, ParseSortOrder("ASC"))
	assert.Equal(t, SortDesc, ParseSortOrder("desc"))
	assert.Equal(t, SortDefault, ParseSortOrder("price"))
	assert.Equal(t, SortDefault, ParseSortOrder(""))
}

func TestListProductsFiltersSearchesAndSorts(t *testing.T) {
	brand := int64(5)
	skinA := prod(1, "کرم شب", 300)
	skinA.CategorySlug = "skin"
	skinB := prod(2, "کرم روز", 100)
	skinB.CategorySlug = "skin"
	skinB.BrandID = &brand
	hair := prod(3, "شامپو", 50)
	hair.CategorySlug = "hair"

	svc := New(&stubProducts{all: []domain.Product{skinA, skinB, hair}}, &stubCategories{}, &stubBrands{}, &stubSlides{}, nil)
	ctx := context.Background()

	res := svc.ListProducts(ctx, Filter{CategorySlug: "skin", Sort: SortAsc})
	assert.False(t, res.Degraded)
	assert.Equal(t, []int64{2, 1}, ids(res.Items))

	res = svc.ListProducts(ctx, Filter{BrandID: brand})
	assert.Equal(t, []int64{2}, ids(res.Items))

	res = svc.ListProducts(ctx, Filter{Term: "کرم", Sort: SortDesc})
	assert.Equal(t, []int64{1, 2}, ids(res.Items))
}

func TestListProductsSkipsInvalidRows(t *testing.T) {
	bad := 140
	invalid := prod(2, "broken", 10)
	invalid.DiscountPercentage = &bad
	negative := prod(3, "negative", -5)

	svc := New(&stubProducts{all: []domain.Product{prod(1, "ok", 10), invalid, negative}}, &stubCategories{}, &stubBrands{}, &stubSlides{}, nil)
	res := svc.ListProducts(context.Background(), Filter{})
	assert.Equal(t, []int64{1}, ids(res.Items))

	_, err := svc.GetProduct(context.Background(), 2)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBackendFailureDegrades(t *testing.T) {
	svc := New(&stubProducts{err: errDown}, &stubCategories{err: errDown}, &stubBrands{}, &stubSlides{err: errDown}, nil)
	ctx := context.Background()

	res := svc.ListProducts(ctx, Filter{})
	assert.True(t, res.Degraded)
	assert.Equal(t, UnavailableMessage, res.Message)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)

	home := svc.Home(ctx)
	assert.True(t, home.Slides.Degraded)
	assert.True(t, home.Categories.Degraded)
	assert.True(t, home.Products.Degraded)

	_, err := svc.GetProduct(ctx, 1)
	assert.True(t, errors.Is(err, domain.ErrBackend))
	assert.False(t, errors.Is(err, domain.ErrNotFound))

	_, err = svc.Category(ctx, "skin", SortDefault)
	assert.True(t, errors.Is(err, domain.ErrBackend))
}

func TestCategoryAndBrandPages(t *testing.T) {
	brand := int64(9)
	p := prod(1, "ریمل", 70)
	p.CategorySlug = "makeup"
	p.BrandID = &brand
	svc := New(
		&stubProducts{all: []domain.Product{p}},
		&stubCategories{list: []domain.Category{{ID: 1, Slug: "makeup", Name: "آرایش"}}},
		&stubBrands{list: []domain.Brand{{ID: brand, Name: "Maybelline"}}},
		&stubSlides{list: []domain.Slide{{ID: 1, ImageURL: "https://cdn.example.com/s.jpg"}}},
		nil,
	)
	ctx := context.Background()

	page, err := svc.Category(ctx, "makeup", SortDefault)
	require.NoError(t, err)
	assert.Equal(t, "آرایش", page.Category.Name)
	assert.Equal(t, []int64{1}, ids(page.Products.Items))

	_, err = svc.Category(ctx, "unknown", SortDefault)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	bp, err := svc.BrandProducts(ctx, brand, SortAsc)
	require.NoError(t, err)
	assert.Equal(t, "Maybelline", bp.Brand.Name)
	assert.Len(t, bp.Products.Items, 1)

	_, err = svc.BrandProducts(ctx, 1000, SortAsc)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	home := svc.Home(ctx)
	assert.Len(t, home.Slides.Items, 1)
	assert.Len(t, home.Categories.Items, 1)
	assert.Len(t, svc.Brands(ctx).Items, 1)
}
