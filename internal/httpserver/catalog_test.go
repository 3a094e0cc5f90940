package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"arayesh-shop/internal/domain"
	"arayesh-shop/internal/service/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProducts_PassesFilter(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/products?category=skin&q=%DA%A9%D8%B1%D9%85&sort=desc", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, catalog.Filter{CategorySlug: "skin", Term: "کرم", Sort: catalog.SortDesc}, env.catalog.lastFilter)

	body := decode[listResponse[productResponse]](t, rec)
	assert.Equal(t, 2, body.Total)
	require.Len(t, body.Results, 2)

	first := body.Results[0]
	assert.Equal(t, 10, first.DiscountPercentage)
	assert.True(t, decimal.NewFromInt(108000).Equal(first.DiscountedPrice), first.DiscountedPrice.String())
	assert.True(t, first.InStock)
	assert.NotEmpty(t, first.DisplayPrice)
	assert.Equal(t, []string{}, body.Results[1].Features)
}

func TestListProducts_Paging(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/products?limit=1&offset=1", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[listResponse[productResponse]](t, rec)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, int64(2), body.Results[0].ID)
}

func TestListProducts_BadQuery(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/products?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProducts_Degraded(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.degraded = true

	rec := env.do(http.MethodGet, "/products", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[listResponse[productResponse]](t, rec)
	assert.True(t, body.Degraded)
	assert.Equal(t, catalog.UnavailableMessage, body.Message)
	assert.Empty(t, body.Results)
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/products/2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "رژ لب", decode[productResponse](t, rec).Name)

	rec = env.do(http.MethodGet, "/products/99", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, "/products/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProduct_BackendFailure(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.getErr = fmt.Errorf("%w: %w", domain.ErrBackend, errors.New("db down"))

	rec := env.do(http.MethodGet, "/products/1", "", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgInternal, decode[errorResponse](t, rec).Message)
}

func TestHome(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/home", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[homeResponse](t, rec)
	assert.Len(t, body.Slides.Results, 1)
	assert.Len(t, body.Categories.Results, 1)
	assert.Len(t, body.Products.Results, 2)
}

func TestCategoryAndBrandPages(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/categories/skin", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cat := decode[categoryResponse](t, rec)
	assert.Equal(t, "skin", cat.Category.Slug)
	assert.Len(t, cat.Products.Results, 2)

	rec = env.do(http.MethodGet, "/categories/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, "/brands/7/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), decode[brandResponse](t, rec).Brand.ID)

	rec = env.do(http.MethodGet, "/brands", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[listResponse[domain.Brand]](t, rec).Total)

	rec = env.do(http.MethodGet, "/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[listResponse[domain.Category]](t, rec).Total)
}

func TestPageOf(t *testing.T) {
	all := []int{1, 2, 3}
	assert.Equal(t, []int{3}, pageOf(all, 2, 2).Results)
	assert.Equal(t, []int{}, pageOf(all, 2, 5).Results)
	page := pageOf(all, 0, -1)
	assert.Equal(t, defaultPageSize, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.Equal(t, 3, page.Count)
}
