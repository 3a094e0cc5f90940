package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"arayesh-shop/internal/domain"
	"arayesh-shop/internal/service/account"
	"arayesh-shop/internal/service/cart"
	"arayesh-shop/internal/service/catalog"
	orderservice "arayesh-shop/internal/service/order"
	"arayesh-shop/internal/service/review"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func intPtr(v int) *int { return &v }

type stubCatalog struct {
	products   []domain.Product
	categories []domain.Category
	brands     []domain.Brand
	slides     []domain.Slide
	degraded   bool
	getErr     error
	lastFilter catalog.Filter
}

func (s *stubCatalog) result() catalog.Result[domain.Product] {
	if s.degraded {
		return catalog.Result[domain.Product]{Items: []domain.Product{}, Degraded: true, Message: catalog.UnavailableMessage}
	}
	return catalog.Result[domain.Product]{Items: s.products}
}

func (s *stubCatalog) ListProducts(_ context.Context, f catalog.Filter) catalog.Result[domain.Product] {
	s.lastFilter = f
	return s.result()
}

func (s *stubCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalog) Categories(context.Context) catalog.Result[domain.Category] {
	return catalog.Result[domain.Category]{Items: s.categories}
}

func (s *stubCatalog) Category(_ context.Context, slug string, _ catalog.SortOrder) (*catalog.CategoryPage, error) {
	for _, c := range s.categories {
		if c.Slug == slug {
			return &catalog.CategoryPage{Category: c, Products: s.result()}, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalog) Brands(context.Context) catalog.Result[domain.Brand] {
	return catalog.Result[domain.Brand]{Items: s.brands}
}

func (s *stubCatalog) BrandProducts(_ context.Context, id int64, _ catalog.SortOrder) (*catalog.BrandPage, error) {
	for _, b := range s.brands {
		if b.ID == id {
			return &catalog.BrandPage{Brand: b, Products: s.result()}, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalog) Slides(context.Context) catalog.Result[domain.Slide] {
	return catalog.Result[domain.Slide]{Items: s.slides}
}

func (s *stubCatalog) Home(ctx context.Context) catalog.HomePage {
	return catalog.HomePage{Slides: s.Slides(ctx), Categories: s.Categories(ctx), Products: s.result()}
}

type stubOrders struct {
	submitErr error
	submitted []orderservice.SubmitInput
	tokens    []string
	tracked   *domain.Order
	trackErr  error
	mine      []domain.Order
	mineErr   error
}

func (s *stubOrders) Submit(_ context.Context, token string, in orderservice.SubmitInput) (*domain.Order, error) {
	s.tokens = append(s.tokens, token)
	s.submitted = append(s.submitted, in)
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &domain.Order{ID: int64(len(s.submitted)), Status: domain.OrderStatusProcessing}, nil
}

func (s *stubOrders) Track(_ context.Context, _ string) (*domain.Order, error) {
	return s.tracked, s.trackErr
}

func (s *stubOrders) ListForUser(_ context.Context, _ string) ([]domain.Order, error) {
	return s.mine, s.mineErr
}

type stubAccounts struct {
	customer  *domain.Customer
	signupErr error
	loginErr  error
	lookupErr error
	logoutErr error
}

func (s *stubAccounts) Signup(_ context.Context, in account.SignupInput) (*domain.Customer, error) {
	if s.signupErr != nil {
		return nil, s.signupErr
	}
	return &domain.Customer{ID: "cust-id", Email: in.Email, FullName: in.FullName}, nil
}

func (s *stubAccounts) Login(_ context.Context, _, _ string) (*account.Session, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &account.Session{Customer: s.customer, AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 3600}, nil
}

func (s *stubAccounts) Refresh(_ context.Context, token string) (*account.Session, error) {
	if token != "refresh" {
		return nil, domain.ErrUnauthorized
	}
	return &account.Session{AccessToken: "access-2", ExpiresIn: 3600}, nil
}

func (s *stubAccounts) Logout(context.Context, string) error {
	return s.logoutErr
}

func (s *stubAccounts) LookupByToken(_ context.Context, token string) (*domain.Customer, error) {
	if s.lookupErr != nil || token != "access" {
		return nil, domain.ErrUnauthorized
	}
	return s.customer, nil
}

type stubReviews struct {
	approved  []domain.Review
	createErr error
	created   []review.CreateInput
}

func (s *stubReviews) Create(_ context.Context, _ string, productID int64, in review.CreateInput) (*domain.Review, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, in)
	return &domain.Review{ID: 1, ProductID: productID, Rating: in.Rating, Comment: in.Comment}, nil
}

func (s *stubReviews) ListApproved(context.Context, int64) ([]domain.Review, error) {
	return s.approved, nil
}

type testEnv struct {
	router   *gin.Engine
	catalog  *stubCatalog
	orders   *stubOrders
	accounts *stubAccounts
	reviews  *stubReviews
	sessions *cart.Sessions
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "کرم آبرسان", Price: decimal.NewFromInt(120000), DiscountPercentage: intPtr(10), Inventory: intPtr(5)},
		{ID: 2, Name: "رژ لب", Price: decimal.NewFromInt(80000)},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		catalog: &stubCatalog{
			products:   sampleProducts(),
			categories: []domain.Category{{ID: 1, Slug: "skin", Name: "مراقبت پوست"}},
			brands:     []domain.Brand{{ID: 7, Name: "لورآل"}},
			slides:     []domain.Slide{{ID: 1, ImageURL: "/s1.jpg", Position: 1}},
		},
		orders:   &stubOrders{},
		accounts: &stubAccounts{customer: &domain.Customer{ID: "cust-id", Email: "a@example.com", CreatedAt: time.Unix(0, 0).UTC()}},
		reviews:  &stubReviews{},
		sessions: cart.NewSessions(time.Hour),
	}
	router, err := buildRouter(logDiscard(), nil, Deps{
		Catalog:  env.catalog,
		Cart:     cart.New(env.sessions, env.catalog, env.orders, logDiscard()),
		Orders:   env.orders,
		Accounts: env.accounts,
		Reviews:  env.reviews,
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	env.router = router
	return env
}

func (e *testEnv) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}
