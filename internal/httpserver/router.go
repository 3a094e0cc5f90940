package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"slices"
	"time"

	"arayesh-shop/internal/domain"
	"arayesh-shop/internal/service/account"
	"arayesh-shop/internal/service/cart"
	"arayesh-shop/internal/service/catalog"
	orderservice "arayesh-shop/internal/service/order"
	"arayesh-shop/internal/service/review"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type catalogService interface {
	ListProducts(ctx context.Context, f catalog.Filter) catalog.Result[domain.Product]
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	Categories(ctx context.Context) catalog.Result[domain.Category]
	Category(ctx context.Context, slug string, order catalog.SortOrder) (*catalog.CategoryPage, error)
	Brands(ctx context.Context) catalog.Result[domain.Brand]
	BrandProducts(ctx context.Context, id int64, order catalog.SortOrder) (*catalog.BrandPage, error)
	Slides(ctx context.Context) catalog.Result[domain.Slide]
	Home(ctx context.Context) catalog.HomePage
}

type cartService interface {
	Open() (*cart.View, error)
	Get(sessionID string) (*cart.View, error)
	AddProduct(ctx context.Context, sessionID string, productID int64, quantity int) (*cart.View, error)
	UpdateQuantity(sessionID string, productID int64, quantity int) (*cart.View, error)
	Remove(sessionID string, productID int64) (*cart.View, error)
	Clear(sessionID string) (*cart.View, error)
	Checkout(ctx context.Context, sessionID, token string, ship cart.Shipping) (*domain.Order, error)
}

type orderService interface {
	Submit(ctx context.Context, token string, in orderservice.SubmitInput) (*domain.Order, error)
	Track(ctx context.Context, input string) (*domain.Order, error)
	ListForUser(ctx context.Context, token string) ([]domain.Order, error)
}

type accountService interface {
	Signup(ctx context.Context, in account.SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*account.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*account.Session, error)
	Logout(ctx context.Context, refreshToken string) error
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
}

type reviewService interface {
	Create(ctx context.Context, token string, productID int64, in review.CreateInput) (*domain.Review, error)
	ListApproved(ctx context.Context, productID int64) ([]domain.Review, error)
}

// Deps are the services the API serves.
type Deps struct {
	Catalog     catalogService
	Cart        cartService
	Orders      orderService
	Accounts    accountService
	Reviews     reviewService
	CORSOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.Catalog == nil:
		return errors.New("catalog service is required")
	case d.Cart == nil:
		return errors.New("cart service is required")
	case d.Orders == nil:
		return errors.New("order service is required")
	case d.Accounts == nil:
		return errors.New("account service is required")
	case d.Reviews == nil:
		return errors.New("review service is required")
	}
	return nil
}

type handlers struct {
	Deps
	logger *log.Logger
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	h := &handlers{Deps: deps, logger: logger}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if mw := corsMiddleware(deps.CORSOrigins); mw != nil {
		router.Use(mw)
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/home", h.home)
	router.GET("/slides", h.slides)
	router.GET("/products", h.listProducts)
	router.GET("/products/:id", h.getProduct)
	router.GET("/products/:id/reviews", h.listReviews)
	router.POST("/products/:id/reviews", requireToken(), h.createReview)
	router.GET("/categories", h.listCategories)
	router.GET("/categories/:slug", h.getCategory)
	router.GET("/brands", h.listBrands)
	router.GET("/brands/:id/products", h.brandProducts)

	router.POST("/cart", h.openCart)
	carts := router.Group("/cart", requireCartSession())
	carts.GET("", h.getCart)
	carts.DELETE("", h.clearCart)
	carts.POST("/items", h.addCartItem)
	carts.PATCH("/items/:productId", h.updateCartItem)
	carts.DELETE("/items/:productId", h.removeCartItem)
	carts.POST("/checkout", requireToken(), h.checkout)

	router.POST("/api/orders/bulk", h.submitOrder)
	router.GET("/orders/track", h.trackOrder)

	auth := router.Group("/auth")
	auth.POST("/signup", h.signup)
	auth.POST("/token", h.token)
	auth.POST("/refresh", h.refresh)
	auth.POST("/logout", h.logout)

	me := router.Group("/me", requireToken())
	me.GET("", h.me)
	me.GET("/orders", h.myOrders)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Message: msgNotFound})
	})

	return router, nil
}

// corsMiddleware returns nil when no origin is allowed.
func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", cartSessionHeader},
		ExposeHeaders: []string{cartSessionHeader},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
