package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"arayesh-shop/internal/domain"
	orderservice "arayesh-shop/internal/service/order"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type bulkOrderItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type bulkOrderRequest struct {
	Phone      string          `json:"phone"`
	PostalCode string          `json:"postalCode"`
	Address    string          `json:"address"`
	Items      []bulkOrderItem `json:"items"`
}

func (r bulkOrderRequest) toInput() orderservice.SubmitInput {
	items := make([]orderservice.ItemInput, len(r.Items))
	for i, it := range r.Items {
		items[i] = orderservice.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
	}
	return orderservice.SubmitInput{
		Phone:      r.Phone,
		PostalCode: r.PostalCode,
		Address:    r.Address,
		Items:      items,
	}
}

type orderPlacedResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id,omitempty"`
}

// trackedOrder is what an unauthenticated tracking query may see: no
// address or owner, and a masked phone number.
type trackedOrder struct {
	ID         int64              `json:"id"`
	Status     string             `json:"status"`
	Shipped    bool               `json:"shipped"`
	Phone      string             `json:"phone"`
	TotalPrice decimal.Decimal    `json:"total_price"`
	CreatedAt  time.Time          `json:"created_at"`
	Items      []domain.OrderItem `json:"order_items"`
}

type trackResponse struct {
	Order        trackedOrder `json:"order"`
	DisplayTotal string       `json:"display_total"`
}

func toTrackedOrder(o domain.Order) trackedOrder {
	items := o.Items
	if items == nil {
		items = []domain.OrderItem{}
	}
	return trackedOrder{
		ID:         o.ID,
		Status:     o.Status,
		Shipped:    o.Shipped,
		Phone:      maskPhone(o.Phone),
		TotalPrice: o.TotalPrice,
		CreatedAt:  o.CreatedAt,
		Items:      items,
	}
}

// maskPhone keeps the first four and last two digits.
func maskPhone(phone string) string {
	if len(phone) < 7 {
		return strings.Repeat("*", len(phone))
	}
	return phone[:4] + strings.Repeat("*", len(phone)-6) + phone[len(phone)-2:]
}

// submitOrder checks for the token before reading the body, so a request
// without credentials is a 401 whatever its payload.
func (h *handlers) submitOrder(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: msgTokenMissing})
		return
	}
	var req bulkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Message: msgIncompleteOrder, Detail: err.Error()})
		return
	}
	o, err := h.Orders.Submit(c.Request.Context(), token, req.toInput())
	if err != nil {
		h.writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderPlacedResponse{Message: msgOrderPlaced, OrderID: o.ID})
}

func (h *handlers) writeOrderError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, orderservice.ErrIncomplete):
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Message: msgIncompleteOrder})
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Message: msgIncompleteOrder, Detail: verr.Message, Field: verr.Field})
	case errors.Is(err, domain.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: msgNotAuthenticated})
	default:
		msg := msgOrderInsertFailed
		if orderservice.FailedStage(err) == orderservice.StageItems {
			msg = msgItemsInsertFailed
		}
		h.logger.Printf("http: order submission failed stage=%q error=%v", orderservice.FailedStage(err), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Message: msg, Detail: err.Error()})
	}
}

func (h *handlers) trackOrder(c *gin.Context) {
	o, err := h.Orders.Track(c.Request.Context(), c.Query("input"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Message: msgOrderNotFound})
			return
		}
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, trackResponse{Order: toTrackedOrder(*o), DisplayTotal: prices.FormatWithCurrency(o.TotalPrice)})
}

func (h *handlers) myOrders(c *gin.Context) {
	orders, err := h.Orders.ListForUser(c.Request.Context(), tokenFrom(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pageOf(orders, len(orders), 0))
}
