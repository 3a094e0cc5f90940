package httpserver

import (
	"errors"
	"net/http"

	"arayesh-shop/internal/service/cart"
	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,min=1"`
	Quantity  *int  `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type checkoutRequest struct {
	Phone      string `json:"phone"`
	PostalCode string `json:"postalCode"`
	Address    string `json:"address"`
}

func (h *handlers) openCart(c *gin.Context) {
	v, err := h.Cart.Open()
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Header(cartSessionHeader, v.SessionID)
	c.JSON(http.StatusCreated, toCartResponse(v))
}

func (h *handlers) getCart(c *gin.Context) {
	h.respondCart(c, http.StatusOK)(h.Cart.Get(cartSession(c)))
}

func (h *handlers) clearCart(c *gin.Context) {
	h.respondCart(c, http.StatusOK)(h.Cart.Clear(cartSession(c)))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	h.respondCart(c, http.StatusOK)(h.Cart.AddProduct(c.Request.Context(), cartSession(c), req.ProductID, quantity))
}

func (h *handlers) updateCartItem(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.respondCart(c, http.StatusOK)(h.Cart.UpdateQuantity(cartSession(c), id, req.Quantity))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	h.respondCart(c, http.StatusOK)(h.Cart.Remove(cartSession(c), id))
}

// checkout hands the cart to order submission and answers the way the bulk
// order endpoint does.
func (h *handlers) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Message: msgIncompleteOrder})
		return
	}
	o, err := h.Cart.Checkout(c.Request.Context(), cartSession(c), tokenFrom(c), cart.Shipping{
		Phone:      req.Phone,
		PostalCode: req.PostalCode,
		Address:    req.Address,
	})
	if err != nil {
		if errors.Is(err, cart.ErrSessionNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Message: msgCartNotFound})
			return
		}
		h.writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderPlacedResponse{Message: msgOrderPlaced, OrderID: o.ID})
}

func (h *handlers) respondCart(c *gin.Context, status int) func(*cart.View, error) {
	return func(v *cart.View, err error) {
		switch {
		case errors.Is(err, cart.ErrSessionNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Message: msgCartNotFound})
		case errors.Is(err, cart.ErrOutOfStock):
			c.AbortWithStatusJSON(http.StatusConflict, errorResponse{Message: msgOutOfStock})
		case err != nil:
			writeError(c, h.logger, err)
		default:
			c.JSON(status, toCartResponse(v))
		}
	}
}
