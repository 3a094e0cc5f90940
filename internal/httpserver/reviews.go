package httpserver

import (
	"net/http"

	"arayesh-shop/internal/domain"
	"arayesh-shop/internal/service/review"
	"github.com/gin-gonic/gin"
)

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

type reviewCreatedResponse struct {
	Message string        `json:"message"`
	Review  domain.Review `json:"review"`
}

func (h *handlers) listReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.Reviews.ListApproved(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pageOf(list, len(list), 0))
}

func (h *handlers) createReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	r, err := h.Reviews.Create(c.Request.Context(), tokenFrom(c), id, review.CreateInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, reviewCreatedResponse{Message: msgReviewSubmitted, Review: *r})
}
