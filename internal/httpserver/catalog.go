package httpserver

import (
	"net/http"
	"strconv"

	"arayesh-shop/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type productQuery struct {
	Category string `form:"category"`
	Brand    int64  `form:"brand" binding:"omitempty,min=1"`
	Term     string `form:"q"`
	Sort     string `form:"sort"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
}

func (h *handlers) home(c *gin.Context) {
	page := h.Catalog.Home(c.Request.Context())
	c.JSON(http.StatusOK, homeResponse{
		Slides:     fullList(page.Slides),
		Categories: fullList(page.Categories),
		Products:   allProducts(page.Products),
	})
}

func (h *handlers) slides(c *gin.Context) {
	c.JSON(http.StatusOK, fullList(h.Catalog.Slides(c.Request.Context())))
}

func (h *handlers) listProducts(c *gin.Context) {
	var q productQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	res := h.Catalog.ListProducts(c.Request.Context(), catalog.Filter{
		CategorySlug: q.Category,
		BrandID:      q.Brand,
		Term:         q.Term,
		Sort:         catalog.ParseSortOrder(q.Sort),
	})
	c.JSON(http.StatusOK, productList(res, q.Limit, q.Offset))
}

func (h *handlers) getProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*p))
}

func (h *handlers) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, fullList(h.Catalog.Categories(c.Request.Context())))
}

func (h *handlers) getCategory(c *gin.Context) {
	page, err := h.Catalog.Category(c.Request.Context(), c.Param("slug"), catalog.ParseSortOrder(c.Query("sort")))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, categoryResponse{
		Category: page.Category,
		Products: allProducts(page.Products),
	})
}

func (h *handlers) listBrands(c *gin.Context) {
	c.JSON(http.StatusOK, fullList(h.Catalog.Brands(c.Request.Context())))
}

func (h *handlers) brandProducts(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, err := h.Catalog.BrandProducts(c.Request.Context(), id, catalog.ParseSortOrder(c.Query("sort")))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, brandResponse{
		Brand:    page.Brand,
		Products: allProducts(page.Products),
	})
}

// pathID parses a positive integer path parameter. Anything else is
// answered with 404 since no such resource can exist.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Message: msgNotFound})
		return 0, false
	}
	return id, true
}
