package httpserver

import (
	"errors"
	"log"
	"net/http"

	"arayesh-shop/internal/domain"
	orderservice "arayesh-shop/internal/service/order"
	"github.com/gin-gonic/gin"
)

// Shopper facing messages.
const (
	msgTokenMissing      = "توکن احراز هویت موجود نیست"
	msgNotAuthenticated  = "کاربر احراز هویت نشده"
	msgIncompleteOrder   = "اطلاعات سفارش ناقص است"
	msgOrderInsertFailed = "خطا در ثبت سفارش"
	msgItemsInsertFailed = "خطا در ثبت آیتم‌های سفارش"
	msgOrderPlaced       = "سفارش با موفقیت ثبت شد"
	msgInvalidInput      = "اطلاعات وارد شده نامعتبر است"
	msgNotFound          = "موردی یافت نشد"
	msgOrderNotFound     = "سفارشی با این مشخصات یافت نشد"
	msgAlreadyExists     = "این مورد قبلا ثبت شده است"
	msgTrackingDisabled  = "پیگیری سفارش در حال حاضر امکان‌پذیر نیست"
	msgInternal          = "خطای داخلی سرور"
	msgCartNotFound      = "سبد خرید یافت نشد"
	msgOutOfStock        = "موجودی کالا کافی نیست"
	msgReviewSubmitted   = "نظر شما ثبت شد و پس از تایید نمایش داده می‌شود"
	msgLoggedOut         = "با موفقیت خارج شدید"
)

// statusFor maps the error taxonomy onto an HTTP status and body.
func statusFor(err error) (int, errorResponse) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, orderservice.ErrTrackingDisabled):
		return http.StatusServiceUnavailable, errorResponse{Message: msgTrackingDisabled}
	case errors.As(err, &verr):
		return http.StatusBadRequest, errorResponse{Message: msgInvalidInput, Detail: verr.Message, Field: verr.Field}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errorResponse{Message: msgNotAuthenticated}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Message: msgNotFound}
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, errorResponse{Message: msgAlreadyExists}
	default:
		return http.StatusInternalServerError, errorResponse{Message: msgInternal}
	}
}

func writeError(c *gin.Context, logger *log.Logger, err error) {
	status, body := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Printf("http: %s %s error=%v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Message: msgInvalidInput, Detail: detail})
}
