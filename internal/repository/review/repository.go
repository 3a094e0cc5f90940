package review

import (
	"context"

	"arayesh-shop/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, r domain.Review) (*domain.Review, error)
	ListApproved(ctx context.Context, productID int64) ([]domain.Review, error)
}
