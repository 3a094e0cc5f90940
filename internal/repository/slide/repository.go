package slide

import (
	"context"

	"arayesh-shop/internal/domain"
)

// Repository stores the home page hero slides.
type Repository interface {
	List(ctx context.Context) ([]domain.Slide, error)
	Create(ctx context.Context, s domain.Slide) (*domain.Slide, error)
}
