package category

import (
	"context"

	"arayesh-shop/internal/domain"
)

// Repository persists and fetches categories.
type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}
