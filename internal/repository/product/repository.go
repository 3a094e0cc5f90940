package product

import (
	"context"

	"arayesh-shop/internal/domain"
)

// Repository reads and writes catalog products.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, slug string) ([]domain.Product, error)
	ListByBrand(ctx context.Context, brandID int64) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
