package brand

import (
	"context"

	"arayesh-shop/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Brand, error)
	GetByID(ctx context.Context, id int64) (*domain.Brand, error)
	Upsert(ctx context.Context, b domain.Brand) (*domain.Brand, error)
}
