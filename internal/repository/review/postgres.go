package review

import (
	"context"
	"io"
	"log"

	"arayesh-shop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

// Create stores a review. New reviews are never approved.
func (r *postgresRepo) Create(ctx context.Context, rv domain.Review) (*domain.Review, error) {
	const q = `
INSERT INTO product_reviews (product_id, user_id, rating, comment)
VALUES ($1, $2, $3, $4)
RETURNING id, is_approved, created_at
`
	res := rv
	if err := r.pool.QueryRow(ctx, q, rv.ProductID, rv.UserID, rv.Rating, rv.Comment).Scan(&res.ID, &res.IsApproved, &res.CreatedAt); err != nil {
		r.logger.Printf("review repo: create product_id=%d error=%v", rv.ProductID, err)
		return nil, err
	}
	return &res, nil
}

func (r *postgresRepo) ListApproved(ctx context.Context, productID int64) ([]domain.Review, error) {
	const q = `
SELECT id, product_id, user_id::text, rating, comment, is_approved, created_at
FROM product_reviews
WHERE product_id = $1 AND is_approved
ORDER BY created_at DESC, id DESC
`
	rows, err := r.pool.Query(ctx, q, productID)
	if err != nil {
		r.logger.Printf("review repo: list product_id=%d error=%v", productID, err)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Review, error) {
		var rv domain.Review
		err := row.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.IsApproved, &rv.CreatedAt)
		return rv, err
	})
}
