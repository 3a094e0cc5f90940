package category

import (
	"context"
	"errors"
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

// NewPostgres creates a Postgres-backed category repository.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT id, slug, name, image_url, created_at
FROM categories
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("category repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var res []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.ImageURL, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	const q = `
SELECT id, slug, name, image_url, created_at
FROM categories
WHERE slug = $1
`
	var c domain.Category
	err := r.pool.QueryRow(ctx, q, slug).Scan(&c.ID, &c.Slug, &c.Name, &c.ImageURL, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("category repo: get slug=%s error=%v", slug, err)
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (slug, name, image_url)
VALUES ($1, $2, $3)
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    image_url = EXCLUDED.image_url
RETURNING id, slug, name, image_url, created_at
`
	var res domain.Category
	if err := r.pool.QueryRow(ctx, q, c.Slug, c.Name, c.ImageURL).Scan(&res.ID, &res.Slug, &res.Name, &res.ImageURL, &res.CreatedAt); err != nil {
		r.logger.Printf("category repo: upsert slug=%s error=%v", c.Slug, err)
		return nil, err
	}
	return &res, nil
}
