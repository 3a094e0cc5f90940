package brand

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

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Brand, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, logo_url, created_at FROM brands ORDER BY name`)
	if err != nil {
		r.logger.Printf("brand repo: list error=%v", err)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Brand, error) {
		var b domain.Brand
		err := row.Scan(&b.ID, &b.Name, &b.LogoURL, &b.CreatedAt)
		return b, err
	})
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Brand, error) {
	var b domain.Brand
	err := r.pool.QueryRow(ctx, `SELECT id, name, logo_url, created_at FROM brands WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.LogoURL, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("brand repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, b domain.Brand) (*domain.Brand, error) {
	const q = `
INSERT INTO brands (name, logo_url)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET logo_url = EXCLUDED.logo_url
RETURNING id, name, logo_url, created_at
`
	var res domain.Brand
	if err := r.pool.QueryRow(ctx, q, b.Name, b.LogoURL).Scan(&res.ID, &res.Name, &res.LogoURL, &res.CreatedAt); err != nil {
		r.logger.Printf("brand repo: upsert name=%s error=%v", b.Name, err)
		return nil, err
	}
	return &res, nil
}
