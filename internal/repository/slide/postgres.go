package slide

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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Slide, error) {
	const q = `SELECT id, title, image_url, link_url, position FROM slides ORDER BY position, id`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("slide repo: list error=%v", err)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Slide, error) {
		var s domain.Slide
		err := row.Scan(&s.ID, &s.Title, &s.ImageURL, &s.LinkURL, &s.Position)
		return s, err
	})
}

func (r *postgresRepo) Create(ctx context.Context, s domain.Slide) (*domain.Slide, error) {
	const q = `
INSERT INTO slides (title, image_url, link_url, position)
VALUES ($1, $2, $3, $4)
RETURNING id
`
	res := s
	if err := r.pool.QueryRow(ctx, q, s.Title, s.ImageURL, s.LinkURL, s.Position).Scan(&res.ID); err != nil {
		r.logger.Printf("slide repo: create image=%s error=%v", s.ImageURL, err)
		return nil, err
	}
	return &res, nil
}
