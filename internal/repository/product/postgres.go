package product

import (
	"context"
	"errors"
	"io"
	"log"

	"arayesh-shop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const columns = `id, sku, name, price, image_url, discount_percentage, COALESCE(description, ''),
       COALESCE(category, ''), COALESCE(category_slug, ''), inventory, COALESCE(brand, ''), brand_id, features, created_at`

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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `SELECT ` + columns + ` FROM products ORDER BY id`
	return r.list(ctx, "all", q)
}

func (r *postgresRepo) ListByCategory(ctx context.Context, slug string) ([]domain.Product, error) {
	const q = `SELECT ` + columns + ` FROM products WHERE category_slug = $1 ORDER BY id`
	return r.list(ctx, "category="+slug, q, slug)
}

func (r *postgresRepo) ListByBrand(ctx context.Context, brandID int64) ([]domain.Product, error) {
	const q = `SELECT ` + columns + ` FROM products WHERE brand_id = $1 ORDER BY id`
	return r.list(ctx, "brand", q, brandID)
}

func (r *postgresRepo) list(ctx context.Context, scope, q string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list %s error=%v", scope, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Printf("product repo: scan %s error=%v", scope, err)
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows %s error=%v", scope, err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const q = `SELECT ` + columns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) GetMany(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	const q = `SELECT ` + columns + ` FROM products WHERE id = ANY($1)`
	list, err := r.list(ctx, "ids", q, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]domain.Product, len(list))
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (sku, name, price, image_url, discount_percentage, description, category, category_slug, inventory, brand, brand_id, features)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, NULLIF($10, ''), $11, COALESCE($12, '{}'::text[]))
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    image_url = EXCLUDED.image_url,
    discount_percentage = EXCLUDED.discount_percentage,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    category_slug = EXCLUDED.category_slug,
    inventory = EXCLUDED.inventory,
    brand = EXCLUDED.brand,
    brand_id = EXCLUDED.brand_id,
    features = EXCLUDED.features
RETURNING id, created_at
`
	res := p
	err := r.pool.QueryRow(ctx, q,
		p.SKU,
		p.Name,
		p.Price,
		p.ImageURL,
		p.DiscountPercentage,
		p.Description,
		p.Category,
		p.CategorySlug,
		p.Inventory,
		p.Brand,
		p.BrandID,
		p.Features,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert sku=%s error=%v", p.SKU, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted sku=%s id=%d", res.SKU, res.ID)
	return &res, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.SKU,
		&p.Name,
		&p.Price,
		&p.ImageURL,
		&p.DiscountPercentage,
		&p.Description,
		&p.Category,
		&p.CategorySlug,
		&p.Inventory,
		&p.Brand,
		&p.BrandID,
		&p.Features,
		&p.CreatedAt,
	)
	return p, err
}
