package order

import (
	"context"
	"errors"
	"io"
	"log"

	"arayesh-shop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id, phone, postal_code, address, total_price, status, shipped, user_id::text, created_at`

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

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, &WriteError{Stage: StageOrder, Err: err}
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (phone, postal_code, address, total_price, user_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + orderColumns

	res, err := scanOrder(tx.QueryRow(ctx, insertOrder, o.Phone, o.PostalCode, o.Address, o.TotalPrice, o.UserID))
	if err != nil {
		r.logger.Printf("order repo: insert order user_id=%s error=%v", o.UserID, err)
		return nil, &WriteError{Stage: StageOrder, Err: err}
	}

	const insertItem = `
WITH ins AS (
	INSERT INTO order_items (order_id, product_id, quantity, price)
	VALUES ($1, $2, $3, $4)
	RETURNING id, product_id
)
SELECT ins.id, COALESCE(p.name, '')
FROM ins
LEFT JOIN products p ON p.id = ins.product_id
`
	batch := &pgx.Batch{}
	for _, it := range o.Items {
		batch.Queue(insertItem, res.ID, it.ProductID, it.Quantity, it.Price)
	}
	br := tx.SendBatch(ctx, batch)
	res.Items = make([]domain.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		it.OrderID = res.ID
		if err := br.QueryRow().Scan(&it.ID, &it.ProductName); err != nil {
			br.Close()
			r.logger.Printf("order repo: insert items failed, rolling back orphan order_id=%d error=%v", res.ID, err)
			return nil, &WriteError{Stage: StageItems, Err: err}
		}
		res.Items = append(res.Items, it)
	}
	if err := br.Close(); err != nil {
		r.logger.Printf("order repo: insert items failed, rolling back orphan order_id=%d error=%v", res.ID, err)
		return nil, &WriteError{Stage: StageItems, Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Printf("order repo: commit order_id=%d error=%v", res.ID, err)
		return nil, &WriteError{Stage: StageItems, Err: err}
	}
	r.logger.Printf("order repo: created order_id=%d items=%d", res.ID, len(res.Items))
	return res, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 LIMIT 1`
	return r.getOne(ctx, q, id)
}

func (r *postgresRepo) LatestByPhone(ctx context.Context, phone string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE phone = $1 ORDER BY created_at DESC, id DESC LIMIT 1`
	return r.getOne(ctx, q, phone)
}

func (r *postgresRepo) getOne(ctx context.Context, q string, arg any) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get arg=%v error=%v", arg, err)
		return nil, err
	}
	items, err := r.itemsFor(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("order repo: list user_id=%s error=%v", userID, err)
		return nil, err
	}
	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) {
		o, err := scanOrder(row)
		if err != nil {
			return domain.Order{}, err
		}
		return *o, nil
	})
	if err != nil {
		r.logger.Printf("order repo: scan user_id=%s error=%v", userID, err)
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

// itemsFor loads the items of the given orders with the current product name.
func (r *postgresRepo) itemsFor(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	const q = `
SELECT oi.id, oi.order_id, oi.product_id, COALESCE(p.name, ''), oi.quantity, oi.price
FROM order_items oi
LEFT JOIN products p ON p.id = oi.product_id
WHERE oi.order_id = ANY($1)
ORDER BY oi.order_id, oi.id
`
	rows, err := r.pool.Query(ctx, q, orderIDs)
	if err != nil {
		r.logger.Printf("order repo: items error=%v", err)
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.Phone, &o.PostalCode, &o.Address, &o.TotalPrice, &o.Status, &o.Shipped, &o.UserID, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
