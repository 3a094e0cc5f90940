// Package dbtest provides a migrated PostgreSQL pool for repository
// integration tests. TEST_DB_DSN points the tests at an existing database;
// otherwise a throwaway container is started.
package dbtest

import (
	"context"
	"os"
	"testing"

	"arayesh-shop/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const image = "postgres:17.6-alpine3.22"

// Pool returns a migrated, truncated pool. The test is skipped with -short.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}
	ctx := context.Background()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		ctr, err := postgres.Run(ctx, image,
			postgres.WithDatabase("arayesh_test"),
			postgres.WithUsername("arayesh"),
			postgres.WithPassword("arayesh"),
			postgres.BasicWaitStrategies(),
		)
		if err != nil {
			t.Fatalf("postgres.Run: %v", err)
		}
		t.Cleanup(func() {
			if err := testcontainers.TerminateContainer(ctr); err != nil {
				t.Logf("terminate container: %v", err)
			}
		})
		dsn, err = ctr.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			t.Fatalf("ConnectionString: %v", err)
		}
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	Reset(t, pool)
	return pool
}

// Reset empties every storefront table.
func Reset(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	const q = `TRUNCATE product_reviews, order_items, orders, products, slides, brands, categories, tokens, users RESTART IDENTITY CASCADE`
	if _, err := pool.Exec(context.Background(), q); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

// InsertUser creates a bare user row and returns its id.
func InsertUser(t *testing.T, pool *pgxpool.Pool, email string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (email, password_hash) VALUES ($1, 'x') RETURNING id::text`, email).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}
