package order

import (
	"context"
	"errors"
	"fmt"

	"arayesh-shop/internal/domain"
)

// Stage names the write that failed while persisting an order.
type Stage string

const (
	StageOrder Stage = "order"
	StageItems Stage = "items"
)

// WriteError reports which insert of the order transaction failed. The
// transaction is always rolled back when it is returned.
type WriteError struct {
	Stage Stage
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("insert %s: %v", e.Stage, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// StageOf returns the failed stage of err, or "" when err is not a WriteError.
func StageOf(err error) Stage {
	var we *WriteError
	if errors.As(err, &we) {
		return we.Stage
	}
	return ""
}

// Repository persists orders together with their items.
type Repository interface {
	// Create inserts the order and its items in one transaction and returns
	// the stored order with ids, status and timestamps filled in.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	LatestByPhone(ctx context.Context, phone string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
