package order

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"arayesh-shop/internal/domain"
)

// Track finds an order by id, or else the newest order placed with the
// given phone number. It needs no credentials. Store failures are logged
// and reported as domain.ErrNotFound like an empty result.
func (s *Service) Track(ctx context.Context, input string) (*domain.Order, error) {
	if !s.tracking {
		return nil, ErrTrackingDisabled
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &domain.ValidationError{Field: "input", Message: "order id or phone number required"}
	}

	if id, err := strconv.ParseInt(input, 10, 64); err == nil {
		o, err := s.repo.GetByID(ctx, id)
		switch {
		case err == nil:
			return o, nil
		case !errors.Is(err, domain.ErrNotFound):
			s.logger.Printf("order tracking: lookup by id failed id=%d error=%v", id, err)
		}
	}

	o, err := s.repo.LatestByPhone(ctx, input)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Printf("order tracking: lookup by phone failed error=%v", err)
		}
		return nil, domain.ErrNotFound
	}
	return o, nil
}
