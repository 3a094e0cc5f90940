package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode/utf8"

	"arayesh-shop/internal/domain"
	reviewrepo "arayesh-shop/internal/repository/review"
)

const maxCommentLength = 2000

type identity interface {
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
}

type productReader interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

type Service struct {
	repo     reviewrepo.Repository
	identity identity
	products productReader
	logger   *log.Logger
}

func New(repo reviewrepo.Repository, identity identity, products productReader, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, identity: identity, products: products, logger: logger}
}

type CreateInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create stores an unapproved review by the token's owner.
func (s *Service) Create(ctx context.Context, token string, productID int64, in CreateInput) (*domain.Review, error) {
	customer, err := s.identity.LookupByToken(ctx, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return nil, &domain.ValidationError{Field: "rating", Message: fmt.Sprintf("must be between %d and %d", domain.MinRating, domain.MaxRating)}
	}
	comment := strings.TrimSpace(in.Comment)
	if utf8.RuneCountInString(comment) > maxCommentLength {
		return nil, &domain.ValidationError{Field: "comment", Message: "too long"}
	}
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	rv, err := s.repo.Create(ctx, domain.Review{
		ProductID: productID,
		UserID:    customer.ID,
		Rating:    in.Rating,
		Comment:   comment,
	})
	if err != nil {
		s.logger.Printf("review: create product_id=%d user_id=%s error=%v", productID, customer.ID, err)
		return nil, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	s.logger.Printf("review: created review_id=%d product_id=%d rating=%d", rv.ID, productID, rv.Rating)
	return rv, nil
}

// ListApproved returns the visible reviews of a product, newest first.
func (s *Service) ListApproved(ctx context.Context, productID int64) ([]domain.Review, error) {
	list, err := s.repo.ListApproved(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.Review{}, nil
		}
		s.logger.Printf("review: list product_id=%d error=%v", productID, err)
		return nil, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	if list == nil {
		list = []domain.Review{}
	}
	return list, nil
}
