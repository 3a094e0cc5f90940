package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"arayesh-shop/internal/domain"
	custrepo "arayesh-shop/internal/repository/customer"
	tokenrepo "arayesh-shop/internal/repository/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when email/password do not match.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)

const passwordMin = 8

// Options configures token signing and lifetimes.
type Options struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Logger     *log.Logger
	Now        func() time.Time
}

// Service registers shoppers, issues their tokens and resolves bearer
// tokens back to a customer.
type Service struct {
	repo       custrepo.Repository
	tokens     *tokenManager
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *log.Logger
	now        func() time.Time
}

func New(repo custrepo.Repository, tokens tokenrepo.Repository, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = time.Hour
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 30 * 24 * time.Hour
	}
	return &Service{
		repo:       repo,
		tokens:     newTokenManager(tokens, opts.Now),
		secret:     []byte(opts.Secret),
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
		logger:     opts.Logger,
		now:        opts.Now,
	}
}

type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Session is the result of a login or refresh.
type Session struct {
	Customer     *domain.Customer `json:"customer,omitempty"`
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token,omitempty"`
	ExpiresIn    int              `json:"expires_in"`
}

// Signup registers a new customer.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Customer, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, &domain.ValidationError{Field: "email", Message: "invalid email"}
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.Create(ctx, domain.Customer{
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     strings.TrimSpace(in.FullName),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	s.logger.Printf("account: signup user_id=%s", c.ID)
	return c, nil
}

// Login validates credentials and issues an access and a refresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	password = strings.TrimSpace(password)
	c, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := signAccessToken(s.secret, c.ID, c.Email, s.now(), s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(ctx, c.ID, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	return &Session{Customer: c, AccessToken: access, RefreshToken: refresh, ExpiresIn: s.AccessTTLSeconds()}, nil
}

// Refresh exchanges a live refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	userID, ok := s.tokens.Validate(ctx, refreshToken)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	c, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	access, err := signAccessToken(s.secret, c.ID, c.Email, s.now(), s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: access, ExpiresIn: s.AccessTTLSeconds()}, nil
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	return nil
}

// LookupByToken resolves a bearer access token to its customer. Every
// failure is reported as domain.ErrUnauthorized.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.Customer, error) {
	claims, err := parseAccessToken(s.secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	c, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Printf("account: identity lookup user_id=%s error=%v", id, err)
		}
		return nil, domain.ErrUnauthorized
	}
	return c, nil
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

func validatePassword(p string) error {
	if len([]rune(p)) < passwordMin {
		return &domain.ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", passwordMin)}
	}
	hasLetter := false
	hasDigit := false
	for _, r := range p {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return &domain.ValidationError{Field: "password", Message: "must contain a letter and a digit"}
	}
	return nil
}
