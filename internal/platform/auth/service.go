package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"SiteIntern-backend/internal/platform/clock"
)

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleEmployee = "employee"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrAuthFailed    = errors.New("authentication failed")
	ErrInvalidRole   = errors.New("invalid role")
)

type AuthService interface {
	Login(ctx context.Context, id, password string) (string, error)
	Register(ctx context.Context, id, password, role string) error
}

type Service struct {
	store  AccountStore
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewService(db *sql.DB, secret []byte, ttl time.Duration) *Service {
	return newService(NewStore(db), secret, ttl, clock.Real())
}

func newService(store AccountStore, secret []byte, ttl time.Duration, c clock.Clock) *Service {
	return &Service{store: store, secret: secret, ttl: ttl, clock: c}
}

func (s *Service) Login(ctx context.Context, id, password string) (string, error) {
	acct, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if acct == nil || acct.IsDisabled {
		return "", ErrAuthFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", ErrAuthFailed
	}
	return IssueToken(s.secret, acct.ID, acct.Role, s.clock.Now().Add(s.ttl))
}

func (s *Service) Register(ctx context.Context, id, password, role string) error {
	switch role {
	case RoleAdmin, RoleHR, RoleEmployee:
	default:
		return ErrInvalidRole
	}

	exists, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exists != nil {
		return ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.Create(ctx, &Account{
		ID:           id,
		PasswordHash: string(hash),
		Role:         role,
	})
}

// IssueToken signs an HS256 token carrying sub/role/exp.
func IssueToken(secret []byte, sub, role string, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	return token.SignedString(secret)
}
