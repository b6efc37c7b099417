package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/HughSean/MiniProgram-Backend/internal/domain"
	"github.com/HughSean/MiniProgram-Backend/internal/repository"
	"github.com/HughSean/MiniProgram-Backend/pkg/auth"
)

type AuthSvc struct {
	users      repository.UserRepo
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        zerolog.Logger
}

func NewAuthSvc(users repository.UserRepo, accessTTL, refreshTTL time.Duration, log zerolog.Logger) *AuthSvc {
	return &AuthSvc{users: users, accessTTL: accessTTL, refreshTTL: refreshTTL, log: log.With().Str("component", "auth").Logger()}
}

func (s *AuthSvc) Register(ctx context.Context, name, password, phone, role string) (*domain.User, error) {
	if name == "" || password == "" {
		return nil, domain.ErrInvalidResource("name and password are required")
	}
	r := domain.Role(role)
	if r != domain.RoleUser && r != domain.RoleOwner && r != domain.RoleAdmin {
		r = domain.RoleUser
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, s.storage(err, "hash password")
	}
	u := &domain.User{Name: name, PasswordHash: string(hash), Phone: phone, Role: r}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrNameUsed) {
			return nil, domain.ErrConflict("user name already exists")
		}
		return nil, s.storage(err, "insert user")
	}
	s.log.Info().Str("user", name).Str("role", string(r)).Msg("registered")
	return u, nil
}

// Login returns the user plus an access token and a long-lived refresh token.
func (s *AuthSvc) Login(ctx context.Context, name, password string) (*domain.User, string, string, error) {
	u, err := s.users.ByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", "", domain.ErrUnauthorized("wrong name or password")
		}
		return nil, "", "", s.storage(err, "fetch user")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", "", domain.ErrUnauthorized("wrong name or password")
	}
	access, err := auth.CreateToken(u.ID, string(u.Role), u.Name, s.accessTTL)
	if err != nil {
		return nil, "", "", s.storage(err, "sign access token")
	}
	refresh, err := auth.CreateToken(u.ID, string(u.Role), u.Name, s.refreshTTL)
	if err != nil {
		return nil, "", "", s.storage(err, "sign refresh token")
	}
	return u, access, refresh, nil
}

// Refresh re-issues a short-lived access token from a valid refresh token.
func (s *AuthSvc) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := auth.ParseValidate(refreshToken)
	if err != nil {
		return "", domain.ErrUnauthorized("invalid refresh token")
	}
	// re-read the user so a deleted account can't keep minting tokens
	u, err := s.users.ByID(ctx, claims.Sub)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", domain.ErrUnauthorized("account no longer exists")
		}
		return "", s.storage(err, "fetch user")
	}
	access, err := auth.CreateToken(u.ID, string(u.Role), u.Name, s.accessTTL)
	if err != nil {
		return "", s.storage(err, "sign access token")
	}
	return access, nil
}

func (s *AuthSvc) storage(err error, op string) *domain.Error {
	ref := uuid.NewString()
	s.log.Error().Err(err).Str("ref", ref).Str("op", op).Msg("storage failure")
	return domain.ErrStorage(ref)
}
