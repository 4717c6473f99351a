package service

import (
	"context"
	"errors"
	"time"

	"estate_crm_backend/internal/auth/password"
	"estate_crm_backend/internal/auth/repository"
	"estate_crm_backend/internal/auth/transport"
	"estate_crm_backend/platform/apperr"
	"estate_crm_backend/platform/config"
	"estate_crm_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const accessTokenType = "access"

// Repository is the data access interface needed by the auth service.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.User, error)
	List(ctx context.Context) ([]repository.User, error)
}

type Service struct {
	repo  Repository
	cfg   config.AuthServiceConfig
	log   *logger.Logger
	nowFn func() time.Time
}

func New(repo Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log, nowFn: time.Now}
}

// SignIn verifies credentials and issues a short-lived access token.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (transport.AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.AuthEvent("login", email, false, "unknown email")
			return transport.AuthResponse{}, apperr.Unauthorized("invalid credentials")
		}
		return transport.AuthResponse{}, err
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", email, false, "password mismatch")
		return transport.AuthResponse{}, apperr.Unauthorized("invalid credentials")
	}

	ttl := s.cfg.GetAccessTokenTTL()
	accessToken, err := s.signJWT(user, ttl)
	if err != nil {
		return transport.AuthResponse{}, err
	}

	s.log.AuthEvent("login", email, true, "")
	return transport.AuthResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(ttl.Seconds()),
		User:        toUserResponse(user),
	}, nil
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.UserResponse{}, apperr.NotFound("user not found")
		}
		return transport.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

// ListUsers returns all accounts, for lead assignment pickers.
func (s *Service) ListUsers(ctx context.Context) (transport.UsersResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return transport.UsersResponse{}, err
	}

	items := make([]transport.UserResponse, len(users))
	for i, user := range users {
		items[i] = toUserResponse(user)
	}
	return transport.UsersResponse{Items: items}, nil
}

func (s *Service) signJWT(user repository.User, ttl time.Duration) (string, error) {
	now := s.nowFn()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"type":  accessTokenType,
		"roles": []string{user.Role},
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func toUserResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
