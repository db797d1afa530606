package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"alfredoptarigan/office-letters/internal/models"
	"alfredoptarigan/office-letters/internal/repositories"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSeedPasswordRequired = errors.New("seed password is required to create the seed user")
)

type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	// EnsureSeedUser creates the owner account when no user has the given
	// username. It reports whether a user was created.
	EnsureSeedUser(ctx context.Context, username, password string) (bool, error)
}

type authService struct {
	users repositories.UserRepository
	cost  int
}

func NewAuthService(users repositories.UserRepository) AuthService {
	return &authService{users: users, cost: bcrypt.DefaultCost}
}

// NewAuthServiceWithCost is NewAuthService with an explicit bcrypt cost.
func NewAuthServiceWithCost(users repositories.UserRepository, cost int) AuthService {
	return &authService{users: users, cost: cost}
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *authService) EnsureSeedUser(ctx context.Context, username, password string) (bool, error) {
	count, err := s.users.CountByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to check seed user: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if password == "" {
		return false, ErrSeedPasswordRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return false, fmt.Errorf("failed to hash seed password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleOwner,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return false, fmt.Errorf("failed to create seed user: %w", err)
	}

	return true, nil
}
