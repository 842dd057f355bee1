// Package service implements identity registration and lookup.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flowersales/flowersales/webapp_service/internal/store"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// IdentityService defines the identity operations exposed by the web application.
type IdentityService interface {
	// Register stores a new user with a bcrypt password hash.
	// Returns ErrUserExists if the user name or email is already taken.
	Register(ctx context.Context, dto CreateUserDto) (*UserDto, error)

	// FindByID returns ErrUserNotFound if no user has the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*UserDto, error)

	// FindByEmail matches case-insensitively and returns ErrUserNotFound if nothing matches.
	FindByEmail(ctx context.Context, email string) (*UserDto, error)

	// DeleteByID returns ErrUserNotFound if no user has the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repository store.UserStore
	hashCost   int
}

func NewService(repo store.UserStore) *Service {
	return &Service{repository: repo, hashCost: bcrypt.DefaultCost}
}

type CreateUserDto struct {
	UserName string `json:"user_name" validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
}

// UserDto never carries the password hash or the security stamp.
type UserDto struct {
	ID             uuid.UUID `json:"id"`
	UserName       string    `json:"user_name"`
	Email          string    `json:"email"`
	EmailConfirmed bool      `json:"email_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
}

func (s *Service) Register(ctx context.Context, dto CreateUserDto) (*UserDto, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	created, err := s.repository.Create(ctx, store.User{
		ID:                 uuid.New(),
		UserName:           dto.UserName,
		NormalizedUserName: normalize(dto.UserName),
		Email:              dto.Email,
		NormalizedEmail:    normalize(dto.Email),
		PasswordHash:       string(hash),
		SecurityStamp:      uuid.New(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register user %s: %w", dto.UserName, err)
	}
	return toDto(created), nil
}

func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*UserDto, error) {
	user, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user by ID %s: %w", id, err)
	}
	return toDto(user), nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*UserDto, error) {
	user, err := s.repository.FindByNormalizedEmail(ctx, normalize(email))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}
	return toDto(user), nil
}

func (s *Service) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}

func normalize(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

func toDto(u *store.User) *UserDto {
	return &UserDto{
		ID:             u.ID,
		UserName:       u.UserName,
		Email:          u.Email,
		EmailConfirmed: u.EmailConfirmed,
		CreatedAt:      u.CreatedAt,
	}
}
