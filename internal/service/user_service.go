package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mtunzisteven/foodStorageManager/internal/auth"
	"github.com/mtunzisteven/foodStorageManager/internal/models"
	"github.com/mtunzisteven/foodStorageManager/internal/storage"
)

// IDAllocator issues unique ids for named counters. Satisfied by
// *sequence.Allocator; defined here so tests can substitute a double.
type IDAllocator interface {
	NextID(ctx context.Context, name string) (int64, error)
}

// UserService handles signup, login and account updates.
type UserService struct {
	store     storage.UserStore
	allocator IDAllocator
	jwt       *auth.JWTManager
	logger    *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(store storage.UserStore, allocator IDAllocator, jwt *auth.JWTManager, logger *slog.Logger) *UserService {
	return &UserService{
		store:     store,
		allocator: allocator,
		jwt:       jwt,
		logger:    logger,
	}
}

// SignupInput is the payload for CreateUser.
type SignupInput struct {
	Email      string
	Password   string
	FamilySize int
}

// CreateUser registers a new account: allocates the next user id, hashes the
// password and inserts the record. Email uniqueness is enforced by the store's
// unique index, so a duplicate signup writes nothing; the sequence id consumed
// before the failed insert is abandoned (a gap, which is acceptable) and logged.
func (s *UserService) CreateUser(ctx context.Context, in SignupInput) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if in.FamilySize < 1 {
		in.FamilySize = 1
	}

	seqID, err := s.allocator.NextID(ctx, models.CounterUsers)
	if err != nil {
		return nil, classifyAllocation(err)
	}

	digest, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	user := models.NewUser(seqID, email, digest, in.FamilySize)
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			s.logger.Info("signup rejected, sequence id abandoned",
				"email", email, "abandoned_id", seqID)
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info("user created", "user_id", user.ID, "seq_id", user.SequenceID)
	return user, nil
}

// Authenticate verifies the email and password and returns the user plus a
// signed session token. Lookup failure and password mismatch are deliberately
// indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", fmt.Errorf("%w: %v", ErrAuthentication, auth.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, "", fmt.Errorf("%w: %v", ErrAuthentication, auth.ErrInvalidCredentials)
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info("user authenticated", "user_id", user.ID)
	return user, token, nil
}

// UpdateUserInput is the payload for UpdateUser. Zero values leave the
// corresponding field unchanged.
type UpdateUserInput struct {
	Email      string
	Password   string
	FamilySize int
}

// UpdateUser applies account changes for the acting user. Read-modify-write,
// last-write-wins: a concurrent update to the same account may be overwritten.
func (s *UserService) UpdateUser(ctx context.Context, actorID string, in UpdateUserInput) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, actorID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if in.Email != "" {
		email := strings.TrimSpace(strings.ToLower(in.Email))
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
		}
		user.Email = email
	}
	if in.Password != "" {
		if err := auth.ValidatePassword(in.Password); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		digest, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		user.PasswordHash = digest
	}
	if in.FamilySize > 0 {
		user.FamilySize = in.FamilySize
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, user.Email)
		}
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info("user updated", "user_id", user.ID)
	return user, nil
}
