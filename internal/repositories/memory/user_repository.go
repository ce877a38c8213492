package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/finledger/finledger_backend/internal/apperrors"
	"github.com/finledger/finledger_backend/internal/core/domain"
	"github.com/finledger/finledger_backend/internal/core/ports/repositories"
)

// UserRepository is a mutex-guarded in-memory implementation of
// repositories.UserRepositoryFacade, used by tests and local runs without a
// database.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

var _ repositories.UserRepositoryFacade = (*UserRepository)(nil)

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

// SaveUser persists a new user, enforcing email uniqueness.
func (r *UserRepository) SaveUser(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return fmt.Errorf("%w: user with email %s", apperrors.ErrDuplicate, user.Email)
	}
	if _, exists := r.byID[user.UserID]; exists {
		return fmt.Errorf("%w: user %s", apperrors.ErrDuplicate, user.UserID)
	}
	r.byID[user.UserID] = user
	r.byEmail[user.Email] = user.UserID
	return nil
}

// FindUserByID retrieves a specific user by their ID.
func (r *UserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[userID]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}
	return &user, nil
}

// FindUserByEmail retrieves a specific user by their email.
func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("%w: user with email %s", apperrors.ErrNotFound, email)
	}
	user := r.byID[userID]
	return &user, nil
}
