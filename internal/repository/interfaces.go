package repository

import (
	"context"
	"time"

	"github.com/nischalsh/todo-service/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdateProfile(ctx context.Context, id, fullname, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id, avatarURL, avatarObjectKey string) error
	SetRefreshTokenHash(ctx context.Context, id string, tokenHash *string) error
	Delete(ctx context.Context, id string) error
}

// TodoRepository defines methods for todo operations
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Todo, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Todo, error)
	Update(ctx context.Context, ownerID string, todo *domain.Todo) error
	Delete(ctx context.Context, ownerID, id string) error
	FilterAndSort(ctx context.Context, ownerID, sortKey, filterValue string) ([]*domain.Todo, error)
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	MarkIncompleteAsPendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
