package service

import (
	"context"
	"io"

	"github.com/nischalsh/todo-service/internal/domain"
	"github.com/nischalsh/todo-service/internal/dto"
	"github.com/nischalsh/todo-service/internal/oauth"
)

// AvatarUpload carries an image received from a multipart request.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// LoginResult bundles the sanitized user with a fresh token pair.
type LoginResult struct {
	User   *domain.User
	Tokens domain.TokenPair
}

// AvatarStorage stores and deletes avatar images.
type AvatarStorage interface {
	Upload(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (url, objectKey string, err error)
	Delete(ctx context.Context, objectKey string) error
}

// GoogleExchanger trades an authorization code for a validated profile.
type GoogleExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*oauth.Profile, error)
}

// AuthService defines methods for account and session operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest, avatar *AvatarUpload) (*domain.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	GoogleLogin(ctx context.Context, code string) (*LoginResult, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	UpdateAccount(ctx context.Context, userID string, req *dto.UpdateAccountRequest) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID string, avatar *AvatarUpload) (*domain.User, error)
	DeleteAccount(ctx context.Context, userID string) error
	ValidateAccess(ctx context.Context, token string) (*domain.User, error)
}

// TodoService defines methods for todo operations
type TodoService interface {
	Create(ctx context.Context, ownerID string, req *dto.CreateTodoRequest) (*domain.Todo, error)
	List(ctx context.Context, ownerID string) ([]*domain.Todo, error)
	GetOne(ctx context.Context, ownerID, id string) (*domain.Todo, error)
	Update(ctx context.Context, ownerID, id string, req *dto.UpdateTodoRequest) (*domain.Todo, error)
	Delete(ctx context.Context, ownerID, id string) error
	FilterAndSort(ctx context.Context, ownerID, sortKey, filterValue string) ([]*domain.Todo, error)
}
