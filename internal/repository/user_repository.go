package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/nischalsh/todo-service/internal/domain"
	"github.com/nischalsh/todo-service/pkg/database"
)

const userColumns = `id, username, fullname, email, password_hash, avatar_url, avatar_object_key, google_id, refresh_token_hash, created_at, updated_at`

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, fullname, email, password_hash, avatar_url, avatar_object_key, google_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	// Generate UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Fullname,
		user.Email,
		user.PasswordHash,
		user.AvatarURL,
		user.AvatarObjectKey,
		user.GoogleID,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return mapUserConstraintError(err, user)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// ExistsByUsernameOrEmail reports whether any user holds the given username or email
func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`

	var exists bool
	if err := r.db.DB.QueryRowContext(ctx, query, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return exists, nil
}

// UpdateProfile updates fullname and email and returns the updated user
func (r *userRepository) UpdateProfile(ctx context.Context, id, fullname, email string) (*domain.User, error) {
	query := fmt.Sprintf(`
		UPDATE users
		SET fullname = $2, email = $3, updated_at = $4
		WHERE id = $1
		RETURNING %s
	`, userColumns)

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, id, fullname, email, time.Now()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
		}
		return nil, mapUserConstraintError(err, &domain.User{Email: email})
	}

	return user, nil
}

// UpdatePassword persists a new password hash, touching nothing else
func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id, passwordHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return requireRowsAffected(result, id)
}

// UpdateAvatar persists a new avatar URL and storage key
func (r *userRepository) UpdateAvatar(ctx context.Context, id, avatarURL, avatarObjectKey string) error {
	query := `UPDATE users SET avatar_url = $2, avatar_object_key = $3, updated_at = $4 WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id, avatarURL, avatarObjectKey, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}

	return requireRowsAffected(result, id)
}

// SetRefreshTokenHash overwrites the stored refresh token hash. Passing nil
// clears it (logout).
func (r *userRepository) SetRefreshTokenHash(ctx context.Context, id string, tokenHash *string) error {
	query := `UPDATE users SET refresh_token_hash = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id, tokenHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}

	return requireRowsAffected(result, id)
}

// Delete removes a user. Todos cascade at the schema level.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return requireRowsAffected(result, id)
}

func requireRowsAffected(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
	}

	return nil
}

func mapUserConstraintError(err error, user *domain.User) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		if strings.Contains(pqErr.Constraint, "username") {
			return fmt.Errorf("user with username %s already exists: %w", user.Username, ErrDuplicateUsername)
		}
		return fmt.Errorf("user with email %s already exists: %w", user.Email, ErrDuplicateEmail)
	}
	return fmt.Errorf("failed to write user: %w", err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	var passwordHash, googleID, refreshTokenHash sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Fullname,
		&user.Email,
		&passwordHash,
		&user.AvatarURL,
		&user.AvatarObjectKey,
		&googleID,
		&refreshTokenHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if passwordHash.Valid {
		user.PasswordHash = &passwordHash.String
	}
	if googleID.Valid {
		user.GoogleID = &googleID.String
	}
	if refreshTokenHash.Valid {
		user.RefreshTokenHash = &refreshTokenHash.String
	}

	return user, nil
}
