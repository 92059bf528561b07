package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/nischalsh/todo-service/internal/domain"
	"github.com/nischalsh/todo-service/pkg/database"
)

const todoColumns = `id, user_id, title, description, priority, status, completed_at, created_at, updated_at`

// priorityRank orders priorities high < medium < low, with anything
// unrecognized sorting last.
const priorityRank = `CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END`

// todoRepository implements TodoRepository interface
type todoRepository struct {
	db *database.Postgres
	sb sq.StatementBuilderType
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *database.Postgres) TodoRepository {
	return &todoRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Create creates a new todo in the database
func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	query := `
		INSERT INTO todos (id, user_id, title, description, priority, status, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}

	now := time.Now()
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = now
	}
	if todo.UpdatedAt.IsZero() {
		todo.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.Priority,
		todo.Status,
		todo.CompletedAt,
		todo.CreatedAt,
		todo.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

// GetByID retrieves a todo scoped to its owner. An id belonging to another
// user is indistinguishable from a missing record.
func (r *todoRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	query := fmt.Sprintf(`SELECT %s FROM todos WHERE id = $1 AND user_id = $2`, todoColumns)

	todo, err := scanTodo(r.db.DB.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("todo with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get todo by id: %w", err)
	}

	return todo, nil
}

// ListByOwner retrieves all todos for a user, newest first
func (r *todoRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Todo, error) {
	query := fmt.Sprintf(`SELECT %s FROM todos WHERE user_id = $1 ORDER BY created_at DESC`, todoColumns)

	rows, err := r.db.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	return collectTodos(rows)
}

// Update writes the mutable todo fields, scoped to the owner
func (r *todoRepository) Update(ctx context.Context, ownerID string, todo *domain.Todo) error {
	query := `
		UPDATE todos
		SET title = $3, description = $4, priority = $5, status = $6, completed_at = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2
	`

	todo.UpdatedAt = time.Now()

	result, err := r.db.DB.ExecContext(ctx, query,
		todo.ID,
		ownerID,
		todo.Title,
		todo.Description,
		todo.Priority,
		todo.Status,
		todo.CompletedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("todo with id %s not found: %w", todo.ID, ErrNotFound)
	}

	return nil
}

// Delete removes a todo scoped to the owner. Deleting a missing or foreign
// todo is a no-op.
func (r *todoRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	if _, err := r.db.DB.ExecContext(ctx, query, id, ownerID); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	return nil
}

// FilterAndSort retrieves the owner's todos, optionally narrowed by a
// status/priority value and ordered by the requested key:
//
//	priority  - high, medium, low, then unknown; ties newest first
//	createdAt - newest first
//	status    - alphabetical; ties newest first
//
// Any other sort key returns the store's natural order.
func (r *todoRepository) FilterAndSort(ctx context.Context, ownerID, sortKey, filterValue string) ([]*domain.Todo, error) {
	builder := r.sb.Select(todoColumns).
		From("todos").
		Where(sq.Eq{"user_id": ownerID})

	if filterValue != "" {
		switch sortKey {
		case "status":
			builder = builder.Where(sq.Eq{"status": filterValue})
		case "priority":
			builder = builder.Where(sq.Eq{"priority": filterValue})
		}
	}

	switch sortKey {
	case "priority":
		builder = builder.OrderBy(priorityRank+" ASC", "created_at DESC")
	case "createdAt":
		builder = builder.OrderBy("created_at DESC")
	case "status":
		builder = builder.OrderBy("status ASC", "created_at DESC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build filter query: %w", err)
	}

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter todos: %w", err)
	}
	defer rows.Close()

	return collectTodos(rows)
}

// DeleteCompletedBefore hard-deletes completed todos whose completion time
// is at or before the cutoff
func (r *todoRepository) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM todos WHERE status = $1 AND completed_at <= $2`

	result, err := r.db.DB.ExecContext(ctx, query, domain.StatusCompleted, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete completed todos: %w", err)
	}

	return result.RowsAffected()
}

// MarkIncompleteAsPendingBefore moves incomplete todos created at or before
// the cutoff to pending
func (r *todoRepository) MarkIncompleteAsPendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE todos SET status = $1, updated_at = $2 WHERE status = $3 AND created_at <= $4`

	result, err := r.db.DB.ExecContext(ctx, query, domain.StatusPending, time.Now(), domain.StatusIncomplete, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to mark stale todos pending: %w", err)
	}

	return result.RowsAffected()
}

func scanTodo(row rowScanner) (*domain.Todo, error) {
	todo := &domain.Todo{}
	var completedAt sql.NullTime

	err := row.Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Description,
		&todo.Priority,
		&todo.Status,
		&completedAt,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		todo.CompletedAt = &completedAt.Time
	}

	return todo, nil
}

func collectTodos(rows *sql.Rows) ([]*domain.Todo, error) {
	var todos []*domain.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}
