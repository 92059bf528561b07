package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nischalsh/todo-service/internal/domain"
	"github.com/nischalsh/todo-service/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	todoOwnerID = "8f4f4d0e-0000-4000-8000-000000000001"
	todoID      = "8f4f4d0e-0000-4000-8000-0000000000aa"
)

func newTodoRepoMock(t *testing.T) (TodoRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTodoRepository(&database.Postgres{DB: db}), mock
}

func todoRows(todos ...*domain.Todo) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "description", "priority", "status",
		"completed_at", "created_at", "updated_at",
	})
	for _, todo := range todos {
		var completedAt interface{}
		if todo.CompletedAt != nil {
			completedAt = *todo.CompletedAt
		}
		rows.AddRow(todo.ID, todo.UserID, todo.Title, todo.Description,
			todo.Priority, todo.Status, completedAt, todo.CreatedAt, todo.UpdatedAt)
	}
	return rows
}

func sampleTodo() *domain.Todo {
	return &domain.Todo{
		ID:        todoID,
		UserID:    todoOwnerID,
		Title:     "water plants",
		Priority:  domain.PriorityMedium,
		Status:    domain.StatusIncomplete,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestListByOwnerOrdersNewestFirst(t *testing.T) {
	repo, mock := newTodoRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM todos WHERE user_id = $1 ORDER BY created_at DESC`)).
		WithArgs(todoOwnerID).
		WillReturnRows(todoRows(sampleTodo()))

	todos, err := repo.ListByOwner(context.Background(), todoOwnerID)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "water plants", todos[0].Title)
	assert.Nil(t, todos[0].CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDScopesToOwner(t *testing.T) {
	repo, mock := newTodoRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM todos WHERE id = $1 AND user_id = $2`)).
		WithArgs(todoID, todoOwnerID).
		WillReturnRows(todoRows())

	_, err := repo.GetByID(context.Background(), todoOwnerID, todoID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingTodo(t *testing.T) {
	repo, mock := newTodoRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE todos`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), todoOwnerID, sampleTodo())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingTodoIsNoOp(t *testing.T) {
	repo, mock := newTodoRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todos WHERE id = $1 AND user_id = $2`)).
		WithArgs(todoID, todoOwnerID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), todoOwnerID, todoID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilterAndSortPrioritySQL(t *testing.T) {
	repo, mock := newTodoRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`ORDER BY CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END ASC, created_at DESC`)).
		WithArgs(todoOwnerID).
		WillReturnRows(todoRows())

	_, err := repo.FilterAndSort(context.Background(), todoOwnerID, "priority", "")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilterAndSortNarrowsByValue(t *testing.T) {
	repo, mock := newTodoRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE user_id = $1 AND status = $2 ORDER BY status ASC, created_at DESC`)).
		WithArgs(todoOwnerID, domain.StatusCompleted).
		WillReturnRows(todoRows())

	_, err := repo.FilterAndSort(context.Background(), todoOwnerID, "status", domain.StatusCompleted)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilterAndSortUnknownKeyKeepsNaturalOrder(t *testing.T) {
	repo, mock := newTodoRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, title, description, priority, status, completed_at, created_at, updated_at FROM todos WHERE user_id = $1`)).
		WithArgs(todoOwnerID).
		WillReturnRows(todoRows())

	_, err := repo.FilterAndSort(context.Background(), todoOwnerID, "title", "whatever")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCompletedBefore(t *testing.T) {
	repo, mock := newTodoRepoMock(t)
	cutoff := time.Now().Add(-24 * time.Hour)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todos WHERE status = $1 AND completed_at <= $2`)).
		WithArgs(domain.StatusCompleted, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.DeleteCompletedBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkIncompleteAsPendingBefore(t *testing.T) {
	repo, mock := newTodoRepoMock(t)
	cutoff := time.Now().Add(-24 * time.Hour)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE todos SET status = $1, updated_at = $2 WHERE status = $3 AND created_at <= $4`)).
		WithArgs(domain.StatusPending, sqlmock.AnyArg(), domain.StatusIncomplete, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 2))

	moved, err := repo.MarkIncompleteAsPendingBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 2, moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}
