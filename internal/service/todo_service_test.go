package service

import (
	"context"
	"testing"

	"github.com/nischalsh/todo-service/internal/domain"
	"github.com/nischalsh/todo-service/internal/dto"
	"github.com/nischalsh/todo-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerAlice = "c3a1f1f0-0000-4000-8000-000000000001"
	ownerBob   = "c3a1f1f0-0000-4000-8000-000000000002"
)

func newTodoFixture() (TodoService, *mockTodoRepo) {
	repo := newMockTodoRepo()
	return NewTodoService(repo), repo
}

func strptr(s string) *string { return &s }

func TestCreateTodo(t *testing.T) {
	svc, _ := newTodoFixture()
	ctx := context.Background()

	todo, err := svc.Create(ctx, ownerAlice, &dto.CreateTodoRequest{
		Title:       "  buy milk  ",
		Description: "two liters",
		Priority:    domain.PriorityHigh,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, todo.ID)
	assert.Equal(t, ownerAlice, todo.UserID)
	assert.Equal(t, "buy milk", todo.Title)
	assert.Equal(t, domain.PriorityHigh, todo.Priority)
	assert.Equal(t, domain.StatusIncomplete, todo.Status)
	assert.Nil(t, todo.CompletedAt)
}

func TestCreateTodoDefaults(t *testing.T) {
	svc, _ := newTodoFixture()

	todo, err := svc.Create(context.Background(), ownerAlice, &dto.CreateTodoRequest{Title: "water plants"})
	require.NoError(t, err)

	assert.Equal(t, domain.PriorityMedium, todo.Priority)
	assert.Equal(t, domain.StatusIncomplete, todo.Status)
}

func TestCreateTodoBlankTitle(t *testing.T) {
	svc, _ := newTodoFixture()

	_, err := svc.Create(context.Background(), ownerAlice, &dto.CreateTodoRequest{Title: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateTodoUnknownPriority(t *testing.T) {
	svc, _ := newTodoFixture()

	_, err := svc.Create(context.Background(), ownerAlice, &dto.CreateTodoRequest{
		Title:    "task",
		Priority: "urgent",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetOneForeignTodo(t *testing.T) {
	svc, _ := newTodoFixture()
	ctx := context.Background()

	todo, err := svc.Create(ctx, ownerAlice, &dto.CreateTodoRequest{Title: "private"})
	require.NoError(t, err)

	_, err = svc.GetOne(ctx, ownerBob, todo.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetOneInvalidID(t *testing.T) {
	svc, _ := newTodoFixture()

	_, err := svc.GetOne(context.Background(), ownerAlice, "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateTodoCompletion(t *testing.T) {
	svc, _ := newTodoFixture()
	ctx := context.Background()

	todo, err := svc.Create(ctx, ownerAlice, &dto.CreateTodoRequest{Title: "task"})
	require.NoError(t, err)

	completed, err := svc.Update(ctx, ownerAlice, todo.ID, &dto.UpdateTodoRequest{
		Status: strptr(domain.StatusCompleted),
	})
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)

	// Flipping back to any non-completed status clears the stamp.
	reopened, err := svc.Update(ctx, ownerAlice, todo.ID, &dto.UpdateTodoRequest{
		Status: strptr(domain.StatusPending),
	})
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)
}

func TestUpdateTodoPartial(t *testing.T) {
	svc, _ := newTodoFixture()
	ctx := context.Background()

	todo, err := svc.Create(ctx, ownerAlice, &dto.CreateTodoRequest{
		Title:       "task",
		Description: "original",
		Priority:    domain.PriorityLow,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, ownerAlice, todo.ID, &dto.UpdateTodoRequest{
		Title: strptr("renamed"),
	})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "original", updated.Description)
	assert.Equal(t, domain.PriorityLow, updated.Priority)
}

func TestUpdateTodoBlankTitle(t *testing.T) {
	svc, _ := newTodoFixture()
	ctx := context.Background()

	todo, err := svc.Create(ctx, ownerAlice, &dto.CreateTodoRequest{Title: "task"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, ownerAlice, todo.ID, &dto.UpdateTodoRequest{Title: strptr("  ")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateTodoUnknownStatus(t *testing.T) {
	svc, _ := newTodoFixture()
	ctx := context.Background()

	todo, err := svc.Create(ctx, ownerAlice, &dto.CreateTodoRequest{Title: "task"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, ownerAlice, todo.ID, &dto.UpdateTodoRequest{Status: strptr("archived")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateForeignTodo(t *testing.T) {
	svc, _ := newTodoFixture()
	ctx := context.Background()

	todo, err := svc.Create(ctx, ownerAlice, &dto.CreateTodoRequest{Title: "task"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, ownerBob, todo.ID, &dto.UpdateTodoRequest{Title: strptr("stolen")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteTodoIdempotent(t *testing.T) {
	svc, repo := newTodoFixture()
	ctx := context.Background()

	todo, err := svc.Create(ctx, ownerAlice, &dto.CreateTodoRequest{Title: "task"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, ownerAlice, todo.ID))
	assert.Empty(t, repo.todos)

	// Deleting again, or deleting someone else's id, is a silent no-op.
	assert.NoError(t, svc.Delete(ctx, ownerAlice, todo.ID))
	assert.NoError(t, svc.Delete(ctx, ownerBob, todo.ID))
}

func TestDeleteForeignTodoKeepsRow(t *testing.T) {
	svc, repo := newTodoFixture()
	ctx := context.Background()

	todo, err := svc.Create(ctx, ownerAlice, &dto.CreateTodoRequest{Title: "task"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, ownerBob, todo.ID))
	assert.Len(t, repo.todos, 1)
}

func TestFilterAndSortValidation(t *testing.T) {
	svc, _ := newTodoFixture()
	ctx := context.Background()

	_, err := svc.FilterAndSort(ctx, ownerAlice, "status", "archived")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.FilterAndSort(ctx, ownerAlice, "priority", "urgent")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFilterAndSortByPriority(t *testing.T) {
	svc, _ := newTodoFixture()
	ctx := context.Background()

	for _, p := range []string{domain.PriorityLow, domain.PriorityHigh, domain.PriorityMedium} {
		_, err := svc.Create(ctx, ownerAlice, &dto.CreateTodoRequest{Title: p + " task", Priority: p})
		require.NoError(t, err)
	}

	todos, err := svc.FilterAndSort(ctx, ownerAlice, "priority", "")
	require.NoError(t, err)
	require.Len(t, todos, 3)

	assert.Equal(t, domain.PriorityHigh, todos[0].Priority)
	assert.Equal(t, domain.PriorityMedium, todos[1].Priority)
	assert.Equal(t, domain.PriorityLow, todos[2].Priority)
}

func TestFilterAndSortByStatusValue(t *testing.T) {
	svc, _ := newTodoFixture()
	ctx := context.Background()

	first, err := svc.Create(ctx, ownerAlice, &dto.CreateTodoRequest{Title: "done"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, ownerAlice, first.ID, &dto.UpdateTodoRequest{Status: strptr(domain.StatusCompleted)})
	require.NoError(t, err)

	_, err = svc.Create(ctx, ownerAlice, &dto.CreateTodoRequest{Title: "open"})
	require.NoError(t, err)

	todos, err := svc.FilterAndSort(ctx, ownerAlice, "status", domain.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "done", todos[0].Title)
}
