package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nischalsh/todo-service/internal/domain"
	"github.com/nischalsh/todo-service/internal/oauth"
	"github.com/nischalsh/todo-service/internal/repository"
)

// mockUserRepo is an in-memory UserRepository for service tests.
type mockUserRepo struct {
	users map[string]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return fmt.Errorf("duplicate: %w", repository.ErrDuplicateEmail)
		}
		if existing.Username == user.Username {
			return fmt.Errorf("duplicate: %w", repository.ErrDuplicateUsername)
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if user, ok := m.users[id]; ok {
		return copyUser(user), nil
	}
	return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, repository.ErrNotFound)
}

func (m *mockUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	for _, user := range m.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id, fullname, email string) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user.Fullname = fullname
	user.Email = email
	user.UpdatedAt = time.Now()
	return copyUser(user), nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = &passwordHash
	return nil
}

func (m *mockUserRepo) UpdateAvatar(ctx context.Context, id, avatarURL, avatarObjectKey string) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.AvatarURL = avatarURL
	user.AvatarObjectKey = avatarObjectKey
	return nil
}

func (m *mockUserRepo) SetRefreshTokenHash(ctx context.Context, id string, tokenHash *string) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.RefreshTokenHash = tokenHash
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

// mockTodoRepo is an in-memory TodoRepository for service tests.
type mockTodoRepo struct {
	todos map[string]*domain.Todo
}

func newMockTodoRepo() *mockTodoRepo {
	return &mockTodoRepo{todos: make(map[string]*domain.Todo)}
}

func copyTodo(t *domain.Todo) *domain.Todo {
	c := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

func (m *mockTodoRepo) Create(ctx context.Context, todo *domain.Todo) error {
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	now := time.Now()
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = now
	}
	todo.UpdatedAt = now
	m.todos[todo.ID] = copyTodo(todo)
	return nil
}

func (m *mockTodoRepo) GetByID(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	todo, ok := m.todos[id]
	if !ok || todo.UserID != ownerID {
		return nil, fmt.Errorf("todo %s: %w", id, repository.ErrNotFound)
	}
	return copyTodo(todo), nil
}

func (m *mockTodoRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Todo, error) {
	var todos []*domain.Todo
	for _, todo := range m.todos {
		if todo.UserID == ownerID {
			todos = append(todos, copyTodo(todo))
		}
	}
	sort.Slice(todos, func(i, j int) bool {
		return todos[i].CreatedAt.After(todos[j].CreatedAt)
	})
	return todos, nil
}

func (m *mockTodoRepo) Update(ctx context.Context, ownerID string, todo *domain.Todo) error {
	existing, ok := m.todos[todo.ID]
	if !ok || existing.UserID != ownerID {
		return fmt.Errorf("todo %s: %w", todo.ID, repository.ErrNotFound)
	}
	todo.UpdatedAt = time.Now()
	m.todos[todo.ID] = copyTodo(todo)
	return nil
}

func (m *mockTodoRepo) Delete(ctx context.Context, ownerID, id string) error {
	todo, ok := m.todos[id]
	if ok && todo.UserID == ownerID {
		delete(m.todos, id)
	}
	return nil
}

func (m *mockTodoRepo) FilterAndSort(ctx context.Context, ownerID, sortKey, filterValue string) ([]*domain.Todo, error) {
	todos, _ := m.ListByOwner(ctx, ownerID)

	if filterValue != "" {
		filtered := todos[:0]
		for _, todo := range todos {
			switch sortKey {
			case "status":
				if todo.Status == filterValue {
					filtered = append(filtered, todo)
				}
			case "priority":
				if todo.Priority == filterValue {
					filtered = append(filtered, todo)
				}
			}
		}
		if sortKey == "status" || sortKey == "priority" {
			todos = filtered
		}
	}

	rank := map[string]int{domain.PriorityHigh: 1, domain.PriorityMedium: 2, domain.PriorityLow: 3}
	switch sortKey {
	case "priority":
		sort.SliceStable(todos, func(i, j int) bool {
			ri, ok := rank[todos[i].Priority]
			if !ok {
				ri = 4
			}
			rj, ok := rank[todos[j].Priority]
			if !ok {
				rj = 4
			}
			if ri != rj {
				return ri < rj
			}
			return todos[i].CreatedAt.After(todos[j].CreatedAt)
		})
	case "status":
		sort.SliceStable(todos, func(i, j int) bool {
			if todos[i].Status != todos[j].Status {
				return todos[i].Status < todos[j].Status
			}
			return todos[i].CreatedAt.After(todos[j].CreatedAt)
		})
	}

	return todos, nil
}

func (m *mockTodoRepo) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, todo := range m.todos {
		if todo.Status == domain.StatusCompleted && todo.CompletedAt != nil && !todo.CompletedAt.After(cutoff) {
			delete(m.todos, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockTodoRepo) MarkIncompleteAsPendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var moved int64
	for _, todo := range m.todos {
		if todo.Status == domain.StatusIncomplete && !todo.CreatedAt.After(cutoff) {
			todo.Status = domain.StatusPending
			moved++
		}
	}
	return moved, nil
}

// fakeAvatarStorage records uploads and deletes and can be told to fail.
type fakeAvatarStorage struct {
	failUpload bool
	failDelete bool
	uploads    int
	deleted    []string
}

func (f *fakeAvatarStorage) Upload(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (string, string, error) {
	if f.failUpload {
		return "", "", errors.New("storage unavailable")
	}
	f.uploads++
	key := fmt.Sprintf("object-%d", f.uploads)
	return "http://storage.local/avatars/" + key, key, nil
}

func (f *fakeAvatarStorage) Delete(ctx context.Context, objectKey string) error {
	if f.failDelete {
		return errors.New("storage unavailable")
	}
	f.deleted = append(f.deleted, objectKey)
	return nil
}

// fakeGoogle returns a canned profile or an error.
type fakeGoogle struct {
	profile *oauth.Profile
	err     error
}

func (f *fakeGoogle) ExchangeCode(ctx context.Context, code string) (*oauth.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}
