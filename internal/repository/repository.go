package repository

import (
	"github.com/nischalsh/todo-service/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User UserRepository
	Todo TodoRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User: NewUserRepository(db),
		Todo: NewTodoRepository(db),
	}
}
