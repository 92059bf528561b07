package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nischalsh/todo-service/internal/domain"
	"github.com/nischalsh/todo-service/internal/dto"
	"github.com/nischalsh/todo-service/internal/repository"
)

// todoService implements TodoService interface
type todoService struct {
	todoRepo repository.TodoRepository
}

// NewTodoService creates a new todo service
func NewTodoService(todoRepo repository.TodoRepository) TodoService {
	return &todoService{todoRepo: todoRepo}
}

// Create creates a todo for the owner with defaulted priority and status
func (s *todoService) Create(ctx context.Context, ownerID string, req *dto.CreateTodoRequest) (*domain.Todo, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrInvalidInput)
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, fmt.Errorf("unknown priority %q: %w", priority, ErrInvalidInput)
	}

	todo := &domain.Todo{
		UserID:      ownerID,
		Title:       title,
		Description: req.Description,
		Priority:    priority,
		Status:      domain.StatusIncomplete,
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}

	return todo, nil
}

// List returns the owner's todos, newest first
func (s *todoService) List(ctx context.Context, ownerID string) ([]*domain.Todo, error) {
	return s.todoRepo.ListByOwner(ctx, ownerID)
}

// GetOne returns the todo only if the id parses and belongs to the owner.
// A foreign todo is reported as not found, never as forbidden.
func (s *todoService) GetOne(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	if err := validateTodoID(id); err != nil {
		return nil, err
	}

	return s.todoRepo.GetByID(ctx, ownerID, id)
}

// Update applies a partial edit. Setting status to completed stamps
// CompletedAt; setting it to anything else clears it.
func (s *todoService) Update(ctx context.Context, ownerID, id string, req *dto.UpdateTodoRequest) (*domain.Todo, error) {
	if err := validateTodoID(id); err != nil {
		return nil, err
	}

	todo, err := s.todoRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("title cannot be blank: %w", ErrInvalidInput)
		}
		todo.Title = title
	}

	if req.Description != nil {
		todo.Description = *req.Description
	}

	if req.Priority != nil {
		if !domain.ValidPriority(*req.Priority) {
			return nil, fmt.Errorf("unknown priority %q: %w", *req.Priority, ErrInvalidInput)
		}
		todo.Priority = *req.Priority
	}

	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			return nil, fmt.Errorf("unknown status %q: %w", *req.Status, ErrInvalidInput)
		}
		todo.Status = *req.Status

		if todo.Status == domain.StatusCompleted {
			now := time.Now()
			todo.CompletedAt = &now
		} else {
			todo.CompletedAt = nil
		}
	}

	if err := s.todoRepo.Update(ctx, ownerID, todo); err != nil {
		return nil, err
	}

	return todo, nil
}

// Delete removes the owner's todo. Deleting a missing or foreign todo is a
// silent no-op.
func (s *todoService) Delete(ctx context.Context, ownerID, id string) error {
	if err := validateTodoID(id); err != nil {
		return err
	}

	return s.todoRepo.Delete(ctx, ownerID, id)
}

// FilterAndSort narrows and orders the owner's todos by the chosen key
func (s *todoService) FilterAndSort(ctx context.Context, ownerID, sortKey, filterValue string) ([]*domain.Todo, error) {
	if sortKey == "status" && filterValue != "" && !domain.ValidStatus(filterValue) {
		return nil, fmt.Errorf("unknown status %q: %w", filterValue, ErrInvalidInput)
	}
	if sortKey == "priority" && filterValue != "" && !domain.ValidPriority(filterValue) {
		return nil, fmt.Errorf("unknown priority %q: %w", filterValue, ErrInvalidInput)
	}

	return s.todoRepo.FilterAndSort(ctx, ownerID, sortKey, filterValue)
}

func validateTodoID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid todo id: %w", ErrInvalidInput)
	}

	return nil
}
