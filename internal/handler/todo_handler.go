package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nischalsh/todo-service/internal/domain"
	"github.com/nischalsh/todo-service/internal/dto"
	"github.com/nischalsh/todo-service/internal/service"
)

// TodoHandler handles todo requests. Every route is owner-scoped through
// the identity attached by AuthMiddleware.
type TodoHandler struct {
	todoService service.TodoService
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todoService service.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// Create creates a todo for the caller
func (h *TodoHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c, "User not found in request")
		return
	}

	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	todo, err := h.todoService.Create(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Todo created successfully", todo)
}

// List returns all of the caller's todos, newest first
func (h *TodoHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c, "User not found in request")
		return
	}

	todos, err := h.todoService.List(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Todos fetched successfully", emptyIfNil(todos))
}

// Filter returns the caller's todos narrowed and ordered by query params
func (h *TodoHandler) Filter(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c, "User not found in request")
		return
	}

	sortKey := c.Query("sort")
	filterValue := c.Query("value")

	todos, err := h.todoService.FilterAndSort(c.Request.Context(), user.ID, sortKey, filterValue)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Filtered todos fetched successfully", emptyIfNil(todos))
}

// GetOne returns a single todo owned by the caller
func (h *TodoHandler) GetOne(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c, "User not found in request")
		return
	}

	todo, err := h.todoService.GetOne(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Todo fetched", todo)
}

// Update applies a partial edit to a todo owned by the caller
func (h *TodoHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c, "User not found in request")
		return
	}

	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	todo, err := h.todoService.Update(c.Request.Context(), user.ID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Todo updated successfully", todo)
}

// Delete removes a todo owned by the caller. Deleting a missing todo still
// reports success.
func (h *TodoHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c, "User not found in request")
		return
	}

	if err := h.todoService.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Todo successfully deleted", nil)
}

func emptyIfNil(todos []*domain.Todo) []*domain.Todo {
	if todos == nil {
		return []*domain.Todo{}
	}
	return todos
}
