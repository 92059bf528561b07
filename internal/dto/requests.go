package dto

// RegisterRequest represents the form fields of a registration request.
// The avatar file rides alongside in the multipart body.
type RegisterRequest struct {
	Username string `form:"username" binding:"required"`
	Fullname string `form:"fullname" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=8"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents a refresh request body; the cookie takes
// precedence when both are present.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// GoogleLoginRequest carries the authorization code from the client popup flow
type GoogleLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// UpdateAccountRequest represents a profile edit request
type UpdateAccountRequest struct {
	Fullname string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// CreateTodoRequest represents a todo creation request
type CreateTodoRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// UpdateTodoRequest represents a partial todo edit; nil fields are untouched
type UpdateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}
