package domain

import "time"

// Todo priority levels.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Todo status values.
const (
	StatusIncomplete = "incomplete"
	StatusPending    = "pending"
	StatusCompleted  = "completed"
)

// Todo represents a todo item owned by exactly one user. CompletedAt is
// non-nil if and only if Status is "completed".
type Todo struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Priority    string     `json:"priority" db:"priority"`
	Status      string     `json:"status" db:"status"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ValidPriority reports whether p is a known priority level.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ValidStatus reports whether s is a known status value.
func ValidStatus(s string) bool {
	return s == StatusIncomplete || s == StatusPending || s == StatusCompleted
}
