package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CardStatus is the fixed column enumeration.
type CardStatus string

const (
	StatusTodo       CardStatus = "todo"
	StatusInProgress CardStatus = "in_progress"
	StatusDone       CardStatus = "done"
)

// Statuses lists columns in display order.
var Statuses = []CardStatus{StatusTodo, StatusInProgress, StatusDone}

func (s CardStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Title returns the column heading for a status.
func (s CardStatus) Title() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// ParseStatus validates a wire status value.
func ParseStatus(v string) (CardStatus, error) {
	s := CardStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("invalid status %q", v)
	}
	return s, nil
}

// Board is a named collection of cards. Archived boards stay retrievable via
// the archived listing and can be restored.
type Board struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Color       string    `json:"color"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Card is a task belonging to exactly one board and one status column.
// Position is a dense zero-based rank within the (board, status) partition.
type Card struct {
	ID             string         `json:"id"`
	BoardID        string         `json:"board_id"`
	Title          string         `json:"title"`
	Description    *string        `json:"description,omitempty"`
	Status         CardStatus     `json:"status"`
	Priority       int            `json:"priority"`
	PriorityReason *string        `json:"priority_reason,omitempty"`
	EstimatedHours *float64       `json:"estimated_hours,omitempty"`
	ActualHours    *float64       `json:"actual_hours,omitempty"`
	Deadline       *time.Time     `json:"deadline,omitempty"`
	Position       int            `json:"position"`
	Tags           []string       `json:"tags"`
	Metadata       map[string]any `json:"metadata"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// DefaultPriority is assigned when the user or extractor gives none.
const DefaultPriority = 3

// DefaultBoardColor matches the backend default.
const DefaultBoardColor = "#6366f1"

var (
	ErrEmptyTitle = errors.New("title must not be empty")
	ErrNoBoard    = errors.New("no board selected")
)

// ValidateTitle rejects empty or whitespace-only titles before any request
// is issued.
func ValidateTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", ErrEmptyTitle
	}
	return t, nil
}

// ClampPriority forces priority into [1,5].
func ClampPriority(p int) int {
	if p < 1 {
		return 1
	}
	if p > 5 {
		return 5
	}
	return p
}

// Overdue reports whether the card has a deadline in the past and is not done.
func (c Card) Overdue(now time.Time) bool {
	return c.Deadline != nil && c.Deadline.Before(now) && c.Status != StatusDone
}
