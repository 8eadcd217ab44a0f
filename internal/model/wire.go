package model

import "time"

// Request bodies for the REST contract. Pointer fields are omitted when
// unset so the backend applies partial updates only to provided fields.

type BoardCreate struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       string  `json:"color,omitempty"`
	Position    int     `json:"position"`
}

type BoardUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Position    *int    `json:"position,omitempty"`
}

type CardCreate struct {
	BoardID        string     `json:"board_id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	Status         CardStatus `json:"status,omitempty"`
	Priority       int        `json:"priority,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Position       int        `json:"position"`
	Tags           []string   `json:"tags,omitempty"`
}

type CardUpdate struct {
	Title          *string     `json:"title,omitempty"`
	Description    *string     `json:"description,omitempty"`
	Status         *CardStatus `json:"status,omitempty"`
	Priority       *int        `json:"priority,omitempty"`
	PriorityReason *string     `json:"priority_reason,omitempty"`
	EstimatedHours *float64    `json:"estimated_hours,omitempty"`
	ActualHours    *float64    `json:"actual_hours,omitempty"`
	Deadline       *time.Time  `json:"deadline,omitempty"`
	Position       *int        `json:"position,omitempty"`
	Tags           []string    `json:"tags,omitempty"`
	BoardID        *string     `json:"board_id,omitempty"`
}

// CardMove is the single persisted intent a completed drag emits.
type CardMove struct {
	Status   *CardStatus `json:"status,omitempty"`
	Position *int        `json:"position,omitempty"`
	BoardID  *string     `json:"board_id,omitempty"`
}

// CardPosition is one entry of the batch reorder call.
type CardPosition struct {
	ID       string      `json:"id"`
	Position int         `json:"position"`
	Status   *CardStatus `json:"status,omitempty"`
}

// AI contract types.

type PrioritizeRequest struct {
	BoardID *string `json:"board_id,omitempty"` // nil = across all boards
}

type PriorityAssignment struct {
	ID        string `json:"id"`
	Priority  int    `json:"priority"`
	Reasoning string `json:"reasoning"`
}

type PrioritizeResponse struct {
	CardsUpdated int                  `json:"cards_updated"`
	Priorities   []PriorityAssignment `json:"priorities"`
}

type SuggestRequest struct {
	CardID string `json:"card_id"`
}

type SuggestResponse struct {
	Suggestions []string `json:"suggestions"`
	Reasoning   string   `json:"reasoning"`
}

type BriefingTask struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Priority int    `json:"priority,omitempty"`
	Deadline string `json:"deadline,omitempty"`
}

type DailyBriefing struct {
	Date              string         `json:"date"`
	HighPriorityTasks []BriefingTask `json:"high_priority_tasks"`
	OverdueTasks      []BriefingTask `json:"overdue_tasks"`
	Suggestions       []string       `json:"suggestions"`
	Summary           string         `json:"summary"`
}

// ExtractedTask is a single task the AI pulled out of pasted text. It is
// previewed client-side before create-extracted-tasks persists it.
type ExtractedTask struct {
	Title          string   `json:"title"`
	Description    *string  `json:"description,omitempty"`
	Deadline       *string  `json:"deadline,omitempty"`
	Priority       int      `json:"priority"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	Tags           []string `json:"tags"`
	BoardID        string   `json:"board_id,omitempty"`
	Status         string   `json:"status"`
	Position       int      `json:"position"`
}

type ExtractTasksRequest struct {
	Text    string `json:"text"`
	BoardID string `json:"board_id"`
}

type ExtractTasksResponse struct {
	Tasks   []ExtractedTask `json:"tasks"`
	Summary string          `json:"summary"`
}

type CreateExtractedTasksRequest struct {
	Tasks []ExtractedTask `json:"tasks"`
}

type CreateExtractedTasksResponse struct {
	CreatedCount int    `json:"created_count"`
	Cards        []Card `json:"cards"`
}
