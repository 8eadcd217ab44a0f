package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/jask/canban/internal/model"
)

// OpenAIProvider talks to the chat completions API.
type OpenAIProvider struct {
	model  string
	client openai.Client
}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		model:  strings.TrimSpace(model),
		client: openai.NewClient(option.WithAPIKey(strings.TrimSpace(apiKey))),
	}
}

func (p *OpenAIProvider) chatModel() string {
	if p.model == "" {
		return "gpt-4o-mini"
	}
	return p.model
}

func (p *OpenAIProvider) Name() string { return p.chatModel() }

func (p *OpenAIProvider) call(ctx context.Context, system, user string, maxTokens int64, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.chatModel()),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxTokens),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (p *OpenAIProvider) Prioritize(ctx context.Context, cards []model.Card, boardNames map[string]string) ([]model.PriorityAssignment, error) {
	type cardInfo struct {
		ID              string     `json:"id"`
		Title           string     `json:"title"`
		Description     string     `json:"description"`
		Board           string     `json:"board"`
		Status          string     `json:"status"`
		CurrentPriority int        `json:"current_priority"`
		Deadline        *time.Time `json:"deadline"`
		EstimatedHours  *float64   `json:"estimated_hours"`
		Tags            []string   `json:"tags"`
		CreatedAt       time.Time  `json:"created_at"`
	}
	infos := make([]cardInfo, 0, len(cards))
	for _, c := range cards {
		info := cardInfo{
			ID:              c.ID,
			Title:           c.Title,
			Board:           boardNames[c.BoardID],
			Status:          string(c.Status),
			CurrentPriority: c.Priority,
			Deadline:        c.Deadline,
			EstimatedHours:  c.EstimatedHours,
			Tags:            c.Tags,
			CreatedAt:       c.CreatedAt,
		}
		if c.Description != nil {
			info.Description = *c.Description
		}
		infos = append(infos, info)
	}
	payload, _ := json.MarshalIndent(infos, "", "  ")

	prompt := fmt.Sprintf(`You are a task prioritization assistant. Analyze these tasks and assign priority levels (1-5, where 1 is highest priority).

Current date: %s

Consider these factors:
1. Deadline proximity (highest weight)
2. Task complexity and estimated time
3. Dependencies and blocking tasks
4. Current status (in_progress tasks may need attention)
5. Task age (older tasks might be neglected)

Tasks to prioritize:
%s

Respond with a JSON array of objects with this exact structure:
[
  {"id": "card-id", "priority": 1-5, "reasoning": "Brief explanation"}
]

Only output the JSON array, no other text.`, time.Now().UTC().Format(time.RFC3339), payload)

	text, err := p.call(ctx, "You are a task prioritization expert. Output only valid JSON.", prompt, 2000, 0.3)
	if err != nil {
		return nil, err
	}
	var out []model.PriorityAssignment
	if err := decodeJSON(text, &out); err != nil {
		return nil, fmt.Errorf("openai: parse priorities: %w", err)
	}
	for i := range out {
		out[i].Priority = model.ClampPriority(out[i].Priority)
	}
	return out, nil
}

func (p *OpenAIProvider) Suggest(ctx context.Context, card model.Card) (model.SuggestResponse, error) {
	desc := "No description"
	if card.Description != nil {
		desc = *card.Description
	}
	deadline := "No deadline"
	if card.Deadline != nil {
		deadline = card.Deadline.Format(time.RFC3339)
	}
	estimate := "Not estimated"
	if card.EstimatedHours != nil {
		estimate = fmt.Sprintf("%.1f hours", *card.EstimatedHours)
	}

	prompt := fmt.Sprintf(`Analyze this task and provide actionable suggestions:

Task: %s
Description: %s
Status: %s
Priority: %d/5
Deadline: %s
Estimated hours: %s
Tags: %s

Provide 2-4 brief, actionable suggestions to help complete this task effectively.
Consider: breaking down the task, time management, potential blockers, and prioritization.

Respond with JSON:
{"suggestions": ["suggestion 1", "suggestion 2"], "reasoning": "Brief overall assessment"}`,
		card.Title, desc, card.Status, card.Priority, deadline, estimate, strings.Join(card.Tags, ", "))

	text, err := p.call(ctx, "You are a productivity assistant. Output only valid JSON.", prompt, 500, 0.5)
	if err != nil {
		return model.SuggestResponse{}, err
	}
	var out model.SuggestResponse
	if err := decodeJSON(text, &out); err != nil {
		return model.SuggestResponse{}, fmt.Errorf("openai: parse suggestions: %w", err)
	}
	return out, nil
}

func (p *OpenAIProvider) Briefing(ctx context.Context, open []model.Card, boardNames map[string]string, highPriority, overdue int) (string, []string, error) {
	type cardSummary struct {
		Title    string     `json:"title"`
		Board    string     `json:"board"`
		Priority int        `json:"priority"`
		Deadline *time.Time `json:"deadline"`
		Status   string     `json:"status"`
	}
	top := open
	if len(top) > 20 {
		top = top[:20]
	}
	summaries := make([]cardSummary, 0, len(top))
	for _, c := range top {
		summaries = append(summaries, cardSummary{
			Title:    c.Title,
			Board:    boardNames[c.BoardID],
			Priority: c.Priority,
			Deadline: c.Deadline,
			Status:   string(c.Status),
		})
	}
	payload, _ := json.MarshalIndent(summaries, "", "  ")

	prompt := fmt.Sprintf(`Generate a brief daily briefing for these tasks.

Current date: %s

Active tasks:
%s

High priority count: %d
Overdue count: %d

Provide:
1. A 2-3 sentence summary of the day's focus
2. Top 3 actionable suggestions for productivity

Respond with JSON:
{"summary": "...", "suggestions": ["...", "...", "..."]}`,
		time.Now().UTC().Format("2006-01-02 15:04"), payload, highPriority, overdue)

	text, err := p.call(ctx, "You are a productivity coach. Be concise and actionable. Output only valid JSON.", prompt, 500, 0.5)
	if err != nil {
		return "", nil, err
	}
	var out struct {
		Summary     string   `json:"summary"`
		Suggestions []string `json:"suggestions"`
	}
	if err := decodeJSON(text, &out); err != nil {
		return "", nil, fmt.Errorf("openai: parse briefing: %w", err)
	}
	return out.Summary, out.Suggestions, nil
}

func (p *OpenAIProvider) Extract(ctx context.Context, text, boardName string) ([]model.ExtractedTask, string, error) {
	prompt := fmt.Sprintf(`You are a task extraction assistant. Extract actionable tasks from the following text.

Current date: %s
Board/Context: %s

Text to analyze:
"""
%s
"""

For each task found, extract:
1. title: Clear, concise task title (max 100 chars)
2. description: Additional details if available
3. deadline: ISO date string if mentioned (interpret "next Tuesday", "Dec 15", etc.), null if not mentioned
4. priority: 1-5 based on urgency words (urgent=1, important=2, normal=3, low=4, minimal=5)
5. estimated_hours: Rough estimate based on complexity, null if unclear
6. tags: Relevant tags extracted from context (e.g., "essay", "reading", "meeting", "research")

Respond with JSON:
{
  "tasks": [
    {
      "title": "Task title",
      "description": "Details or null",
      "deadline": "2024-12-15T23:59:00Z or null",
      "priority": 3,
      "estimated_hours": 2.0 or null,
      "tags": ["tag1", "tag2"]
    }
  ],
  "summary": "Brief summary of what was extracted"
}

Extract ALL actionable items. Be thorough but avoid duplicates. Output only valid JSON.`,
		time.Now().UTC().Format("2006-01-02"), boardName, text)

	resp, err := p.call(ctx, "You are an expert at extracting tasks from unstructured text. Output only valid JSON.", prompt, 2000, 0.3)
	if err != nil {
		return nil, "", err
	}
	var out struct {
		Tasks   []model.ExtractedTask `json:"tasks"`
		Summary string                `json:"summary"`
	}
	if err := decodeJSON(resp, &out); err != nil {
		return nil, "", fmt.Errorf("openai: parse extraction: %w", err)
	}
	return out.Tasks, out.Summary, nil
}
