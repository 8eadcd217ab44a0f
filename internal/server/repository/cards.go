package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/canban/internal/model"
)

const cardCols = "id, board_id, title, description, status, priority, priority_reason, " +
	"estimated_hours, actual_hours, deadline, position, tags, metadata, created_at, updated_at"

// CardRepo handles cards.
type CardRepo struct {
	db *sql.DB
}

func NewCardRepo(db *sql.DB) *CardRepo {
	return &CardRepo{db: db}
}

func scanCard(sc interface{ Scan(...any) error }) (model.Card, error) {
	var c model.Card
	var desc, reason sql.NullString
	var est, act sql.NullFloat64
	var deadline sql.NullTime
	var tags, meta string
	err := sc.Scan(&c.ID, &c.BoardID, &c.Title, &desc, &c.Status, &c.Priority, &reason,
		&est, &act, &deadline, &c.Position, &tags, &meta, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Card{}, err
	}
	if desc.Valid {
		c.Description = &desc.String
	}
	if reason.Valid {
		c.PriorityReason = &reason.String
	}
	if est.Valid {
		c.EstimatedHours = &est.Float64
	}
	if act.Valid {
		c.ActualHours = &act.Float64
	}
	if deadline.Valid {
		d := deadline.Time
		c.Deadline = &d
	}
	if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
		c.Tags = nil
	}
	if err := json.Unmarshal([]byte(meta), &c.Metadata); err != nil {
		c.Metadata = nil
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}
	return c, nil
}

func (r *CardRepo) query(ctx context.Context, q string, args ...any) ([]model.Card, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListActive returns every active card across boards, priority first.
func (r *CardRepo) ListActive(ctx context.Context) ([]model.Card, error) {
	return r.query(ctx,
		`SELECT `+cardCols+` FROM cards WHERE is_active = 1 ORDER BY priority, position`)
}

// ListByBoard returns a board's active cards ordered by position.
func (r *CardRepo) ListByBoard(ctx context.Context, boardID string) ([]model.Card, error) {
	return r.query(ctx,
		`SELECT `+cardCols+` FROM cards WHERE board_id = ? AND is_active = 1 ORDER BY position`, boardID)
}

// ListOpen returns active cards not yet done, priority first. Used for the
// daily briefing.
func (r *CardRepo) ListOpen(ctx context.Context) ([]model.Card, error) {
	return r.query(ctx,
		`SELECT `+cardCols+` FROM cards WHERE is_active = 1 AND status != ? ORDER BY priority, position`,
		string(model.StatusDone))
}

// ListForBoardScope returns active cards, limited to one board when boardID
// is non-nil. Used as prioritization input.
func (r *CardRepo) ListForBoardScope(ctx context.Context, boardID *string) ([]model.Card, error) {
	if boardID != nil {
		return r.ListByBoard(ctx, *boardID)
	}
	return r.ListActive(ctx)
}

func (r *CardRepo) Get(ctx context.Context, id string) (model.Card, error) {
	c, err := scanCard(r.db.QueryRowContext(ctx,
		`SELECT `+cardCols+` FROM cards WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Card{}, ErrNotFound
	}
	return c, err
}

func (r *CardRepo) Create(ctx context.Context, in model.CardCreate) (model.Card, error) {
	id := uuid.NewString()
	status := in.Status
	if status == "" {
		status = model.StatusTodo
	}
	priority := in.Priority
	if priority == 0 {
		priority = model.DefaultPriority
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return model.Card{}, err
	}
	var deadline any
	if in.Deadline != nil {
		deadline = in.Deadline.UTC()
	}
	ts := now()
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO cards(id, board_id, title, description, status, priority, estimated_hours,
	                  deadline, position, tags, metadata, is_active, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?);
	`, id, in.BoardID, in.Title, in.Description, string(status), priority, in.EstimatedHours,
		deadline, in.Position, string(tagsJSON), "{}", ts, ts)
	if err != nil {
		return model.Card{}, err
	}
	return r.Get(ctx, id)
}

// Update applies only the fields present in the patch.
func (r *CardRepo) Update(ctx context.Context, id string, in model.CardUpdate) (model.Card, error) {
	sets := []string{"updated_at = ?"}
	args := []any{now()}
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if in.Title != nil {
		add("title", *in.Title)
	}
	if in.Description != nil {
		add("description", *in.Description)
	}
	if in.Status != nil {
		add("status", string(*in.Status))
	}
	if in.Priority != nil {
		add("priority", *in.Priority)
	}
	if in.PriorityReason != nil {
		add("priority_reason", *in.PriorityReason)
	}
	if in.EstimatedHours != nil {
		add("estimated_hours", *in.EstimatedHours)
	}
	if in.ActualHours != nil {
		add("actual_hours", *in.ActualHours)
	}
	if in.Deadline != nil {
		add("deadline", in.Deadline.UTC())
	}
	if in.Position != nil {
		add("position", *in.Position)
	}
	if in.Tags != nil {
		tagsJSON, err := json.Marshal(in.Tags)
		if err != nil {
			return model.Card{}, err
		}
		add("tags", string(tagsJSON))
	}
	if in.BoardID != nil {
		add("board_id", *in.BoardID)
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		`UPDATE cards SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return model.Card{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Card{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Move changes the card's column and rank. Only the provided fields change;
// the rest of the column keeps its positions (the client renumbers locally).
func (r *CardRepo) Move(ctx context.Context, id string, in model.CardMove) (model.Card, error) {
	return r.Update(ctx, id, model.CardUpdate{
		Status:   in.Status,
		Position: in.Position,
		BoardID:  in.BoardID,
	})
}

// Archive soft-deletes the card.
func (r *CardRepo) Archive(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cards SET is_active = 0, updated_at = ? WHERE id = ?`, now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder bulk-updates positions (and optionally statuses) in one transaction.
func (r *CardRepo) Reorder(ctx context.Context, positions []model.CardPosition) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ts := now()
	for _, p := range positions {
		if p.Status != nil {
			_, err = tx.ExecContext(ctx,
				`UPDATE cards SET position = ?, status = ?, updated_at = ? WHERE id = ?`,
				p.Position, string(*p.Status), ts, p.ID)
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE cards SET position = ?, updated_at = ? WHERE id = ?`,
				p.Position, ts, p.ID)
		}
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ApplyPriorities writes AI priority assignments, recording a history row for
// every card whose priority actually changed.
func (r *CardRepo) ApplyPriorities(ctx context.Context, assignments []model.PriorityAssignment, modelUsed string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	ts := now()
	applied := 0
	for _, a := range assignments {
		var old int
		err := tx.QueryRowContext(ctx, `SELECT priority FROM cards WHERE id = ?`, a.ID).Scan(&old)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if old != a.Priority {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO priority_history(card_id, old_priority, new_priority, reasoning, model_used, timestamp)
			VALUES (?, ?, ?, ?, ?, ?);
			`, a.ID, old, a.Priority, a.Reasoning, modelUsed, ts); err != nil {
				return 0, err
			}
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE cards SET priority = ?, priority_reason = ?, updated_at = ? WHERE id = ?`,
			a.Priority, a.Reasoning, ts, a.ID); err != nil {
			return 0, err
		}
		applied++
	}
	return applied, tx.Commit()
}

// CreateExtracted persists previewed extraction results as cards, tagging
// their metadata with the source.
func (r *CardRepo) CreateExtracted(ctx context.Context, tasks []model.ExtractedTask) ([]model.Card, error) {
	created := []model.Card{}
	for _, t := range tasks {
		in := model.CardCreate{
			BoardID:        t.BoardID,
			Title:          t.Title,
			Description:    t.Description,
			Status:         model.StatusTodo,
			Priority:       model.ClampPriority(t.Priority),
			EstimatedHours: t.EstimatedHours,
			Position:       t.Position,
			Tags:           t.Tags,
		}
		if t.Status != "" {
			if s, err := model.ParseStatus(t.Status); err == nil {
				in.Status = s
			}
		}
		if t.Deadline != nil {
			if d, err := time.Parse(time.RFC3339, *t.Deadline); err == nil {
				in.Deadline = &d
			}
		}
		c, err := r.Create(ctx, in)
		if err != nil {
			return created, err
		}
		if _, err := r.db.ExecContext(ctx,
			`UPDATE cards SET metadata = ? WHERE id = ?`, `{"source":"ai_extraction"}`, c.ID); err != nil {
			return created, err
		}
		c.Metadata = map[string]any{"source": "ai_extraction"}
		created = append(created, c)
	}
	return created, nil
}
