// Package repository holds the sqlite persistence for boards and cards.
// Deletes are soft: rows flip is_active and stay restorable.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/canban/internal/model"
)

// ErrNotFound signals a missing row; handlers map it to 404.
var ErrNotFound = errors.New("not found")

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

const boardCols = "id, name, description, color, position, created_at, updated_at"

// BoardRepo handles boards.
type BoardRepo struct {
	db *sql.DB
}

func NewBoardRepo(db *sql.DB) *BoardRepo {
	return &BoardRepo{db: db}
}

func scanBoard(sc interface{ Scan(...any) error }) (model.Board, error) {
	var b model.Board
	var desc sql.NullString
	err := sc.Scan(&b.ID, &b.Name, &desc, &b.Color, &b.Position, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.Board{}, err
	}
	if desc.Valid {
		b.Description = &desc.String
	}
	return b, nil
}

func (r *BoardRepo) list(ctx context.Context, active bool) ([]model.Board, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+boardCols+` FROM boards WHERE is_active = ? ORDER BY position`, active)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Board{}
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListActive returns active boards ordered by position.
func (r *BoardRepo) ListActive(ctx context.Context) ([]model.Board, error) {
	return r.list(ctx, true)
}

// ListArchived returns soft-deleted boards.
func (r *BoardRepo) ListArchived(ctx context.Context) ([]model.Board, error) {
	return r.list(ctx, false)
}

func (r *BoardRepo) Get(ctx context.Context, id string) (model.Board, error) {
	b, err := scanBoard(r.db.QueryRowContext(ctx,
		`SELECT `+boardCols+` FROM boards WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Board{}, ErrNotFound
	}
	return b, err
}

func (r *BoardRepo) Create(ctx context.Context, in model.BoardCreate) (model.Board, error) {
	id := uuid.NewString()
	color := in.Color
	if color == "" {
		color = model.DefaultBoardColor
	}
	ts := now()
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO boards(id, name, description, color, position, is_active, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, 1, ?, ?);
	`, id, in.Name, in.Description, color, in.Position, ts, ts)
	if err != nil {
		return model.Board{}, err
	}
	return r.Get(ctx, id)
}

// Update applies only the fields present in the patch.
func (r *BoardRepo) Update(ctx context.Context, id string, in model.BoardUpdate) (model.Board, error) {
	sets := []string{"updated_at = ?"}
	args := []any{now()}
	if in.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *in.Name)
	}
	if in.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *in.Description)
	}
	if in.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *in.Color)
	}
	if in.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *in.Position)
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		`UPDATE boards SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return model.Board{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Board{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Archive soft-deletes the board and all its cards in one transaction.
func (r *BoardRepo) Archive(ctx context.Context, id string) error {
	return r.setActive(ctx, id, false)
}

// Restore brings an archived board and its cards back.
func (r *BoardRepo) Restore(ctx context.Context, id string) (model.Board, error) {
	if err := r.setActive(ctx, id, true); err != nil {
		return model.Board{}, err
	}
	return r.Get(ctx, id)
}

func (r *BoardRepo) setActive(ctx context.Context, id string, active bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ts := now()
	if _, err := tx.ExecContext(ctx,
		`UPDATE cards SET is_active = ?, updated_at = ? WHERE board_id = ?`, active, ts, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE boards SET is_active = ?, updated_at = ? WHERE id = ?`, active, ts, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
