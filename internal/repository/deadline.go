package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/esxdocs/esxdocs/internal/model"
)

// ErrDeadlineNotFound indicates the deadline does not exist.
var ErrDeadlineNotFound = errors.New("deadline not found")

// DeadlineUpdate holds the mutable fields of a deadline. Nil fields are
// left unchanged, so a partial save from the edit view touches only the
// staged field.
type DeadlineUpdate struct {
	Type        *string
	Deadline    *time.Time
	Description *string
}

// CreateDeadline inserts a new deadline.
func (r *Repository) CreateDeadline(ctx context.Context, d *model.Deadline) error {
	query := `
		INSERT INTO deadlines (id, deadline_type, deadline, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		d.ID,
		d.Type,
		d.Deadline,
		d.Description,
		d.CreatedAt,
		d.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create deadline: %w", err)
	}

	return nil
}

// ListDeadlines retrieves all deadlines ordered by target date ascending.
func (r *Repository) ListDeadlines(ctx context.Context) ([]model.Deadline, error) {
	query := `
		SELECT id, deadline_type, deadline, description, created_at, updated_at
		FROM deadlines
		ORDER BY deadline ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list deadlines: %w", err)
	}
	defer rows.Close()

	var deadlines []model.Deadline
	for rows.Next() {
		d, err := scanDeadline(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deadline: %w", err)
		}
		deadlines = append(deadlines, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deadlines: %w", err)
	}

	return deadlines, nil
}

// UpdateDeadline applies a partial update and returns the fresh row.
func (r *Repository) UpdateDeadline(ctx context.Context, id string, update DeadlineUpdate) (*model.Deadline, error) {
	query := `
		UPDATE deadlines
		SET deadline_type = COALESCE($2, deadline_type),
		    deadline      = COALESCE($3, deadline),
		    description   = COALESCE($4, description),
		    updated_at    = NOW()
		WHERE id = $1
		RETURNING id, deadline_type, deadline, description, created_at, updated_at
	`

	d, err := scanDeadline(r.pool.QueryRow(ctx, query, id, update.Type, update.Deadline, update.Description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDeadlineNotFound
		}
		return nil, fmt.Errorf("failed to update deadline: %w", err)
	}

	return d, nil
}

// DeleteDeadline removes a deadline.
func (r *Repository) DeleteDeadline(ctx context.Context, id string) error {
	query := `DELETE FROM deadlines WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete deadline: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDeadlineNotFound
	}

	return nil
}

// scanDeadline scans a row into a Deadline model.
func scanDeadline(row pgx.Row) (*model.Deadline, error) {
	var d model.Deadline
	err := row.Scan(
		&d.ID,
		&d.Type,
		&d.Deadline,
		&d.Description,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return &d, err
}
