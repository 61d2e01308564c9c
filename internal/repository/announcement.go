package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/esxdocs/esxdocs/internal/model"
)

// CreateAnnouncement inserts a new announcement.
func (r *Repository) CreateAnnouncement(ctx context.Context, a *model.Announcement) error {
	query := `
		INSERT INTO announcements (id, title, message, recipient, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.Title,
		a.Message,
		a.To,
		a.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}

	return nil
}

// ListAnnouncements retrieves all announcements, newest first. Visibility
// filtering by viewer is applied at the service layer.
func (r *Repository) ListAnnouncements(ctx context.Context) ([]model.Announcement, error) {
	query := `
		SELECT id, title, message, recipient, created_at
		FROM announcements
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer rows.Close()

	var announcements []model.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		announcements = append(announcements, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating announcements: %w", err)
	}

	return announcements, nil
}

// scanAnnouncement scans a row into an Announcement model.
func scanAnnouncement(row pgx.Row) (*model.Announcement, error) {
	var a model.Announcement
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Message,
		&a.To,
		&a.CreatedAt,
	)
	return &a, err
}
