package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/esxdocs/esxdocs/internal/model"
)

// DocumentFilter narrows document listings. An empty filter returns all
// documents (administrative scope).
type DocumentFilter struct {
	// TenantKey matches company_name case-insensitively when set.
	TenantKey string
}

// CreateDocument inserts a new document record. Documents are immutable
// after creation; there is no corresponding update or delete.
func (r *Repository) CreateDocument(ctx context.Context, doc *model.Document) error {
	query := `
		INSERT INTO documents (id, title, file_url, company_name, uploaded_from, doc_type,
			reporting_date, time_line, responsible_unit, meeting_type, remark, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		doc.ID,
		doc.Title,
		doc.FileURL,
		doc.CompanyName,
		doc.From,
		doc.Type,
		doc.ReportingDate,
		doc.TimeLine,
		doc.ResponsibleUnit,
		doc.MeetingType,
		doc.Remark,
		doc.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// ListDocuments retrieves documents newest first, optionally scoped to one
// tenant.
func (r *Repository) ListDocuments(ctx context.Context, filter DocumentFilter) ([]model.Document, error) {
	query := `
		SELECT id, title, file_url, company_name, uploaded_from, doc_type,
			reporting_date, time_line, responsible_unit, meeting_type, remark, created_at
		FROM documents
	`
	args := []any{}

	if filter.TenantKey != "" {
		query += ` WHERE LOWER(company_name) = LOWER($1)`
		args = append(args, filter.TenantKey)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return docs, nil
}

// scanDocument scans a row into a Document model.
func scanDocument(row pgx.Row) (*model.Document, error) {
	var doc model.Document
	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.FileURL,
		&doc.CompanyName,
		&doc.From,
		&doc.Type,
		&doc.ReportingDate,
		&doc.TimeLine,
		&doc.ResponsibleUnit,
		&doc.MeetingType,
		&doc.Remark,
		&doc.CreatedAt,
	)
	return &doc, err
}
