package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/esxdocs/esxdocs/internal/compliance"
	"github.com/esxdocs/esxdocs/internal/metrics"
	"github.com/esxdocs/esxdocs/internal/model"
	"github.com/esxdocs/esxdocs/internal/repository"
)

// Validation errors for document uploads.
var (
	ErrTitleRequired = errors.New("title is required")
	ErrFileRequired  = errors.New("file is required")
)

// documentStore is the subset of the repository the document service needs.
type documentStore interface {
	CreateDocument(ctx context.Context, d *model.Document) error
	ListDocuments(ctx context.Context, filter repository.DocumentFilter) ([]model.Document, error)
}

// blobStore persists uploaded file contents and returns a public URL.
type blobStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	ObjectKey(filename string, now time.Time) string
}

// dashboardDeadlineStore is the slice of the deadline store the dashboard
// needs to build its summary.
type dashboardDeadlineStore interface {
	ListDeadlines(ctx context.Context) ([]model.Deadline, error)
}

// DocumentService handles compliance document uploads and listings.
// Documents are immutable once stored: there is no update or delete path.
type DocumentService struct {
	documents     documentStore
	deadlines     dashboardDeadlineStore
	blobs         blobStore
	tenantDomain  string
	defaultTenant string
	metrics       metrics.Recorder
	now           func() time.Time
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(documents documentStore, deadlines dashboardDeadlineStore, blobs blobStore, tenantDomain, defaultTenant string, recorder metrics.Recorder) *DocumentService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &DocumentService{
		documents:     documents,
		deadlines:     deadlines,
		blobs:         blobs,
		tenantDomain:  tenantDomain,
		defaultTenant: defaultTenant,
		metrics:       recorder,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// UploadInput carries the multipart form of a document upload. Fields holds
// the type-specific metadata as submitted; validation decides which of them
// matter for the declared type.
type UploadInput struct {
	Title       string
	Type        string
	BankCode    string
	Fields      compliance.UploadFields
	Filename    string
	ContentType string
	File        io.Reader
}

// Upload validates, stores and records a compliance document.
//
// Validation runs before the file is written to the object store, and the
// object store write runs before the metadata insert, so a rejected upload
// leaves no orphan file and a failed store write leaves no orphan row.
func (s *DocumentService) Upload(ctx context.Context, session *model.Session, input UploadInput) (*model.Document, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.File == nil {
		return nil, ErrFileRequired
	}

	upload, err := compliance.ParseUpload(input.Type, input.Fields)
	if err != nil {
		s.metrics.IncUploadRejected("validation")
		return nil, err
	}

	now := s.now()
	key := s.blobs.ObjectKey(input.Filename, now)
	fileURL, err := s.blobs.Put(ctx, key, input.File, input.ContentType)
	if err != nil {
		s.metrics.IncUploadRejected("storage")
		return nil, fmt.Errorf("store file: %w", err)
	}

	doc := &model.Document{
		ID:          ulid.Make().String(),
		Title:       strings.TrimSpace(input.Title),
		FileURL:     fileURL,
		CompanyName: compliance.DeriveTenant(session.Role, input.BankCode, s.tenantDomain, s.defaultTenant),
		From:        session.Email,
		CreatedAt:   now,
	}
	upload.Apply(doc)

	if err := s.documents.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	s.metrics.IncDocumentUploaded()
	return doc, nil
}

// List returns documents visible to the session. Admins see every tenant's
// documents, or a single tenant's when tenantKey is set. Non-admins always
// see their own tenant only; tenantKey is ignored for them.
func (s *DocumentService) List(ctx context.Context, session *model.Session, tenantKey string) ([]model.Document, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}

	filter := repository.DocumentFilter{}
	if session.IsAdmin() {
		filter.TenantKey = strings.TrimSpace(tenantKey)
	} else {
		filter.TenantKey = session.Email
	}

	return s.documents.ListDocuments(ctx, filter)
}

// Dashboard bundles the issuer landing view: the session's documents,
// aggregate counts, and the next few deadlines.
type Dashboard struct {
	Documents []model.Document               `json:"documents"`
	Stats     compliance.DashboardStats      `json:"stats"`
	Upcoming  []compliance.AnnotatedDeadline `json:"upcoming_deadlines"`
}

// Dashboard computes the landing view for the session's own tenant.
func (s *DocumentService) Dashboard(ctx context.Context, session *model.Session) (*Dashboard, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}

	docs, err := s.documents.ListDocuments(ctx, repository.DocumentFilter{TenantKey: session.Email})
	if err != nil {
		return nil, err
	}
	deadlines, err := s.deadlines.ListDeadlines(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &Dashboard{
		Documents: docs,
		Stats:     compliance.ComputeStats(docs, deadlines, now),
		Upcoming:  compliance.Upcoming(deadlines, now, upcomingLimit),
	}, nil
}
