package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/esxdocs/esxdocs/internal/compliance"
	"github.com/esxdocs/esxdocs/internal/metrics"
	"github.com/esxdocs/esxdocs/internal/model"
	"github.com/esxdocs/esxdocs/internal/repository"
)

// Validation errors for deadline operations.
var (
	ErrDeadlineTypeRequired = errors.New("deadline type is required")
	ErrDeadlineDateRequired = errors.New("deadline date is required")
)

// upcomingLimit caps the dashboard deadline summary.
const upcomingLimit = 3

// deadlineStore is the subset of the repository the deadline service needs.
type deadlineStore interface {
	CreateDeadline(ctx context.Context, d *model.Deadline) error
	ListDeadlines(ctx context.Context) ([]model.Deadline, error)
	UpdateDeadline(ctx context.Context, id string, update repository.DeadlineUpdate) (*model.Deadline, error)
	DeleteDeadline(ctx context.Context, id string) error
}

// DeadlineService manages regulatory deadlines. Reads are open to any
// authenticated session; every mutation re-verifies the ADMIN role before
// touching the store.
type DeadlineService struct {
	deadlines deadlineStore
	metrics   metrics.Recorder
	now       func() time.Time
}

// NewDeadlineService creates a new DeadlineService.
func NewDeadlineService(deadlines deadlineStore, recorder metrics.Recorder) *DeadlineService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &DeadlineService{
		deadlines: deadlines,
		metrics:   recorder,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns the management view: every deadline, stored order,
// annotated with its own countdown. Overdue entries are included.
func (s *DeadlineService) List(ctx context.Context, session *model.Session) ([]compliance.AnnotatedDeadline, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}

	deadlines, err := s.deadlines.ListDeadlines(ctx)
	if err != nil {
		return nil, err
	}

	return compliance.AnnotateAll(deadlines, s.now()), nil
}

// Upcoming returns the dashboard summary: the three soonest deadlines that
// have not passed yet.
func (s *DeadlineService) Upcoming(ctx context.Context, session *model.Session) ([]compliance.AnnotatedDeadline, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}

	deadlines, err := s.deadlines.ListDeadlines(ctx)
	if err != nil {
		return nil, err
	}

	return compliance.Upcoming(deadlines, s.now(), upcomingLimit), nil
}

// CreateDeadlineInput defines input for creating a deadline.
type CreateDeadlineInput struct {
	Type        string
	Deadline    time.Time
	Description string
}

// Create adds a new deadline. ADMIN only.
func (s *DeadlineService) Create(ctx context.Context, session *model.Session, input CreateDeadlineInput) (*model.Deadline, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if input.Type == "" {
		return nil, ErrDeadlineTypeRequired
	}
	if input.Deadline.IsZero() {
		return nil, ErrDeadlineDateRequired
	}

	now := s.now()
	deadline := &model.Deadline{
		ID:          ulid.Make().String(),
		Type:        input.Type,
		Deadline:    input.Deadline,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.deadlines.CreateDeadline(ctx, deadline); err != nil {
		return nil, fmt.Errorf("create deadline: %w", err)
	}

	s.metrics.IncDeadlineCreated()
	return deadline, nil
}

// UpdateDeadlineInput defines a partial update; nil fields are unchanged.
type UpdateDeadlineInput struct {
	Type        *string
	Deadline    *time.Time
	Description *string
}

// Update applies a partial update to a deadline and returns the fresh
// record. ADMIN only. The caller is expected to re-fetch the full list
// afterwards rather than patching its local view.
func (s *DeadlineService) Update(ctx context.Context, session *model.Session, id string, input UpdateDeadlineInput) (*model.Deadline, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	deadline, err := s.deadlines.UpdateDeadline(ctx, id, repository.DeadlineUpdate{
		Type:        input.Type,
		Deadline:    input.Deadline,
		Description: input.Description,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDeadlineNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update deadline: %w", err)
	}

	s.metrics.IncDeadlineUpdated()
	return deadline, nil
}

// Delete removes a deadline. ADMIN only.
func (s *DeadlineService) Delete(ctx context.Context, session *model.Session, id string) error {
	if err := requireAdmin(session); err != nil {
		return err
	}

	if err := s.deadlines.DeleteDeadline(ctx, id); err != nil {
		if errors.Is(err, repository.ErrDeadlineNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete deadline: %w", err)
	}

	s.metrics.IncDeadlineDeleted()
	return nil
}
