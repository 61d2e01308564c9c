package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/esxdocs/esxdocs/internal/metrics"
	"github.com/esxdocs/esxdocs/internal/model"
)

// Validation errors for announcements.
var (
	ErrAnnouncementTitleRequired   = errors.New("announcement title is required")
	ErrAnnouncementMessageRequired = errors.New("announcement message is required")
)

// announcementStore is the subset of the repository the announcement
// service needs.
type announcementStore interface {
	CreateAnnouncement(ctx context.Context, a *model.Announcement) error
	ListAnnouncements(ctx context.Context) ([]model.Announcement, error)
}

// AnnouncementService posts and lists exchange announcements. Visibility
// filtering happens here rather than in the repository: admins see every
// announcement, issuers only those addressed to them or broadcast.
type AnnouncementService struct {
	announcements    announcementStore
	broadcastAddress string
	metrics          metrics.Recorder
	now              func() time.Time
}

// NewAnnouncementService creates a new AnnouncementService.
func NewAnnouncementService(announcements announcementStore, broadcastAddress string, recorder metrics.Recorder) *AnnouncementService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AnnouncementService{
		announcements:    announcements,
		broadcastAddress: broadcastAddress,
		metrics:          recorder,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// CreateAnnouncementInput defines input for posting an announcement.
// An empty To addresses every issuer.
type CreateAnnouncementInput struct {
	Title   string
	Message string
	To      string
}

// Create posts a new announcement. ADMIN only.
func (s *AnnouncementService) Create(ctx context.Context, session *model.Session, input CreateAnnouncementInput) (*model.Announcement, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrAnnouncementTitleRequired
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, ErrAnnouncementMessageRequired
	}

	announcement := &model.Announcement{
		ID:        ulid.Make().String(),
		Title:     strings.TrimSpace(input.Title),
		Message:   strings.TrimSpace(input.Message),
		To:        strings.ToLower(strings.TrimSpace(input.To)),
		CreatedAt: s.now(),
	}

	if err := s.announcements.CreateAnnouncement(ctx, announcement); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}

	s.metrics.IncAnnouncementPosted()
	return announcement, nil
}

// List returns announcements visible to the session, newest first.
func (s *AnnouncementService) List(ctx context.Context, session *model.Session) ([]model.Announcement, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}

	all, err := s.announcements.ListAnnouncements(ctx)
	if err != nil {
		return nil, err
	}

	if session.IsAdmin() {
		return all, nil
	}

	visible := make([]model.Announcement, 0, len(all))
	for _, a := range all {
		if a.VisibleTo(session.Email, s.broadcastAddress) {
			visible = append(visible, a)
		}
	}
	return visible, nil
}
