package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/esxdocs/esxdocs/internal/model"
	"github.com/esxdocs/esxdocs/internal/repository"
)

// fakeUserStore is an in-memory userStore for tests.
type fakeUserStore struct {
	users []model.User
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrEmailExists
		}
	}
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for i := range f.users {
		if strings.EqualFold(f.users[i].Email, email) {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) ListUsers(_ context.Context) ([]model.User, error) {
	return append([]model.User(nil), f.users...), nil
}

func (f *fakeUserStore) UpdateUserRole(_ context.Context, id string, role model.Role) (*model.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].Role = role
			f.users[i].UpdatedAt = time.Now().UTC()
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) UpdateUserPassword(_ context.Context, id, passwordHash string) error {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].PasswordHash = passwordHash
			f.users[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return repository.ErrUserNotFound
}

// fakeSessionStore records sessions keyed by token hash.
type fakeSessionStore struct {
	sessions map[string]*model.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*model.Session)}
}

func (f *fakeSessionStore) SetSession(_ context.Context, tokenHash string, session *model.Session, _ time.Duration) error {
	f.sessions[tokenHash] = session
	return nil
}

func (f *fakeSessionStore) DeleteSession(_ context.Context, tokenHash string) error {
	delete(f.sessions, tokenHash)
	return nil
}

func (f *fakeSessionStore) DeleteUserSessions(_ context.Context, userID, keepTokenHash string) error {
	for hash, session := range f.sessions {
		if session.UserID == userID && hash != keepTokenHash {
			delete(f.sessions, hash)
		}
	}
	return nil
}

// fakeDeadlineStore is an in-memory deadlineStore for tests.
type fakeDeadlineStore struct {
	deadlines []model.Deadline
	createErr error
}

func (f *fakeDeadlineStore) CreateDeadline(_ context.Context, d *model.Deadline) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.deadlines = append(f.deadlines, *d)
	return nil
}

func (f *fakeDeadlineStore) ListDeadlines(_ context.Context) ([]model.Deadline, error) {
	return append([]model.Deadline(nil), f.deadlines...), nil
}

func (f *fakeDeadlineStore) UpdateDeadline(_ context.Context, id string, update repository.DeadlineUpdate) (*model.Deadline, error) {
	for i := range f.deadlines {
		if f.deadlines[i].ID == id {
			if update.Type != nil {
				f.deadlines[i].Type = *update.Type
			}
			if update.Deadline != nil {
				f.deadlines[i].Deadline = *update.Deadline
			}
			if update.Description != nil {
				f.deadlines[i].Description = *update.Description
			}
			f.deadlines[i].UpdatedAt = time.Now().UTC()
			d := f.deadlines[i]
			return &d, nil
		}
	}
	return nil, repository.ErrDeadlineNotFound
}

func (f *fakeDeadlineStore) DeleteDeadline(_ context.Context, id string) error {
	for i := range f.deadlines {
		if f.deadlines[i].ID == id {
			f.deadlines = append(f.deadlines[:i], f.deadlines[i+1:]...)
			return nil
		}
	}
	return repository.ErrDeadlineNotFound
}

// fakeDocumentStore is an in-memory documentStore for tests.
type fakeDocumentStore struct {
	documents []model.Document
}

func (f *fakeDocumentStore) CreateDocument(_ context.Context, d *model.Document) error {
	f.documents = append(f.documents, *d)
	return nil
}

func (f *fakeDocumentStore) ListDocuments(_ context.Context, filter repository.DocumentFilter) ([]model.Document, error) {
	if filter.TenantKey == "" {
		return append([]model.Document(nil), f.documents...), nil
	}
	var out []model.Document
	for _, d := range f.documents {
		if strings.EqualFold(d.CompanyName, filter.TenantKey) {
			out = append(out, d)
		}
	}
	return out, nil
}

// fakeBlobStore records puts and can be told to fail.
type fakeBlobStore struct {
	puts   []string
	putErr error
}

func (f *fakeBlobStore) Put(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	f.puts = append(f.puts, key)
	return "https://files.example.com/" + key, nil
}

func (f *fakeBlobStore) ObjectKey(filename string, now time.Time) string {
	return "documents/test-" + filename
}

// fakeAnnouncementStore is an in-memory announcementStore for tests.
type fakeAnnouncementStore struct {
	announcements []model.Announcement
}

func (f *fakeAnnouncementStore) CreateAnnouncement(_ context.Context, a *model.Announcement) error {
	f.announcements = append(f.announcements, *a)
	return nil
}

func (f *fakeAnnouncementStore) ListAnnouncements(_ context.Context) ([]model.Announcement, error) {
	return append([]model.Announcement(nil), f.announcements...), nil
}

var errStoreDown = errors.New("store down")

func adminSession() *model.Session {
	return &model.Session{UserID: "admin-1", Email: "admin@esx.com", Name: "Exchange Admin", Role: model.RoleAdmin}
}

func userSession(email string) *model.Session {
	return &model.Session{UserID: "user-1", Email: email, Name: "Issuer", Role: model.RoleUser}
}
