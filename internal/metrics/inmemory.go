package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	DocumentsUploaded         uint64
	UploadsRejectedValidation uint64
	UploadsRejectedStorage    uint64
	DeadlinesCreated          uint64
	DeadlinesUpdated          uint64
	DeadlinesDeleted          uint64
	AnnouncementsPosted       uint64
	SignInsSucceeded          uint64
	SignInsFailed             uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	documentsUploaded         uint64
	uploadsRejectedValidation uint64
	uploadsRejectedStorage    uint64
	deadlinesCreated          uint64
	deadlinesUpdated          uint64
	deadlinesDeleted          uint64
	announcementsPosted       uint64
	signInsSucceeded          uint64
	signInsFailed             uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		DocumentsUploaded:         atomic.LoadUint64(&m.documentsUploaded),
		UploadsRejectedValidation: atomic.LoadUint64(&m.uploadsRejectedValidation),
		UploadsRejectedStorage:    atomic.LoadUint64(&m.uploadsRejectedStorage),
		DeadlinesCreated:          atomic.LoadUint64(&m.deadlinesCreated),
		DeadlinesUpdated:          atomic.LoadUint64(&m.deadlinesUpdated),
		DeadlinesDeleted:          atomic.LoadUint64(&m.deadlinesDeleted),
		AnnouncementsPosted:       atomic.LoadUint64(&m.announcementsPosted),
		SignInsSucceeded:          atomic.LoadUint64(&m.signInsSucceeded),
		SignInsFailed:             atomic.LoadUint64(&m.signInsFailed),
	}
}

// IncDocumentUploaded increments the uploaded document counter.
func (m *InMemoryRecorder) IncDocumentUploaded() {
	atomic.AddUint64(&m.documentsUploaded, 1)
}

// IncUploadRejected increments the rejected upload counter for a reason.
func (m *InMemoryRecorder) IncUploadRejected(reason string) {
	if reason == "storage" {
		atomic.AddUint64(&m.uploadsRejectedStorage, 1)
		return
	}
	atomic.AddUint64(&m.uploadsRejectedValidation, 1)
}

// IncDeadlineCreated increments the deadline created counter.
func (m *InMemoryRecorder) IncDeadlineCreated() {
	atomic.AddUint64(&m.deadlinesCreated, 1)
}

// IncDeadlineUpdated increments the deadline updated counter.
func (m *InMemoryRecorder) IncDeadlineUpdated() {
	atomic.AddUint64(&m.deadlinesUpdated, 1)
}

// IncDeadlineDeleted increments the deadline deleted counter.
func (m *InMemoryRecorder) IncDeadlineDeleted() {
	atomic.AddUint64(&m.deadlinesDeleted, 1)
}

// IncAnnouncementPosted increments the announcement counter.
func (m *InMemoryRecorder) IncAnnouncementPosted() {
	atomic.AddUint64(&m.announcementsPosted, 1)
}

// IncSignIn increments the sign-in counter for a status.
func (m *InMemoryRecorder) IncSignIn(status string) {
	if status == "success" {
		atomic.AddUint64(&m.signInsSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.signInsFailed, 1)
}
