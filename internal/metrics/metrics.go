// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Document pipeline
	IncDocumentUploaded()
	IncUploadRejected(reason string) // reason: "validation" or "storage"

	// Deadline management
	IncDeadlineCreated()
	IncDeadlineUpdated()
	IncDeadlineDeleted()

	// Announcements
	IncAnnouncementPosted()

	// Authentication
	IncSignIn(status string) // status: "success" or "failed"
}

// Snapshotter exposes a snapshot of current metric values.
type Snapshotter interface {
	Snapshot() Snapshot
}
