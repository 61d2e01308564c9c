package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncDocumentUploaded is a no-op.
func (n *NoopRecorder) IncDocumentUploaded() {}

// IncUploadRejected is a no-op.
func (n *NoopRecorder) IncUploadRejected(reason string) {}

// IncDeadlineCreated is a no-op.
func (n *NoopRecorder) IncDeadlineCreated() {}

// IncDeadlineUpdated is a no-op.
func (n *NoopRecorder) IncDeadlineUpdated() {}

// IncDeadlineDeleted is a no-op.
func (n *NoopRecorder) IncDeadlineDeleted() {}

// IncAnnouncementPosted is a no-op.
func (n *NoopRecorder) IncAnnouncementPosted() {}

// IncSignIn is a no-op.
func (n *NoopRecorder) IncSignIn(status string) {}
