package handler

import (
	"fmt"
	"net/http"

	"github.com/esxdocs/esxdocs/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "esxdocs_documents_uploaded_total %d\n", snap.DocumentsUploaded)
	writeMetric(w, "esxdocs_uploads_rejected_total{reason=\"validation\"} %d\n", snap.UploadsRejectedValidation)
	writeMetric(w, "esxdocs_uploads_rejected_total{reason=\"storage\"} %d\n", snap.UploadsRejectedStorage)

	writeMetric(w, "esxdocs_deadlines_created_total %d\n", snap.DeadlinesCreated)
	writeMetric(w, "esxdocs_deadlines_updated_total %d\n", snap.DeadlinesUpdated)
	writeMetric(w, "esxdocs_deadlines_deleted_total %d\n", snap.DeadlinesDeleted)

	writeMetric(w, "esxdocs_announcements_posted_total %d\n", snap.AnnouncementsPosted)

	writeMetric(w, "esxdocs_sign_ins_total{status=\"success\"} %d\n", snap.SignInsSucceeded)
	writeMetric(w, "esxdocs_sign_ins_total{status=\"failed\"} %d\n", snap.SignInsFailed)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
