package compliance

import (
	"time"

	"github.com/esxdocs/esxdocs/internal/model"
)

// pendingThresholds maps document types to the age in whole days after
// which an uploaded document is flagged pending further workflow action.
// Types not listed are never flagged by this rule.
var pendingThresholds = map[model.DocumentType]int{
	model.TypeInsiderTradingPolicy:   1,
	model.TypeBoardMeetingDisclosure: 5,
	model.TypeShareHolderMeeting:     7,
}

// IsPending reports whether a document's type-specific age threshold has
// elapsed since upload.
func IsPending(doc model.Document, now time.Time) bool {
	threshold, ok := pendingThresholds[doc.Type]
	if !ok {
		return false
	}
	age := int(now.Sub(doc.CreatedAt).Hours() / 24)
	return age >= threshold
}

// DashboardStats are the aggregate counters shown on the landing page.
type DashboardStats struct {
	TotalDocuments int `json:"total_documents"`
	PendingCount   int `json:"pending_count"`
	CompletedCount int `json:"completed_count"`
	UrgentCount    int `json:"urgent_count"`
}

// ComputeStats derives the dashboard counters from the documents in scope
// and the full deadline list.
func ComputeStats(docs []model.Document, deadlines []model.Deadline, now time.Time) DashboardStats {
	pending := 0
	for _, doc := range docs {
		if IsPending(doc, now) {
			pending++
		}
	}
	return DashboardStats{
		TotalDocuments: len(docs),
		PendingCount:   pending,
		CompletedCount: len(docs) - pending,
		UrgentCount:    CountUrgent(deadlines, now),
	}
}
