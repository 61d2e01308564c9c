package compliance

import (
	"testing"
	"time"

	"github.com/esxdocs/esxdocs/internal/model"
)

func docOfAge(docType model.DocumentType, ageDays int, now time.Time) model.Document {
	return model.Document{
		Type:      docType,
		CreatedAt: now.AddDate(0, 0, -ageDays),
	}
}

func TestIsPending(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		docType model.DocumentType
		ageDays int
		want    bool
	}{
		{"insider_policy_fresh", model.TypeInsiderTradingPolicy, 0, false},
		{"insider_policy_one_day", model.TypeInsiderTradingPolicy, 1, true},
		{"board_meeting_under_threshold", model.TypeBoardMeetingDisclosure, 4, false},
		{"board_meeting_at_threshold", model.TypeBoardMeetingDisclosure, 5, true},
		{"board_meeting_six_days", model.TypeBoardMeetingDisclosure, 6, true},
		{"share_holder_under_threshold", model.TypeShareHolderMeeting, 6, false},
		{"share_holder_at_threshold", model.TypeShareHolderMeeting, 7, true},
		{"annual_report_never_pending", model.TypeAnnualReport, 400, false},
		{"other_never_pending", model.TypeOther, 400, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := docOfAge(test.docType, test.ageDays, now)
			if got := IsPending(doc, now); got != test.want {
				t.Fatalf("IsPending(%s, %dd old) = %v, want %v", test.docType, test.ageDays, got, test.want)
			}
		})
	}
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	docs := []model.Document{
		docOfAge(model.TypeBoardMeetingDisclosure, 6, now), // pending
		docOfAge(model.TypeInsiderTradingPolicy, 2, now),   // pending
		docOfAge(model.TypeAnnualReport, 90, now),          // never pending
		docOfAge(model.TypeOther, 30, now),                 // never pending
	}
	deadlines := []model.Deadline{
		{ID: "a", Deadline: now.AddDate(0, 0, 10)}, // urgent
		{ID: "b", Deadline: now.AddDate(0, 0, 20)},
		{ID: "c", Deadline: now.AddDate(0, 0, -2)}, // overdue, not urgent
	}

	stats := ComputeStats(docs, deadlines, now)

	if stats.TotalDocuments != 4 {
		t.Fatalf("total = %d, want 4", stats.TotalDocuments)
	}
	if stats.PendingCount != 2 {
		t.Fatalf("pending = %d, want 2", stats.PendingCount)
	}
	if stats.CompletedCount != 2 {
		t.Fatalf("completed = %d, want 2", stats.CompletedCount)
	}
	if stats.UrgentCount != 1 {
		t.Fatalf("urgent = %d, want 1", stats.UrgentCount)
	}
}
