package compliance

import (
	"testing"
	"time"

	"github.com/esxdocs/esxdocs/internal/model"
)

func TestClassifyUrgencyBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		daysLeft int
		want     Urgency
	}{
		{"overdue", -3, UrgencyRed},
		{"today", 0, UrgencyRed},
		{"ten_days", 10, UrgencyRed},
		{"exactly_15", 15, UrgencyRed},
		{"exactly_16", 16, UrgencyYellow},
		{"exactly_30", 30, UrgencyYellow},
		{"exactly_31", 31, UrgencyGreen},
		{"far_out", 120, UrgencyGreen},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ClassifyUrgency(test.daysLeft); got != test.want {
				t.Fatalf("ClassifyUrgency(%d) = %q, want %q", test.daysLeft, got, test.want)
			}
		})
	}
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		target time.Time
		want   int
	}{
		{"ten_days_out", now.AddDate(0, 0, 10), 10},
		{"sixteen_days_out", now.AddDate(0, 0, 16), 16},
		{"thirty_one_days_out", now.AddDate(0, 0, 31), 31},
		{"same_instant", now, 0},
		{"three_days_overdue", now.AddDate(0, 0, -3), -3},
		{"later_today", now.Add(6 * time.Hour), 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := DaysLeft(test.target, now); got != test.want {
				t.Fatalf("DaysLeft = %d, want %d", got, test.want)
			}
		})
	}
}

func TestCountdownLabel(t *testing.T) {
	tests := []struct {
		daysLeft int
		want     string
	}{
		{-3, "3 days overdue"},
		{-1, "1 days overdue"},
		{0, "Today"},
		{1, "Tomorrow"},
		{2, "2 days left"},
		{45, "45 days left"},
	}

	for _, test := range tests {
		if got := CountdownLabel(test.daysLeft); got != test.want {
			t.Fatalf("CountdownLabel(%d) = %q, want %q", test.daysLeft, got, test.want)
		}
	}
}

func deadlineAt(id string, target time.Time) model.Deadline {
	return model.Deadline{ID: id, Type: "Annual Report", Deadline: target}
}

func TestUpcomingFiltersSortsAndTruncates(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	deadlines := []model.Deadline{
		deadlineAt("d40", now.AddDate(0, 0, 40)),
		deadlineAt("overdue", now.AddDate(0, 0, -3)),
		deadlineAt("d5", now.AddDate(0, 0, 5)),
		deadlineAt("d20", now.AddDate(0, 0, 20)),
		deadlineAt("d1", now.AddDate(0, 0, 1)),
	}

	got := Upcoming(deadlines, now, 3)

	if len(got) != 3 {
		t.Fatalf("expected 3 upcoming deadlines, got %d", len(got))
	}
	wantOrder := []string{"d1", "d5", "d20"}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Fatalf("position %d: got %q, want %q", i, got[i].ID, want)
		}
	}
	for _, a := range got {
		if a.DaysLeft < 0 {
			t.Fatalf("overdue deadline %q leaked into upcoming list", a.ID)
		}
	}
}

func TestAnnotateAllKeepsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	deadlines := []model.Deadline{
		deadlineAt("overdue", now.AddDate(0, 0, -3)),
		deadlineAt("soon", now.AddDate(0, 0, 2)),
	}

	got := AnnotateAll(deadlines, now)
	if len(got) != 2 {
		t.Fatalf("expected all deadlines annotated, got %d", len(got))
	}
	if got[0].ID != "overdue" || got[1].ID != "soon" {
		t.Fatalf("management view must preserve stored order, got %q then %q", got[0].ID, got[1].ID)
	}
	if got[0].DaysLeft != -3 {
		t.Fatalf("overdue daysLeft = %d, want -3", got[0].DaysLeft)
	}
	if got[0].Label != "3 days overdue" {
		t.Fatalf("overdue label = %q", got[0].Label)
	}
	if got[0].Urgency != UrgencyRed {
		t.Fatalf("overdue urgency = %q, want red", got[0].Urgency)
	}
}

func TestCountUrgent(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	deadlines := []model.Deadline{
		deadlineAt("overdue", now.AddDate(0, 0, -1)), // excluded: already passed
		deadlineAt("today", now),
		deadlineAt("d15", now.AddDate(0, 0, 15)),
		deadlineAt("d16", now.AddDate(0, 0, 16)),
	}

	if got := CountUrgent(deadlines, now); got != 2 {
		t.Fatalf("CountUrgent = %d, want 2", got)
	}
}
