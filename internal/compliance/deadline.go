// Package compliance implements the exchange's filing rules: deadline
// countdowns and urgency bands, type-conditional upload validation, and
// pending-document classification. Everything here is a stateless
// transformation over values fetched fresh for each request.
package compliance

import (
	"fmt"
	"sort"
	"time"

	"github.com/esxdocs/esxdocs/internal/model"
)

// Urgency is the color band attached to a deadline countdown.
type Urgency string

const (
	UrgencyRed    Urgency = "red"    // 15 days or less
	UrgencyYellow Urgency = "yellow" // 16 to 30 days
	UrgencyGreen  Urgency = "green"  // more than 30 days
)

// DaysLeft returns the whole days between now and the target date.
// Negative for past-due deadlines. Partial days are truncated, matching
// calendar-style "days left" counters.
func DaysLeft(target, now time.Time) int {
	return int(target.Sub(now).Hours() / 24)
}

// ClassifyUrgency maps a daysLeft value to its band. Overdue deadlines
// stay in the red band.
func ClassifyUrgency(daysLeft int) Urgency {
	switch {
	case daysLeft <= 15:
		return UrgencyRed
	case daysLeft <= 30:
		return UrgencyYellow
	default:
		return UrgencyGreen
	}
}

// CountdownLabel renders a daysLeft value the way dashboards display it.
func CountdownLabel(daysLeft int) string {
	switch {
	case daysLeft < 0:
		return fmt.Sprintf("%d days overdue", -daysLeft)
	case daysLeft == 0:
		return "Today"
	case daysLeft == 1:
		return "Tomorrow"
	default:
		return fmt.Sprintf("%d days left", daysLeft)
	}
}

// AnnotatedDeadline is a deadline with its countdown computed.
type AnnotatedDeadline struct {
	model.Deadline
	DaysLeft int     `json:"days_left"`
	Urgency  Urgency `json:"urgency"`
	Label    string  `json:"label"`
}

// Annotate attaches countdown data to a deadline as of now.
func Annotate(d model.Deadline, now time.Time) AnnotatedDeadline {
	days := DaysLeft(d.Deadline, now)
	return AnnotatedDeadline{
		Deadline: d,
		DaysLeft: days,
		Urgency:  ClassifyUrgency(days),
		Label:    CountdownLabel(days),
	}
}

// AnnotateAll computes countdowns for a full deadline list without
// filtering or reordering. This is the administrative management view:
// overdue entries are kept and labeled.
func AnnotateAll(deadlines []model.Deadline, now time.Time) []AnnotatedDeadline {
	out := make([]AnnotatedDeadline, 0, len(deadlines))
	for _, d := range deadlines {
		out = append(out, Annotate(d, now))
	}
	return out
}

// Upcoming returns the dashboard summary: only deadlines that have not
// passed, sorted soonest first, truncated to limit. The sort is stable so
// deadlines on the same day keep their stored order.
func Upcoming(deadlines []model.Deadline, now time.Time, limit int) []AnnotatedDeadline {
	out := make([]AnnotatedDeadline, 0, len(deadlines))
	for _, d := range deadlines {
		a := Annotate(d, now)
		if a.DaysLeft >= 0 {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysLeft < out[j].DaysLeft
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CountUrgent returns how many upcoming deadlines sit in the red band.
// Overdue deadlines are excluded, matching the dashboard's alert badge.
func CountUrgent(deadlines []model.Deadline, now time.Time) int {
	count := 0
	for _, d := range deadlines {
		days := DaysLeft(d.Deadline, now)
		if days >= 0 && days <= 15 {
			count++
		}
	}
	return count
}
