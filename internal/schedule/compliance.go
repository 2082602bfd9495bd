package schedule

import (
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ComplianceWindow is the derived rolling-window compliance metric. Rate is a
// percentage rounded to one decimal and always inside [0, 100].
type ComplianceWindow struct {
	WindowWeeks int     `json:"windowWeeks"` // 0 means all time
	Completed   int     `json:"completed"`
	Total       int     `json:"total"`
	Rate        float64 `json:"rate"`
}

// CompletionKey identifies one completed program day.
type CompletionKey struct {
	AssignmentID primitive.ObjectID
	Date         LocalDate
}

// CompletionSet is the caller-supplied completion data the aggregator counts
// against. Completion tracking itself lives outside the engine.
type CompletionSet map[CompletionKey]struct{}

// ComplianceRange returns the inclusive date window for a compliance query.
// A positive windowWeeks anchors the window at [today - windowWeeks*7, today];
// windowWeeks <= 0 means all time, bounded below by the earliest assignment
// start date (or today when there is none).
func ComplianceRange(windowWeeks int, today LocalDate, earliestStart LocalDate) (start, end LocalDate) {
	if windowWeeks > 0 {
		return today.AddDays(-windowWeeks * 7), today
	}
	if earliestStart.IsZero() || earliestStart.After(today) {
		return today, today
	}
	return earliestStart, today
}

// AggregateCompliance counts schedulable program workout days (rest days
// excluded) across the given per-date views and how many of them appear in
// the completion set.
//
// Malformed upstream data cannot push the metric out of range: completed is
// clamped to total, total = 0 yields rate 0, and the rate itself is clamped
// to [0, 100] after rounding to one decimal.
func AggregateCompliance(windowWeeks int, views []DayView, done CompletionSet) ComplianceWindow {
	var completed, total int
	for _, v := range views {
		for _, it := range v.ProgramItems {
			if it.Cell.IsRestDay {
				continue
			}
			total++
			if _, ok := done[CompletionKey{AssignmentID: it.AssignmentID, Date: it.Date}]; ok {
				completed++
			}
		}
	}

	if completed > total {
		completed = total
	}

	var rate float64
	if total > 0 {
		rate = math.Round(float64(completed)/float64(total)*1000) / 10
		rate = math.Min(100, math.Max(0, rate))
	}

	return ComplianceWindow{
		WindowWeeks: windowWeeks,
		Completed:   completed,
		Total:       total,
		Rate:        rate,
	}
}
