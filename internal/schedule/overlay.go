package schedule

import (
	"coachhub/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramDayItem is one resolved program-day cell pinned to its assignment
// and date, the unit the replacement overlay and the composer work with.
type ProgramDayItem struct {
	AssignmentID primitive.ObjectID
	ProgramID    primitive.ObjectID
	Date         LocalDate
	Cell         DayCell
}

type replacementKey struct {
	assignmentID primitive.ObjectID
	date         LocalDate
}

// FilterReplaced drops every program-day item whose (assignmentID, date) pair
// has an explicit replacement record. Order-independent and idempotent:
// duplicate records for the same pair have no additional effect, and items
// without a matching record pass through untouched.
func FilterReplaced(items []ProgramDayItem, replacements []domain.ReplacementRecord) []ProgramDayItem {
	if len(replacements) == 0 {
		return items
	}

	replaced := make(map[replacementKey]struct{}, len(replacements))
	for _, r := range replacements {
		replaced[replacementKey{
			assignmentID: r.AssignmentID,
			date:         DateOf(r.ReplacedDate),
		}] = struct{}{}
	}

	kept := make([]ProgramDayItem, 0, len(items))
	for _, it := range items {
		if _, hit := replaced[replacementKey{assignmentID: it.AssignmentID, date: it.Date}]; hit {
			continue
		}
		kept = append(kept, it)
	}
	return kept
}
