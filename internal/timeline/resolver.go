package timeline

import "github.com/jonathan/recruitment-timeline/internal/db"

// CurrentStatus returns the latest entry of a status history: the greatest
// created_at, ties broken by the greater id. It returns nil for an empty
// history and never reorders the input.
func CurrentStatus(statuses []db.StepStatus) *db.StepStatus {
	var current *db.StepStatus
	for i := range statuses {
		s := &statuses[i]
		if current == nil || later(s, current) {
			current = s
		}
	}
	if current == nil {
		return nil
	}
	out := *current
	return &out
}

func later(a, b *db.StepStatus) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}
