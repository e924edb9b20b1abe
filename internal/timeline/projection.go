package timeline

import (
	"github.com/jonathan/recruitment-timeline/internal/db"
	"github.com/jonathan/recruitment-timeline/internal/types"
)

func projectStatus(s *db.StepStatus) *types.Status {
	if s == nil {
		return nil
	}
	return &types.Status{
		ID:               s.ID,
		StepID:           s.StepID,
		RecruiterID:      s.RecruiterID,
		StatusCategoryID: s.StatusCategoryID,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func projectStep(s *db.Step, current *db.StepStatus) types.Step {
	return types.Step{
		ID:             s.ID,
		RecruiterID:    s.RecruiterID,
		TimelineID:     s.TimelineID,
		StepCategoryID: s.StepCategoryID,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		CurrentStatus:  projectStatus(current),
	}
}

// projectTimeline builds the read view of a timeline. history maps a step id
// to its full status history.
func projectTimeline(tl *db.Timeline, steps []db.Step, history map[int64][]db.StepStatus) *types.Timeline {
	out := &types.Timeline{
		ID:          tl.ID,
		RecruiterID: tl.RecruiterID,
		CandidateID: tl.CandidateID,
		CreatedAt:   tl.CreatedAt,
		UpdatedAt:   tl.UpdatedAt,
		Steps:       make([]types.Step, 0, len(steps)),
	}
	for i := range steps {
		out.Steps = append(out.Steps, projectStep(&steps[i], CurrentStatus(history[steps[i].ID])))
	}
	return out
}
