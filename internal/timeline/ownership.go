package timeline

import "github.com/jonathan/recruitment-timeline/internal/db"

// Ownership relations checked before a write.
const (
	RelationTimelineCandidate  = "timeline/candidate"
	RelationTimelineRecruiter  = "timeline/recruiter"
	RelationCandidateRecruiter = "candidate/recruiter"
	RelationStepTimeline       = "step/timeline"
	RelationStepRecruiter      = "step/recruiter"
	RelationStepCategoryUnique = "step_category/unique"
)

// Check is one named ownership rule.
type Check struct {
	Name string
	Run  func() error
}

// Chain is an ordered list of checks. Order is precedence: only the first
// failure is reported.
type Chain []Check

// First runs the checks in order and returns the first failure.
func (c Chain) First() error {
	for _, check := range c {
		if err := check.Run(); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the check names in evaluation order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, check := range c {
		names[i] = check.Name
	}
	return names
}

// TimelineBelongsToCandidate fails when the timeline is not the candidate's.
func TimelineBelongsToCandidate(tl *db.Timeline, candidateID int64) error {
	if tl.CandidateID != candidateID {
		return &OwnershipError{Relation: RelationTimelineCandidate, Key: "timeline", Message: "Timeline does not belong to the candidate"}
	}
	return nil
}

// TimelineBelongsToRecruiter fails when the timeline is not the recruiter's.
func TimelineBelongsToRecruiter(tl *db.Timeline, recruiterID int64) error {
	if tl.RecruiterID != recruiterID {
		return &OwnershipError{Relation: RelationTimelineRecruiter, Key: "timeline", Message: "Timeline does not belong to the recruiter"}
	}
	return nil
}

// CandidateBelongsToRecruiter fails when the candidate is not the recruiter's.
func CandidateBelongsToRecruiter(c *db.Candidate, recruiterID int64) error {
	if c.RecruiterID != recruiterID {
		return &OwnershipError{Relation: RelationCandidateRecruiter, Key: "candidate", Message: "Candidate does not belong to the recruiter"}
	}
	return nil
}

// StepBelongsToTimeline fails when the step is on another timeline.
func StepBelongsToTimeline(st *db.Step, timelineID int64) error {
	if st.TimelineID != timelineID {
		return &OwnershipError{Relation: RelationStepTimeline, Key: "timeline_id", Message: "Step does not belong to this timeline"}
	}
	return nil
}

// StepBelongsToRecruiter fails when the step is not the recruiter's.
func StepBelongsToRecruiter(st *db.Step, recruiterID int64) error {
	if st.RecruiterID != recruiterID {
		return &OwnershipError{Relation: RelationStepRecruiter, Key: "recruiter_id", Message: "Step does not belong to this recruiter"}
	}
	return nil
}

// StepCategoryUnique fails when the category is already used on the timeline.
func StepCategoryUnique(used bool, timelineID, stepCategoryID int64) error {
	if used {
		return &DuplicateStepCategoryError{TimelineID: timelineID, StepCategoryID: stepCategoryID}
	}
	return nil
}

// CreateStepChain is the rule set for adding a step to a timeline.
// used reports whether the category is already on the timeline.
func CreateStepChain(tl *db.Timeline, candidate *db.Candidate, recruiterID, stepCategoryID int64, used bool) Chain {
	return Chain{
		{Name: RelationTimelineCandidate, Run: func() error { return TimelineBelongsToCandidate(tl, candidate.ID) }},
		{Name: RelationTimelineRecruiter, Run: func() error { return TimelineBelongsToRecruiter(tl, recruiterID) }},
		{Name: RelationCandidateRecruiter, Run: func() error { return CandidateBelongsToRecruiter(candidate, recruiterID) }},
		{Name: RelationStepCategoryUnique, Run: func() error { return StepCategoryUnique(used, tl.ID, stepCategoryID) }},
	}
}

// AppendStatusChain is the rule set for appending a status to a step.
func AppendStatusChain(st *db.Step, tl *db.Timeline, candidateID, recruiterID int64) Chain {
	return Chain{
		{Name: RelationStepTimeline, Run: func() error { return StepBelongsToTimeline(st, tl.ID) }},
		{Name: RelationTimelineCandidate, Run: func() error { return timelineOfCandidate(tl, candidateID) }},
		{Name: RelationStepRecruiter, Run: func() error { return StepBelongsToRecruiter(st, recruiterID) }},
	}
}

// timelineOfCandidate is the status-append variant of TimelineBelongsToCandidate,
// reported against the candidate_id field.
func timelineOfCandidate(tl *db.Timeline, candidateID int64) error {
	if tl.CandidateID != candidateID {
		return &OwnershipError{Relation: RelationTimelineCandidate, Key: "candidate_id", Message: "Timeline does not belong to this candidate"}
	}
	return nil
}
