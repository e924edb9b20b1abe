package timeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/recruitment-timeline/internal/db"
	"github.com/jonathan/recruitment-timeline/internal/logging"
	"github.com/jonathan/recruitment-timeline/internal/types"
	"github.com/sirupsen/logrus"
)

// Service creates and reads timelines. Every write runs its existence checks,
// ownership chain and inserts in one transaction.
type Service struct {
	store Store
	log   *logrus.Logger
}

// NewService creates a Service. A nil logger uses the logrus standard logger.
func NewService(store Store, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: store, log: log}
}

// FieldLabel turns a JSON field name into the wording used in messages.
func FieldLabel(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func invalidMessage(field string) string {
	return fmt.Sprintf("The selected %s is invalid.", FieldLabel(field))
}

// reference is a request field that must name an existing row.
type reference struct {
	field  string
	id     int64
	exists func(ctx context.Context, id int64) (bool, error)
}

// checkReferences reports every field whose row does not exist.
func checkReferences(ctx context.Context, refs []reference) error {
	verr := NewValidationError()
	if err := addReferenceErrors(ctx, refs, verr); err != nil {
		return err
	}
	if !verr.Empty() {
		return verr
	}
	return nil
}

// addReferenceErrors records an invalid-reference message for each id that
// names no row. Fields verr already reports are skipped.
func addReferenceErrors(ctx context.Context, refs []reference, verr *ValidationError) error {
	for _, ref := range refs {
		if verr.Has(ref.field) {
			continue
		}
		ok, err := ref.exists(ctx, ref.id)
		if err != nil {
			return err
		}
		if !ok {
			verr.Add(ref.field, invalidMessage(ref.field))
		}
	}
	return nil
}

func timelineReferences(r Repository, req types.CreateTimelineRequest) []reference {
	return []reference{
		{field: "recruiter_id", id: req.RecruiterID, exists: r.RecruiterExists},
	}
}

func stepReferences(r Repository, req types.CreateStepRequest) []reference {
	return []reference{
		{field: "candidate_id", id: req.CandidateID, exists: r.CandidateExists},
		{field: "recruiter_id", id: req.RecruiterID, exists: r.RecruiterExists},
		{field: "step_category_id", id: req.StepCategoryID, exists: r.StepCategoryExists},
		{field: "status_category_id", id: req.StatusCategoryID, exists: r.StatusCategoryExists},
	}
}

func statusReferences(r Repository, req types.AppendStatusRequest) []reference {
	return []reference{
		{field: "candidate_id", id: req.CandidateID, exists: r.CandidateExists},
		{field: "recruiter_id", id: req.RecruiterID, exists: r.RecruiterExists},
		{field: "timeline_id", id: req.TimelineID, exists: r.TimelineExists},
		{field: "status_category_id", id: req.StatusCategoryID, exists: r.StatusCategoryExists},
	}
}

// AddReferenceErrors completes a request already rejected on its shape: every
// well-formed id that names no row gets its invalid-reference message in verr,
// so a single response lists all offending fields.
func (s *Service) AddReferenceErrors(ctx context.Context, req any, verr *ValidationError) error {
	var refs []reference
	switch req := req.(type) {
	case types.CreateTimelineRequest:
		refs = timelineReferences(s.store, req)
	case types.CreateStepRequest:
		refs = stepReferences(s.store, req)
	case types.AppendStatusRequest:
		refs = statusReferences(s.store, req)
	default:
		return fmt.Errorf("no references known for %T", req)
	}

	// zero ids are reported by the shape rules
	present := refs[:0]
	for _, ref := range refs {
		if ref.id != 0 {
			present = append(present, ref)
		}
	}
	if err := addReferenceErrors(ctx, present, verr); err != nil {
		return s.fail("check references", err)
	}
	return nil
}

// CreateTimeline creates a candidate and their empty timeline for the recruiter.
func (s *Service) CreateTimeline(ctx context.Context, req types.CreateTimelineRequest) (*types.Timeline, error) {
	var tl db.Timeline
	err := s.store.InTx(ctx, func(r Repository) error {
		err := checkReferences(ctx, timelineReferences(r, req))
		if err != nil {
			return err
		}

		candidate := db.Candidate{
			RecruiterID: req.RecruiterID,
			Name:        req.CandidateName,
			Surname:     req.CandidateSurname,
		}
		if err := r.CreateCandidate(ctx, &candidate); err != nil {
			return err
		}

		tl = db.Timeline{RecruiterID: req.RecruiterID, CandidateID: candidate.ID}
		return r.CreateTimeline(ctx, &tl)
	})
	if err != nil {
		return nil, s.fail("create timeline", err)
	}
	return projectTimeline(&tl, nil, nil), nil
}

// CreateStep adds a step to a timeline together with its initial status.
func (s *Service) CreateStep(ctx context.Context, timelineID int64, req types.CreateStepRequest) (*types.Step, error) {
	var (
		step   db.Step
		status db.StepStatus
	)
	err := s.store.InTx(ctx, func(r Repository) error {
		tl, err := r.GetTimeline(ctx, timelineID)
		if err != nil {
			return err
		}
		if tl == nil {
			return &NotFoundError{Resource: "timeline", ID: timelineID}
		}

		err = checkReferences(ctx, stepReferences(r, req))
		if err != nil {
			return err
		}

		candidate, err := r.GetCandidate(ctx, req.CandidateID)
		if err != nil {
			return err
		}
		if candidate == nil {
			return fmt.Errorf("candidate %d vanished during step creation", req.CandidateID)
		}
		used, err := r.StepCategoryUsed(ctx, tl.ID, req.StepCategoryID)
		if err != nil {
			return err
		}
		if err := CreateStepChain(tl, candidate, req.RecruiterID, req.StepCategoryID, used).First(); err != nil {
			return err
		}

		step = db.Step{RecruiterID: req.RecruiterID, TimelineID: tl.ID, StepCategoryID: req.StepCategoryID}
		if err := r.CreateStep(ctx, &step); err != nil {
			if errors.Is(err, db.ErrDuplicateStepCategory) {
				return &DuplicateStepCategoryError{TimelineID: tl.ID, StepCategoryID: req.StepCategoryID}
			}
			return err
		}

		status = db.StepStatus{StepID: step.ID, RecruiterID: req.RecruiterID, StatusCategoryID: req.StatusCategoryID}
		return r.CreateStepStatus(ctx, &status)
	})
	if err != nil {
		return nil, s.fail("create step", err)
	}
	out := projectStep(&step, &status)
	return &out, nil
}

// AppendStatus records a new status for a step. The status is attributed to
// the step's recruiter.
func (s *Service) AppendStatus(ctx context.Context, stepID int64, req types.AppendStatusRequest) (*types.Status, error) {
	var status db.StepStatus
	err := s.store.InTx(ctx, func(r Repository) error {
		step, err := r.GetStep(ctx, stepID)
		if err != nil {
			return err
		}
		if step == nil {
			return &NotFoundError{Resource: "step", ID: stepID}
		}

		err = checkReferences(ctx, statusReferences(r, req))
		if err != nil {
			return err
		}

		tl, err := r.GetTimeline(ctx, req.TimelineID)
		if err != nil {
			return err
		}
		if tl == nil {
			return fmt.Errorf("timeline %d vanished during status append", req.TimelineID)
		}
		if err := AppendStatusChain(step, tl, req.CandidateID, req.RecruiterID).First(); err != nil {
			return err
		}

		status = db.StepStatus{StepID: step.ID, RecruiterID: step.RecruiterID, StatusCategoryID: req.StatusCategoryID}
		return r.CreateStepStatus(ctx, &status)
	})
	if err != nil {
		return nil, s.fail("append status", err)
	}
	return projectStatus(&status), nil
}

// GetTimeline returns a timeline with its steps in creation order, each
// carrying its current status.
func (s *Service) GetTimeline(ctx context.Context, id int64) (*types.Timeline, error) {
	tl, err := s.store.GetTimeline(ctx, id)
	if err != nil {
		return nil, s.fail("get timeline", err)
	}
	if tl == nil {
		return nil, &NotFoundError{Resource: "timeline", ID: id}
	}

	steps, err := s.store.ListStepsByTimeline(ctx, id)
	if err != nil {
		return nil, s.fail("get timeline", err)
	}
	stepIDs := make([]int64, len(steps))
	for i, st := range steps {
		stepIDs[i] = st.ID
	}
	history, err := s.store.ListStatusesBySteps(ctx, stepIDs)
	if err != nil {
		return nil, s.fail("get timeline", err)
	}
	return projectTimeline(tl, steps, history), nil
}

// RequireTimeline returns a NotFoundError unless the timeline exists.
func (s *Service) RequireTimeline(ctx context.Context, id int64) error {
	ok, err := s.store.TimelineExists(ctx, id)
	if err != nil {
		return s.fail("look up timeline", err)
	}
	if !ok {
		return &NotFoundError{Resource: "timeline", ID: id}
	}
	return nil
}

// RequireStep returns a NotFoundError unless the step exists.
func (s *Service) RequireStep(ctx context.Context, id int64) error {
	st, err := s.store.GetStep(ctx, id)
	if err != nil {
		return s.fail("look up step", err)
	}
	if st == nil {
		return &NotFoundError{Resource: "step", ID: id}
	}
	return nil
}

// fail passes rejection errors through and logs and wraps everything else.
func (s *Service) fail(op string, err error) error {
	if IsRejection(err) {
		return err
	}
	logging.LogError(s.log, "timeline", op, "unexpected storage failure", nil, err)
	return fmt.Errorf("failed to %s: %w", op, err)
}

// IsRejection reports whether err is a client error: validation, ownership,
// duplicate category or a missing path resource.
func IsRejection(err error) bool {
	var (
		verr *ValidationError
		oerr *OwnershipError
		derr *DuplicateStepCategoryError
		nerr *NotFoundError
	)
	return errors.As(err, &verr) || errors.As(err, &oerr) || errors.As(err, &derr) || errors.As(err, &nerr)
}
