package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/recruitment-timeline/internal/timeline"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	verr := timeline.NewValidationError()
	verr.Add("recruiter_id", "The recruiter id field is required.")

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: http.StatusOK},
		{name: "unauthenticated", err: ErrUnauthenticated, expected: http.StatusUnauthorized},
		{name: "not found", err: &timeline.NotFoundError{Resource: "timeline", ID: 1}, expected: http.StatusNotFound},
		{name: "validation", err: verr, expected: http.StatusUnprocessableEntity},
		{name: "ownership", err: &timeline.OwnershipError{Key: "timeline", Message: "x"}, expected: http.StatusUnprocessableEntity},
		{name: "duplicate", err: &timeline.DuplicateStepCategoryError{TimelineID: 1, StepCategoryID: 2}, expected: http.StatusUnprocessableEntity},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", &timeline.NotFoundError{Resource: "step"}), expected: http.StatusNotFound},
		{name: "body too large", err: fmt.Errorf("read: %w", &http.MaxBytesError{Limit: 1}), expected: http.StatusRequestEntityTooLarge},
		{name: "unknown", err: errors.New("connection reset"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestErrorBody(t *testing.T) {
	verr := timeline.NewValidationError()
	verr.Add("candidate_name", "The candidate name field is required.")
	verr.Add("candidate_surname", "The candidate surname field is required.")

	body := ErrorBody(verr)
	assert.Equal(t, "The candidate name field is required. (and 1 more error)", body.Message)
	assert.Len(t, body.Errors, 2)

	verr.Add("candidate_surname", "The candidate surname field must be a string.")
	assert.Equal(t, "The candidate name field is required. (and 2 more errors)", ErrorBody(verr).Message)

	single := timeline.NewValidationError()
	single.Add("recruiter_id", "The selected recruiter id is invalid.")
	assert.Equal(t, "The selected recruiter id is invalid.", ErrorBody(single).Message)

	body = ErrorBody(&timeline.OwnershipError{Key: "candidate", Message: "Candidate does not belong to the recruiter"})
	assert.Equal(t, "Candidate does not belong to the recruiter", body.Message)
	assert.Equal(t, map[string][]string{"candidate": {"Candidate does not belong to the recruiter"}}, body.Errors)

	body = ErrorBody(&timeline.DuplicateStepCategoryError{})
	assert.Equal(t, []string{timeline.DuplicateStepCategoryMessage}, body.Errors[timeline.DuplicateStepCategoryKey])

	body = ErrorBody(&timeline.NotFoundError{Resource: "step", ID: 3})
	assert.Equal(t, "Step not found.", body.Message)
	assert.Nil(t, body.Errors)

	body = ErrorBody(errors.New("pq: password authentication failed"))
	assert.Equal(t, ServerErrorMessage, body.Message)
	assert.Nil(t, body.Errors)
}
