// Package types provides the request and response shapes of the recruitment timeline API.
package types

import "time"

// CreateTimelineRequest creates a candidate and their timeline for a recruiter.
type CreateTimelineRequest struct {
	RecruiterID      int64  `json:"recruiter_id" validate:"required"`
	CandidateName    string `json:"candidate_name" validate:"required,max=255"`
	CandidateSurname string `json:"candidate_surname" validate:"required,max=255"`
}

// CreateStepRequest adds a step to a timeline together with its initial status.
type CreateStepRequest struct {
	CandidateID      int64 `json:"candidate_id" validate:"required"`
	RecruiterID      int64 `json:"recruiter_id" validate:"required"`
	StepCategoryID   int64 `json:"step_category_id" validate:"required"`
	StatusCategoryID int64 `json:"status_category_id" validate:"required"`
}

// AppendStatusRequest appends a status change to a step's history.
type AppendStatusRequest struct {
	CandidateID      int64 `json:"candidate_id" validate:"required"`
	RecruiterID      int64 `json:"recruiter_id" validate:"required"`
	TimelineID       int64 `json:"timeline_id" validate:"required"`
	StatusCategoryID int64 `json:"status_category_id" validate:"required"`
}

// Timeline is the read projection of a timeline with its steps.
// Steps is never nil so it encodes as [] when empty.
type Timeline struct {
	ID          int64     `json:"id"`
	RecruiterID int64     `json:"recruiter_id"`
	CandidateID int64     `json:"candidate_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Steps       []Step    `json:"steps"`
}

// Step is a timeline step with its current status, or null when it has none.
type Step struct {
	ID             int64     `json:"id"`
	RecruiterID    int64     `json:"recruiter_id"`
	TimelineID     int64     `json:"timeline_id"`
	StepCategoryID int64     `json:"step_category_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	CurrentStatus  *Status   `json:"current_status"`
}

// Status is one entry of a step's status history.
type Status struct {
	ID               int64     `json:"id"`
	StepID           int64     `json:"step_id"`
	RecruiterID      int64     `json:"recruiter_id"`
	StatusCategoryID int64     `json:"status_category_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DataResponse wraps a successful resource response.
type DataResponse struct {
	Data any `json:"data"`
}

// ErrorResponse is the body of every 4xx/5xx response. Errors maps a field or
// rule key to its messages and is omitted when empty.
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}
