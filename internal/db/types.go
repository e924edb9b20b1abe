package db

import "time"

// Recruiter owns candidates, timelines, steps and statuses.
type Recruiter struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Candidate is a person tracked through a recruitment process.
type Candidate struct {
	ID          int64     `json:"id"`
	RecruiterID int64     `json:"recruiter_id"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Timeline groups the recruitment steps of one candidate.
type Timeline struct {
	ID          int64     `json:"id"`
	RecruiterID int64     `json:"recruiter_id"`
	CandidateID int64     `json:"candidate_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Step is one stage of a timeline. A step category appears at most once per timeline.
type Step struct {
	ID             int64     `json:"id"`
	RecruiterID    int64     `json:"recruiter_id"`
	TimelineID     int64     `json:"timeline_id"`
	StepCategoryID int64     `json:"step_category_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StepStatus is one entry of a step's append-only status history.
type StepStatus struct {
	ID               int64     `json:"id"`
	StepID           int64     `json:"step_id"`
	RecruiterID      int64     `json:"recruiter_id"`
	StatusCategoryID int64     `json:"status_category_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StepCategory is a lookup row; Title is keyed by locale (JSONB).
type StepCategory struct {
	ID        int64             `json:"id"`
	Title     map[string]string `json:"title"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// StatusCategory is a lookup row such as "Pending" or "Complete".
type StatusCategory struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
