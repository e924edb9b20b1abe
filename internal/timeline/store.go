// Package timeline validates and records recruitment timelines, their steps
// and each step's status history.
package timeline

import (
	"context"

	"github.com/jonathan/recruitment-timeline/internal/db"
)

// Repository is the set of queries the service runs, inside or outside a transaction.
// Get methods return nil, nil when the row does not exist.
type Repository interface {
	RecruiterExists(ctx context.Context, id int64) (bool, error)
	CandidateExists(ctx context.Context, id int64) (bool, error)
	TimelineExists(ctx context.Context, id int64) (bool, error)
	StepCategoryExists(ctx context.Context, id int64) (bool, error)
	StatusCategoryExists(ctx context.Context, id int64) (bool, error)

	GetCandidate(ctx context.Context, id int64) (*db.Candidate, error)
	GetTimeline(ctx context.Context, id int64) (*db.Timeline, error)
	GetStep(ctx context.Context, id int64) (*db.Step, error)
	ListStepsByTimeline(ctx context.Context, timelineID int64) ([]db.Step, error)
	ListStatusesBySteps(ctx context.Context, stepIDs []int64) (map[int64][]db.StepStatus, error)
	StepCategoryUsed(ctx context.Context, timelineID, stepCategoryID int64) (bool, error)

	CreateCandidate(ctx context.Context, c *db.Candidate) error
	CreateTimeline(ctx context.Context, t *db.Timeline) error
	CreateStep(ctx context.Context, s *db.Step) error
	CreateStepStatus(ctx context.Context, s *db.StepStatus) error
}

// Store is a Repository that can run a function atomically. Any error returned
// by fn discards every write it made.
type Store interface {
	Repository
	InTx(ctx context.Context, fn func(r Repository) error) error
}

type postgresStore struct {
	*db.DB
}

// NewPostgresStore adapts a database pool to Store.
func NewPostgresStore(database *db.DB) Store {
	return &postgresStore{DB: database}
}

func (s *postgresStore) InTx(ctx context.Context, fn func(r Repository) error) error {
	return s.DB.InTx(ctx, func(q *db.Queries) error {
		return fn(q)
	})
}
