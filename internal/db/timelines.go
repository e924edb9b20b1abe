package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CreateTimeline inserts a timeline and fills in its id and timestamps
func (q *Queries) CreateTimeline(ctx context.Context, t *Timeline) error {
	err := q.q.QueryRow(ctx,
		`INSERT INTO timelines (recruiter_id, candidate_id)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		t.RecruiterID, t.CandidateID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create timeline: %w", err)
	}
	return nil
}

// GetTimeline retrieves a timeline by ID
func (q *Queries) GetTimeline(ctx context.Context, id int64) (*Timeline, error) {
	var t Timeline
	err := q.q.QueryRow(ctx,
		`SELECT id, recruiter_id, candidate_id, created_at, updated_at
		 FROM timelines WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.RecruiterID, &t.CandidateID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get timeline: %w", err)
	}
	return &t, nil
}

// TimelineExists reports whether a timeline with the given id exists
func (q *Queries) TimelineExists(ctx context.Context, id int64) (bool, error) {
	ok, err := q.exists(ctx, `SELECT EXISTS(SELECT 1 FROM timelines WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check timeline %d: %w", id, err)
	}
	return ok, nil
}
