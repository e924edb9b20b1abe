package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CreateStep inserts a step. A second step with the same category on the same
// timeline fails with ErrDuplicateStepCategory.
func (q *Queries) CreateStep(ctx context.Context, s *Step) error {
	err := q.q.QueryRow(ctx,
		`INSERT INTO steps (recruiter_id, timeline_id, step_category_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		s.RecruiterID, s.TimelineID, s.StepCategoryID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create step: %w", err)
	}
	return nil
}

// GetStep retrieves a step by ID
func (q *Queries) GetStep(ctx context.Context, id int64) (*Step, error) {
	var s Step
	err := q.q.QueryRow(ctx,
		`SELECT id, recruiter_id, timeline_id, step_category_id, created_at, updated_at
		 FROM steps WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.RecruiterID, &s.TimelineID, &s.StepCategoryID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get step: %w", err)
	}
	return &s, nil
}

// ListStepsByTimeline returns the steps of a timeline in insertion order
func (q *Queries) ListStepsByTimeline(ctx context.Context, timelineID int64) ([]Step, error) {
	rows, err := q.q.Query(ctx,
		`SELECT id, recruiter_id, timeline_id, step_category_id, created_at, updated_at
		 FROM steps WHERE timeline_id = $1 ORDER BY id`,
		timelineID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	defer rows.Close()

	var steps []Step
	for rows.Next() {
		var s Step
		if err := rows.Scan(&s.ID, &s.RecruiterID, &s.TimelineID, &s.StepCategoryID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		steps = append(steps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate steps: %w", err)
	}
	return steps, nil
}

// StepCategoryUsed reports whether the timeline already has a step of the category
func (q *Queries) StepCategoryUsed(ctx context.Context, timelineID, stepCategoryID int64) (bool, error) {
	var used bool
	err := q.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM steps WHERE timeline_id = $1 AND step_category_id = $2)`,
		timelineID, stepCategoryID,
	).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("failed to check step category usage: %w", err)
	}
	return used, nil
}
