package db

import (
	"context"
	"fmt"
)

// CreateStepStatus appends a status row to a step's history.
// Status rows are never updated or deleted.
func (q *Queries) CreateStepStatus(ctx context.Context, s *StepStatus) error {
	err := q.q.QueryRow(ctx,
		`INSERT INTO step_statuses (step_id, recruiter_id, status_category_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		s.StepID, s.RecruiterID, s.StatusCategoryID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create step status: %w", err)
	}
	return nil
}

// ListStatusesBySteps returns the status history of each given step, keyed by step id
func (q *Queries) ListStatusesBySteps(ctx context.Context, stepIDs []int64) (map[int64][]StepStatus, error) {
	out := make(map[int64][]StepStatus, len(stepIDs))
	if len(stepIDs) == 0 {
		return out, nil
	}

	rows, err := q.q.Query(ctx,
		`SELECT id, step_id, recruiter_id, status_category_id, created_at, updated_at
		 FROM step_statuses WHERE step_id = ANY($1) ORDER BY id`,
		stepIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list step statuses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s StepStatus
		if err := rows.Scan(&s.ID, &s.StepID, &s.RecruiterID, &s.StatusCategoryID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan step status: %w", err)
		}
		out[s.StepID] = append(out[s.StepID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate step statuses: %w", err)
	}
	return out, nil
}

// CountStatusesByStep returns the number of history rows of a step
func (q *Queries) CountStatusesByStep(ctx context.Context, stepID int64) (int, error) {
	var n int
	if err := q.q.QueryRow(ctx, `SELECT COUNT(*) FROM step_statuses WHERE step_id = $1`, stepID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count step statuses: %w", err)
	}
	return n, nil
}
