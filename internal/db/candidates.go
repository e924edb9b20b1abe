package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CreateCandidate inserts a candidate and fills in its id and timestamps
func (q *Queries) CreateCandidate(ctx context.Context, c *Candidate) error {
	err := q.q.QueryRow(ctx,
		`INSERT INTO candidates (recruiter_id, name, surname)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		c.RecruiterID, c.Name, c.Surname,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

// GetCandidate retrieves a candidate by ID
func (q *Queries) GetCandidate(ctx context.Context, id int64) (*Candidate, error) {
	var c Candidate
	err := q.q.QueryRow(ctx,
		`SELECT id, recruiter_id, name, surname, created_at, updated_at
		 FROM candidates WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.RecruiterID, &c.Name, &c.Surname, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return &c, nil
}

// CandidateExists reports whether a candidate with the given id exists
func (q *Queries) CandidateExists(ctx context.Context, id int64) (bool, error) {
	ok, err := q.exists(ctx, `SELECT EXISTS(SELECT 1 FROM candidates WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check candidate %d: %w", id, err)
	}
	return ok, nil
}
