package db

import (
	"context"
	"fmt"
)

// RecruiterExists reports whether a recruiter with the given id exists
func (q *Queries) RecruiterExists(ctx context.Context, id int64) (bool, error) {
	ok, err := q.exists(ctx, `SELECT EXISTS(SELECT 1 FROM recruiters WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check recruiter %d: %w", id, err)
	}
	return ok, nil
}

// EnsureRecruiter inserts the recruiter unless one with the same email exists,
// and returns the stored row either way.
func (q *Queries) EnsureRecruiter(ctx context.Context, r *Recruiter) (*Recruiter, error) {
	var out Recruiter
	err := q.q.QueryRow(ctx,
		`WITH ins AS (
		     INSERT INTO recruiters (first_name, last_name, email)
		     VALUES ($1, $2, $3)
		     ON CONFLICT (email) DO NOTHING
		     RETURNING id, first_name, last_name, email, created_at, updated_at
		 )
		 SELECT id, first_name, last_name, email, created_at, updated_at FROM ins
		 UNION ALL
		 SELECT id, first_name, last_name, email, created_at, updated_at FROM recruiters WHERE email = $3
		 LIMIT 1`,
		r.FirstName, r.LastName, r.Email,
	).Scan(&out.ID, &out.FirstName, &out.LastName, &out.Email, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure recruiter %s: %w", r.Email, err)
	}
	return &out, nil
}
