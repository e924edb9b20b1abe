package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// StepCategoryExists reports whether a step category with the given id exists
func (q *Queries) StepCategoryExists(ctx context.Context, id int64) (bool, error) {
	ok, err := q.exists(ctx, `SELECT EXISTS(SELECT 1 FROM step_categories WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check step category %d: %w", id, err)
	}
	return ok, nil
}

// StatusCategoryExists reports whether a status category with the given id exists
func (q *Queries) StatusCategoryExists(ctx context.Context, id int64) (bool, error) {
	ok, err := q.exists(ctx, `SELECT EXISTS(SELECT 1 FROM status_categories WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check status category %d: %w", id, err)
	}
	return ok, nil
}

// EnsureStepCategory returns the step category whose English title matches,
// creating it when missing.
func (q *Queries) EnsureStepCategory(ctx context.Context, title string) (*StepCategory, error) {
	var c StepCategory
	err := q.q.QueryRow(ctx,
		`SELECT id, title, created_at, updated_at FROM step_categories WHERE title->>'en' = $1`,
		title,
	).Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get step category %q: %w", title, err)
	}

	c.Title = map[string]string{"en": title}
	err = q.q.QueryRow(ctx,
		`INSERT INTO step_categories (title) VALUES ($1)
		 RETURNING id, created_at, updated_at`,
		c.Title,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create step category %q: %w", title, err)
	}
	return &c, nil
}

// EnsureStatusCategory returns the status category with the given title,
// creating it when missing.
func (q *Queries) EnsureStatusCategory(ctx context.Context, title string) (*StatusCategory, error) {
	var c StatusCategory
	err := q.q.QueryRow(ctx,
		`INSERT INTO status_categories (title) VALUES ($1)
		 ON CONFLICT (title) DO UPDATE SET title = EXCLUDED.title
		 RETURNING id, title, created_at, updated_at`,
		title,
	).Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure status category %q: %w", title, err)
	}
	return &c, nil
}

// ListStepCategories returns all step categories ordered by id
func (q *Queries) ListStepCategories(ctx context.Context) ([]StepCategory, error) {
	rows, err := q.q.Query(ctx, `SELECT id, title, created_at, updated_at FROM step_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list step categories: %w", err)
	}
	defer rows.Close()

	var out []StepCategory
	for rows.Next() {
		var c StepCategory
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan step category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListStatusCategories returns all status categories ordered by id
func (q *Queries) ListStatusCategories(ctx context.Context) ([]StatusCategory, error) {
	rows, err := q.q.Query(ctx, `SELECT id, title, created_at, updated_at FROM status_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list status categories: %w", err)
	}
	defer rows.Close()

	var out []StatusCategory
	for rows.Next() {
		var c StatusCategory
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
