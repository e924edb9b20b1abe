package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateStepCategory is returned when a step category is already used
// on the timeline. The unique index on steps is the source of truth for it.
var ErrDuplicateStepCategory = errors.New("step category already used on timeline")

const (
	uniqueViolation               = "23505"
	stepsTimelineCategoryUniqueIx = "steps_timeline_id_step_category_id_unique"
)

// mapConstraintError translates known constraint violations into package errors.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == stepsTimelineCategoryUniqueIx {
		return ErrDuplicateStepCategory
	}
	return err
}
