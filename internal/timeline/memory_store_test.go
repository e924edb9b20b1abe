package timeline

import (
	"context"
	"testing"

	"github.com/jonathan/recruitment-timeline/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SeedDefaults(t *testing.T) {
	store := NewMemoryStore()
	store.SeedDefaults()
	ctx := context.Background()

	for id := int64(1); id <= int64(len(db.DefaultRecruiters)); id++ {
		ok, err := store.RecruiterExists(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok, "recruiter %d", id)
	}
	ok, err := store.StepCategoryExists(ctx, int64(len(db.DefaultStepCategories)))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.StatusCategoryExists(ctx, int64(len(db.DefaultStatusCategories)+1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_UniqueStepCategory(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.CreateStep(ctx, &db.Step{TimelineID: 1, StepCategoryID: 1}))
	assert.ErrorIs(t, store.CreateStep(ctx, &db.Step{TimelineID: 1, StepCategoryID: 1}), db.ErrDuplicateStepCategory)
	require.NoError(t, store.CreateStep(ctx, &db.Step{TimelineID: 2, StepCategoryID: 1}))

	steps, err := store.ListStepsByTimeline(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, steps, 1)
}

func TestMemoryStore_InTxRollback(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.InTx(ctx, func(r Repository) error {
		if err := r.CreateCandidate(ctx, &db.Candidate{RecruiterID: 1, Name: "Jane"}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	ok, err := store.CandidateExists(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	// ids handed out in the failed transaction are reused
	c := &db.Candidate{RecruiterID: 1, Name: "Jane"}
	require.NoError(t, store.CreateCandidate(ctx, c))
	assert.Equal(t, int64(1), c.ID)
}

func TestMemoryStore_ListStatusesBySteps(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, stepID := range []int64{1, 2, 1} {
		require.NoError(t, store.CreateStepStatus(ctx, &db.StepStatus{StepID: stepID}))
	}

	history, err := store.ListStatusesBySteps(ctx, []int64{1, 3})
	require.NoError(t, err)
	require.Len(t, history[1], 2)
	assert.Less(t, history[1][0].ID, history[1][1].ID)
	assert.NotContains(t, history, int64(2))
	assert.Empty(t, history[3])
}
