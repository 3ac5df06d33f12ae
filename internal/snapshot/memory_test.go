package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSaveAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := Record{PlanID: 1, ElementID: 10, Line: "A D 10 0 5 2 3 2 100 20 30 1 8 4"}
	require.NoError(t, s.Save(ctx, rec))

	got, ok, err := s.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec.Line, got.Line)
}

func TestMemoryStoreGetMissingReturnsFalse(t *testing.T) {
	s := NewMemoryStore()
	_, ok, err := s.Get(context.Background(), 1, 99)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreListByPlanExcludesOtherPlans(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, Record{PlanID: 1, ElementID: 1, Line: "A A 1 1 1"}))
	require.NoError(t, s.Save(ctx, Record{PlanID: 1, ElementID: 2, Line: "A A 2 1 1"}))
	require.NoError(t, s.Save(ctx, Record{PlanID: 2, ElementID: 1, Line: "A A 1 1 1"}))

	recs, err := s.ListByPlan(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestMemoryStoreDeletePlanClearsOnlyThatPlan(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, Record{PlanID: 1, ElementID: 1, Line: "A A 1 1 1"}))
	require.NoError(t, s.Save(ctx, Record{PlanID: 2, ElementID: 1, Line: "A A 1 1 1"}))

	require.NoError(t, s.DeletePlan(ctx, 1))

	recs1, _ := s.ListByPlan(ctx, 1)
	recs2, _ := s.ListByPlan(ctx, 2)
	assert.Empty(t, recs1)
	assert.Len(t, recs2, 1)
}
