package database_test

import (
	"testing"

	"expoflow/internal/database"
	"expoflow/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewStorePreloadsOneActorPerRole(t *testing.T) {
	store := database.NewStore()
	actors := store.ListActors()
	require.Len(t, actors, len(model.Roles))
	for i, role := range model.Roles {
		assert.Equal(t, role, actors[i].Role)
	}
}

func TestSeedDemoData(t *testing.T) {
	store := database.NewStore()
	require.NoError(t, database.SeedDemoData(store, zap.NewNop()))

	assert.Len(t, store.ListProducts(), 3)
	exhibitions := store.ListExhibitions()
	require.Len(t, exhibitions, 1)
	assert.Equal(t, "EX-0001", exhibitions[0].ExhibitionCode)
	assert.Len(t, store.ListPendingExhibitionProducts(), 3)
	for _, p := range store.ListProducts() {
		assert.False(t, p.Approved)
	}
}
