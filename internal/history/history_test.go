package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/StowPack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntryArgs(runID string) (model.WarehouseConfig, model.Tuning, model.PackingResult) {
	cfg := model.WarehouseConfig{StorageWidth: 200, StorageLength: 200, NumBoxes: 1, MinSide: 30, MaxSide: 60}
	result := model.PackingResult{
		RunID: runID,
		Boxes: []model.Box{{ID: 0, Width: 40, Height: 40, Packed: true}},
		PackingPaths: map[int]model.Path{
			0: {Kind: model.PathFound, Points: []model.Position{{X: 0, Y: 0}}},
		},
		RetrievalOrder: []int{0},
	}
	return cfg, model.DefaultTuning(), result
}

func TestSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	cfg, tuning, result := testEntryArgs("run-1")

	path, err := Save(dir, cfg, tuning, result)
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "run-1")

	entry, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, entry.Warehouse)
	assert.Equal(t, tuning, entry.Tuning)
	assert.Equal(t, "run-1", entry.Result.RunID)
	assert.NotEmpty(t, entry.CreatedAt)
}

func TestLoad_RejectsMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestList_EmptyForMissingDir(t *testing.T) {
	paths, err := List(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestListAndPrune(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	for _, id := range []string{"a", "b", "c"} {
		cfg, tuning, result := testEntryArgs(id)
		_, err := Save(dir, cfg, tuning, result)
		require.NoError(t, err)
	}

	paths, err := List(dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	removed, err := Prune(dir, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	paths, err = List(dir)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}
