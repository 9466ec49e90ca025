package cli

import (
	"bytes"
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/StowPack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBoxes_GeneratedWhenNoManifest(t *testing.T) {
	cfg := model.WarehouseConfig{
		StorageWidth:  200,
		StorageLength: 200,
		NumBoxes:      5,
		MinSide:       20,
		MaxSide:       40,
	}
	boxes, err := loadBoxes("", cfg, rand.New(rand.NewSource(1)))

	require.NoError(t, err)
	assert.Len(t, boxes, 5)
}

func TestLoadBoxes_CSVManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxes.csv")
	require.NoError(t, os.WriteFile(path, []byte("Width,Height,Qty\n60,30,2\n"), 0644))

	boxes, err := loadBoxes(path, model.WarehouseConfig{}, rand.New(rand.NewSource(1)))

	require.NoError(t, err)
	require.Len(t, boxes, 2)
	assert.Equal(t, 60, boxes[0].Width)
}

func TestLoadBoxes_UnsupportedFormat(t *testing.T) {
	_, err := loadBoxes("boxes.txt", model.WarehouseConfig{}, rand.New(rand.NewSource(1)))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported manifest format")
}

func TestLoadBoxes_BrokenManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxes.csv")
	require.NoError(t, os.WriteFile(path, []byte("Width,Height\nabc,def\n"), 0644))

	_, err := loadBoxes(path, model.WarehouseConfig{}, rand.New(rand.NewSource(1)))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "import failed")
}

func TestPackCommand_WritesJSON(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "boxes.csv")
	require.NoError(t, os.WriteFile(manifest, []byte("Width,Height,Qty\n50,50,1\n"), 0644))
	out := filepath.Join(dir, "result.json")

	cmd := BuildCLI()
	cmd.SetArgs([]string{
		"pack",
		"--config", filepath.Join(dir, "absent.yaml"), // defaults apply
		"--boxes", manifest,
		"--seed", "42",
		"--json", out,
	})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPackCommand_RejectsUnknownAlgorithm(t *testing.T) {
	dir := t.TempDir()

	cmd := BuildCLI()
	cmd.SetArgs([]string{
		"pack",
		"--config", filepath.Join(dir, "absent.yaml"),
		"--algorithm", "annealing",
	})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown algorithm")
}
