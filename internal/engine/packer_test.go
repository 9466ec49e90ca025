package engine

import (
	"context"
	"math/rand"
	"sort"
	"testing"

	"github.com/piwi3910/StowPack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPacker(cfg model.WarehouseConfig, seed int64) *Packer {
	return NewPacker(cfg, model.DefaultTuning(), rand.New(rand.NewSource(seed)))
}

func TestPack_SingleBoxFillsCorner(t *testing.T) {
	// 100x100 arena, one 50x50 box, no clearance: the first raster position
	// (0,0) is accepted, and the retrieval path terminates immediately
	// because the box already touches two boundary edges.
	cfg := model.WarehouseConfig{StorageWidth: 100, StorageLength: 100, MinSide: 50, MaxSide: 51}
	boxes := []model.Box{{ID: 0, Width: 50, Height: 50}}

	result := newTestPacker(cfg, 1).Pack(context.Background(), boxes)

	require.Equal(t, 1, result.PackedCount())
	b := result.Boxes[0]
	assert.Equal(t, 0, b.X)
	assert.Equal(t, 0, b.Y)
	assert.False(t, b.Rotated)

	retrieval := result.RetrievalPaths[0]
	require.Len(t, retrieval, 1)
	assert.Equal(t, model.Position{X: 0, Y: 0}, retrieval[0])

	packing := result.PackingPaths[0]
	assert.Equal(t, model.PathFound, packing.Kind)
	assert.Equal(t, model.Position{X: 0, Y: 0}, packing.Points[0])
}

func TestPack_ClearanceSeparation(t *testing.T) {
	// Two 50x50 boxes with clearance 10 need 20 units of separation along
	// an axis. A 100x100 arena cannot provide that, so the second box must
	// stay unpacked; in a wider arena it commits at least 20 units away.
	boxes := []model.Box{
		{ID: 0, Width: 50, Height: 50},
		{ID: 1, Width: 50, Height: 50},
	}

	tight := model.WarehouseConfig{StorageWidth: 100, StorageLength: 100, MinSide: 50, MaxSide: 51, Clearance: 10}
	result := newTestPacker(tight, 1).Pack(context.Background(), boxes)
	assert.Equal(t, 1, result.PackedCount())

	wide := tight
	wide.StorageWidth = 200
	result = newTestPacker(wide, 1).Pack(context.Background(), boxes)
	require.Equal(t, 2, result.PackedCount())

	a, b := result.Boxes[0], result.Boxes[1]
	sepX := b.X - (a.X + a.Width)
	sepY := b.Y - (a.Y + a.Height)
	assert.True(t, sepX >= 20 || sepY >= 20,
		"committed boxes must keep 2x clearance apart, got sepX=%d sepY=%d", sepX, sepY)
}

func TestPack_OnlyOneBoxFits(t *testing.T) {
	// 60x60 arena, three 50x50 boxes: exactly one can exist at a time.
	cfg := model.WarehouseConfig{StorageWidth: 60, StorageLength: 60, MinSide: 50, MaxSide: 51}
	boxes := []model.Box{
		{ID: 0, Width: 50, Height: 50},
		{ID: 1, Width: 50, Height: 50},
		{ID: 2, Width: 50, Height: 50},
	}

	result := newTestPacker(cfg, 3).Pack(context.Background(), boxes)

	assert.Equal(t, 1, result.PackedCount())
	for _, b := range result.Boxes[1:] {
		assert.False(t, b.Packed)
		_, hasPacking := result.PackingPaths[b.ID]
		_, hasRetrieval := result.RetrievalPaths[b.ID]
		assert.False(t, hasPacking, "unpacked box %d must have no packing path", b.ID)
		assert.False(t, hasRetrieval, "unpacked box %d must have no retrieval path", b.ID)
	}
	assert.NotEmpty(t, result.Warnings)
}

func TestPack_InflatedRectsNeverOverlap(t *testing.T) {
	cfg := model.WarehouseConfig{
		StorageWidth:  300,
		StorageLength: 300,
		NumBoxes:      12,
		MinSide:       30,
		MaxSide:       60,
		Clearance:     10,
	}
	rng := rand.New(rand.NewSource(99))
	boxes := GenerateBoxes(cfg, rng)

	result := NewPacker(cfg, model.DefaultTuning(), rng).Pack(context.Background(), boxes)

	var packed []model.Box
	for _, b := range result.Boxes {
		if b.Packed {
			packed = append(packed, b)
		}
	}
	require.NotEmpty(t, packed)

	for i := 0; i < len(packed); i++ {
		for j := i + 1; j < len(packed); j++ {
			ri := packed[i].Bounds().Inflate(cfg.Clearance)
			rj := packed[j].Bounds().Inflate(cfg.Clearance)
			assert.False(t, ri.Overlaps(rj),
				"boxes %d and %d violate the clearance invariant", packed[i].ID, packed[j].ID)
		}
	}
}

func TestPack_RetrievalOrderIsPermutation(t *testing.T) {
	cfg := model.WarehouseConfig{
		StorageWidth:  100,
		StorageLength: 100,
		NumBoxes:      8,
		MinSide:       30,
		MaxSide:       60,
	}
	rng := rand.New(rand.NewSource(5))
	boxes := GenerateBoxes(cfg, rng)

	result := NewPacker(cfg, model.DefaultTuning(), rng).Pack(context.Background(), boxes)

	// Most of these boxes will not fit; the order still covers all ids.
	require.Len(t, result.RetrievalOrder, 8)
	seen := make([]int, len(result.RetrievalOrder))
	copy(seen, result.RetrievalOrder)
	sort.Ints(seen)
	for i, id := range seen {
		assert.Equal(t, i, id)
	}
}

func TestPack_PathEndpoints(t *testing.T) {
	cfg := model.WarehouseConfig{
		StorageWidth:  300,
		StorageLength: 300,
		NumBoxes:      6,
		MinSide:       30,
		MaxSide:       60,
		Clearance:     10,
	}
	tuning := model.DefaultTuning()
	rng := rand.New(rand.NewSource(11))
	boxes := GenerateBoxes(cfg, rng)

	result := NewPacker(cfg, tuning, rng).Pack(context.Background(), boxes)
	require.Positive(t, result.PackedCount())

	byID := make(map[int]model.Box)
	for _, b := range result.Boxes {
		byID[b.ID] = b
	}

	for id, path := range result.PackingPaths {
		b := byID[id]
		require.True(t, b.Packed)
		assert.Equal(t, tuning.Dock, path.Points[0], "packing path starts at the dock")
		assert.Equal(t, model.Position{X: b.X, Y: b.Y}, path.Points[len(path.Points)-1])
	}

	for id, points := range result.RetrievalPaths {
		b := byID[id]
		require.True(t, b.Packed)
		assert.Equal(t, model.Position{X: b.X, Y: b.Y}, points[0], "retrieval path starts at the slot")

		last := points[len(points)-1]
		exits := last.X <= 0 || last.X+b.Width >= cfg.StorageWidth ||
			last.Y <= 0 || last.Y+b.Height >= cfg.StorageLength
		assert.True(t, exits, "retrieval path for box %d must end at a boundary", id)
	}
}

func TestPack_Deterministic(t *testing.T) {
	cfg := model.WarehouseConfig{
		StorageWidth:  300,
		StorageLength: 300,
		NumBoxes:      10,
		MinSide:       30,
		MaxSide:       70,
		Clearance:     10,
	}

	run := func(seed int64) model.PackingResult {
		rng := rand.New(rand.NewSource(seed))
		boxes := GenerateBoxes(cfg, rng)
		return NewPacker(cfg, model.DefaultTuning(), rng).Pack(context.Background(), boxes)
	}

	a := run(42)
	b := run(42)

	// The run id is always fresh; everything else must match exactly.
	assert.Equal(t, a.Boxes, b.Boxes)
	assert.Equal(t, a.PackingPaths, b.PackingPaths)
	assert.Equal(t, a.RetrievalPaths, b.RetrievalPaths)
	assert.Equal(t, a.RetrievalOrder, b.RetrievalOrder)
	assert.Equal(t, a.Warnings, b.Warnings)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestPack_EmptyInput(t *testing.T) {
	cfg := model.WarehouseConfig{StorageWidth: 100, StorageLength: 100, MinSide: 30, MaxSide: 60}

	result := newTestPacker(cfg, 1).Pack(context.Background(), nil)

	assert.Empty(t, result.Boxes)
	assert.Empty(t, result.RetrievalOrder)
	assert.Equal(t, 0, result.PackedCount())
	assert.Equal(t, 0.0, model.Density(result.Boxes, cfg))
}

func TestPack_BudgetExhaustion(t *testing.T) {
	cfg := model.WarehouseConfig{StorageWidth: 100, StorageLength: 100, MinSide: 40, MaxSide: 41}
	tuning := model.DefaultTuning()
	tuning.MaxIterations = 1

	boxes := []model.Box{
		{ID: 0, Width: 40, Height: 40},
		{ID: 1, Width: 40, Height: 40},
	}
	packer := NewPacker(cfg, tuning, rand.New(rand.NewSource(1)))
	result := packer.Pack(context.Background(), boxes)

	// The single budgeted evaluation commits box 0 at (0,0); box 1 is never
	// scanned and the degradation is reported.
	assert.Equal(t, 1, result.PackedCount())
	assert.NotEmpty(t, result.Warnings)
}

func TestPack_Cancellation(t *testing.T) {
	cfg := model.WarehouseConfig{
		StorageWidth:  500,
		StorageLength: 500,
		NumBoxes:      20,
		MinSide:       30,
		MaxSide:       60,
		Clearance:     10,
	}
	rng := rand.New(rand.NewSource(2))
	boxes := GenerateBoxes(cfg, rng)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewPacker(cfg, model.DefaultTuning(), rng).Pack(ctx, boxes)

	// A cancelled context still yields a well-formed result.
	assert.Len(t, result.Boxes, 20)
	assert.Len(t, result.RetrievalOrder, 20)
}

func TestPack_Rotation(t *testing.T) {
	// A 80x30 box cannot fit a 50-wide arena in its original orientation
	// but fits rotated; the placer must swap the sides and flag it.
	cfg := model.WarehouseConfig{StorageWidth: 50, StorageLength: 100, MinSide: 30, MaxSide: 81}
	boxes := []model.Box{{ID: 0, Width: 80, Height: 30}}

	result := newTestPacker(cfg, 1).Pack(context.Background(), boxes)

	require.Equal(t, 1, result.PackedCount())
	b := result.Boxes[0]
	assert.True(t, b.Rotated)
	assert.Equal(t, 30, b.Width)
	assert.Equal(t, 80, b.Height)
}
