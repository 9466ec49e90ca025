package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"github.com/piwi3910/StowPack/internal/model"
)

// Packer runs the placement pipeline: retrieval-order shuffle, feasibility-
// checked placement of every box, and final path synthesis. One Packer is
// good for any number of Pack calls; each call works on its own copy of the
// input and draws from the injected random source.
type Packer struct {
	cfg        model.WarehouseConfig
	tuning     model.Tuning
	rng        *rand.Rand
	iterations int // candidate evaluations consumed by the current Pack call
}

// NewPacker creates a planner for the given warehouse. The random source
// drives the retrieval-order shuffle (and the genetic optimizer when
// selected); pass a seeded source for reproducible runs.
func NewPacker(cfg model.WarehouseConfig, tuning model.Tuning, rng *rand.Rand) *Packer {
	return &Packer{cfg: cfg, tuning: tuning, rng: rng}
}

// Pack places as many of the given boxes as possible and returns the
// committed layout together with packing paths, retrieval paths, and the
// retrieval order. Pack never fails: unplaceable boxes stay unpacked,
// degraded paths are tagged, and every degradation is listed in Warnings.
// Cancelling the context or exhausting the iteration budget stops placement
// early and leaves the remaining boxes unpacked.
func (p *Packer) Pack(ctx context.Context, boxes []model.Box) model.PackingResult {
	p.iterations = 0

	work := make([]model.Box, len(boxes))
	copy(work, boxes)
	sort.Slice(work, func(i, j int) bool { return work[i].ID < work[j].ID })

	retrievalOrder := p.shuffledIDs(work)

	result := model.PackingResult{
		RunID:          uuid.New().String(),
		PackingPaths:   make(map[int]model.Path),
		RetrievalPaths: make(map[int][]model.Position),
		RetrievalOrder: retrievalOrder,
	}

	if p.tuning.Algorithm == model.AlgorithmGenetic {
		work = p.packGenetic(ctx, work, retrievalOrder, result.PackingPaths)
	} else {
		p.packGreedy(ctx, work, retrievalOrder, result.PackingPaths, &result.Warnings)
	}
	result.Boxes = work

	// Id lookups happen once per retrieval-order entry; build the index
	// table up front instead of scanning the slice each time.
	index := make(map[int]int, len(work))
	for i, b := range work {
		index[b.ID] = i
	}

	// Retrieval paths for every committed box against the final layout.
	for _, id := range retrievalOrder {
		i, ok := index[id]
		if !ok || !work[i].Packed {
			continue
		}
		b := work[i]
		obstacles := ObstaclesExcluding(work, p.cfg.Clearance, id)
		path := findRetrievalPath(p.cfg, p.tuning.Step, b.Bounds(), obstacles)
		if path == nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("box %d: no retrieval path from (%d, %d)", id, b.X, b.Y))
			continue
		}
		result.RetrievalPaths[id] = path
	}

	if unplaced := len(work) - result.PackedCount(); unplaced > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d of %d boxes could not be placed", unplaced, len(work)))
	}
	if n := result.FallbackCount(); n > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d packing path(s) used the direct fallback and may clip obstacles", n))
	}
	return result
}

// packGreedy places boxes in ascending id order, first feasible slot wins.
func (p *Packer) packGreedy(ctx context.Context, work []model.Box, retrievalOrder []int, paths map[int]model.Path, warnings *[]string) {
	for i := range work {
		if _, err := p.placeBox(ctx, work, i, retrievalOrder, paths, false); err != nil {
			*warnings = append(*warnings,
				fmt.Sprintf("placement stopped at box %d: %v", work[i].ID, err))
			return
		}
	}
}

// shuffledIDs returns a Fisher–Yates permutation of all box ids, packed or
// not: the retrieval order always covers the full population.
func (p *Packer) shuffledIDs(boxes []model.Box) []int {
	ids := make([]int, len(boxes))
	for i, b := range boxes {
		ids[i] = b.ID
	}
	for i := len(ids) - 1; i > 0; i-- {
		j := p.rng.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}

// Density reports the occupied percentage of the configured storage area.
func (p *Packer) Density(boxes []model.Box) float64 {
	return model.Density(boxes, p.cfg)
}
