package engine

import (
	"math/rand"

	"github.com/piwi3910/StowPack/internal/model"
)

// GenerateBoxes produces cfg.NumBoxes boxes with width and height drawn
// independently and uniformly from [MinSide, MaxSide). Ids run 0..n-1 and
// every box starts unpacked at the origin. The caller supplies the random
// source so runs are reproducible under a fixed seed.
func GenerateBoxes(cfg model.WarehouseConfig, rng *rand.Rand) []model.Box {
	boxes := make([]model.Box, cfg.NumBoxes)
	for i := range boxes {
		boxes[i] = model.Box{
			ID:     i,
			Width:  randomSide(cfg, rng),
			Height: randomSide(cfg, rng),
		}
	}
	return boxes
}

// randomSide draws one side length. A degenerate range (min == max) yields
// the fixed size instead of panicking in rand.Intn.
func randomSide(cfg model.WarehouseConfig, rng *rand.Rand) int {
	span := cfg.MaxSide - cfg.MinSide
	if span <= 0 {
		return cfg.MinSide
	}
	return cfg.MinSide + rng.Intn(span)
}
