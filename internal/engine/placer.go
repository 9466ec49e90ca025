package engine

import (
	"context"
	"errors"

	"github.com/piwi3910/StowPack/internal/model"
)

// errBudgetExhausted stops the placement loop once the candidate-evaluation
// budget is spent. Remaining boxes stay unpacked; this is a degradation, not
// a failure.
var errBudgetExhausted = errors.New("engine: placement iteration budget exhausted")

// orientation is one candidate (width, height) assignment for a box.
type orientation struct {
	w, h    int
	rotated bool
}

// orientations returns the orientations to try, original first unless the
// caller prefers rotated. Square boxes get a single orientation.
func orientations(b model.Box, preferRotated bool) []orientation {
	normal := orientation{w: b.Width, h: b.Height}
	if b.Width == b.Height {
		return []orientation{normal}
	}
	rotated := orientation{w: b.Height, h: b.Width, rotated: true}
	if preferRotated {
		return []orientation{rotated, normal}
	}
	return []orientation{normal, rotated}
}

// placeBox raster-scans candidate positions for boxes[idx] and commits the
// first one that is both collision-free and accepted by the feasibility
// oracle. On success the box is mutated in place (position, swapped sides
// when rotated, Packed=true) and its dock-to-slot packing path is recorded.
//
// Returns whether the box was committed. errBudgetExhausted or the context
// error is returned when the scan was cut short.
func (p *Packer) placeBox(ctx context.Context, boxes []model.Box, idx int, retrievalOrder []int, paths map[int]model.Path, preferRotated bool) (bool, error) {
	box := boxes[idx]
	obstacles := Obstacles(boxes, p.cfg.Clearance)
	committed := newSnapshot(boxes)

	for _, o := range orientations(box, preferRotated) {
		maxX := p.cfg.StorageWidth - o.w
		maxY := p.cfg.StorageLength - o.h
		for y := 0; y <= maxY; y += p.tuning.Step {
			for x := 0; x <= maxX; x += p.tuning.Step {
				if err := p.spendIteration(ctx); err != nil {
					return false, err
				}

				candidate := model.Rect{X: x, Y: y, Width: o.w, Height: o.h}
				if collides(candidate.Inflate(p.cfg.Clearance), obstacles) {
					continue
				}
				if wouldBlockRetrieval(p.cfg, p.tuning.Step, committed.withHypothesis(box.ID, candidate), retrievalOrder) {
					continue
				}

				// Packing path against the boxes committed strictly before
				// this one, i.e. the obstacle set prior to this commit.
				path := findPackingPath(p.cfg, p.tuning.Step, candidate, p.tuning.Dock, model.Position{X: x, Y: y}, obstacles)

				boxes[idx].X = x
				boxes[idx].Y = y
				boxes[idx].Width = o.w
				boxes[idx].Height = o.h
				boxes[idx].Rotated = o.rotated
				boxes[idx].Packed = true
				paths[box.ID] = path
				return true, nil
			}
		}
	}
	return false, nil
}

// spendIteration charges one candidate evaluation against the budget and
// polls the context every so often.
func (p *Packer) spendIteration(ctx context.Context) error {
	p.iterations++
	if p.tuning.MaxIterations > 0 && p.iterations > p.tuning.MaxIterations {
		return errBudgetExhausted
	}
	if p.iterations%1024 == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
