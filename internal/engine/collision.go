package engine

import (
	"fmt"

	"github.com/piwi3910/StowPack/internal/model"
)

// PathViolation records a waypoint at which a box's travel path clips
// another committed box's clearance zone. Fallback packing paths are
// expected to produce these. A found packing path can also clip boxes that
// committed after it did: the path was clear at commit time but is stale
// for replay. A violation on a retrieval path means an upstream invariant
// was broken.
type PathViolation struct {
	BoxID      int            `json:"box_id"`
	ObstacleID int            `json:"obstacle_id"`
	Kind       model.PathKind `json:"kind"`
	Position   model.Position `json:"position"`
	Retrieval  bool           `json:"retrieval"`
}

// CheckPathCollisions re-walks every recorded path in the result against the
// final committed layout and reports each (box, obstacle) pair whose
// clearance zone the path enters. Waypoints where the box is partially
// outside the storage area are exiting and are not checked, matching the
// retrieval search semantics.
func CheckPathCollisions(result model.PackingResult, cfg model.WarehouseConfig) []PathViolation {
	type obstacle struct {
		id   int
		rect model.Rect
	}
	var zones []obstacle
	sizes := make(map[int]model.Rect, len(result.Boxes))
	for _, b := range result.Boxes {
		if b.Packed {
			zones = append(zones, obstacle{id: b.ID, rect: b.Bounds().Inflate(cfg.Clearance)})
			sizes[b.ID] = b.Bounds()
		}
	}

	fullyInside := func(p model.Position, w, h int) bool {
		return p.X >= 0 && p.Y >= 0 && p.X+w <= cfg.StorageWidth && p.Y+h <= cfg.StorageLength
	}

	var violations []PathViolation
	type pairKey struct {
		box, obstacle int
		retrieval     bool
	}
	seen := make(map[pairKey]bool)

	check := func(id int, kind model.PathKind, points []model.Position, retrieval bool) {
		bounds, ok := sizes[id]
		if !ok {
			return
		}
		for _, p := range points {
			if !fullyInside(p, bounds.Width, bounds.Height) {
				continue
			}
			footprint := model.Rect{X: p.X, Y: p.Y, Width: bounds.Width, Height: bounds.Height}
			for _, z := range zones {
				if z.id == id || !footprint.Overlaps(z.rect) {
					continue
				}
				k := pairKey{box: id, obstacle: z.id, retrieval: retrieval}
				if seen[k] {
					continue
				}
				seen[k] = true
				violations = append(violations, PathViolation{
					BoxID:      id,
					ObstacleID: z.id,
					Kind:       kind,
					Position:   p,
					Retrieval:  retrieval,
				})
			}
		}
	}

	for _, id := range result.RetrievalOrder {
		if path, ok := result.PackingPaths[id]; ok {
			check(id, path.Kind, path.Points, false)
		}
		if points, ok := result.RetrievalPaths[id]; ok {
			check(id, model.PathFound, points, true)
		}
	}
	return violations
}

// FormatPathWarnings renders violations as human-readable warning lines.
func FormatPathWarnings(violations []PathViolation) []string {
	warnings := make([]string, 0, len(violations))
	for _, v := range violations {
		phase := "packing"
		if v.Retrieval {
			phase = "retrieval"
		}
		note := ""
		if v.Kind == model.PathFallback {
			note = " (fallback path, not collision-checked)"
		}
		warnings = append(warnings, fmt.Sprintf(
			"box %d %s path clips clearance zone of box %d at (%d, %d)%s",
			v.BoxID, phase, v.ObstacleID, v.Position.X, v.Position.Y, note))
	}
	return warnings
}
