package engine

import "github.com/piwi3910/StowPack/internal/model"

// Obstacles returns one clearance-inflated rectangle per packed box.
// The result is ordered by the boxes' slice order, so a deterministic
// input yields a deterministic obstacle set.
func Obstacles(boxes []model.Box, clearance int) []model.Rect {
	rects := make([]model.Rect, 0, len(boxes))
	for _, b := range boxes {
		if b.Packed {
			rects = append(rects, b.Bounds().Inflate(clearance))
		}
	}
	return rects
}

// ObstaclesExcluding returns the inflated rectangles of every packed box
// except the one with the given id. This is the obstacle set a box escapes
// through during retrieval.
func ObstaclesExcluding(boxes []model.Box, clearance, excludeID int) []model.Rect {
	rects := make([]model.Rect, 0, len(boxes))
	for _, b := range boxes {
		if b.Packed && b.ID != excludeID {
			rects = append(rects, b.Bounds().Inflate(clearance))
		}
	}
	return rects
}

// collides reports whether the footprint overlaps any obstacle.
func collides(footprint model.Rect, obstacles []model.Rect) bool {
	for _, o := range obstacles {
		if footprint.Overlaps(o) {
			return true
		}
	}
	return false
}
