package engine

import "github.com/piwi3910/StowPack/internal/model"

// committedRect pairs a box id with its clearance-inflated footprint.
type committedRect struct {
	id     int
	bounds model.Rect // uninflated box bounds
}

// snapshot is the immutable committed state the feasibility oracle reasons
// over: the boxes committed so far plus at most one hypothetical placement.
type snapshot struct {
	rects []committedRect
}

// newSnapshot captures the committed boxes. The hypothesis is layered on via
// withHypothesis rather than by mutating the box list.
func newSnapshot(boxes []model.Box) snapshot {
	s := snapshot{rects: make([]committedRect, 0, len(boxes))}
	for _, b := range boxes {
		if b.Packed {
			s.rects = append(s.rects, committedRect{id: b.ID, bounds: b.Bounds()})
		}
	}
	return s
}

// withHypothesis returns a copy of the snapshot with the candidate placement
// appended as if it were committed.
func (s snapshot) withHypothesis(id int, bounds model.Rect) snapshot {
	rects := make([]committedRect, len(s.rects), len(s.rects)+1)
	copy(rects, s.rects)
	return snapshot{rects: append(rects, committedRect{id: id, bounds: bounds})}
}

// obstaclesExcluding derives the inflated obstacle set for the retrieval
// search of the box with the given id.
func (s snapshot) obstaclesExcluding(id, clearance int) []model.Rect {
	rects := make([]model.Rect, 0, len(s.rects))
	for _, r := range s.rects {
		if r.id != id {
			rects = append(rects, r.bounds.Inflate(clearance))
		}
	}
	return rects
}

// wouldBlockRetrieval is the feasibility oracle: it reports whether the
// hypothetical placement would leave any box in the snapshot, including the
// hypothesis itself, without a retrieval path to the storage boundary.
//
// Every commit step re-runs this full re-validation against the complete
// obstacle set known at that step; since the committed set only grows, the
// last accepted commit validates every box against the final layout.
func wouldBlockRetrieval(cfg model.WarehouseConfig, step int, committed snapshot, retrievalOrder []int) bool {
	inOrder := make(map[int]model.Rect, len(committed.rects))
	for _, r := range committed.rects {
		inOrder[r.id] = r.bounds
	}
	for _, id := range retrievalOrder {
		bounds, ok := inOrder[id]
		if !ok {
			continue
		}
		obstacles := committed.obstaclesExcluding(id, cfg.Clearance)
		if findRetrievalPath(cfg, step, bounds, obstacles) == nil {
			return true
		}
	}
	return false
}
