// Package model defines the core data types shared by the StowPack planner:
// boxes, the warehouse configuration, grid positions, travel paths, and the
// packing result consumed by downstream renderers and motion controllers.
package model

// Position is an integer grid coordinate (top-left corner convention).
// It is comparable and used directly as a map key in the pathfinders.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is an axis-aligned rectangle in grid units.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Inflate grows the rectangle by c units on all four sides.
func (r Rect) Inflate(c int) Rect {
	return Rect{
		X:      r.X - c,
		Y:      r.Y - c,
		Width:  r.Width + 2*c,
		Height: r.Height + 2*c,
	}
}

// Overlaps reports whether two rectangles share interior area.
// Rectangles that merely touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.Width && r.X+r.Width > o.X &&
		r.Y < o.Y+o.Height && r.Y+r.Height > o.Y
}

// Contains reports whether the rectangle fully contains the other.
func (r Rect) Contains(o Rect) bool {
	return r.X <= o.X && r.Y <= o.Y &&
		r.X+r.Width >= o.X+o.Width && r.Y+r.Height >= o.Y+o.Height
}

// Box is a single rectangular box in a packing run. Width and Height hold the
// placed dimensions: they are swapped at commit time when the box is rotated.
// X and Y are only meaningful while Packed is true.
type Box struct {
	ID       int  `json:"id"`
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Rotated  bool `json:"rotated"`
	Packed   bool `json:"packed"`
	Selected bool `json:"selected"` // UI-only flag, never set by the planner
}

// Bounds returns the box footprint as a Rect. Valid only while Packed.
func (b Box) Bounds() Rect {
	return Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// Area returns the box footprint area in grid units.
func (b Box) Area() int {
	return b.Width * b.Height
}

// WarehouseConfig describes the storage arena and the box population.
// All lengths are in grid units.
type WarehouseConfig struct {
	StorageWidth  int `json:"storage_width" yaml:"storage_width"`
	StorageLength int `json:"storage_length" yaml:"storage_length"`
	NumBoxes      int `json:"num_boxes" yaml:"num_boxes"`
	MinSide       int `json:"min_side" yaml:"min_side"`   // inclusive
	MaxSide       int `json:"max_side" yaml:"max_side"`   // exclusive
	Clearance     int `json:"clearance" yaml:"clearance"` // margin kept around every packed box
}

// Algorithm selects the planner strategy.
type Algorithm string

const (
	AlgorithmGreedy  Algorithm = "greedy"  // First-fit raster scan in id order (fast)
	AlgorithmGenetic Algorithm = "genetic" // Genetic meta-heuristic over packing order (slower, often denser)
)

// Tuning holds planner parameters that are independent of the warehouse
// geometry: the search step quantum, the dock corner every packing path
// starts from, and the candidate-evaluation budget.
type Tuning struct {
	Algorithm     Algorithm `json:"algorithm" yaml:"algorithm"`
	Step          int       `json:"step" yaml:"step"`
	Dock          Position  `json:"dock" yaml:"dock"`
	MaxIterations int       `json:"max_iterations" yaml:"max_iterations"` // 0 = unbounded
}

// DefaultTuning returns the planner defaults.
func DefaultTuning() Tuning {
	return Tuning{
		Algorithm:     AlgorithmGreedy,
		Step:          10,
		Dock:          Position{X: 0, Y: 0},
		MaxIterations: 2_000_000,
	}
}

// PathKind tags how a packing path was obtained.
type PathKind string

const (
	// PathFound is a collision-checked path produced by the search.
	PathFound PathKind = "found"
	// PathFallback is a direct dock-to-slot path emitted after the search
	// exhausted its frontier. It is NOT collision-checked and may clip
	// obstacles; consumers must branch on this explicitly.
	PathFallback PathKind = "fallback"
)

// Path is an ordered waypoint sequence with its provenance tag.
type Path struct {
	Kind   PathKind   `json:"kind"`
	Points []Position `json:"points"`
}

// PackingResult is the complete output of one planning run.
//
// RetrievalPaths may be missing an id when no escape route exists for that
// box (an upstream invariant violation); callers must treat a missing entry
// as "no path available" rather than an error.
type PackingResult struct {
	RunID          string             `json:"run_id"`
	Boxes          []Box              `json:"boxes"`
	PackingPaths   map[int]Path       `json:"packing_paths"`
	RetrievalPaths map[int][]Position `json:"retrieval_paths"`
	RetrievalOrder []int              `json:"retrieval_order"`
	Warnings       []string           `json:"warnings,omitempty"`
}

// PackedCount returns the number of committed boxes.
func (r PackingResult) PackedCount() int {
	n := 0
	for _, b := range r.Boxes {
		if b.Packed {
			n++
		}
	}
	return n
}

// FallbackCount returns the number of packing paths that used the
// uncollision-checked direct fallback.
func (r PackingResult) FallbackCount() int {
	n := 0
	for _, p := range r.PackingPaths {
		if p.Kind == PathFallback {
			n++
		}
	}
	return n
}

// Density returns the occupied percentage of the storage area: 100 times the
// summed area of packed boxes over the arena area. Returns 0 for an empty
// arena or when nothing is packed.
func Density(boxes []Box, cfg WarehouseConfig) float64 {
	total := cfg.StorageWidth * cfg.StorageLength
	if total <= 0 {
		return 0
	}
	used := 0
	for _, b := range boxes {
		if b.Packed {
			used += b.Area()
		}
	}
	return 100.0 * float64(used) / float64(total)
}
