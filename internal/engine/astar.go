package engine

import (
	"container/heap"

	"github.com/piwi3910/StowPack/internal/model"
)

// exitEdge identifies the storage boundary a retrieval search escapes through.
type exitEdge int

const (
	exitLeft exitEdge = iota
	exitRight
	exitTop
	exitBottom
)

// moveOrders lists the four step directions per exit edge. The two moves
// toward the edge come first, so ties in f resolve toward the boundary.
var moveOrders = [4][4]model.Position{
	exitLeft:   {{X: -1}, {Y: -1}, {Y: 1}, {X: 1}},
	exitRight:  {{X: 1}, {Y: -1}, {Y: 1}, {X: -1}},
	exitTop:    {{Y: -1}, {X: -1}, {X: 1}, {Y: 1}},
	exitBottom: {{Y: 1}, {X: -1}, {X: 1}, {Y: -1}},
}

// retrievalSearch is an edge-directed A* over step-quantized positions of a
// moving box. The target edge is fixed once, before the search starts.
type retrievalSearch struct {
	cfg       model.WarehouseConfig
	step      int
	w, h      int // moving box size
	obstacles []model.Rect
	edge      exitEdge
}

// nearestExitEdge picks the edge with the smallest Manhattan distance from
// the box's current position. Ties resolve in left, right, top, bottom order.
func nearestExitEdge(cfg model.WarehouseConfig, box model.Rect) exitEdge {
	dists := [4]int{
		exitLeft:   box.X,
		exitRight:  cfg.StorageWidth - (box.X + box.Width),
		exitTop:    box.Y,
		exitBottom: cfg.StorageLength - (box.Y + box.Height),
	}
	best := exitLeft
	for e := exitRight; e <= exitBottom; e++ {
		if dists[e] < dists[best] {
			best = e
		}
	}
	return best
}

// heuristic is the remaining Manhattan distance from pos to the chosen edge,
// computed with the same formulas edge selection uses.
func (s *retrievalSearch) heuristic(pos model.Position) int {
	switch s.edge {
	case exitLeft:
		return pos.X
	case exitRight:
		return s.cfg.StorageWidth - (pos.X + s.w)
	case exitTop:
		return pos.Y
	default:
		return s.cfg.StorageLength - (pos.Y + s.h)
	}
}

// atExit reports whether the box has reached or crossed the chosen edge.
func (s *retrievalSearch) atExit(pos model.Position) bool {
	return s.heuristic(pos) <= 0
}

// inBounds allows the box to travel beyond the storage boundary by up to its
// own size, so it can fully exit the arena.
func (s *retrievalSearch) inBounds(pos model.Position) bool {
	return pos.X >= -s.w && pos.X <= s.cfg.StorageWidth &&
		pos.Y >= -s.h && pos.Y <= s.cfg.StorageLength
}

// fullyInside reports whether the box is entirely within the storage area.
// Obstacle collision is only meaningful while this holds; once the box is
// partially outside it is exiting and collision checks are skipped.
func (s *retrievalSearch) fullyInside(pos model.Position) bool {
	return pos.X >= 0 && pos.Y >= 0 &&
		pos.X+s.w <= s.cfg.StorageWidth && pos.Y+s.h <= s.cfg.StorageLength
}

// findRetrievalPath runs the edge-directed A* for a box currently at
// box.{X,Y} with size box.{Width,Height}, against the given obstacle set.
// It returns the waypoints from the start position to the first position at
// or beyond the chosen edge, or nil when no escape route exists.
func findRetrievalPath(cfg model.WarehouseConfig, step int, box model.Rect, obstacles []model.Rect) []model.Position {
	s := &retrievalSearch{
		cfg:       cfg,
		step:      step,
		w:         box.Width,
		h:         box.Height,
		obstacles: obstacles,
	}
	s.edge = nearestExitEdge(cfg, box)

	start := model.Position{X: box.X, Y: box.Y}
	visited := map[model.Position]bool{start: true}
	parent := make(map[model.Position]model.Position)

	open := &openSet{}
	heap.Init(open)
	open.push(start, 0, s.heuristic(start))

	for open.Len() > 0 {
		cur := heap.Pop(open).(*searchNode)
		if s.atExit(cur.pos) {
			return reconstructPath(parent, start, cur.pos)
		}
		for _, d := range moveOrders[s.edge] {
			next := model.Position{X: cur.pos.X + d.X*step, Y: cur.pos.Y + d.Y*step}
			if visited[next] || !s.inBounds(next) {
				continue
			}
			if s.fullyInside(next) {
				footprint := model.Rect{X: next.X, Y: next.Y, Width: s.w, Height: s.h}
				if collides(footprint, s.obstacles) {
					continue
				}
			}
			visited[next] = true
			parent[next] = cur.pos
			g := cur.g + step
			open.push(next, g, g+s.heuristic(next))
		}
	}
	return nil
}

// reconstructPath walks parent pointers from goal back to start and reverses.
func reconstructPath(parent map[model.Position]model.Position, start, goal model.Position) []model.Position {
	var rev []model.Position
	for cur := goal; ; {
		rev = append(rev, cur)
		if cur == start {
			break
		}
		cur = parent[cur]
	}
	path := make([]model.Position, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}

// searchNode is an open-set entry. seq preserves enqueue order so equal-f
// nodes pop deterministically.
type searchNode struct {
	pos   model.Position
	g, f  int
	seq   int
	index int
}

// openSet is a min-heap over f with FIFO tie-breaking.
type openSet struct {
	nodes []*searchNode
	seq   int
}

func (o *openSet) Len() int { return len(o.nodes) }

func (o *openSet) Less(i, j int) bool {
	if o.nodes[i].f != o.nodes[j].f {
		return o.nodes[i].f < o.nodes[j].f
	}
	return o.nodes[i].seq < o.nodes[j].seq
}

func (o *openSet) Swap(i, j int) {
	o.nodes[i], o.nodes[j] = o.nodes[j], o.nodes[i]
	o.nodes[i].index = i
	o.nodes[j].index = j
}

func (o *openSet) Push(x any) {
	n := x.(*searchNode)
	n.index = len(o.nodes)
	o.nodes = append(o.nodes, n)
}

func (o *openSet) Pop() any {
	old := o.nodes
	n := old[len(old)-1]
	old[len(old)-1] = nil
	o.nodes = old[:len(old)-1]
	return n
}

func (o *openSet) push(pos model.Position, g, f int) {
	o.seq++
	heap.Push(o, &searchNode{pos: pos, g: g, f: f, seq: o.seq})
}
