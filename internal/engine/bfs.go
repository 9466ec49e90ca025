package engine

import "github.com/piwi3910/StowPack/internal/model"

// packingMoves is the fixed expansion order of the packing BFS.
var packingMoves = [4]model.Position{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// findPackingPath searches for a route that brings a box of the given size
// from the dock to the target placement. The search is an unweighted BFS, so
// the first time the target is reached the path is shortest. Every visited
// position must keep the box fully inside the storage area and clear of all
// obstacles.
//
// When the frontier empties without reaching the target, the function falls
// back to a direct dock-to-target path that ignores obstacles entirely. The
// returned Path is tagged PathFallback in that case and callers must treat
// it as potentially clipping committed boxes.
func findPackingPath(cfg model.WarehouseConfig, step int, size model.Rect, dock, target model.Position, obstacles []model.Rect) model.Path {
	w, h := size.Width, size.Height
	inside := func(p model.Position) bool {
		return p.X >= 0 && p.Y >= 0 &&
			p.X+w <= cfg.StorageWidth && p.Y+h <= cfg.StorageLength
	}

	visited := map[model.Position]bool{dock: true}
	parent := make(map[model.Position]model.Position)
	queue := []model.Position{dock}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			return model.Path{Kind: model.PathFound, Points: reconstructPath(parent, dock, cur)}
		}
		for _, d := range packingMoves {
			next := model.Position{X: cur.X + d.X*step, Y: cur.Y + d.Y*step}
			if visited[next] || !inside(next) {
				continue
			}
			footprint := model.Rect{X: next.X, Y: next.Y, Width: w, Height: h}
			if collides(footprint, obstacles) {
				continue
			}
			visited[next] = true
			parent[next] = cur
			queue = append(queue, next)
		}
	}

	return model.Path{Kind: model.PathFallback, Points: directPath(dock, target, step)}
}

// directPath steps each axis toward the target independently, clamped to
// step per move. It performs no collision checking.
func directPath(from, to model.Position, step int) []model.Position {
	points := []model.Position{from}
	cur := from
	for cur != to {
		cur.X = stepToward(cur.X, to.X, step)
		cur.Y = stepToward(cur.Y, to.Y, step)
		points = append(points, cur)
	}
	return points
}

func stepToward(v, target, step int) int {
	switch {
	case v < target:
		v += step
		if v > target {
			v = target
		}
	case v > target:
		v -= step
		if v < target {
			v = target
		}
	}
	return v
}
