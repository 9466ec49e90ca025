package importer

import (
	"fmt"
	"math"

	"github.com/piwi3910/StowPack/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// point is a 2D point in drawing units.
type point struct {
	x, y float64
}

// dxfSegment is a line segment used for chaining disconnected LINE and ARC
// entities into closed shapes.
type dxfSegment struct {
	start point
	end   point
}

// ImportDXF imports box footprints from a floor-plan DXF. Each closed shape
// (LWPOLYLINE, CIRCLE, or chain of connected LINEs/ARCs) becomes one box
// sized to the shape's bounding box, rounded to whole grid units.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes [][]point
	var segments []dxfSegment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			pts := lwPolylinePoints(e)
			if len(pts) >= 3 {
				shapes = append(shapes, pts)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			cx, cy, r := e.Center[0], e.Center[1], e.Radius
			shapes = append(shapes, []point{
				{cx - r, cy - r}, {cx + r, cy - r}, {cx + r, cy + r}, {cx - r, cy + r},
			})

		case *entity.Arc:
			pts := arcPoints(e, 32)
			for i := 0; i < len(pts)-1; i++ {
				segments = append(segments, dxfSegment{start: pts[i], end: pts[i+1]})
			}

		case *entity.Line:
			segments = append(segments, dxfSegment{
				start: point{e.Start[0], e.Start[1]},
				end:   point{e.End[0], e.End[1]},
			})

		default:
			// Unsupported entity types are silently skipped
		}
	}

	shapes = append(shapes, chainSegments(segments, 0.01)...)

	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for _, shape := range shapes {
		width, height := boundingSize(shape)
		w := int(math.Round(width))
		h := int(math.Round(height))
		if w < 1 || h < 1 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f units)", width, height))
			continue
		}
		result.Boxes = append(result.Boxes, model.Box{
			ID:     len(result.Boxes),
			Width:  w,
			Height: h,
		})
	}

	return result
}

// lwPolylinePoints samples an LWPOLYLINE's vertices, interpolating bulged
// segments so curved edges contribute to the bounding box.
func lwPolylinePoints(lw *entity.LwPolyline) []point {
	var pts []point
	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := point{v[0], v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) < 1e-9 {
			pts = append(pts, current)
			continue
		}

		next := lw.Vertices[(i+1)%len(lw.Vertices)]
		arc := bulgePoints(current, point{next[0], next[1]}, bulge, 16)
		pts = append(pts, arc[:len(arc)-1]...)
	}
	return pts
}

// bulgePoints samples the arc between two vertices. The DXF bulge is the
// tangent of a quarter of the included angle.
func bulgePoints(p1, p2 point, bulge float64, numSegments int) []point {
	dx := p2.x - p1.x
	dy := p2.y - p1.y
	chord := math.Sqrt(dx*dx + dy*dy)
	if chord < 1e-9 {
		return []point{p1, p2}
	}

	sagitta := math.Abs(bulge) * chord / 2
	radius := (chord*chord/(4*sagitta) + sagitta) / 2

	perpX := -dy / chord
	perpY := dx / chord
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := (p1.x+p2.x)/2 + perpX*(radius-sagitta)
	cy := (p1.y+p2.y)/2 + perpY*(radius-sagitta)

	startAngle := math.Atan2(p1.y-cy, p1.x-cx)
	endAngle := math.Atan2(p2.y-cy, p2.x-cx)
	if bulge < 0 && endAngle > startAngle {
		endAngle -= 2 * math.Pi
	}
	if bulge > 0 && endAngle < startAngle {
		endAngle += 2 * math.Pi
	}

	pts := make([]point, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, point{cx + radius*math.Cos(angle), cy + radius*math.Sin(angle)})
	}
	return pts
}

// arcPoints samples a DXF ARC entity into a polyline.
func arcPoints(a *entity.Arc, numSegments int) []point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = point{cx + r*math.Cos(angle), cy + r*math.Sin(angle)}
	}
	return pts
}

// chainSegments connects loose segments into closed shapes. tolerance is the
// maximum endpoint distance still considered a connection. Open chains are
// dropped.
func chainSegments(segs []dxfSegment, tolerance float64) [][]point {
	used := make([]bool, len(segs))
	var shapes [][]point

	for start := 0; start < len(segs); start++ {
		if used[start] {
			continue
		}
		chain := []point{segs[start].start, segs[start].end}
		used[start] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			shapes = append(shapes, chain[:len(chain)-1])
		}
	}
	return shapes
}

func pointsClose(a, b point, tolerance float64) bool {
	dx := a.x - b.x
	dy := a.y - b.y
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}

// boundingSize returns the width and height of the shape's bounding box.
func boundingSize(pts []point) (float64, float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.x)
		minY = math.Min(minY, p.y)
		maxX = math.Max(maxX, p.x)
		maxY = math.Max(maxY, p.y)
	}
	return maxX - minX, maxY - minY
}
