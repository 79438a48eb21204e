package pathfinding

import (
	"errors"
	"fmt"

	"flowarrows/core"
	"flowarrows/pathdata"
)

// ErrEmptyPath is returned when a path is requested for no waypoints.
var ErrEmptyPath = errors.New("path needs at least one point")

// GenerateCorner returns the fragment rounding the corner at middle: a line
// to just before middle on the start side, then a quadratic curve with
// middle as control point ending just past middle on the end side.
func (r *Router) GenerateCorner(start, middle, end core.Point) pathdata.Path {
	var b pathdata.Builder
	r.corner(&b, start, middle, end)
	return b.Path()
}

func (r *Router) corner(b *pathdata.Builder, start, middle, end core.Point) {
	b.LineTo(start.MoveNextTo(middle, r.cfg.CornerDistance))
	b.QuadTo(middle, end.MoveNextTo(middle, r.cfg.CornerDistance))
}

// GeneratePath renders the waypoints as a path description ending in an
// arrowhead. The first waypoint is shifted right by the start offset.
func (r *Router) GeneratePath(points []core.Point) (string, error) {
	if len(points) == 0 {
		return "", fmt.Errorf("generate path: %w", ErrEmptyPath)
	}
	return r.generatePath(points), nil
}

// generatePath expects at least one point.
func (r *Router) generatePath(points []core.Point) string {
	pts := make([]core.Point, len(points))
	copy(pts, points)
	pts[0] = pts[0].Add(core.Point{X: r.cfg.StartOffset})

	var b pathdata.Builder
	b.MoveTo(pts[0])
	for i := 1; i < len(pts)-1; i++ {
		r.corner(&b, pts[i-1], pts[i], pts[i+1])
	}

	end := pts[len(pts)-1]
	b.LineTo(end)
	r.arrowhead(&b, end)
	return b.String()
}

// arrowhead draws a fixed chevron opening to the left of tip. It is not
// rotated to the incoming direction, so it only reads correctly for
// horizontal or near-horizontal approaches.
func (r *Router) arrowhead(b *pathdata.Builder, tip core.Point) {
	s := r.cfg.ArrowSize
	b.MoveTo(tip).LineTo(tip.Add(core.Point{X: -s, Y: -s}))
	b.MoveTo(tip).LineTo(tip.Add(core.Point{X: -s, Y: s}))
}
