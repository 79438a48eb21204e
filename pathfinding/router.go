// Package pathfinding routes connectors between flow panels around the
// panels in between.
package pathfinding

import (
	"fmt"
	"log/slog"

	"flowarrows/core"
)

// RoutingStrategy defines how a connector is shaped.
type RoutingStrategy int

const (
	// Direct is a single straight segment between points on the same row.
	Direct RoutingStrategy = iota
	// SingleBend turns once at a searched column.
	SingleBend
	// DoubleBend steps out of the origin, crosses at a searched row and
	// steps into the destination. Used when the destination is too close
	// or behind the origin for a single turn.
	DoubleBend
)

// String returns the string representation of a RoutingStrategy.
func (s RoutingStrategy) String() string {
	switch s {
	case Direct:
		return "Direct"
	case SingleBend:
		return "SingleBend"
	case DoubleBend:
		return "DoubleBend"
	default:
		return fmt.Sprintf("RoutingStrategy(%d)", int(s))
	}
}

// Router computes connector paths for one set of editor constants.
// A Router holds no per-call state and is safe for concurrent use.
type Router struct {
	cfg core.Config
}

// NewRouter creates a router for cfg.
func NewRouter(cfg core.Config) (*Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Router{cfg: cfg}, nil
}

// Config returns the constants the router was built with.
func (r *Router) Config() core.Config {
	return r.cfg
}

// SelectStrategy picks the connector shape for a line from (x, y) to
// (toX, toY). A single bend needs strictly more than three grid cells of
// horizontal room.
func (r *Router) SelectStrategy(x, y, toX, toY float64) RoutingStrategy {
	if y == toY {
		return Direct
	}
	if x+3*r.cfg.GridSize < toX {
		return SingleBend
	}
	return DoubleBend
}

// Waypoints returns the chosen strategy and the corner points of the line.
// The first and last waypoints are always the requested endpoints.
func (r *Router) Waypoints(panels []core.Panel, x, y, toX, toY float64) (RoutingStrategy, []core.Point) {
	g := r.cfg.GridSize
	start := core.Point{X: x, Y: y}
	end := core.Point{X: toX, Y: toY}
	searchFrom := core.Point{X: x + 2*g, Y: y}
	searchTo := core.Point{X: toX - 2*g, Y: toY}

	strategy := r.SelectStrategy(x, y, toX, toY)
	switch strategy {
	case SingleBend:
		centerX := r.FindBestPosition(panels, searchFrom, searchTo, core.AxisX)
		return strategy, []core.Point{
			start,
			{X: centerX, Y: y},
			{X: centerX, Y: toY},
			end,
		}
	case DoubleBend:
		box := r.cfg.BoxOffset
		centerY := r.FindBestPosition(panels, searchFrom, searchTo, core.AxisY)
		return strategy, []core.Point{
			start,
			{X: x + box, Y: y},
			{X: x + box, Y: centerY},
			{X: toX - box, Y: centerY},
			{X: toX - box, Y: toY},
			end,
		}
	default:
		return Direct, []core.Point{start, end}
	}
}

// CreateLine returns the path description of a connector from (x, y) to
// (toX, toY) routed around panels.
func (r *Router) CreateLine(panels []core.Panel, x, y, toX, toY float64) string {
	strategy, points := r.Waypoints(panels, x, y, toX, toY)
	Logger().Debug("create line",
		slog.String("strategy", strategy.String()),
		slog.Int("waypoints", len(points)))
	return r.generatePath(points)
}
