package pathfinding

import (
	"flowarrows/core"
)

// ObstacleChecker is a function that returns true if a point is blocked.
type ObstacleChecker func(core.Point) bool

// PanelObstacle is the screen-space footprint of a panel. Bounds are
// inclusive on every side.
type PanelObstacle struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NewPanelObstacle computes the footprint of panel. The footprint spans one
// extra grid cell on the left, where the panel icon sits relative to its
// grid anchor.
func NewPanelObstacle(cfg core.Config, panel core.Panel) PanelObstacle {
	g := cfg.GridSize
	return PanelObstacle{
		MinX: float64(panel.X-2) * g,
		MaxX: float64(panel.X-1+cfg.PanelWidth) * g,
		MinY: float64(panel.Y-1) * g,
		MaxY: float64(panel.Y-1+cfg.PanelHeight) * g,
	}
}

// Contains checks if a point is inside the footprint.
func (o PanelObstacle) Contains(p core.Point) bool {
	return p.X >= o.MinX && p.X <= o.MaxX &&
		p.Y >= o.MinY && p.Y <= o.MaxY
}

// IsPointInPanel reports whether p lies inside the footprint of any panel.
func IsPointInPanel(cfg core.Config, panels []core.Panel, p core.Point) bool {
	for _, panel := range panels {
		if NewPanelObstacle(cfg, panel).Contains(p) {
			return true
		}
	}
	return false
}

// CreatePanelObstacleChecker creates an obstacle checker for a panel
// snapshot. Footprints are computed once per checker.
func CreatePanelObstacleChecker(cfg core.Config, panels []core.Panel) ObstacleChecker {
	obstacles := make([]PanelObstacle, len(panels))
	for i, panel := range panels {
		obstacles[i] = NewPanelObstacle(cfg, panel)
	}

	return func(p core.Point) bool {
		for _, o := range obstacles {
			if o.Contains(p) {
				return true
			}
		}
		return false
	}
}
