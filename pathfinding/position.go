package pathfinding

import (
	"log/slog"

	"flowarrows/core"
	"flowarrows/geometry"
)

// maxCandidates bounds the number of grid positions a single search scans.
// Wider spans fall back to the midpoint.
const maxCandidates = 4096

// FindBestPosition returns a grid-aligned coordinate along axis, between
// from and to, at which a line perpendicular to axis crosses no panel over
// the whole perpendicular extent of the from/to box.
//
// Candidates are tried from the centre outwards; for two candidates at the
// same distance the lower one wins. When every candidate is blocked the
// grid-aligned midpoint is returned without further checks.
func (r *Router) FindBestPosition(panels []core.Panel, from, to core.Point, axis core.Axis) float64 {
	if from == to {
		return from.Get(axis)
	}

	g := r.cfg.GridSize
	midpoint := geometry.SnapDown((from.Get(axis)+to.Get(axis))/2, g)

	min, max := core.MinMaxPoint(from, to)
	other := axis.Other()
	step := r.cfg.PanelSpan(other)
	// negated so NaN and infinite coordinates also take the fallback
	if !((max.Get(axis)-min.Get(axis))/g <= maxCandidates && (max.Get(other)-min.Get(other))/step <= maxCandidates) {
		Logger().Debug("best position: span too wide, using midpoint", slog.String("axis", axis.String()))
		return midpoint
	}

	lo := geometry.FloorToGrid(min.Get(axis), g)
	hi := geometry.CeilToGrid(max.Get(axis), g)
	count := hi - lo + 1

	checkpoints, err := geometry.Range(min.Get(other), max.Get(other), step)
	if err != nil {
		Logger().Debug("best position: no checkpoints", slog.Any("error", err))
		return midpoint
	}

	blocked := CreatePanelObstacleChecker(r.cfg, panels)
	free := make([]bool, count)
	for i := range free {
		pos := float64(lo+i) * g
		free[i] = true
		for _, c := range checkpoints {
			if blocked(core.Point{}.With(axis, pos).With(other, c)) {
				free[i] = false
				break
			}
		}
	}

	center := count / 2
	for d := 0; d <= count; d++ {
		if i := center - d; i >= 0 && i < count && free[i] {
			return float64(lo+i) * g
		}
		if d == 0 {
			continue
		}
		if i := center + d; i < count && free[i] {
			return float64(lo+i) * g
		}
	}

	Logger().Debug("best position: fully blocked, using midpoint",
		slog.String("axis", axis.String()),
		slog.Float64("midpoint", midpoint))
	return midpoint
}
