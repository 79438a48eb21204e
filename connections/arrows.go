// Package connections builds the full set of connectors for a flow.
package connections

import (
	"flowarrows/core"
	"flowarrows/pathfinding"
)

// ArrowGenerator turns a panel snapshot into arrows. It keeps no state
// between calls; every call re-derives everything from its arguments.
type ArrowGenerator struct {
	cfg    core.Config
	router *pathfinding.Router
}

// NewArrowGenerator creates a generator for cfg.
func NewArrowGenerator(cfg core.Config) (*ArrowGenerator, error) {
	router, err := pathfinding.NewRouter(cfg)
	if err != nil {
		return nil, err
	}
	return &ArrowGenerator{cfg: cfg, router: router}, nil
}

var defaultGenerator = func() *ArrowGenerator {
	g, err := NewArrowGenerator(core.DefaultConfig())
	if err != nil {
		panic(err)
	}
	return g
}()

// GenerateArrows generates arrows with the default editor constants.
func GenerateArrows(panels []core.Panel, ctx Context) []Arrow {
	return defaultGenerator.Generate(panels, ctx)
}

// Generate returns the arrows of every panel, resolve before reject.
//
// Per panel and type at most one arrow is produced: a drag preview to the
// pointer when that panel and type are being dragged, otherwise the
// established connector to the target panel, otherwise (in edit mode, with
// no drag, on the entry or hovered panel) a short hint. The entry panel
// never gets a reject hint. Dangling and self-referencing targets produce
// nothing. When several panels share an id only the first one is used,
// both as a source and as a target, so arrow ids stay unique.
func (g *ArrowGenerator) Generate(panels []core.Panel, ctx Context) []Arrow {
	byID := make(map[string]core.Panel, len(panels))
	for _, p := range panels {
		if _, ok := byID[p.ID]; !ok {
			byID[p.ID] = p
		}
	}

	arrows := make([]Arrow, 0, len(panels))
	seen := make(map[string]bool, len(panels))
	for _, panel := range panels {
		if seen[panel.ID] {
			continue
		}
		seen[panel.ID] = true
		loner := g.isLoner(panel, ctx)
		for _, t := range Types {
			if arrow, ok := g.arrow(panels, byID, panel, t, loner, ctx); ok {
				arrows = append(arrows, arrow)
			}
		}
	}
	return arrows
}

func (g *ArrowGenerator) arrow(panels []core.Panel, byID map[string]core.Panel, panel core.Panel, t ConnectionType, loner bool, ctx Context) (Arrow, bool) {
	arrow := Arrow{ID: panel.ID + "_" + string(t), Type: t, Loner: loner}
	start := GetPoints(g.cfg, panel, Offset(g.cfg, t))

	if drag := ctx.ArrowInfo; drag != nil && drag.ID == panel.ID && drag.Type == t {
		arrow.D = g.router.CreateLine(panels, start.X, start.Y, drag.Pos.X, drag.Pos.Y)
		return arrow, true
	}

	if target, ok := byID[Target(panel, t)]; ok && target.ID != panel.ID {
		to := Attachment(g.cfg, target)
		arrow.D = g.router.CreateLine(panels, start.X, start.Y, to.X, to.Y)
		return arrow, true
	}

	if g.showHint(panel, t, ctx) {
		length := float64(g.cfg.HintLength) * g.cfg.GridSize
		arrow.D = g.router.CreateLine(panels, start.X, start.Y, start.X+length, start.Y)
		arrow.IsHint = true
		return arrow, true
	}

	return Arrow{}, false
}

func (g *ArrowGenerator) showHint(panel core.Panel, t ConnectionType, ctx Context) bool {
	if !ctx.EditMode || ctx.ArrowInfo != nil {
		return false
	}
	isEntry := panel.ID == g.cfg.EntryID
	if isEntry && t == Reject {
		return false
	}
	return isEntry || (ctx.HoveredPanel != "" && panel.ID == ctx.HoveredPanel)
}

// isLoner reports whether panel has no non-loner ancestor. The entry panel
// is never a loner.
func (g *ArrowGenerator) isLoner(panel core.Panel, ctx Context) bool {
	if panel.ID == g.cfg.EntryID {
		return false
	}
	parent, ok := ctx.ParentPanels[panel.ID]
	return !ok || parent.Loner
}
