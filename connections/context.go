package connections

import (
	"flowarrows/core"
)

// ConnectionType names the outcome a connector leaves a panel on.
type ConnectionType string

const (
	Resolve ConnectionType = "resolve"
	Reject  ConnectionType = "reject"
)

// Types lists the connection types in emission order.
var Types = []ConnectionType{Resolve, Reject}

// Arrow is one rendered connector.
type Arrow struct {
	ID     string         `json:"id"` // "{panelId}_{type}"
	D      string         `json:"d"`
	Type   ConnectionType `json:"type"`
	Loner  bool           `json:"loner"`
	IsHint bool           `json:"isHint,omitempty"`
}

// DragInfo describes a connector being dragged out of a panel.
type DragInfo struct {
	ID   string         `json:"id"`
	Type ConnectionType `json:"type"`
	Pos  core.Point     `json:"pos"`
}

// ParentInfo is the ancestry record the editor keeps per panel.
type ParentInfo struct {
	Loner bool `json:"loner"`
}

// Size is the canvas size in screen units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Context carries the interaction state of the editor for one frame.
type Context struct {
	EditMode     bool                  `json:"editMode"`
	ParentPanels map[string]ParentInfo `json:"parentPanels,omitempty"`
	ArrowInfo    *DragInfo             `json:"arrowInfo,omitempty"`
	HoveredPanel string                `json:"hoveredPanel,omitempty"`
	// Size is not used for routing.
	Size Size `json:"size"`
}

// Snapshot is a self-contained routing input: the panels, the interaction
// state and optionally the editor constants.
type Snapshot struct {
	Config  *core.Config `json:"config,omitempty"`
	Panels  []core.Panel `json:"panels"`
	Context Context      `json:"context"`
}

// EffectiveConfig returns the snapshot's config, or the defaults.
func (s Snapshot) EffectiveConfig() core.Config {
	if s.Config != nil {
		return *s.Config
	}
	return core.DefaultConfig()
}

// Target returns the panel id wired to the given outcome of panel.
func Target(panel core.Panel, t ConnectionType) string {
	if t == Reject {
		return panel.Reject
	}
	return panel.Resolve
}

// Offset returns the anchor offset of the given outcome.
func Offset(cfg core.Config, t ConnectionType) core.Point {
	if t == Reject {
		return cfg.RejectOffset
	}
	return cfg.ResolveOffset
}

// GetPoints returns the screen anchor of panel shifted by offset.
func GetPoints(cfg core.Config, panel core.Panel, offset core.Point) core.Point {
	return core.Point{
		X: float64(panel.X-1)*cfg.GridSize + offset.X,
		Y: float64(panel.Y-1)*cfg.GridSize + offset.Y,
	}
}

// Attachment returns the point where incoming connectors meet panel.
func Attachment(cfg core.Config, panel core.Panel) core.Point {
	return GetPoints(cfg, panel, cfg.AttachmentOffset)
}
