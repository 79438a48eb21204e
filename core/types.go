// Package core contains the fundamental types used throughout the flowarrows connector router.
package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Point represents a 2D coordinate on the canvas, in screen units.
// Points are values; every operation returns a new Point.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Axis selects one coordinate of a Point.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// String returns the string representation of an Axis.
func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Clone returns a copy of p.
func (p Point) Clone() Point {
	return Point{X: p.X, Y: p.Y}
}

// Get returns the coordinate of p along axis.
func (p Point) Get(axis Axis) float64 {
	if axis == AxisY {
		return p.Y
	}
	return p.X
}

// With returns a copy of p with the coordinate along axis replaced by v.
func (p Point) With(axis Axis, v float64) Point {
	if axis == AxisY {
		return Point{X: p.X, Y: v}
	}
	return Point{X: v, Y: p.Y}
}

// MoveNextTo returns the point lying distance units before target on the
// segment from p to target. The offset is clamped to half the segment so
// that two corners sharing a segment never cross.
func (p Point) MoveNextTo(target Point, distance float64) Point {
	d := p.Sub(target)
	length := math.Hypot(d.X, d.Y)
	if length == 0 {
		return target
	}
	if distance > length/2 {
		distance = length / 2
	}
	scale := distance / length
	return Point{X: target.X + d.X*scale, Y: target.Y + d.Y*scale}
}

// String formats the point as "x y", the form used in path descriptions.
func (p Point) String() string {
	return FormatNumber(p.X) + " " + FormatNumber(p.Y)
}

// FormatNumber formats a coordinate with the shortest exact representation.
func FormatNumber(v float64) string {
	if v == 0 {
		// avoids "-0"
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MinMaxPoint returns the component-wise minimum and maximum of a and b.
func MinMaxPoint(a, b Point) (min, max Point) {
	min = Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
	max = Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
	return min, max
}

// Panel represents an operation node of the workflow, anchored on the grid.
type Panel struct {
	ID      string `json:"id"`
	X       int    `json:"x"` // grid cells
	Y       int    `json:"y"` // grid cells
	Resolve string `json:"resolve"`
	Reject  string `json:"reject"`
}

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the editor constants the router works with.
type Config struct {
	GridSize         float64 `json:"gridSize"`
	PanelWidth       int     `json:"panelWidth"`  // grid cells
	PanelHeight      int     `json:"panelHeight"` // grid cells
	ResolveOffset    Point   `json:"resolveOffset"`
	RejectOffset     Point   `json:"rejectOffset"`
	AttachmentOffset Point   `json:"attachmentOffset"`
	StartOffset      float64 `json:"startOffset"`    // clears the panel icon
	CornerDistance   float64 `json:"cornerDistance"` // corner rounding
	BoxOffset        float64 `json:"boxOffset"`      // double-bend step out of and into panels
	ArrowSize        float64 `json:"arrowSize"`
	HintLength       int     `json:"hintLength"` // grid cells
	EntryID          string  `json:"entryId"`
}

// DefaultConfig returns the constants used by the flow editor.
func DefaultConfig() Config {
	const grid = 20
	return Config{
		GridSize:         grid,
		PanelWidth:       14,
		PanelHeight:      14,
		ResolveOffset:    Point{X: 14 * grid, Y: 4 * grid},
		RejectOffset:     Point{X: 14 * grid, Y: 8 * grid},
		AttachmentOffset: Point{X: 0, Y: 4 * grid},
		StartOffset:      10,
		CornerDistance:   10,
		BoxOffset:        grid,
		ArrowSize:        6,
		HintLength:       3,
		EntryID:          "$trigger",
	}
}

// Validate reports whether the config can drive the router.
func (c Config) Validate() error {
	if !(c.GridSize > 0) || math.IsInf(c.GridSize, 0) {
		return fmt.Errorf("%w: grid size must be positive, got %v", ErrInvalidConfig, c.GridSize)
	}
	if c.PanelWidth <= 0 || c.PanelHeight <= 0 {
		return fmt.Errorf("%w: panel size must be positive, got %dx%d", ErrInvalidConfig, c.PanelWidth, c.PanelHeight)
	}
	if c.CornerDistance < 0 || c.ArrowSize < 0 || c.BoxOffset < 0 {
		return fmt.Errorf("%w: corner distance, arrow size and box offset must not be negative", ErrInvalidConfig)
	}
	return nil
}

// PanelSpan returns the panel extent along axis in screen units.
func (c Config) PanelSpan(axis Axis) float64 {
	if axis == AxisY {
		return float64(c.PanelHeight) * c.GridSize
	}
	return float64(c.PanelWidth) * c.GridSize
}
