// Package export renders a routed flow to JSON, SVG or PNG.
package export

import (
	"fmt"
	"math"

	"flowarrows/connections"
	"flowarrows/core"
	"flowarrows/pathdata"
)

// Format represents an export format
type Format string

const (
	// FormatJSON exports the arrow list
	FormatJSON Format = "json"
	// FormatSVG exports a standalone SVG document
	FormatSVG Format = "svg"
	// FormatPNG exports a raster image
	FormatPNG Format = "png"
)

// Scene is a routed flow: the panels and the arrows generated for them.
type Scene struct {
	Config core.Config
	Panels []core.Panel
	Arrows []connections.Arrow
	// Size overrides the computed canvas size when non-zero.
	Size connections.Size
}

// Exporter interface for different export formats
type Exporter interface {
	// Export renders the scene in the target format
	Export(s Scene) ([]byte, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatSVG:
		return NewSVGExporter(DefaultSVGOptions()), nil
	case FormatPNG:
		return NewPNGExporter(DefaultPNGOptions()), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{FormatJSON, FormatSVG, FormatPNG}
}

// PanelRect returns the top-left corner and size of the drawn panel body.
func PanelRect(cfg core.Config, p core.Panel) (origin core.Point, w, h float64) {
	origin = core.Point{X: float64(p.X-1) * cfg.GridSize, Y: float64(p.Y-1) * cfg.GridSize}
	return origin, cfg.PanelSpan(core.AxisX), cfg.PanelSpan(core.AxisY)
}

// Bounds returns the box enclosing every panel and arrow, grown by pad.
// An empty scene yields a box of size 2*pad around the origin.
func (s Scene) Bounds(pad float64) (min, max core.Point) {
	min = core.Point{X: math.Inf(1), Y: math.Inf(1)}
	max = core.Point{X: math.Inf(-1), Y: math.Inf(-1)}
	grow := func(p core.Point) {
		min, _ = core.MinMaxPoint(min, p)
		_, max = core.MinMaxPoint(max, p)
	}

	for _, p := range s.Panels {
		o, w, h := PanelRect(s.Config, p)
		grow(o)
		grow(o.Add(core.Point{X: w, Y: h}))
	}
	for _, a := range s.Arrows {
		path, err := pathdata.Parse(a.D)
		if err != nil {
			continue
		}
		for _, cmd := range path {
			for _, pt := range cmd.Points {
				grow(pt)
			}
		}
	}

	if math.IsInf(min.X, 1) {
		min, max = core.Point{}, core.Point{}
	}
	d := core.Point{X: pad, Y: pad}
	return min.Sub(d), max.Add(d)
}
