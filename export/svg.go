package export

import (
	"fmt"
	"html"
	"strings"

	"flowarrows/connections"
	"flowarrows/core"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Padding      float64 // space around the scene
	CornerRadius float64 // panel corner rounding
	StrokeWidth  float64 // arrow stroke width
	FontSize     int     // panel label size
	ResolveColor string
	RejectColor  string
	HintColor    string
	PanelFill    string
	PanelStroke  string
	LonerOpacity float64 // opacity of arrows leaving loner panels
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Padding:      20,
		CornerRadius: 8,
		StrokeWidth:  2,
		FontSize:     14,
		ResolveColor: "#2ecda7",
		RejectColor:  "#e35169",
		HintColor:    "#a2b5cd",
		PanelFill:    "#ffffff",
		PanelStroke:  "#d3dae4",
		LonerOpacity: 0.5,
	}
}

// SVGExporter renders scenes as standalone SVG documents.
type SVGExporter struct {
	opts SVGOptions
}

// NewSVGExporter creates a new SVG exporter
func NewSVGExporter(opts SVGOptions) *SVGExporter {
	return &SVGExporter{opts: opts}
}

// Export renders the scene.
func (e *SVGExporter) Export(s Scene) ([]byte, error) {
	return []byte(e.Render(s)), nil
}

// Render returns the SVG document as a string.
func (e *SVGExporter) Render(s Scene) string {
	opts := e.opts
	min, max := s.Bounds(opts.Padding)
	width, height := max.X-min.X, max.Y-min.Y
	if s.Size.Width > 0 && s.Size.Height > 0 {
		width, height = s.Size.Width, s.Size.Height
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`+"\n",
		core.FormatNumber(width), core.FormatNumber(height),
		core.FormatNumber(min.X), core.FormatNumber(min.Y),
		core.FormatNumber(width), core.FormatNumber(height))

	sb.WriteString("<style>\n")
	fmt.Fprintf(&sb, ".panel { fill: %s; stroke: %s; stroke-width: 2; }\n", opts.PanelFill, opts.PanelStroke)
	fmt.Fprintf(&sb, ".label { font-family: sans-serif; font-size: %dpx; fill: #172940; }\n", opts.FontSize)
	fmt.Fprintf(&sb, ".arrow { fill: none; stroke-width: %s; stroke-linecap: round; stroke-linejoin: round; }\n",
		core.FormatNumber(opts.StrokeWidth))
	fmt.Fprintf(&sb, ".arrow.resolve { stroke: %s; }\n", opts.ResolveColor)
	fmt.Fprintf(&sb, ".arrow.reject { stroke: %s; }\n", opts.RejectColor)
	fmt.Fprintf(&sb, ".arrow.hint { stroke: %s; stroke-dasharray: 4 4; }\n", opts.HintColor)
	fmt.Fprintf(&sb, ".arrow.loner { opacity: %s; }\n", core.FormatNumber(opts.LonerOpacity))
	sb.WriteString("</style>\n")

	sb.WriteString(`<g class="panels">` + "\n")
	for _, p := range s.Panels {
		o, w, h := PanelRect(s.Config, p)
		fmt.Fprintf(&sb, `<rect class="panel" data-id="%s" x="%s" y="%s" width="%s" height="%s" rx="%s"/>`+"\n",
			html.EscapeString(p.ID),
			core.FormatNumber(o.X), core.FormatNumber(o.Y),
			core.FormatNumber(w), core.FormatNumber(h),
			core.FormatNumber(opts.CornerRadius))
		fmt.Fprintf(&sb, `<text class="label" x="%s" y="%s">%s</text>`+"\n",
			core.FormatNumber(o.X+s.Config.GridSize), core.FormatNumber(o.Y+s.Config.GridSize*1.5),
			html.EscapeString(p.ID))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g class="arrows">` + "\n")
	for _, a := range s.Arrows {
		fmt.Fprintf(&sb, `<path id="%s" class="%s" d="%s"/>`+"\n",
			html.EscapeString(a.ID), arrowClass(a), a.D)
	}
	sb.WriteString("</g>\n")

	sb.WriteString("</svg>\n")
	return sb.String()
}

func arrowClass(a connections.Arrow) string {
	classes := []string{"arrow", string(a.Type)}
	if a.IsHint {
		classes = append(classes, "hint")
	}
	if a.Loner {
		classes = append(classes, "loner")
	}
	return strings.Join(classes, " ")
}

// GetFileExtension returns the file extension for SVG
func (e *SVGExporter) GetFileExtension() string {
	return ".svg"
}

// GetFormatName returns the format name
func (e *SVGExporter) GetFormatName() string {
	return "SVG"
}
