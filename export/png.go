package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"flowarrows/connections"
	"flowarrows/core"
	"flowarrows/pathdata"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Padding       float64
	Scale         float64 // pixels per screen unit
	StrokeWidth   float64
	FontSize      float64
	CurveSegments int // straight pieces per quadratic curve
	MaxPixels     int // largest canvas Render allocates
}

// ErrCanvasTooLarge is returned when a scene would rasterize to more than
// PNGOptions.MaxPixels pixels.
var ErrCanvasTooLarge = errors.New("canvas too large")

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Padding:       20,
		Scale:         1,
		StrokeWidth:   2,
		FontSize:      12,
		CurveSegments: 8,
		MaxPixels:     1 << 24,
	}
}

// Colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorPanel     = color.RGBA{247, 249, 252, 255} // #f7f9fc
	colorPanelBdr  = color.RGBA{211, 218, 228, 255} // #d3dae4
	colorText      = color.RGBA{23, 41, 64, 255}    // #172940
	colorResolve   = color.RGBA{46, 205, 167, 255}  // #2ecda7
	colorReject    = color.RGBA{227, 81, 105, 255}  // #e35169
	colorHint      = color.RGBA{162, 181, 205, 255} // #a2b5cd
	colorLonerFade = 0.5
)

// PNGExporter rasterizes scenes.
type PNGExporter struct {
	opts PNGOptions
}

// NewPNGExporter creates a new PNG exporter
func NewPNGExporter(opts PNGOptions) *PNGExporter {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.CurveSegments < 1 {
		opts.CurveSegments = 8
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = DefaultPNGOptions().MaxPixels
	}
	return &PNGExporter{opts: opts}
}

// Export renders the scene and encodes it as PNG.
func (e *PNGExporter) Export(s Scene) ([]byte, error) {
	img, err := e.Render(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Render rasterizes the scene.
func (e *PNGExporter) Render(s Scene) (*image.RGBA, error) {
	opts := e.opts
	min, max := s.Bounds(opts.Padding)
	fw := math.Ceil((max.X - min.X) * opts.Scale)
	fh := math.Ceil((max.Y - min.Y) * opts.Scale)
	if s.Size.Width > 0 && s.Size.Height > 0 {
		fw = math.Ceil(s.Size.Width * opts.Scale)
		fh = math.Ceil(s.Size.Height * opts.Scale)
	}
	fw, fh = math.Max(fw, 1), math.Max(fh, 1)
	// negated so NaN sizes are rejected too
	if !(fw*fh <= float64(opts.MaxPixels)) {
		return nil, fmt.Errorf("%w: %sx%s exceeds %d pixels",
			ErrCanvasTooLarge, core.FormatNumber(fw), core.FormatNumber(fh), opts.MaxPixels)
	}
	w, h := int(fw), int(fh)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)

	px := func(p core.Point) [2]float32 {
		return [2]float32{float32((p.X - min.X) * opts.Scale), float32((p.Y - min.Y) * opts.Scale)}
	}
	stroke := float32(opts.StrokeWidth * opts.Scale)

	face, err := opentype.NewFace(labelFont, &opentype.FaceOptions{
		Size:    opts.FontSize * opts.Scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create label face: %w", err)
	}
	defer face.Close()

	for _, p := range s.Panels {
		o, pw, ph := PanelRect(s.Config, p)
		tl := px(o)
		br := px(o.Add(core.Point{X: pw, Y: ph}))
		corners := [][2]float32{tl, {br[0], tl[1]}, br, {tl[0], br[1]}, tl}

		fillPolygon(img, corners, colorPanel)
		strokePolyline(img, corners, stroke, colorPanelBdr)

		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(colorText),
			Face: face,
			Dot: fixed.P(
				int(tl[0]+float32(s.Config.GridSize*opts.Scale)),
				int(tl[1]+float32(s.Config.GridSize*1.5*opts.Scale))),
		}
		d.DrawString(p.ID)
	}

	for _, a := range s.Arrows {
		path, err := pathdata.Parse(a.D)
		if err != nil {
			return nil, fmt.Errorf("arrow %s: %w", a.ID, err)
		}
		c := arrowColor(a)
		for _, line := range pathdata.Flatten(path, opts.CurveSegments) {
			pts := make([][2]float32, len(line))
			for i, p := range line {
				pts[i] = px(p)
			}
			strokePolyline(img, pts, stroke, c)
		}
	}
	return img, nil
}

var labelFont = func() *opentype.Font {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
	return f
}()

func arrowColor(a connections.Arrow) color.Color {
	c := colorResolve
	switch {
	case a.IsHint:
		c = colorHint
	case a.Type == connections.Reject:
		c = colorReject
	}
	if a.Loner {
		c = fade(c, colorLonerFade)
	}
	return c
}

// fade blends c towards white.
func fade(c color.RGBA, amount float64) color.RGBA {
	mix := func(v uint8) uint8 {
		return uint8(float64(v) + (255-float64(v))*amount)
	}
	return color.RGBA{mix(c.R), mix(c.G), mix(c.B), 255}
}

func fillPolygon(img *image.RGBA, pts [][2]float32, c color.Color) {
	if len(pts) < 3 {
		return
	}
	b := img.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		r.LineTo(p[0], p[1])
	}
	r.ClosePath()
	r.Draw(img, b, image.NewUniform(c), image.Point{})
}

// strokePolyline draws each segment as a quad extended by half the width at
// both ends, which also covers the joins.
func strokePolyline(img *image.RGBA, pts [][2]float32, width float32, c color.Color) {
	b := img.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	half := width / 2
	drawn := false
	for i := 0; i+1 < len(pts); i++ {
		x0, y0 := pts[i][0], pts[i][1]
		x1, y1 := pts[i+1][0], pts[i+1][1]
		dx, dy := x1-x0, y1-y0
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			continue
		}
		ux, uy := dx/l*half, dy/l*half
		nx, ny := -uy, ux

		r.MoveTo(x0-ux+nx, y0-uy+ny)
		r.LineTo(x1+ux+nx, y1+uy+ny)
		r.LineTo(x1+ux-nx, y1+uy-ny)
		r.LineTo(x0-ux-nx, y0-uy-ny)
		r.ClosePath()
		drawn = true
	}
	if drawn {
		r.Draw(img, b, image.NewUniform(c), image.Point{})
	}
}

// GetFileExtension returns the file extension for PNG
func (e *PNGExporter) GetFileExtension() string {
	return ".png"
}

// GetFormatName returns the format name
func (e *PNGExporter) GetFormatName() string {
	return "PNG"
}
