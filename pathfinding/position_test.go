package pathfinding

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowarrows/core"
)

func newTestRouter(t *testing.T, mutate func(*core.Config)) *Router {
	t.Helper()
	cfg := core.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	r, err := NewRouter(cfg)
	require.NoError(t, err)
	return r
}

func TestFindBestPositionEmptyPanels(t *testing.T) {
	r := newTestRouter(t, nil)

	tests := []struct {
		name     string
		from, to core.Point
		axis     core.Axis
	}{
		{"horizontal", core.Point{X: 40, Y: 0}, core.Point{X: 160, Y: 100}, core.AxisX},
		{"reversed", core.Point{X: 160, Y: 100}, core.Point{X: 40, Y: 0}, core.AxisX},
		{"vertical", core.Point{X: 140, Y: 0}, core.Point{X: 10, Y: 200}, core.AxisY},
		{"negative", core.Point{X: -300, Y: -80}, core.Point{X: -20, Y: 60}, core.AxisX},
		{"unaligned", core.Point{X: 13, Y: 7}, core.Point{X: 97, Y: 333}, core.AxisY},
		{"flat span", core.Point{X: 0, Y: 40}, core.Point{X: 400, Y: 40}, core.AxisX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.FindBestPosition(nil, tt.from, tt.to, tt.axis)
			lo := math.Min(tt.from.Get(tt.axis), tt.to.Get(tt.axis))
			hi := math.Max(tt.from.Get(tt.axis), tt.to.Get(tt.axis))

			assert.Zero(t, math.Mod(got, 20), "position %v is not on the grid", got)
			assert.GreaterOrEqual(t, got, lo)
			assert.LessOrEqual(t, got, hi)
		})
	}
}

func TestFindBestPositionCentre(t *testing.T) {
	r := newTestRouter(t, nil)
	got := r.FindBestPosition(nil, core.Point{X: 40, Y: 0}, core.Point{X: 160, Y: 100}, core.AxisX)
	assert.Equal(t, 100.0, got)
}

func TestFindBestPositionSamePoint(t *testing.T) {
	r := newTestRouter(t, nil)
	p := core.Point{X: 33, Y: -7}
	panels := []core.Panel{{ID: "a", X: 1, Y: 1}}

	assert.Equal(t, 33.0, r.FindBestPosition(panels, p, p, core.AxisX))
	assert.Equal(t, -7.0, r.FindBestPosition(panels, p, p, core.AxisY))
}

func TestFindBestPositionAvoidsPanel(t *testing.T) {
	r := newTestRouter(t, nil)
	// footprint x 60..360 covers every candidate from 60 to 160
	panels := []core.Panel{{ID: "block", X: 5, Y: 1}}

	got := r.FindBestPosition(panels, core.Point{X: 40, Y: 0}, core.Point{X: 160, Y: 100}, core.AxisX)
	assert.Equal(t, 40.0, got)
}

func TestFindBestPositionPrefersLower(t *testing.T) {
	r := newTestRouter(t, func(c *core.Config) { c.PanelWidth = 1 })
	// footprint x 60..100 blocks the centre and both neighbours
	panels := []core.Panel{{ID: "thin", X: 5, Y: 1}}

	got := r.FindBestPosition(panels, core.Point{X: 40, Y: 0}, core.Point{X: 120, Y: 100}, core.AxisX)
	assert.Equal(t, 40.0, got)
}

func TestFindBestPositionChecksWholeSpan(t *testing.T) {
	r := newTestRouter(t, func(c *core.Config) { c.PanelWidth = 1; c.PanelHeight = 1 })
	// only the far end of the vertical span is blocked at x=80..120
	panels := []core.Panel{{ID: "low", X: 6, Y: 11}}

	got := r.FindBestPosition(panels, core.Point{X: 40, Y: 0}, core.Point{X: 160, Y: 200}, core.AxisX)
	assert.NotContains(t, []float64{80, 100, 120}, got)
	assert.Equal(t, 60.0, got)
}

func TestFindBestPositionFallback(t *testing.T) {
	r := newTestRouter(t, nil)
	panels := []core.Panel{{ID: "wall", X: 1, Y: 1}}

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	got := r.FindBestPosition(panels, core.Point{X: 40, Y: 0}, core.Point{X: 170, Y: 100}, core.AxisX)
	assert.Equal(t, 100.0, got)
	// the midpoint is not re-validated
	assert.True(t, IsPointInPanel(r.Config(), panels, core.Point{X: got, Y: 50}))
	assert.Contains(t, buf.String(), "fully blocked")
}

func TestFindBestPositionHugeSpan(t *testing.T) {
	r := newTestRouter(t, nil)
	got := r.FindBestPosition(nil, core.Point{X: -1e9, Y: 0}, core.Point{X: 1e9, Y: 100}, core.AxisX)
	assert.Equal(t, 0.0, got)
}
