package connections

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowarrows/core"
	"flowarrows/pathdata"
)

var flowPanels = []core.Panel{
	{ID: "panel1", X: 1, Y: 1, Resolve: "panel2", Reject: "panel3"},
	{ID: "panel2", X: 3, Y: 1},
	{ID: "panel3", X: 1, Y: 3},
	{ID: "$trigger", X: 0, Y: 1, Resolve: "panel1"},
}

func baseContext() Context {
	return Context{Size: Size{Width: 800, Height: 600}}
}

func find(arrows []Arrow, id string) []Arrow {
	var out []Arrow
	for _, a := range arrows {
		if a.ID == id {
			out = append(out, a)
		}
	}
	return out
}

func hints(arrows []Arrow) []Arrow {
	var out []Arrow
	for _, a := range arrows {
		if a.IsHint {
			out = append(out, a)
		}
	}
	return out
}

// endOf returns the point the connector reaches before its arrowhead.
func endOf(t *testing.T, d string) core.Point {
	t.Helper()
	p, err := pathdata.Parse(d)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(p), 6)
	return p[len(p)-5].End()
}

func startOf(t *testing.T, d string) core.Point {
	t.Helper()
	p, err := pathdata.Parse(d)
	require.NoError(t, err)
	return p[0].End()
}

func TestGenerateArrowsEstablished(t *testing.T) {
	arrows := GenerateArrows(flowPanels, baseContext())

	var resolves, rejects []Arrow
	for _, a := range arrows {
		switch a.Type {
		case Resolve:
			resolves = append(resolves, a)
		case Reject:
			rejects = append(rejects, a)
		}
	}
	assert.Len(t, resolves, 2)
	assert.Len(t, rejects, 1)

	r := find(arrows, "panel1_resolve")
	require.Len(t, r, 1)
	assert.Equal(t, Resolve, r[0].Type)
	assert.True(t, r[0].Loner)
	assert.False(t, r[0].IsHint)

	cfg := core.DefaultConfig()
	assert.Equal(t, GetPoints(cfg, flowPanels[0], cfg.ResolveOffset).Add(core.Point{X: cfg.StartOffset}), startOf(t, r[0].D))
	assert.Equal(t, Attachment(cfg, flowPanels[1]), endOf(t, r[0].D))

	j := find(arrows, "panel1_reject")
	require.Len(t, j, 1)
	assert.Equal(t, Attachment(cfg, flowPanels[2]), endOf(t, j[0].D))
}

func TestGenerateArrowsTwoPanels(t *testing.T) {
	panels := []core.Panel{
		{ID: "a", X: 1, Y: 1, Resolve: "b"},
		{ID: "b", X: 3, Y: 1},
	}

	arrows := GenerateArrows(panels, Context{})
	require.Len(t, arrows, 1)
	assert.Equal(t, "a_resolve", arrows[0].ID)
	assert.Equal(t, Resolve, arrows[0].Type)
}

func TestGenerateArrowsLoner(t *testing.T) {
	tests := []struct {
		name    string
		parents map[string]ParentInfo
		id      string
		want    bool
	}{
		{"no parent", nil, "panel1_resolve", true},
		{"non-loner parent", map[string]ParentInfo{"panel1": {Loner: false}}, "panel1_resolve", false},
		{"loner parent", map[string]ParentInfo{"panel1": {Loner: true}}, "panel1_resolve", true},
		{"entry without parent", nil, "$trigger_resolve", false},
		{"entry with loner parent", map[string]ParentInfo{"$trigger": {Loner: true}}, "$trigger_resolve", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := baseContext()
			ctx.ParentPanels = tt.parents
			a := find(GenerateArrows(flowPanels, ctx), tt.id)
			require.Len(t, a, 1)
			assert.Equal(t, tt.want, a[0].Loner)
		})
	}
}

func TestGenerateArrowsHints(t *testing.T) {
	ctx := baseContext()
	ctx.EditMode = true
	ctx.HoveredPanel = "panel2"
	arrows := GenerateArrows(flowPanels, ctx)

	for _, id := range []string{"panel2_resolve", "panel2_reject"} {
		a := find(arrows, id)
		require.Len(t, a, 1, id)
		assert.True(t, a[0].IsHint)

		start := startOf(t, a[0].D)
		end := endOf(t, a[0].D)
		assert.Equal(t, start.Y, end.Y)
		assert.Equal(t, 3*20.0, end.X-(start.X-10), "hint spans three grid cells from the anchor")
	}

	assert.Empty(t, find(arrows, "panel3_resolve"), "panels neither hovered nor entry get no hint")
	assert.Empty(t, find(arrows, "$trigger_reject"), "the entry panel never gets a reject hint")

	trigger := find(arrows, "$trigger_resolve")
	require.Len(t, trigger, 1)
	assert.False(t, trigger[0].IsHint, "established arrows win over hints")
}

func TestGenerateArrowsEntryHint(t *testing.T) {
	panels := []core.Panel{
		{ID: "panel1", X: 1, Y: 1},
		{ID: "$trigger", X: 0, Y: 1},
	}

	for _, hovered := range []string{"", "$trigger"} {
		ctx := baseContext()
		ctx.EditMode = true
		ctx.HoveredPanel = hovered
		arrows := GenerateArrows(panels, ctx)

		h := find(arrows, "$trigger_resolve")
		require.Len(t, h, 1)
		assert.True(t, h[0].IsHint)
		assert.Empty(t, find(arrows, "$trigger_reject"))
	}
}

func TestGenerateArrowsNoHints(t *testing.T) {
	t.Run("not editing", func(t *testing.T) {
		ctx := baseContext()
		ctx.HoveredPanel = "panel2"
		assert.Empty(t, hints(GenerateArrows(flowPanels, ctx)))
	})

	t.Run("dragging", func(t *testing.T) {
		ctx := baseContext()
		ctx.EditMode = true
		ctx.HoveredPanel = "panel2"
		ctx.ArrowInfo = &DragInfo{ID: "panel1", Type: Resolve, Pos: core.Point{X: 100, Y: 200}}
		assert.Empty(t, hints(GenerateArrows(flowPanels, ctx)))
	})
}

func TestGenerateArrowsDragPreview(t *testing.T) {
	tests := []struct {
		name string
		drag DragInfo
	}{
		{"resolve", DragInfo{ID: "panel1", Type: Resolve, Pos: core.Point{X: 150, Y: 250}}},
		{"reject", DragInfo{ID: "panel1", Type: Reject, Pos: core.Point{X: 200, Y: 300}}},
		{"panel without target", DragInfo{ID: "panel2", Type: Resolve, Pos: core.Point{X: -40, Y: 900}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := baseContext()
			drag := tt.drag
			ctx.ArrowInfo = &drag

			a := find(GenerateArrows(flowPanels, ctx), drag.ID+"_"+string(drag.Type))
			require.Len(t, a, 1, "the preview replaces the established arrow")
			assert.Equal(t, drag.Pos, endOf(t, a[0].D))
			assert.False(t, a[0].IsHint)
		})
	}
}

func TestGenerateArrowsDragLeavesOthers(t *testing.T) {
	ctx := baseContext()
	ctx.ArrowInfo = &DragInfo{ID: "panel1", Type: Resolve, Pos: core.Point{X: 150, Y: 250}}
	arrows := GenerateArrows(flowPanels, ctx)

	cfg := core.DefaultConfig()
	j := find(arrows, "panel1_reject")
	require.Len(t, j, 1)
	assert.Equal(t, Attachment(cfg, flowPanels[2]), endOf(t, j[0].D))
	assert.Len(t, find(arrows, "$trigger_resolve"), 1)
}

func TestGenerateArrowsEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		panels []core.Panel
	}{
		{"empty", nil},
		{"no targets", []core.Panel{{ID: "simple", X: 1, Y: 1}}},
		{"self reference", []core.Panel{{ID: "selfref", X: 1, Y: 1, Resolve: "selfref"}}},
		{"dangling", []core.Panel{{ID: "invalid", X: 1, Y: 1, Resolve: "nonexistent"}}},
		{"negative grid", []core.Panel{{ID: "a", X: -5, Y: -9, Resolve: "b"}, {ID: "b", X: -30, Y: 40}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var arrows []Arrow
			assert.NotPanics(t, func() { arrows = GenerateArrows(tt.panels, baseContext()) })
			for _, a := range arrows {
				_, err := pathdata.Parse(a.D)
				assert.NoError(t, err)
			}
			if tt.name != "negative grid" {
				assert.Empty(t, arrows)
			}
		})
	}
}

func TestGenerateArrowsStructure(t *testing.T) {
	ctx := baseContext()
	ctx.EditMode = true
	ctx.HoveredPanel = "panel3"
	ctx.ParentPanels = map[string]ParentInfo{"panel1": {}, "panel2": {Loner: true}, "panel3": {}}
	arrows := GenerateArrows(flowPanels, ctx)

	idPattern := regexp.MustCompile(`^.+_(resolve|reject)$`)
	seen := make(map[string]bool)
	for _, a := range arrows {
		assert.Regexp(t, idPattern, a.ID)
		assert.Contains(t, []ConnectionType{Resolve, Reject}, a.Type)
		assert.NotEmpty(t, a.D)
		assert.False(t, seen[a.ID], "duplicate arrow id %s", a.ID)
		seen[a.ID] = true
	}
}

func TestGenerateArrowsDuplicateIDs(t *testing.T) {
	panels := []core.Panel{
		{ID: "a", X: 1, Y: 1, Resolve: "b"},
		{ID: "a", X: 1, Y: 10, Resolve: "c"},
		{ID: "b", X: 20, Y: 1},
		{ID: "c", X: 20, Y: 10},
	}

	t.Run("established", func(t *testing.T) {
		got := find(GenerateArrows(panels, baseContext()), "a_resolve")
		require.Len(t, got, 1)
		assert.Equal(t, core.Point{X: 380, Y: 80}, endOf(t, got[0].D), "the first panel with the id wins")
	})

	t.Run("drag", func(t *testing.T) {
		ctx := baseContext()
		ctx.EditMode = true
		ctx.ArrowInfo = &DragInfo{ID: "a", Type: Resolve, Pos: core.Point{X: 150, Y: 250}}

		got := find(GenerateArrows(panels, ctx), "a_resolve")
		require.Len(t, got, 1)
		assert.Equal(t, core.Point{X: 150, Y: 250}, endOf(t, got[0].D))
		assert.Equal(t, core.Point{X: 290, Y: 80}, startOf(t, got[0].D))
	})
}

func TestGenerateArrowsIdempotent(t *testing.T) {
	ctx := baseContext()
	ctx.EditMode = true
	ctx.HoveredPanel = "panel2"
	assert.Equal(t, GenerateArrows(flowPanels, ctx), GenerateArrows(flowPanels, ctx))
}

func TestGeneratorCustomGrid(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.GridSize = 10
	g, err := NewArrowGenerator(cfg)
	require.NoError(t, err)

	arrows := g.Generate([]core.Panel{{ID: "a", X: 1, Y: 1, Resolve: "b"}, {ID: "b", X: 40, Y: 1}}, Context{})
	require.Len(t, arrows, 1)
	assert.Equal(t, Attachment(cfg, core.Panel{X: 40, Y: 1}), endOf(t, arrows[0].D))

	cfg.GridSize = 0
	_, err = NewArrowGenerator(cfg)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestGetPoints(t *testing.T) {
	cfg := core.DefaultConfig()
	p := core.Panel{ID: "a", X: 3, Y: 2}

	assert.Equal(t, core.Point{X: 320, Y: 100}, GetPoints(cfg, p, cfg.ResolveOffset))
	assert.Equal(t, core.Point{X: 320, Y: 180}, GetPoints(cfg, p, cfg.RejectOffset))
	assert.Equal(t, core.Point{X: 40, Y: 100}, Attachment(cfg, p))
	assert.Equal(t, "b", Target(core.Panel{Resolve: "b", Reject: "c"}, Resolve))
	assert.Equal(t, "c", Target(core.Panel{Resolve: "b", Reject: "c"}, Reject))
}

func TestSnapshotEffectiveConfig(t *testing.T) {
	assert.Equal(t, core.DefaultConfig(), Snapshot{}.EffectiveConfig())

	cfg := core.DefaultConfig()
	cfg.GridSize = 8
	assert.Equal(t, 8.0, Snapshot{Config: &cfg}.EffectiveConfig().GridSize)
}
