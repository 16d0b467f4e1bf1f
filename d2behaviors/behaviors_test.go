package d2behaviors_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/d2canvas/d2behaviors"
	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/geo"
	"oss.terrastruct.com/d2canvas/lib/log"
)

func newDiagram(t *testing.T, opts *d2diagram.Options) *d2diagram.Diagram {
	ctx := log.WithTB(context.Background(), t, nil)
	d, err := d2diagram.New(ctx, opts)
	require.NoError(t, err)
	require.NoError(t, d2behaviors.RegisterDefaults(d))
	d.SetContainer(geo.NewBox(geo.NewPoint(0, 0), 1000, 800))
	return d
}

func sizedNode(id string, x, y, w, h float64) *d2diagram.Node {
	n := d2diagram.NewNodeWithID(id, x, y)
	n.SetSize(w, h)
	return n
}

func at(x, y float64) d2diagram.PointerEvent {
	return d2diagram.PointerEvent{ClientX: x, ClientY: y, IsPrimary: true}
}

func drag(d *d2diagram.Diagram, target d2diagram.Model, points ...*geo.Point) {
	d.TriggerPointerDown(target, at(points[0].X, points[0].Y))
	for _, p := range points[1:] {
		d.TriggerPointerMove(nil, at(p.X, p.Y))
	}
	last := points[len(points)-1]
	d.TriggerPointerUp(nil, at(last.X, last.Y))
}

func assertPoint(t *testing.T, exp, got *geo.Point) {
	t.Helper()
	if !assert.NotNil(t, got) {
		return
	}
	assert.InDelta(t, exp.X, got.X, 1e-6)
	assert.InDelta(t, exp.Y, got.Y, 1e-6)
}

func TestRegisterDefaults(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	assert.Error(t, d2behaviors.RegisterDefaults(d))

	_, ok := d2diagram.GetBehavior[*d2behaviors.ZoomBehavior](d)
	assert.True(t, ok)
	_, ok = d2diagram.GetBehavior[*d2behaviors.ScrollBehavior](d)
	assert.False(t, ok)

	opts := d2diagram.DefaultOptions()
	opts.Behaviors.Wheel = d2diagram.WheelNone
	d = newDiagram(t, opts)
	_, ok = d2diagram.GetBehavior[*d2behaviors.ZoomBehavior](d)
	assert.False(t, ok)
	_, ok = d2diagram.GetBehavior[*d2behaviors.ScrollBehavior](d)
	assert.False(t, ok)
	_, ok = d2diagram.GetBehavior[*d2behaviors.KeyboardShortcutsBehavior](d)
	assert.True(t, ok)
}

func TestRejectedBehaviorIsInert(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	assert.Error(t, d.RegisterBehavior(d2behaviors.NewDragMovablesBehavior(d)))
	assert.Error(t, d2behaviors.RegisterDefaults(d))

	n := sizedNode("n", 0, 0, 100, 100)
	d.Nodes.Add(n)
	c := countMoves(n)

	drag(d, n, geo.NewPoint(0, 0), geo.NewPoint(50, 50))
	assert.Equal(t, geo.NewPoint(50, 50), n.Position())
	assert.Equal(t, moveCounts{positions: 1, moving: 1, moved: 1}, *c)
}

func TestRegisterDefaultsRollsBack(t *testing.T) {
	t.Parallel()

	d, err := d2diagram.New(log.WithTB(context.Background(), t, nil), nil)
	require.NoError(t, err)
	// Registered ahead so RegisterDefaults fails part way through its list.
	require.NoError(t, d.RegisterBehavior(d2behaviors.NewPanBehavior(d)))
	assert.Error(t, d2behaviors.RegisterDefaults(d))

	_, ok := d2diagram.GetBehavior[*d2behaviors.SelectionBehavior](d)
	assert.False(t, ok)
	_, ok = d2diagram.GetBehavior[*d2behaviors.DragMovablesBehavior](d)
	assert.False(t, ok)
	_, ok = d2diagram.GetBehavior[*d2behaviors.PanBehavior](d)
	assert.True(t, ok)

	n := sizedNode("n", 0, 0, 100, 100)
	d.Nodes.Add(n)
	c := countMoves(n)
	drag(d, n, geo.NewPoint(0, 0), geo.NewPoint(50, 50))
	assert.Equal(t, geo.NewPoint(0, 0), n.Position())
	assert.Equal(t, moveCounts{}, *c)
}

func TestSelectionBehavior(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	a := sizedNode("a", 0, 0, 10, 10)
	b := sizedNode("b", 100, 0, 10, 10)
	d.Nodes.Add(a, b)

	d.TriggerPointerDown(a, at(5, 5))
	d.TriggerPointerUp(a, at(5, 5))
	assert.Equal(t, []d2diagram.Selectable{a}, d.SelectedModels())

	d.TriggerPointerDown(b, at(105, 5))
	assert.Equal(t, []d2diagram.Selectable{b}, d.SelectedModels())

	ctrl := at(5, 5)
	ctrl.CtrlKey = true
	d.TriggerPointerDown(a, ctrl)
	assert.Equal(t, []d2diagram.Selectable{a, b}, d.SelectedModels())
	d.TriggerPointerDown(a, ctrl)
	assert.Equal(t, []d2diagram.Selectable{b}, d.SelectedModels())

	d.TriggerPointerDown(nil, at(500, 500))
	assert.Empty(t, d.SelectedModels())

	d.Options.AllowMultiSelection = false
	d.TriggerPointerDown(a, at(5, 5))
	d.TriggerPointerDown(b, ctrl)
	assert.Equal(t, []d2diagram.Selectable{b}, d.SelectedModels())
}
