package d2behaviors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/d2canvas/d2behaviors"
	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/geo"
)

type moveCounts struct {
	positions int
	moving    int
	moved     int
}

func countMoves(n *d2diagram.Node) *moveCounts {
	c := &moveCounts{}
	n.PositionChanged.Subscribe(func(*d2diagram.Node) { c.positions++ })
	n.Moving.Subscribe(func(*d2diagram.Node) { c.moving++ })
	n.Moved.Subscribe(func(*d2diagram.Node) { c.moved++ })
	return c
}

func TestDragMovables(t *testing.T) {
	t.Parallel()

	t.Run("single", func(t *testing.T) {
		t.Parallel()

		d := newDiagram(t, nil)
		n := sizedNode("n", 0, 0, 100, 100)
		d.Nodes.Add(n)
		c := countMoves(n)

		drag(d, n, geo.NewPoint(0, 0), geo.NewPoint(50, 50))
		assert.Equal(t, geo.NewPoint(50, 50), n.Position())
		assert.Equal(t, moveCounts{positions: 1, moving: 1, moved: 1}, *c)
	})

	t.Run("no_move", func(t *testing.T) {
		t.Parallel()

		d := newDiagram(t, nil)
		n := sizedNode("n", 0, 0, 100, 100)
		d.Nodes.Add(n)
		c := countMoves(n)

		drag(d, n, geo.NewPoint(0, 0))
		assert.Equal(t, moveCounts{}, *c)
		assert.True(t, n.Selected())
	})

	t.Run("zoom", func(t *testing.T) {
		t.Parallel()

		d := newDiagram(t, nil)
		require.NoError(t, d.SetZoom(2))
		n := sizedNode("n", 10, 10, 100, 100)
		d.Nodes.Add(n)

		drag(d, n, geo.NewPoint(0, 0), geo.NewPoint(20, 10), geo.NewPoint(50, 50))
		assert.Equal(t, geo.NewPoint(35, 35), n.Position())
	})

	t.Run("locked", func(t *testing.T) {
		t.Parallel()

		d := newDiagram(t, nil)
		n := sizedNode("n", 0, 0, 100, 100)
		n.SetLocked(true)
		d.Nodes.Add(n)

		drag(d, n, geo.NewPoint(0, 0), geo.NewPoint(50, 50))
		assert.Equal(t, geo.NewPoint(0, 0), n.Position())
	})

	t.Run("multiple", func(t *testing.T) {
		t.Parallel()

		d := newDiagram(t, nil)
		a := sizedNode("a", 0, 0, 10, 10)
		b := sizedNode("b", 100, 0, 10, 10)
		d.Nodes.Add(a, b)
		d.SelectModel(a, false)
		d.SelectModel(b, false)

		drag(d, a, geo.NewPoint(5, 5), geo.NewPoint(15, 25))
		assert.Equal(t, geo.NewPoint(10, 20), a.Position())
		assert.Equal(t, geo.NewPoint(110, 20), b.Position())
	})

	t.Run("children", func(t *testing.T) {
		t.Parallel()

		d := newDiagram(t, nil)
		outer := sizedNode("outer", 0, 0, 400, 400)
		parent := sizedNode("parent", 100, 100, 200, 200)
		child := sizedNode("child", 120, 150, 50, 50)
		d.Nodes.Add(outer, parent, child)
		outer.AddChild(parent)
		parent.AddChild(child)
		d.SelectModel(parent, false)
		d.SelectModel(child, false)

		pc := countMoves(parent)
		cc := countMoves(child)
		drag(d, parent, geo.NewPoint(0, 0), geo.NewPoint(50, 20))
		assert.Equal(t, geo.NewPoint(150, 120), parent.Position())
		assert.Equal(t, geo.NewPoint(170, 170), child.Position())
		assert.Equal(t, 1, pc.moved)
		assert.Equal(t, 1, cc.moved)
		assert.Equal(t, 0, cc.moving)

		drag(d, parent, geo.NewPoint(0, 0), geo.NewPoint(500, 0))
		assert.Equal(t, geo.NewPoint(200, 120), parent.Position())
		assert.Equal(t, geo.NewPoint(220, 170), child.Position())
	})

	t.Run("descendants_selected", func(t *testing.T) {
		t.Parallel()

		d := newDiagram(t, nil)
		parent := sizedNode("parent", 0, 0, 200, 200)
		child := sizedNode("child", 20, 50, 50, 50)
		d.Nodes.Add(parent, child)
		parent.AddChild(child)

		drag(d, parent, geo.NewPoint(0, 0), geo.NewPoint(10, 10))
		assert.True(t, child.Selected())
		assert.Equal(t, geo.NewPoint(30, 60), child.Position())
	})

	t.Run("group", func(t *testing.T) {
		t.Parallel()

		d := newDiagram(t, nil)
		a := sizedNode("a", 100, 100, 50, 50)
		b := sizedNode("b", 200, 150, 50, 50)
		d.Nodes.Add(a, b)
		g := d.Groups.Group(a, b)
		d.SelectModel(a, false)
		d.SelectModel(g, false)
		ac := countMoves(a)

		drag(d, g, geo.NewPoint(0, 0), geo.NewPoint(10, 10))
		assert.Equal(t, geo.NewPoint(80, 80), g.Position())
		assert.Equal(t, geo.NewPoint(110, 110), a.Position())
		assert.Equal(t, geo.NewPoint(210, 160), b.Position())
		assert.Equal(t, 0, ac.moved)
	})

	t.Run("group_with_children", func(t *testing.T) {
		t.Parallel()

		d := newDiagram(t, nil)
		parent := sizedNode("parent", 100, 100, 200, 200)
		child := sizedNode("child", 120, 150, 50, 50)
		other := sizedNode("other", 400, 100, 50, 50)
		d.Nodes.Add(parent, child, other)
		parent.AddChild(child)
		g := d.Groups.Group(parent, other)
		require.NotNil(t, g)
		cc := countMoves(child)

		drag(d, g, geo.NewPoint(0, 0), geo.NewPoint(300, 0))
		assert.Equal(t, geo.NewPoint(370, 70), g.Position())
		assert.Equal(t, geo.NewPoint(400, 100), parent.Position())
		assert.Equal(t, geo.NewPoint(420, 150), child.Position())
		assert.Equal(t, geo.NewPoint(700, 100), other.Position())
		cb := child.Box()
		assert.True(t, parent.Box().Contains(cb.TopLeft))
		assert.True(t, parent.Box().Contains(geo.NewPoint(cb.Right(), cb.Bottom())))
		assert.Equal(t, 0, cc.positions)
	})

	t.Run("pan", func(t *testing.T) {
		t.Parallel()

		opts := d2diagram.DefaultOptions()
		opts.Behaviors.Wheel = d2diagram.WheelScroll
		d := newDiagram(t, opts)
		n := sizedNode("n", 0, 0, 100, 100)
		d.Nodes.Add(n)
		c := countMoves(n)

		d.TriggerPointerDown(n, at(0, 0))
		d.TriggerWheel(d2diagram.WheelEvent{DeltaX: 100, DeltaY: 100})
		assert.Equal(t, geo.NewPoint(100, 100), n.Position())
		d.TriggerPointerUp(n, at(0, 0))
		assert.Equal(t, 1, c.moved)
	})

	t.Run("pan_grid", func(t *testing.T) {
		t.Parallel()

		opts := d2diagram.DefaultOptions()
		opts.Behaviors.Wheel = d2diagram.WheelScroll
		opts.GridSize = 50
		d := newDiagram(t, opts)
		n := sizedNode("n", 0, 0, 100, 60)
		d.Nodes.Add(n)

		d.TriggerPointerDown(n, at(0, 0))
		d.TriggerWheel(d2diagram.WheelEvent{DeltaX: 30, DeltaY: 20})
		assert.Equal(t, geo.NewPoint(50, 0), n.Position())

		d.Options.GridSnapToCenter = true
		d.TriggerWheel(d2diagram.WheelEvent{DeltaX: 30, DeltaY: 20})
		assert.Equal(t, geo.NewPoint(50-50, 50-30), n.Position())
		d.TriggerPointerUp(n, at(0, 0))
	})

	t.Run("unregistered", func(t *testing.T) {
		t.Parallel()

		d := newDiagram(t, nil)
		n := sizedNode("n", 0, 0, 100, 100)
		d.Nodes.Add(n)
		c := countMoves(n)

		d.TriggerPointerDown(n, at(0, 0))
		assert.True(t, d2diagram.UnregisterBehavior[*d2behaviors.DragMovablesBehavior](d))
		d.TriggerPointerMove(nil, at(50, 50))
		d.TriggerPointerUp(nil, at(50, 50))
		assert.Equal(t, geo.NewPoint(0, 0), n.Position())
		assert.Equal(t, moveCounts{}, *c)
	})
}
