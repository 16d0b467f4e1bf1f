package d2diagram_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/geo"
)

func TestNodeSetPositionClampsToParent(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	parent := sizedNode("parent", 0, 0, 200, 200)
	child := sizedNode("child", 50, 50, 50, 50)
	d.Nodes.Add(parent, child)
	parent.AddChild(child)

	testCases := []struct {
		name string
		in   *geo.Point
		exp  *geo.Point
	}{
		{name: "inside", in: geo.NewPoint(60, 70), exp: geo.NewPoint(60, 70)},
		{name: "top_inset", in: geo.NewPoint(10, 10), exp: geo.NewPoint(10, 40)},
		{name: "bottom_inset", in: geo.NewPoint(-10, 500), exp: geo.NewPoint(0, 145)},
		{name: "right", in: geo.NewPoint(180, 100), exp: geo.NewPoint(150, 100)},
	}
	for _, tc := range testCases {
		child.SetPosition(tc.in.X, tc.in.Y)
		assert.Equal(t, tc.exp, child.Position(), tc.name)
	}

	parent.RemoveChild(child)
	child.SetPosition(-10, 500)
	assert.Equal(t, geo.NewPoint(-10, 500), child.Position())
}

func TestAddChildClampsIntoParent(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	parent := sizedNode("parent", 0, 0, 200, 200)
	outside := sizedNode("outside", 300, 10, 50, 50)
	inside := sizedNode("inside", 20, 60, 50, 50)
	unmeasured := d2diagram.NewNodeWithID("unmeasured", 500, 500)
	d.Nodes.Add(parent, outside, inside, unmeasured)

	var moves int
	inside.PositionChanged.Subscribe(func(*d2diagram.Node) { moves++ })

	parent.AddChild(outside)
	parent.AddChild(inside)
	parent.AddChild(unmeasured)
	assert.Equal(t, geo.NewPoint(150, 40), outside.Position())
	assert.Equal(t, geo.NewPoint(20, 60), inside.Position())
	assert.Equal(t, 0, moves)
	assert.Equal(t, geo.NewPoint(500, 500), unmeasured.Position())
}

func TestNodeMovesPorts(t *testing.T) {
	t.Parallel()

	n := sizedNode("n", 100, 100, 100, 100)
	p := n.AddPort(geo.Top)
	p.Measure(50, 50, 10, 10)

	var moved int
	n.PositionChanged.Subscribe(func(*d2diagram.Node) { moved++ })
	n.SetPosition(200, 300)
	assert.Equal(t, geo.NewPoint(150, 250), p.Position())
	assert.Equal(t, 1, moved)
}

func TestNodeResizeRealignsPorts(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		alignment geo.Orientation
		exp       *geo.Point
	}{
		{geo.Top, geo.NewPoint(150, 0)},
		{geo.TopRight, geo.NewPoint(200, 0)},
		{geo.Right, geo.NewPoint(200, 20)},
		{geo.BottomRight, geo.NewPoint(200, 40)},
		{geo.Bottom, geo.NewPoint(150, 40)},
		{geo.BottomLeft, geo.NewPoint(100, 40)},
		{geo.Left, geo.NewPoint(100, 20)},
		{geo.TopLeft, geo.NewPoint(100, 0)},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.alignment.ToString(), func(t *testing.T) {
			t.Parallel()

			n := sizedNode("n", 0, 0, 100, 100)
			p := n.AddPort(tc.alignment)
			p.Measure(100, 0, 10, 10)
			n.SetSize(200, 140)
			assert.Equal(t, tc.exp, p.Position())
		})
	}
}

func TestNodeHierarchy(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	root := sizedNode("root", 0, 0, 500, 500)
	mid := sizedNode("mid", 10, 50, 300, 300)
	leaf := sizedNode("leaf", 20, 100, 50, 50)
	other := sizedNode("other", 400, 400, 50, 50)
	d.Nodes.Add(root, mid, leaf, other)
	root.AddChild(mid)
	mid.AddChild(leaf)
	g := d.Groups.Group(root, other)
	require.NotNil(t, g)

	assert.Equal(t, []*d2diagram.Node{mid, root, g}, leaf.Ancestors())
	assert.Equal(t, []*d2diagram.Node{mid, leaf}, root.Descendants())
	assert.Same(t, mid, leaf.Parent())
	assert.Same(t, g, root.ParentGroup())

	other.AddChild(leaf)
	assert.Same(t, other, leaf.Parent())
	assert.Empty(t, mid.Children())

	other.ClearChildren()
	assert.Nil(t, leaf.Parent())
}

func TestRemovePort(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	a := sizedNode("a", 0, 0, 10, 10)
	b := sizedNode("b", 100, 0, 10, 10)
	d.Nodes.Add(a, b)
	pa := a.AddPortWithID("pa", geo.Right)
	pb := b.AddPortWithID("pb", geo.Left)
	d.Links.Add(d2diagram.NewLink(d2diagram.NewSinglePortAnchor(pa), d2diagram.NewSinglePortAnchor(pb)))

	assert.Same(t, pa, a.GetPort(geo.Right))
	assert.Same(t, a, pa.Node())
	assert.True(t, a.RemovePort(pa))
	assert.False(t, a.RemovePort(pa))
	assert.Nil(t, d.GetPort("pa"))
	assert.Equal(t, 0, d.Links.Len())
	assert.Empty(t, pb.Links())
}

func TestLockedPort(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	n := sizedNode("n", 0, 0, 10, 10)
	d.Nodes.Add(n)
	p := n.AddPort(geo.Top)
	r := n.AddResizer(geo.BottomRight)
	assert.False(t, p.Locked())
	n.SetLocked(true)
	assert.True(t, p.Locked())
	assert.True(t, r.Locked())
	assert.Same(t, n, r.Node())
}
