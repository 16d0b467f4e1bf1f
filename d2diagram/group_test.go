package d2diagram_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/geo"
)

func TestGroupAutoSize(t *testing.T) {
	t.Parallel()

	a := sizedNode("a", 100, 100, 50, 50)
	b := sizedNode("b", 200, 150, 50, 50)
	g := d2diagram.NewGroup([]*d2diagram.Node{a, b}, 10, true)

	assert.Equal(t, geo.NewPoint(90, 90), g.Position())
	assert.Equal(t, geo.NewDimensions(170, 120), g.Size())
	assert.Equal(t, geo.Dimensions{Width: 170, Height: 120}, g.MinimumDimensions)

	var moving, resized int
	g.Moving.Subscribe(func(*d2diagram.Node) { moving++ })
	g.SizeChanged.Subscribe(func(*d2diagram.Node) { resized++ })

	b.SetPosition(300, 150)
	assert.Equal(t, geo.NewPoint(90, 90), g.Position())
	assert.Equal(t, geo.NewDimensions(270, 120), g.Size())
	assert.Equal(t, 0, moving)
	assert.Equal(t, 1, resized)

	a.SetPosition(50, 100)
	assert.Equal(t, geo.NewPoint(40, 90), g.Position())
	assert.Equal(t, geo.NewDimensions(320, 120), g.Size())
	assert.Equal(t, 1, moving)
	assert.Equal(t, 2, resized)

	a.SetSize(50, 200)
	assert.Equal(t, geo.NewDimensions(320, 220), g.Size())

	g.Group.AutoSize = false
	b.SetPosition(1000, 1000)
	assert.Equal(t, geo.NewDimensions(320, 220), g.Size())
}

func TestGroupMovesMembers(t *testing.T) {
	t.Parallel()

	a := sizedNode("a", 100, 100, 50, 50)
	b := sizedNode("b", 200, 150, 50, 50)
	p := b.AddPort(geo.Top)
	p.Measure(220, 145, 10, 10)
	g := d2diagram.NewGroup([]*d2diagram.Node{a, b}, 10, true)

	g.SetPosition(190, 290)
	assert.Equal(t, geo.NewPoint(200, 300), a.Position())
	assert.Equal(t, geo.NewPoint(300, 350), b.Position())
	assert.Equal(t, geo.NewPoint(320, 345), p.Position())
	assert.Equal(t, geo.NewDimensions(170, 120), g.Size())
}

func TestGroupMovesMemberChildren(t *testing.T) {
	t.Parallel()

	parent := sizedNode("parent", 100, 100, 200, 200)
	child := sizedNode("child", 120, 150, 50, 50)
	leaf := sizedNode("leaf", 130, 200, 20, 20)
	other := sizedNode("other", 400, 100, 50, 50)
	parent.AddChild(child)
	child.AddChild(leaf)
	// child is reachable both as a member and as a child of parent.
	g := d2diagram.NewGroup([]*d2diagram.Node{parent, other, child}, 30, true)
	assert.Equal(t, geo.NewPoint(70, 70), g.Position())

	g.SetPosition(370, 70)
	assert.Equal(t, geo.NewPoint(400, 100), parent.Position())
	assert.Equal(t, geo.NewPoint(420, 150), child.Position())
	assert.Equal(t, geo.NewPoint(430, 200), leaf.Position())
	assert.Equal(t, geo.NewPoint(700, 100), other.Position())
	assert.Equal(t, geo.NewDimensions(410, 260), g.Size())
}

func TestResizableGroupOnlyGrows(t *testing.T) {
	t.Parallel()

	a := sizedNode("a", 100, 100, 50, 50)
	b := sizedNode("b", 200, 150, 50, 50)
	g := d2diagram.NewGroup([]*d2diagram.Node{a, b}, 10, true)
	g.AddResizer(geo.BottomRight)
	g.SetSize(400, 300)

	b.SetPosition(210, 150)
	assert.Equal(t, geo.NewPoint(90, 90), g.Position())
	assert.Equal(t, geo.NewDimensions(400, 300), g.Size())

	b.SetPosition(600, 150)
	assert.Equal(t, geo.NewPoint(90, 90), g.Position())
	assert.Equal(t, geo.NewDimensions(570, 300), g.Size())

	a.SetPosition(50, 100)
	assert.Equal(t, geo.NewPoint(40, 90), g.Position())
	assert.Equal(t, geo.NewDimensions(620, 300), g.Size())
}

func TestUngroup(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	a := sizedNode("a", 100, 100, 50, 50)
	b := sizedNode("b", 200, 150, 50, 50)
	c := sizedNode("c", 400, 400, 50, 50)
	d.Nodes.Add(a, b, c)
	g := d.Groups.Group(a, b)

	g.Group.AddMember(c)
	assert.True(t, g.Group.HasMember(c))
	assert.Equal(t, geo.NewDimensions(410, 410), g.Size())

	d.Groups.Remove(g)
	assert.Equal(t, 0, d.Groups.Len())
	assert.Equal(t, 3, d.Nodes.Len())
	assert.Nil(t, a.ParentGroup())
	assert.Empty(t, g.Group.Members())

	size := g.Size()
	b.SetPosition(1000, 1000)
	assert.Equal(t, size, g.Size())
}

func TestDeleteGroup(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	a := sizedNode("a", 100, 100, 50, 50)
	b := sizedNode("b", 200, 150, 50, 50)
	c := sizedNode("c", 400, 400, 50, 50)
	d.Nodes.Add(a, b, c)
	inner := d.Groups.Group(a)
	outer := d.Groups.Group(inner, b)
	assert.Same(t, outer, inner.ParentGroup())

	cnt := count(d)
	d.Groups.Delete(outer)
	assert.Equal(t, 1, cnt.changed)
	assert.Equal(t, 0, d.Groups.Len())
	assert.Equal(t, []*d2diagram.Node{c}, d.Nodes.All())
}
