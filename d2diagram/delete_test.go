package d2diagram_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"oss.terrastruct.com/d2canvas/d2diagram"
)

type constraints struct {
	mock.Mock
}

func (c *constraints) ShouldDeleteNode(ctx context.Context, n *d2diagram.Node) (bool, error) {
	args := c.Called(n.ID())
	return args.Bool(0), args.Error(1)
}

func (c *constraints) ShouldDeleteGroup(ctx context.Context, g *d2diagram.Node) (bool, error) {
	args := c.Called(g.ID())
	return args.Bool(0), args.Error(1)
}

func (c *constraints) ShouldDeleteLink(ctx context.Context, l *d2diagram.Link) (bool, error) {
	args := c.Called(l.ID())
	return args.Bool(0), args.Error(1)
}

func newConstrainedDiagram(t *testing.T) (*d2diagram.Diagram, *constraints) {
	c := &constraints{}
	opts := d2diagram.DefaultOptions()
	opts.Constraints = d2diagram.ConstraintOptions{
		ShouldDeleteNode:  c.ShouldDeleteNode,
		ShouldDeleteGroup: c.ShouldDeleteGroup,
		ShouldDeleteLink:  c.ShouldDeleteLink,
	}
	return newDiagram(t, opts), c
}

func TestDeleteSelection(t *testing.T) {
	t.Parallel()

	t.Run("veto", func(t *testing.T) {
		t.Parallel()

		d, c := newConstrainedDiagram(t)
		a := sizedNode("a", 0, 0, 10, 10)
		b := sizedNode("b", 100, 0, 10, 10)
		locked := sizedNode("locked", 200, 0, 10, 10)
		locked.SetLocked(true)
		d.Nodes.Add(a, b, locked)
		l := d2diagram.NewLinkWithID("l", d2diagram.NewShapeAnchor(a), d2diagram.NewShapeAnchor(b))
		d.Links.Add(l)
		for _, s := range []d2diagram.Selectable{a, b, locked, l} {
			d.SelectModel(s, false)
		}

		c.On("ShouldDeleteNode", "a").Return(false, nil).Once()
		c.On("ShouldDeleteNode", "b").Return(true, nil).Once()

		cnt := count(d)
		err := d.DeleteSelection(context.Background())
		assert.NoError(t, err)
		c.AssertExpectations(t)
		c.AssertNotCalled(t, "ShouldDeleteNode", "locked")
		c.AssertNotCalled(t, "ShouldDeleteLink", "l")

		assert.Equal(t, 1, cnt.changed)
		assert.Equal(t, []*d2diagram.Node{a, locked}, d.Nodes.All())
		assert.Equal(t, 0, d.Links.Len())
	})

	t.Run("all_vetoed", func(t *testing.T) {
		t.Parallel()

		d, c := newConstrainedDiagram(t)
		a := sizedNode("a", 0, 0, 10, 10)
		d.Nodes.Add(a)
		d.SelectModel(a, true)
		c.On("ShouldDeleteNode", "a").Return(false, nil)

		cnt := count(d)
		assert.NoError(t, d.DeleteSelection(context.Background()))
		assert.Equal(t, 1, cnt.changed)
		assert.Equal(t, 1, d.Nodes.Len())
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		d, _ := newConstrainedDiagram(t)
		cnt := count(d)
		assert.NoError(t, d.DeleteSelection(context.Background()))
		assert.Equal(t, 1, cnt.changed)
	})

	t.Run("constraint_error", func(t *testing.T) {
		t.Parallel()

		errBusy := errors.New("busy")
		d, c := newConstrainedDiagram(t)
		a := sizedNode("a", 0, 0, 10, 10)
		b := sizedNode("b", 100, 0, 10, 10)
		d.Nodes.Add(a, b)
		d.SelectModel(a, false)
		d.SelectModel(b, false)
		c.On("ShouldDeleteNode", "a").Return(false, errBusy)
		c.On("ShouldDeleteNode", "b").Return(true, nil)

		err := d.DeleteSelection(context.Background())
		assert.ErrorIs(t, err, errBusy)
		assert.Equal(t, []*d2diagram.Node{a}, d.Nodes.All())
	})

	t.Run("group", func(t *testing.T) {
		t.Parallel()

		d, c := newConstrainedDiagram(t)
		a := sizedNode("a", 0, 0, 10, 10)
		b := sizedNode("b", 100, 0, 10, 10)
		other := sizedNode("other", 300, 0, 10, 10)
		d.Nodes.Add(a, b, other)
		g := d.Groups.Group(a, b)
		d.SelectModel(g, true)
		c.On("ShouldDeleteGroup", g.ID()).Return(true, nil)

		assert.NoError(t, d.DeleteSelection(context.Background()))
		assert.Equal(t, 0, d.Groups.Len())
		assert.Equal(t, []*d2diagram.Node{other}, d.Nodes.All())
	})

	t.Run("no_constraints", func(t *testing.T) {
		t.Parallel()

		d := newDiagram(t, nil)
		a := sizedNode("a", 0, 0, 10, 10)
		d.Nodes.Add(a)
		d.SelectModel(a, true)
		assert.NoError(t, d.DeleteSelection(context.Background()))
		assert.Equal(t, 0, d.Nodes.Len())
	})
}
