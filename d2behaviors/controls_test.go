package d2behaviors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/geo"
)

type control struct {
	mock.Mock
}

func (c *control) Position(m d2diagram.Model) *geo.Point {
	return geo.NewPoint(0, 0)
}

func (c *control) Execute(d *d2diagram.Diagram, m d2diagram.Model, e d2diagram.PointerEvent) {
	c.Called(m.ID(), e.ClientX, e.ClientY)
}

func TestControlsBehavior(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	n := sizedNode("n", 0, 0, 10, 10)
	d.Nodes.Add(n)
	ctrl := &control{}
	container := d.Controls.AddFor(n).Add(ctrl)
	assert.False(t, container.Visible)

	ctrl.On("Execute", "n", 3., 4.).Once()
	d.TriggerPointerDown(d2diagram.ControlTarget{Control: ctrl, Model: n}, at(3, 4))
	ctrl.AssertExpectations(t)
	assert.False(t, n.Selected())

	d.SelectModel(n, true)
	assert.True(t, container.Visible)
	d.UnselectAll()
	assert.False(t, container.Visible)
}
