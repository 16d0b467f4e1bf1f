package d2diagram

import (
	"math"

	"oss.terrastruct.com/d2canvas/lib/event"
	"oss.terrastruct.com/d2canvas/lib/geo"
	"oss.terrastruct.com/d2canvas/lib/go2"
)

// Group is the component that turns a Node into a group. Members stay owned by their
// own layer; the group only references them.
type Group struct {
	owner   *Node
	members []*Node
	subs    map[*Node]*event.Scope

	Padding  float64
	AutoSize bool
}

// NewGroup returns a group node around members.
func NewGroup(members []*Node, padding float64, autoSize bool) *Node {
	return NewGroupWithID(newID(), members, padding, autoSize)
}

func NewGroupWithID(id string, members []*Node, padding float64, autoSize bool) *Node {
	n := NewNodeWithID(id, 0, 0)
	n.Group = &Group{
		owner:    n,
		subs:     make(map[*Node]*event.Scope),
		Padding:  padding,
		AutoSize: autoSize,
	}
	for _, m := range members {
		n.Group.attach(m)
	}
	n.Group.UpdateDimensions()
	return n
}

func (g *Group) Members() []*Node {
	return append([]*Node(nil), g.members...)
}

func (g *Group) HasMember(n *Node) bool {
	return go2.Contains(g.members, n)
}

func (g *Group) AddMember(n *Node) {
	if n == g.owner || g.HasMember(n) {
		return
	}
	if old := n.ParentGroup(); old != nil && old != g.owner {
		old.Group.RemoveMember(n)
	}
	g.attach(n)
	if g.UpdateDimensions() {
		g.owner.Refresh()
		g.owner.RefreshLinks()
	}
}

func (g *Group) RemoveMember(n *Node) bool {
	if !g.detach(n) {
		return false
	}
	if g.UpdateDimensions() {
		g.owner.Refresh()
		g.owner.RefreshLinks()
	}
	return true
}

// Ungroup releases every member without deleting it.
func (g *Group) Ungroup() {
	for _, m := range g.Members() {
		g.detach(m)
	}
	g.owner.Refresh()
}

func (g *Group) attach(n *Node) {
	g.members = append(g.members, n)
	n.groupID = g.owner.id
	sc := &event.Scope{}
	sc.Add(
		n.PositionChanged.Subscribe(g.onMemberChanged),
		n.SizeChanged.Subscribe(g.onMemberChanged),
	)
	g.subs[n] = sc
}

func (g *Group) detach(n *Node) bool {
	var ok bool
	g.members, ok = go2.Remove(g.members, n)
	if !ok {
		return false
	}
	if n.groupID == g.owner.id {
		n.groupID = ""
	}
	if sc, ok := g.subs[n]; ok {
		sc.Close()
		delete(g.subs, n)
	}
	return true
}

func (g *Group) onMemberChanged(*Node) {
	if !g.AutoSize {
		return
	}
	g.UpdateDimensions()
}

func (g *Group) translateMembers(dx, dy float64, seen map[*Node]struct{}) {
	for _, m := range g.members {
		m.translate(dx, dy, seen)
	}
}

// UpdateDimensions fits the group around its members plus padding. A group carrying
// resizers only grows. It returns false while a member is not measured.
func (g *Group) UpdateDimensions() bool {
	n := g.owner
	if len(g.members) == 0 {
		return true
	}

	boxes := make([]*geo.Box, 0, len(g.members))
	for _, m := range g.members {
		b := m.Box()
		if b == nil {
			return false
		}
		boxes = append(boxes, b)
	}
	bounds := geo.BoundsOf(boxes...).Inflate(g.Padding, g.Padding)
	n.MinimumDimensions = geo.Dimensions{Width: bounds.Width, Height: bounds.Height}

	left, top := bounds.Left(), bounds.Top()
	right, bottom := bounds.Right(), bounds.Bottom()
	if len(n.resizers) > 0 && n.size != nil {
		left = math.Min(left, n.position.X)
		top = math.Min(top, n.position.Y)
		right = math.Max(right, n.position.X+n.size.Width)
		bottom = math.Max(bottom, n.position.Y+n.size.Height)
	}

	dx := left - n.position.X
	dy := top - n.position.Y
	moved := dx != 0 || dy != 0
	if moved {
		n.position = geo.Point{X: left, Y: top}
		n.translatePorts(dx, dy)
	}

	newSize := geo.NewDimensions(right-left, bottom-top)
	resized := !n.size.Equals(newSize)
	if resized {
		old := n.size
		n.size = newSize
		if old != nil {
			for _, p := range n.ports {
				p.SetPositionOnNodeSizeChanged(newSize.Width-old.Width, newSize.Height-old.Height)
			}
		}
	}

	if moved {
		n.PositionChanged.Emit(n)
		n.TriggerMoving()
	}
	if resized {
		n.SizeChanged.Emit(n)
	}
	if moved || resized {
		n.Refresh()
		n.RefreshLinks()
	}
	return true
}
