package d2diagram

import (
	"oss.terrastruct.com/d2canvas/lib/event"
	"oss.terrastruct.com/d2canvas/lib/geo"
	"oss.terrastruct.com/d2canvas/lib/go2"
)

const (
	// ChildMinOffsetTop is the inset from the top of a parent a child may not enter.
	ChildMinOffsetTop = 40.
	// ChildMinOffsetBottom is the inset from the bottom of a parent a child may not enter.
	ChildMinOffsetBottom = 5.
)

// Node is a box on the canvas. A node with a non-nil Group is a group of other nodes.
type Node struct {
	selectable

	id     string
	d      *Diagram
	locked bool

	Title string
	// Shape is a lib/shape type used by ShapeAnchor. Empty means rectangle.
	Shape string

	position geo.Point
	// nil until measured
	size              *geo.Dimensions
	MinimumDimensions geo.Dimensions

	parentID string
	children []*Node
	groupID  string

	ports    []*Port
	resizers []*Resizer

	Group *Group

	Changed          event.Event[*Node]
	PositionChanged  event.Event[*Node]
	SizeChanged      event.Event[*Node]
	Moving           event.Event[*Node]
	Moved            event.Event[*Node]
	OrderChanged     event.Event[*Node]
	SelectionChanged event.Event[*Node]
}

func NewNode(x, y float64) *Node {
	return NewNodeWithID(newID(), x, y)
}

func NewNodeWithID(id string, x, y float64) *Node {
	return &Node{
		id:       id,
		position: geo.Point{X: x, Y: y},
	}
}

func (n *Node) ID() string {
	return n.id
}

func (n *Node) Locked() bool {
	return n.locked
}

func (n *Node) SetLocked(v bool) {
	n.locked = v
	n.Refresh()
}

func (n *Node) Refresh() {
	n.Changed.Emit(n)
}

// Diagram returns the diagram n was added to, or nil.
func (n *Node) Diagram() *Diagram {
	return n.d
}

func (n *Node) IsGroup() bool {
	return n.Group != nil
}

func (n *Node) Position() *geo.Point {
	return n.position.Copy()
}

// Size returns nil until the node has been measured.
func (n *Node) Size() *geo.Dimensions {
	return n.size.Copy()
}

// Box returns the bounds of n, or nil when its size is unknown.
func (n *Node) Box() *geo.Box {
	if n.size == nil {
		return nil
	}
	return geo.NewBox(n.position.Copy(), n.size.Width, n.size.Height)
}

func (n *Node) SetOrder(order int) {
	if n.order == order {
		return
	}
	n.order = order
	n.OrderChanged.Emit(n)
	if n.d != nil {
		n.d.onOrderChanged()
	}
}

// ClampToParent limits (x, y) so that n stays inside its parent. Both n and its parent
// must be measured for the limit to apply.
func (n *Node) ClampToParent(x, y float64) (float64, float64) {
	parent := n.Parent()
	if parent == nil || parent.size == nil || n.size == nil {
		return x, y
	}
	minX := parent.position.X
	maxX := parent.position.X + parent.size.Width - n.size.Width
	minY := parent.position.Y + ChildMinOffsetTop
	maxY := parent.position.Y + parent.size.Height - ChildMinOffsetBottom - n.size.Height
	return go2.Clamp(x, minX, maxX), go2.Clamp(y, minY, maxY)
}

// SetPosition moves n, its ports and, for groups, its members. Children of a parent are
// kept inside it.
func (n *Node) SetPosition(x, y float64) {
	x, y = n.ClampToParent(x, y)
	dx := x - n.position.X
	dy := y - n.position.Y
	n.position = geo.Point{X: x, Y: y}
	n.translatePorts(dx, dy)
	if n.Group != nil && (dx != 0 || dy != 0) {
		n.Group.translateMembers(dx, dy, map[*Node]struct{}{n: {}})
	}
	n.Refresh()
	n.RefreshLinks()
	n.PositionChanged.Emit(n)
}

// translate moves n with its children and, for groups, its members without emitting
// PositionChanged. Nodes in seen are skipped so a node reached twice moves once.
func (n *Node) translate(dx, dy float64, seen map[*Node]struct{}) {
	if _, ok := seen[n]; ok {
		return
	}
	seen[n] = struct{}{}

	n.position = geo.Point{X: n.position.X + dx, Y: n.position.Y + dy}
	n.translatePorts(dx, dy)
	for _, c := range n.children {
		c.translate(dx, dy, seen)
	}
	if n.Group != nil {
		n.Group.translateMembers(dx, dy, seen)
	}
	n.Refresh()
	n.RefreshLinks()
}

func (n *Node) translatePorts(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	for _, p := range n.ports {
		p.position = geo.Point{X: p.position.X + dx, Y: p.position.Y + dy}
		p.Refresh()
	}
}

// SetSize records a measured size. Ports keep their place relative to their aligned edge.
func (n *Node) SetSize(width, height float64) {
	newSize := geo.NewDimensions(width, height)
	if n.size.Equals(newSize) {
		return
	}
	old := n.size
	n.size = newSize
	if old != nil {
		dw := width - old.Width
		dh := height - old.Height
		for _, p := range n.ports {
			p.SetPositionOnNodeSizeChanged(dw, dh)
		}
	}
	n.SizeChanged.Emit(n)
	n.Refresh()
	n.RefreshLinks()
}

func (n *Node) TriggerMoving() {
	n.Moving.Emit(n)
}

func (n *Node) TriggerMoved() {
	n.Moved.Emit(n)
}

func (n *Node) Ports() []*Port {
	return append([]*Port(nil), n.ports...)
}

func (n *Node) AddPort(alignment geo.Orientation) *Port {
	return n.AddPortWithID(newID(), alignment)
}

func (n *Node) AddPortWithID(id string, alignment geo.Orientation) *Port {
	p := newPort(id, n, alignment)
	n.ports = append(n.ports, p)
	if n.d != nil {
		n.d.portsByID[p.id] = p
	}
	return p
}

// GetPort returns the first port with alignment, or nil.
func (n *Node) GetPort(alignment geo.Orientation) *Port {
	for _, p := range n.ports {
		if p.Alignment == alignment {
			return p
		}
	}
	return nil
}

// RemovePort removes p from n along with the links attached to it.
func (n *Node) RemovePort(p *Port) bool {
	var ok bool
	n.ports, ok = go2.Remove(n.ports, p)
	if !ok {
		return false
	}
	if n.d != nil {
		n.d.Links.Remove(p.Links()...)
		delete(n.d.portsByID, p.id)
	}
	p.d = nil
	return true
}

func (n *Node) Resizers() []*Resizer {
	return append([]*Resizer(nil), n.resizers...)
}

func (n *Node) AddResizer(alignment geo.Orientation) *Resizer {
	r := &Resizer{
		id:        newID(),
		nodeID:    n.id,
		d:         n.d,
		Alignment: alignment,
	}
	n.resizers = append(n.resizers, r)
	return r
}

// Parent returns the node n is nested in, or nil.
func (n *Node) Parent() *Node {
	if n.parentID == "" || n.d == nil {
		return nil
	}
	return n.d.lookupNode(n.parentID)
}

// Ancestors returns the parent chain of n followed by the group chain, nearest first.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	seen := map[*Node]struct{}{n: {}}
	var walk func(*Node)
	walk = func(m *Node) {
		for _, next := range []*Node{m.Parent(), m.ParentGroup()} {
			if next == nil {
				continue
			}
			if _, ok := seen[next]; ok {
				continue
			}
			seen[next] = struct{}{}
			out = append(out, next)
			walk(next)
		}
	}
	walk(n)
	return out
}

func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Descendants returns all children of n recursively, depth first.
func (n *Node) Descendants() []*Node {
	var out []*Node
	for _, c := range n.children {
		out = append(out, c)
		out = append(out, c.Descendants()...)
	}
	return out
}

// AddChild makes n the parent of child and moves child inside n when both are measured.
func (n *Node) AddChild(child *Node) {
	if child == n || go2.Contains(n.children, child) {
		return
	}
	if old := child.Parent(); old != nil {
		old.RemoveChild(child)
	}
	child.parentID = n.id
	n.children = append(n.children, child)
	n.Refresh()

	x, y := child.ClampToParent(child.position.X, child.position.Y)
	if x != child.position.X || y != child.position.Y {
		child.SetPosition(x, y)
	}
}

func (n *Node) RemoveChild(child *Node) bool {
	var ok bool
	n.children, ok = go2.Remove(n.children, child)
	if !ok {
		return false
	}
	child.parentID = ""
	n.Refresh()
	return true
}

func (n *Node) ClearChildren() {
	for _, c := range n.children {
		c.parentID = ""
	}
	n.children = nil
	n.Refresh()
}

// ParentGroup returns the group n is a member of, or nil.
func (n *Node) ParentGroup() *Node {
	if n.groupID == "" || n.d == nil {
		return nil
	}
	return n.d.lookupNode(n.groupID)
}

// Links returns the links attached to n or to one of its ports.
func (n *Node) Links() []*Link {
	if n.d == nil {
		return nil
	}
	var out []*Link
	for _, l := range n.d.Links.All() {
		if l.attachedTo(n) {
			out = append(out, l)
		}
	}
	return out
}

func (n *Node) RefreshLinks() {
	for _, l := range n.Links() {
		l.Refresh()
	}
}

func (n *Node) attach(d *Diagram) {
	n.d = d
	for _, p := range n.ports {
		p.d = d
		d.portsByID[p.id] = p
	}
	for _, r := range n.resizers {
		r.d = d
	}
}

func (n *Node) detach() {
	for _, p := range n.ports {
		delete(n.d.portsByID, p.id)
		p.d = nil
	}
	for _, r := range n.resizers {
		r.d = nil
	}
	n.d = nil
}
