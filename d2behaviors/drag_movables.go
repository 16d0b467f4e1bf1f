package d2behaviors

import (
	"cdr.dev/slog"

	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/event"
	"oss.terrastruct.com/d2canvas/lib/geo"
	"oss.terrastruct.com/d2canvas/lib/gesture"
	"oss.terrastruct.com/d2canvas/lib/log"
)

// DragMovablesBehavior moves the selected nodes while the pointer is dragged from one of
// them. Children follow their parent rigidly. Panning during the drag keeps the nodes
// under the pointer.
type DragMovablesBehavior struct {
	d     *d2diagram.Diagram
	scope event.Scope
	state gesture.State[dragMovables]
}

type moveSnapshot struct {
	node    *d2diagram.Node
	initial geo.Point
}

type dragMovables struct {
	roots       []moveSnapshot
	descendants []moveSnapshot
	// set once roots are pruned and descendants captured
	prepared bool

	lastX, lastY   float64
	totalX, totalY float64
	moved          bool
}

func NewDragMovablesBehavior(d *d2diagram.Diagram) *DragMovablesBehavior {
	b := &DragMovablesBehavior{d: d}
	b.scope.Add(
		d.PointerDown.Subscribe(b.onPointerDown),
		d.PointerMove.Subscribe(b.onPointerMove),
		d.PointerUp.Subscribe(b.onPointerUp),
		d.PanChanged.Subscribe(b.onPanChanged),
	)
	return b
}

func (b *DragMovablesBehavior) onPointerDown(in d2diagram.PointerInput) {
	b.state.End()
	n, ok := in.Target.(*d2diagram.Node)
	if !ok || n.Locked() {
		return
	}

	var roots []moveSnapshot
	for _, s := range b.d.SelectedModels() {
		sn, ok := s.(*d2diagram.Node)
		if !ok || sn.Locked() {
			continue
		}
		roots = append(roots, moveSnapshot{node: sn, initial: *sn.Position()})
	}
	if len(roots) == 0 {
		return
	}
	b.state.Start(dragMovables{
		roots: roots,
		lastX: in.ClientX,
		lastY: in.ClientY,
	})
	log.Debug(b.d.Context(), "drag started", slog.F("nodes", len(roots)))
}

// prepare drops roots nested in another root and captures the descendants of the rest.
func (b *DragMovablesBehavior) prepare(s *dragMovables) {
	if s.prepared {
		return
	}
	s.prepared = true

	isRoot := make(map[*d2diagram.Node]bool, len(s.roots))
	for _, r := range s.roots {
		isRoot[r.node] = true
	}
	var roots []moveSnapshot
	for _, r := range s.roots {
		nested := false
		for _, a := range r.node.Ancestors() {
			if isRoot[a] {
				nested = true
				break
			}
		}
		if !nested {
			roots = append(roots, r)
		}
	}
	s.roots = roots

	for _, r := range s.roots {
		for _, desc := range r.node.Descendants() {
			b.d.SelectModel(desc, false)
			s.descendants = append(s.descendants, moveSnapshot{node: desc, initial: *desc.Position()})
		}
	}
}

func (b *DragMovablesBehavior) onPointerMove(in d2diagram.PointerInput) {
	s, ok := b.state.Active()
	if !ok {
		return
	}
	b.prepare(s)

	zoom := b.d.Zoom()
	s.totalX += (in.ClientX - s.lastX) / zoom
	s.totalY += (in.ClientY - s.lastY) / zoom
	s.lastX = in.ClientX
	s.lastY = in.ClientY
	s.moved = true

	b.d.Batch(func() {
		for _, r := range s.roots {
			b.moveRoot(s, r, r.initial.X+s.totalX, r.initial.Y+s.totalY)
		}
	})
}

func (b *DragMovablesBehavior) onPanChanged(pc d2diagram.PanChange) {
	s, ok := b.state.Active()
	if !ok {
		return
	}
	b.prepare(s)

	zoom := b.d.Zoom()
	s.totalX -= pc.DX / zoom
	s.totalY -= pc.DY / zoom
	s.moved = true

	grid := b.d.Options.GridSize
	b.d.Batch(func() {
		for _, r := range s.roots {
			x := r.initial.X + s.totalX
			y := r.initial.Y + s.totalY
			if grid > 0 {
				x = geo.SnapToGrid(x, grid)
				y = geo.SnapToGrid(y, grid)
				if size := r.node.Size(); b.d.Options.GridSnapToCenter && size != nil {
					x -= size.Width / 2
					y -= size.Height / 2
				}
			}
			b.moveRoot(s, r, x, y)
		}
	})
}

// moveRoot moves r and shifts every descendant by the distance r actually moved.
func (b *DragMovablesBehavior) moveRoot(s *dragMovables, r moveSnapshot, x, y float64) {
	r.node.SetPosition(x, y)
	pos := r.node.Position()
	dx := pos.X - r.initial.X
	dy := pos.Y - r.initial.Y
	for _, desc := range s.descendants {
		if !isDescendant(desc.node, r.node) {
			continue
		}
		desc.node.SetPosition(desc.initial.X+dx, desc.initial.Y+dy)
	}
	r.node.TriggerMoving()
}

func isDescendant(n, root *d2diagram.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p == root {
			return true
		}
	}
	return false
}

func (b *DragMovablesBehavior) onPointerUp(d2diagram.PointerInput) {
	s, ok := b.state.Active()
	if !ok {
		return
	}
	defer b.state.End()
	if !s.moved {
		return
	}
	for _, r := range s.roots {
		r.node.TriggerMoved()
	}
	for _, desc := range s.descendants {
		desc.node.TriggerMoved()
	}
	log.Debug(b.d.Context(), "drag ended", slog.F("dx", s.totalX), slog.F("dy", s.totalY))
}

func (b *DragMovablesBehavior) Dispose() {
	b.scope.Close()
	b.state.End()
}
