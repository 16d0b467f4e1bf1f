package d2diagram

import (
	"oss.terrastruct.com/d2canvas/lib/event"
	"oss.terrastruct.com/d2canvas/lib/geo"
)

// LinkMarker is the decoration drawn at a link end.
type LinkMarker struct {
	Path  string  `json:"path"`
	Width float64 `json:"width"`
}

var (
	MarkerArrow  = &LinkMarker{Path: "M 0 -5 10 0 0 5 z", Width: 10}
	MarkerCircle = &LinkMarker{Path: "M 0, 0 a 5,5 0 1,0 10,0 a 5,5 0 1,0 -10,0", Width: 10}
	MarkerSquare = &LinkMarker{Path: "M 0 -5 10 -5 10 5 0 5 z", Width: 10}
)

// AnchorChange describes a link end being rebound.
type AnchorChange struct {
	Link *Link
	Old  Anchor
	New  Anchor
}

// Link connects two anchors. The target is a *PositionAnchor until it is attached.
type Link struct {
	selectable

	id     string
	d      *Diagram
	locked bool

	source Anchor
	target Anchor

	Vertices     geo.Route
	SourceMarker *LinkMarker
	TargetMarker *LinkMarker

	Changed          event.Event[*Link]
	SourceChanged    event.Event[AnchorChange]
	TargetChanged    event.Event[AnchorChange]
	TargetAttached   event.Event[*Link]
	OrderChanged     event.Event[*Link]
	SelectionChanged event.Event[*Link]
}

// NewLink returns a link from source to target. A nil target becomes a position anchor
// on the plain position of source.
func NewLink(source, target Anchor) *Link {
	return NewLinkWithID(newID(), source, target)
}

func NewLinkWithID(id string, source, target Anchor) *Link {
	if target == nil {
		p := source.PlainPosition()
		if p == nil {
			p = geo.NewPoint(0, 0)
		}
		target = NewPositionAnchor(p)
	}
	return &Link{
		id:     id,
		source: source,
		target: target,
	}
}

func (l *Link) ID() string {
	return l.id
}

func (l *Link) Locked() bool {
	return l.locked
}

func (l *Link) SetLocked(v bool) {
	l.locked = v
	l.Refresh()
}

func (l *Link) Refresh() {
	l.Changed.Emit(l)
}

func (l *Link) Diagram() *Diagram {
	return l.d
}

func (l *Link) SetOrder(order int) {
	if l.order == order {
		return
	}
	l.order = order
	l.OrderChanged.Emit(l)
	if l.d != nil {
		l.d.onOrderChanged()
	}
}

func (l *Link) Source() Anchor {
	return l.source
}

func (l *Link) Target() Anchor {
	return l.target
}

func (l *Link) SetSource(a Anchor) {
	if a == nil || l.source == a {
		return
	}
	old := l.source
	l.source = a
	l.SourceChanged.Emit(AnchorChange{Link: l, Old: old, New: a})
	l.Refresh()
}

func (l *Link) SetTarget(a Anchor) {
	if a == nil || l.target == a {
		return
	}
	old := l.target
	l.target = a
	l.TargetChanged.Emit(AnchorChange{Link: l, Old: old, New: a})
	l.Refresh()
}

func (l *Link) TriggerTargetAttached() {
	l.TargetAttached.Emit(l)
}

// IsAttached reports whether the target is bound to a model rather than a free position.
func (l *Link) IsAttached() bool {
	return l.target.Model() != nil
}

// Endpoints resolves both ends of l. Either may be nil while measurements are missing.
func (l *Link) Endpoints() (source, target *geo.Point) {
	return l.source.Resolve(l, l.Vertices), l.target.Resolve(l, l.Vertices)
}

func (l *Link) attachedTo(n *Node) bool {
	for _, a := range []Anchor{l.source, l.target} {
		switch m := a.Model().(type) {
		case *Node:
			if m == n {
				return true
			}
		case *Port:
			if m.nodeID == n.id {
				return true
			}
		}
	}
	return false
}
