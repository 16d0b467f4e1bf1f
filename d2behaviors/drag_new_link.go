package d2behaviors

import (
	"math"

	"cdr.dev/slog"

	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/event"
	"oss.terrastruct.com/d2canvas/lib/geo"
	"oss.terrastruct.com/d2canvas/lib/gesture"
	"oss.terrastruct.com/d2canvas/lib/log"
)

// ongoingLinkInset keeps the floating end of a new link off the pointer so that the
// entity under the pointer is not the link itself.
const ongoingLinkInset = 5

// DragNewLinkBehavior creates a link by dragging from a port and attaches it to the port
// it is released on.
type DragNewLinkBehavior struct {
	d     *d2diagram.Diagram
	scope event.Scope
	state gesture.State[newLink]
}

type newLink struct {
	link     *d2diagram.Link
	source   *d2diagram.Port
	floating *d2diagram.PositionAnchor
	// port the target is snapped to
	snapped *d2diagram.Port

	clientX float64
	clientY float64
}

func NewDragNewLinkBehavior(d *d2diagram.Diagram) *DragNewLinkBehavior {
	b := &DragNewLinkBehavior{d: d}
	b.scope.Add(
		d.PointerDown.Subscribe(b.onPointerDown),
		d.PointerMove.Subscribe(b.onPointerMove),
		d.PointerUp.Subscribe(b.onPointerUp),
		d.PanChanged.Subscribe(b.onPanChanged),
	)
	return b
}

func (b *DragNewLinkBehavior) onPointerDown(in d2diagram.PointerInput) {
	b.state.End()
	if in.Button != d2diagram.ButtonLeft {
		return
	}
	port, ok := in.Target.(*d2diagram.Port)
	if !ok || !port.Enabled || port.Locked() {
		return
	}

	floating := d2diagram.NewPositionAnchor(b.d.RelativeMousePoint(in.ClientX, in.ClientY))
	link := b.d.Options.Links.Factory(b.d, port, floating)
	if link == nil {
		return
	}
	link.SetTarget(floating)
	b.d.Links.Add(link)
	b.state.Start(newLink{
		link:     link,
		source:   port,
		floating: floating,
		clientX:  in.ClientX,
		clientY:  in.ClientY,
	})
	log.Debug(b.d.Context(), "link started", slog.F("port", port.ID()))
}

func (b *DragNewLinkBehavior) onPointerMove(in d2diagram.PointerInput) {
	s, ok := b.state.Active()
	if !ok {
		return
	}
	s.clientX = in.ClientX
	s.clientY = in.ClientY
	b.update(s)
}

func (b *DragNewLinkBehavior) onPanChanged(d2diagram.PanChange) {
	s, ok := b.state.Active()
	if !ok {
		return
	}
	b.update(s)
}

func (b *DragNewLinkBehavior) update(s *newLink) {
	target := b.d.RelativeMousePoint(s.clientX, s.clientY)
	if source := s.link.Source().PlainPosition(); source != nil {
		target = target.MoveTowards(source, ongoingLinkInset)
	}
	s.floating.SetPosition(target)

	if b.d.Options.Links.EnableSnapping {
		near := b.nearestPort(s, target)
		if near != s.snapped {
			old := s.snapped
			s.snapped = near
			if near != nil {
				s.link.SetTarget(d2diagram.NewSinglePortAnchor(near))
				near.Refresh()
			} else {
				s.link.SetTarget(s.floating)
			}
			if old != nil {
				old.Refresh()
			}
		}
	}
	s.link.Refresh()
}

// nearestPort returns the enabled port closest to p within the snapping radius.
func (b *DragNewLinkBehavior) nearestPort(s *newLink, p *geo.Point) *d2diagram.Port {
	radius := b.d.Options.Links.SnappingRadius
	var nearest *d2diagram.Port
	nearestD := math.Inf(1)
	for _, n := range append(b.d.Nodes.All(), b.d.Groups.All()...) {
		for _, port := range n.Ports() {
			if port == s.source || !port.Enabled || !port.Initialized() {
				continue
			}
			d := port.Middle().DistanceTo(p)
			if d <= radius && d < nearestD {
				nearest = port
				nearestD = d
			}
		}
	}
	return nearest
}

func (b *DragNewLinkBehavior) onPointerUp(in d2diagram.PointerInput) {
	s, ok := b.state.Active()
	if !ok {
		return
	}
	defer b.state.End()

	target := s.snapped
	if target == nil {
		if port, ok := in.Target.(*d2diagram.Port); ok && port != s.source && port.Enabled {
			target = port
		}
	}

	if target != nil {
		if s.snapped == nil {
			s.link.SetTarget(d2diagram.NewSinglePortAnchor(target))
			target.Refresh()
		}
		s.link.TriggerTargetAttached()
		s.link.Refresh()
		log.Debug(b.d.Context(), "link attached", slog.F("link", s.link.ID()), slog.F("port", target.ID()))
		return
	}

	if b.d.Options.Links.RequireTarget {
		b.d.Links.Remove(s.link)
		log.Debug(b.d.Context(), "link discarded", slog.F("link", s.link.ID()))
		return
	}
	s.link.Refresh()
}

func (b *DragNewLinkBehavior) Dispose() {
	b.scope.Close()
	b.state.End()
}
