package d2script

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cdr.dev/slog"
	"go.uber.org/multierr"

	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/d2canvas/d2behaviors"
	"oss.terrastruct.com/d2canvas/d2controls"
	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/geo"
	"oss.terrastruct.com/d2canvas/lib/log"
	"oss.terrastruct.com/d2canvas/lib/shape"
)

var shapes = []string{
	shape.SQUARE_TYPE,
	shape.DIAMOND_TYPE,
	shape.OVAL_TYPE,
	shape.CIRCLE_TYPE,
	shape.HEXAGON_TYPE,
}

var markers = map[string]*d2diagram.LinkMarker{
	"arrow":  d2diagram.MarkerArrow,
	"circle": d2diagram.MarkerCircle,
	"square": d2diagram.MarkerSquare,
}

// Run builds the diagram described by s, registers the default behaviors and replays
// the events of s in order.
func Run(ctx context.Context, s *Session) (_ *Result, err error) {
	defer xdefer.Errorf(&err, "failed to run session")

	d, err := Build(ctx, s)
	if err != nil {
		return nil, err
	}
	for i, ev := range s.Events {
		err = replay(ctx, d, ev)
		if err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, ev.Type, err)
		}
	}
	return NewResult(d), nil
}

// Build returns the diagram described by s with the default behaviors registered. The
// events of s are not replayed.
func Build(ctx context.Context, s *Session) (*d2diagram.Diagram, error) {
	opts := d2diagram.DefaultOptions()
	if !s.Options.IsZero() {
		err := s.Options.Decode(opts)
		if err != nil {
			return nil, fmt.Errorf("options: %w", err)
		}
	}
	d, err := d2diagram.New(ctx, opts)
	if err != nil {
		return nil, err
	}
	err = d2behaviors.RegisterDefaults(d)
	if err != nil {
		return nil, err
	}

	if s.Container != nil {
		d.SetContainer(s.Container.box())
	}
	if s.Zoom != 0 {
		err = d.SetZoom(s.Zoom)
		if err != nil {
			return nil, err
		}
	}
	if s.Pan != nil {
		d.SetPan(s.Pan.X, s.Pan.Y)
	}

	b := &builder{d: d}
	d.Batch(func() {
		b.nodes(s.Nodes)
		b.groups(s.Groups)
		b.links(s.Links)
		b.selection(s)
	})
	if b.err != nil {
		return nil, b.err
	}
	log.Debug(ctx, "built session diagram",
		slog.F("nodes", d.Nodes.Len()),
		slog.F("groups", d.Groups.Len()),
		slog.F("links", d.Links.Len()),
	)
	return d, nil
}

// builder collects every setup error instead of stopping at the first.
type builder struct {
	d   *d2diagram.Diagram
	err error
}

func (b *builder) errorf(format string, v ...interface{}) {
	b.err = multierr.Append(b.err, fmt.Errorf(format, v...))
}

func (b *builder) nodes(specs []NodeSpec) {
	for _, ns := range specs {
		if ns.ID == "" {
			b.errorf("node without id")
			continue
		}
		if _, ok := lookupNode(b.d, ns.ID); ok {
			b.errorf("duplicate node %q", ns.ID)
			continue
		}
		shapeType, err := parseShape(ns.Shape)
		if err != nil {
			b.errorf("node %q: %w", ns.ID, err)
			continue
		}

		n := d2diagram.NewNodeWithID(ns.ID, ns.X, ns.Y)
		n.Title = ns.Title
		n.Shape = shapeType
		n.MinimumDimensions = geo.Dimensions{Width: ns.MinWidth, Height: ns.MinHeight}
		if ns.Width > 0 && ns.Height > 0 {
			n.SetSize(ns.Width, ns.Height)
		}
		if ns.Order != 0 {
			n.SetOrder(ns.Order)
		}
		b.d.Nodes.Add(n)
		b.decorate(n, ns.Ports, ns.Resizers, ns.Controls)
	}

	for _, ns := range specs {
		if ns.Parent == "" {
			continue
		}
		n, _ := b.d.Nodes.Get(ns.ID)
		parent, ok := lookupNode(b.d, ns.Parent)
		if n == nil || !ok {
			b.errorf("node %q: unknown parent %q", ns.ID, ns.Parent)
			continue
		}
		parent.AddChild(n)
	}
	for _, ns := range specs {
		if n, ok := b.d.Nodes.Get(ns.ID); ok && ns.Locked {
			n.SetLocked(true)
		}
	}
}

func (b *builder) groups(specs []GroupSpec) {
	for _, gs := range specs {
		if gs.ID == "" {
			b.errorf("group without id")
			continue
		}
		if _, ok := lookupNode(b.d, gs.ID); ok {
			b.errorf("duplicate group %q", gs.ID)
			continue
		}
		var members []*d2diagram.Node
		for _, id := range gs.Members {
			m, ok := lookupNode(b.d, id)
			if !ok {
				b.errorf("group %q: unknown member %q", gs.ID, id)
				continue
			}
			members = append(members, m)
		}
		padding := b.d.Options.Groups.Padding
		if gs.Padding != nil {
			padding = *gs.Padding
		}
		autoSize := gs.AutoSize == nil || *gs.AutoSize

		g := d2diagram.NewGroupWithID(gs.ID, members, padding, autoSize)
		b.d.Groups.Add(g)
		b.decorate(g, gs.Ports, gs.Resizers, gs.Controls)
		if gs.Locked {
			g.SetLocked(true)
		}
	}
}

func (b *builder) decorate(n *d2diagram.Node, ports []PortSpec, resizers, controls []string) {
	for _, ps := range ports {
		if ps.ID == "" {
			b.errorf("node %q: port without id", n.ID())
			continue
		}
		if b.d.GetPort(ps.ID) != nil {
			b.errorf("node %q: duplicate port %q", n.ID(), ps.ID)
			continue
		}
		alignment, err := geo.ParseOrientation(ps.Alignment)
		if err != nil {
			b.errorf("port %q: %w", ps.ID, err)
			continue
		}
		shapeType, err := parseShape(ps.Shape)
		if err != nil {
			b.errorf("port %q: %w", ps.ID, err)
			continue
		}
		p := n.AddPortWithID(ps.ID, alignment)
		p.Enabled = !ps.Disabled
		p.ShapeType = shapeType
		if ps.Width > 0 && ps.Height > 0 {
			p.Measure(ps.X, ps.Y, ps.Width, ps.Height)
		} else {
			p.SetPosition(ps.X, ps.Y)
		}
	}

	for _, s := range resizers {
		alignment, err := geo.ParseOrientation(s)
		if err != nil || alignment == geo.NONE {
			b.errorf("node %q: invalid resizer alignment %q", n.ID(), s)
			continue
		}
		n.AddResizer(alignment)
	}

	for _, s := range controls {
		p, err := parseCorner(s)
		if err != nil {
			b.errorf("node %q: %w", n.ID(), err)
			continue
		}
		b.d.Controls.AddFor(n).Add(d2controls.NewResizeControl(p))
	}
}

func (b *builder) links(specs []LinkSpec) {
	for _, ls := range specs {
		if ls.ID == "" {
			b.errorf("link without id")
			continue
		}
		if _, ok := b.d.Links.Get(ls.ID); ok {
			b.errorf("duplicate link %q", ls.ID)
			continue
		}
		source, err := b.anchor(ls.Source)
		if err != nil {
			b.errorf("link %q: source: %w", ls.ID, err)
			continue
		}
		var target d2diagram.Anchor
		if ls.Target != nil {
			target, err = b.anchor(*ls.Target)
			if err != nil {
				b.errorf("link %q: target: %w", ls.ID, err)
				continue
			}
		}
		sm, ok := parseMarker(ls.SourceMarker)
		if !ok {
			b.errorf("link %q: unknown marker %q", ls.ID, ls.SourceMarker)
			continue
		}
		tm, ok := parseMarker(ls.TargetMarker)
		if !ok {
			b.errorf("link %q: unknown marker %q", ls.ID, ls.TargetMarker)
			continue
		}

		lk := d2diagram.NewLinkWithID(ls.ID, source, target)
		lk.SourceMarker = sm
		lk.TargetMarker = tm
		for _, v := range ls.Vertices {
			lk.Vertices = append(lk.Vertices, v.Copy())
		}
		b.d.Links.Add(lk)
		if ls.Locked {
			lk.SetLocked(true)
		}
	}
}

func (b *builder) anchor(es EndSpec) (d2diagram.Anchor, error) {
	set := 0
	for _, v := range []bool{es.Port != "", es.Node != "", es.Dynamic != "", es.Position != nil} {
		if v {
			set++
		}
	}
	if set != 1 {
		return nil, errors.New("exactly one of port, node, dynamic and position must be set")
	}

	switch {
	case es.Port != "":
		p := b.d.GetPort(es.Port)
		if p == nil {
			return nil, fmt.Errorf("unknown port %q", es.Port)
		}
		return d2diagram.NewSinglePortAnchor(p), nil
	case es.Node != "":
		n, ok := lookupNode(b.d, es.Node)
		if !ok {
			return nil, fmt.Errorf("unknown node %q", es.Node)
		}
		return d2diagram.NewShapeAnchor(n), nil
	case es.Dynamic != "":
		n, ok := lookupNode(b.d, es.Dynamic)
		if !ok {
			return nil, fmt.Errorf("unknown node %q", es.Dynamic)
		}
		return d2diagram.NewDynamicAnchor(n), nil
	default:
		return d2diagram.NewPositionAnchor(es.Position.Copy()), nil
	}
}

func (b *builder) selection(s *Session) {
	for _, ns := range s.Nodes {
		if n, ok := b.d.Nodes.Get(ns.ID); ok && ns.Selected {
			b.d.SelectModel(n, false)
		}
	}
	for _, gs := range s.Groups {
		if g, ok := b.d.Groups.Get(gs.ID); ok && gs.Selected {
			b.d.SelectModel(g, false)
		}
	}
	for _, ls := range s.Links {
		if lk, ok := b.d.Links.Get(ls.ID); ok && ls.Selected {
			b.d.SelectModel(lk, false)
		}
	}
}

func replay(ctx context.Context, d *d2diagram.Diagram, ev Event) error {
	switch ev.Type {
	case EventPointerDown, EventPointerMove, EventPointerUp, EventClick:
		target, err := resolveTarget(d, ev)
		if err != nil {
			return err
		}
		e := d2diagram.PointerEvent{
			ClientX:   ev.X,
			ClientY:   ev.Y,
			Button:    ev.Button,
			CtrlKey:   ev.Ctrl,
			ShiftKey:  ev.Shift,
			AltKey:    ev.Alt,
			MetaKey:   ev.Meta,
			IsPrimary: true,
		}
		switch ev.Type {
		case EventPointerDown:
			d.TriggerPointerDown(target, e)
		case EventPointerMove:
			d.TriggerPointerMove(target, e)
		case EventPointerUp:
			d.TriggerPointerUp(target, e)
		default:
			d.TriggerPointerClick(target, e)
		}
	case EventWheel:
		d.TriggerWheel(d2diagram.WheelEvent{
			ClientX:  ev.X,
			ClientY:  ev.Y,
			DeltaX:   ev.DX,
			DeltaY:   ev.DY,
			CtrlKey:  ev.Ctrl,
			ShiftKey: ev.Shift,
			AltKey:   ev.Alt,
			MetaKey:  ev.Meta,
		})
	case EventKeyDown:
		if ev.Key == "" {
			return errors.New("missing key")
		}
		d.TriggerKeyDown(d2diagram.KeyboardEvent{
			Key:      ev.Key,
			CtrlKey:  ev.Ctrl,
			ShiftKey: ev.Shift,
			AltKey:   ev.Alt,
			MetaKey:  ev.Meta,
		})
	case EventZoomToFit:
		d.ZoomToFit(ev.Margin)
	case EventSendToBack, EventSendToFront:
		target, err := resolveTarget(d, ev)
		if err != nil {
			return err
		}
		s, ok := target.(d2diagram.Selectable)
		if !ok {
			return fmt.Errorf("target %q cannot be ordered", ev.Target)
		}
		if ev.Type == EventSendToBack {
			d.SendToBack(s)
		} else {
			d.SendToFront(s)
		}
	case EventDelete:
		return d.DeleteSelection(ctx)
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}

// resolveTarget returns the entity an event points at. A nil Model means the canvas.
func resolveTarget(d *d2diagram.Diagram, ev Event) (d2diagram.Model, error) {
	if ev.Target == "" {
		if ev.Resizer != "" || ev.Control != "" {
			return nil, errors.New("resizer and control need a target node")
		}
		return nil, nil
	}

	if n, ok := lookupNode(d, ev.Target); ok {
		switch {
		case ev.Resizer != "":
			return resizerOf(n, ev.Resizer)
		case ev.Control != "":
			return controlOf(d, n, ev.Control)
		}
		return n, nil
	}
	if ev.Resizer != "" || ev.Control != "" {
		return nil, fmt.Errorf("unknown node %q", ev.Target)
	}
	if lk, ok := d.Links.Get(ev.Target); ok {
		return lk, nil
	}
	if p := d.GetPort(ev.Target); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("unknown target %q", ev.Target)
}

func resizerOf(n *d2diagram.Node, s string) (d2diagram.Model, error) {
	alignment, err := geo.ParseOrientation(s)
	if err != nil {
		return nil, err
	}
	for _, r := range n.Resizers() {
		if r.Alignment == alignment {
			return r, nil
		}
	}
	return nil, fmt.Errorf("node %q has no %s resizer", n.ID(), alignment)
}

func controlOf(d *d2diagram.Diagram, n *d2diagram.Node, s string) (d2diagram.Model, error) {
	p, err := parseCorner(s)
	if err != nil {
		return nil, err
	}
	if c := d.Controls.GetFor(n); c != nil {
		for _, ctrl := range c.Controls() {
			rc, ok := ctrl.(*d2controls.ResizeControl)
			if ok && rc.Provider == p {
				return d2diagram.ControlTarget{Control: rc, Model: n}, nil
			}
		}
	}
	return nil, fmt.Errorf("node %q has no %s control", n.ID(), s)
}

func lookupNode(d *d2diagram.Diagram, id string) (*d2diagram.Node, bool) {
	if n, ok := d.Nodes.Get(id); ok {
		return n, true
	}
	return d.Groups.Get(id)
}

func parseShape(s string) (string, error) {
	if s == "" || strings.EqualFold(s, "rectangle") {
		return "", nil
	}
	for _, t := range shapes {
		if strings.EqualFold(s, t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown shape %q", s)
}

func parseCorner(s string) (d2controls.ResizerProvider, error) {
	alignment, err := geo.ParseOrientation(s)
	if err != nil {
		return nil, err
	}
	switch alignment {
	case geo.TopLeft:
		return d2controls.TopLeft, nil
	case geo.TopRight:
		return d2controls.TopRight, nil
	case geo.BottomLeft:
		return d2controls.BottomLeft, nil
	case geo.BottomRight:
		return d2controls.BottomRight, nil
	}
	return nil, fmt.Errorf("resize controls sit on corners, got %q", s)
}

func parseMarker(s string) (*d2diagram.LinkMarker, bool) {
	if s == "" || s == "none" {
		return nil, true
	}
	m, ok := markers[strings.ToLower(s)]
	return m, ok
}
