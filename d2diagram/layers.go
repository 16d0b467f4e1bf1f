package d2diagram

import (
	"oss.terrastruct.com/d2canvas/lib/event"
)

type layer[T Model] struct {
	d     *Diagram
	items []T
	byID  map[string]T

	Added   event.Event[T]
	Removed event.Event[T]
}

func newLayer[T Model](d *Diagram) layer[T] {
	return layer[T]{
		d:    d,
		byID: make(map[string]T),
	}
}

// All returns a snapshot of the layer in insertion order.
func (l *layer[T]) All() []T {
	return append([]T(nil), l.items...)
}

func (l *layer[T]) Get(id string) (T, bool) {
	v, ok := l.byID[id]
	return v, ok
}

func (l *layer[T]) Len() int {
	return len(l.items)
}

func (l *layer[T]) Contains(v T) bool {
	v2, ok := l.byID[v.ID()]
	return ok && Model(v2) == Model(v)
}

func (l *layer[T]) insert(v T) bool {
	if _, ok := l.byID[v.ID()]; ok {
		return false
	}
	l.items = append(l.items, v)
	l.byID[v.ID()] = v
	return true
}

func (l *layer[T]) delete(v T) bool {
	if !l.Contains(v) {
		return false
	}
	delete(l.byID, v.ID())
	for i, v2 := range l.items {
		if Model(v2) == Model(v) {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			break
		}
	}
	return true
}

type NodeLayer struct {
	layer[*Node]
}

// Add adds nodes and raises a single diagram refresh. Nodes whose ID is taken are skipped.
func (l *NodeLayer) Add(nodes ...*Node) {
	l.d.Batch(func() {
		for _, n := range nodes {
			if l.d.lookupNode(n.id) != nil || !l.insert(n) {
				continue
			}
			n.attach(l.d)
			l.d.addSelectable(n)
			l.Added.Emit(n)
		}
	})
}

// Remove removes nodes together with their links, their group membership and their
// controls. Ports and resizers go with their node.
func (l *NodeLayer) Remove(nodes ...*Node) {
	l.d.Batch(func() {
		for _, n := range nodes {
			if !l.Contains(n) {
				continue
			}
			l.d.Links.Remove(n.Links()...)
			if g := n.ParentGroup(); g != nil {
				g.Group.RemoveMember(n)
			}
			l.d.detachHierarchy(n)
			l.d.Controls.RemoveFor(n)
			l.delete(n)
			l.d.removeSelectable(n)
			n.detach()
			l.Removed.Emit(n)
		}
	})
}

type LinkLayer struct {
	layer[*Link]
}

func (l *LinkLayer) Add(links ...*Link) {
	l.d.Batch(func() {
		for _, lk := range links {
			if !l.insert(lk) {
				continue
			}
			lk.d = l.d
			l.d.addSelectable(lk)
			l.Added.Emit(lk)
		}
	})
}

func (l *LinkLayer) Remove(links ...*Link) {
	l.d.Batch(func() {
		for _, lk := range links {
			if !l.delete(lk) {
				continue
			}
			l.d.Controls.RemoveFor(lk)
			l.d.removeSelectable(lk)
			lk.d = nil
			l.Removed.Emit(lk)
			if p, ok := lk.source.Model().(*Port); ok {
				p.Refresh()
			}
			if p, ok := lk.target.Model().(*Port); ok {
				p.Refresh()
			}
		}
	})
}

type GroupLayer struct {
	layer[*Node]
}

// Group creates a group around nodes with the configured factory and adds it.
func (l *GroupLayer) Group(nodes ...*Node) *Node {
	g := l.d.Options.Groups.Factory(l.d, nodes)
	if g == nil {
		return nil
	}
	l.Add(g)
	return g
}

// Add adds group nodes. Nodes without a Group component are skipped.
func (l *GroupLayer) Add(groups ...*Node) {
	l.d.Batch(func() {
		for _, g := range groups {
			if !g.IsGroup() || l.d.lookupNode(g.id) != nil || !l.insert(g) {
				continue
			}
			g.attach(l.d)
			l.d.addSelectable(g)
			l.Added.Emit(g)
		}
	})
}

// Remove ungroups and removes groups. Members stay in the diagram.
func (l *GroupLayer) Remove(groups ...*Node) {
	l.d.Batch(func() {
		for _, g := range groups {
			if !l.Contains(g) {
				continue
			}
			l.d.Links.Remove(g.Links()...)
			g.Group.Ungroup()
			if pg := g.ParentGroup(); pg != nil {
				pg.Group.RemoveMember(g)
			}
			l.d.detachHierarchy(g)
			l.d.Controls.RemoveFor(g)
			l.delete(g)
			l.d.removeSelectable(g)
			g.detach()
			l.Removed.Emit(g)
		}
	})
}

// Delete removes g and every member, recursing into nested groups.
func (l *GroupLayer) Delete(g *Node) {
	if !l.Contains(g) {
		return
	}
	l.d.Batch(func() {
		for _, m := range g.Group.Members() {
			if m.IsGroup() {
				l.Delete(m)
			} else {
				l.d.Nodes.Remove(m)
			}
		}
		l.Remove(g)
	})
}
