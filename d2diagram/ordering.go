package d2diagram

import (
	"golang.org/x/exp/slices"
)

// OrderedSelectables returns every node, link and group sorted by ascending order.
func (d *Diagram) OrderedSelectables() []Selectable {
	return append([]Selectable(nil), d.orderedSelectables...)
}

func (d *Diagram) MinOrder() int {
	if len(d.orderedSelectables) == 0 {
		return 0
	}
	return d.orderedSelectables[0].Order()
}

func (d *Diagram) MaxOrder() int {
	if len(d.orderedSelectables) == 0 {
		return 0
	}
	return d.orderedSelectables[len(d.orderedSelectables)-1].Order()
}

// SendToBack renumbers every selectable densely from 1 with s first.
func (d *Diagram) SendToBack(s Selectable) {
	if !d.containsSelectable(s) {
		return
	}
	d.SuspendSorting(func() {
		s.SetOrder(1)
		i := 2
		for _, other := range d.orderedSelectables {
			if other == s {
				continue
			}
			other.SetOrder(i)
			i++
		}
	})
}

// SendToFront moves s above every other selectable.
func (d *Diagram) SendToFront(s Selectable) {
	if !d.containsSelectable(s) {
		return
	}
	max := d.MaxOrder()
	if s.Order() == max && d.countOrder(max) == 1 {
		return
	}
	s.SetOrder(max + 1)
}

// SuspendSorting runs fn with sorting deferred, then sorts and refreshes once.
func (d *Diagram) SuspendSorting(fn func()) {
	if d.suspendSorting {
		fn()
		return
	}
	d.suspendSorting = true
	defer func() {
		d.suspendSorting = false
		d.RefreshOrders()
	}()
	fn()
}

// RefreshOrders re-sorts the selectables and emits Changed.
func (d *Diagram) RefreshOrders() {
	d.sortSelectables()
	d.Refresh()
}

func (d *Diagram) onOrderChanged() {
	if d.suspendSorting {
		return
	}
	d.RefreshOrders()
}

func (d *Diagram) sortSelectables() {
	slices.SortStableFunc(d.orderedSelectables, func(a, b Selectable) bool {
		return a.Order() < b.Order()
	})
}

func (d *Diagram) addSelectable(s Selectable) {
	if s.Order() == 0 {
		// Set directly, the entity is not tracked yet.
		switch s := s.(type) {
		case *Node:
			s.order = d.MaxOrder() + 1
		case *Link:
			s.order = d.MaxOrder() + 1
		}
	}
	d.orderedSelectables = append(d.orderedSelectables, s)
	d.sortSelectables()
}

func (d *Diagram) removeSelectable(s Selectable) {
	for i, other := range d.orderedSelectables {
		if other == s {
			d.orderedSelectables = append(d.orderedSelectables[:i:i], d.orderedSelectables[i+1:]...)
			return
		}
	}
}

func (d *Diagram) containsSelectable(s Selectable) bool {
	for _, other := range d.orderedSelectables {
		if other == s {
			return true
		}
	}
	return false
}

func (d *Diagram) countOrder(order int) int {
	var n int
	for _, s := range d.orderedSelectables {
		if s.Order() == order {
			n++
		}
	}
	return n
}
