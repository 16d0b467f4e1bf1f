// Package event implements typed notifications with explicit subscription handles.
//
// Handlers run synchronously in subscription order on the goroutine calling Emit.
// Emit iterates over a snapshot so handlers may subscribe or unsubscribe while running.
package event

// Event is a list of handlers for values of type T. The zero value is ready to use.
type Event[T any] struct {
	subs []*Subscription
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	fn     func(any)
	active bool
	remove func(*Subscription)
}

// Subscribe registers fn and returns the handle that removes it.
func (e *Event[T]) Subscribe(fn func(T)) *Subscription {
	s := &Subscription{
		fn:     func(v any) { fn(v.(T)) },
		active: true,
	}
	s.remove = func(s *Subscription) {
		for i, s2 := range e.subs {
			if s2 == s {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
	e.subs = append(e.subs, s)
	return s
}

// Emit calls every handler subscribed when Emit started and still subscribed when
// its turn comes.
func (e *Event[T]) Emit(v T) {
	if len(e.subs) == 0 {
		return
	}
	snapshot := append([]*Subscription(nil), e.subs...)
	for _, s := range snapshot {
		if s.active {
			s.fn(v)
		}
	}
}

// Len returns the number of subscribed handlers.
func (e *Event[T]) Len() int {
	return len(e.subs)
}

// Unsubscribe removes the handler. It is safe to call more than once and on nil.
func (s *Subscription) Unsubscribe() {
	if s == nil || !s.active {
		return
	}
	s.active = false
	s.remove(s)
}

// Active reports whether the handler is still subscribed.
func (s *Subscription) Active() bool {
	return s != nil && s.active
}

// Scope collects subscriptions that share a lifetime, such as one gesture or one
// behavior, so they can be released together.
type Scope struct {
	subs []*Subscription
}

func (sc *Scope) Add(subs ...*Subscription) {
	sc.subs = append(sc.subs, subs...)
}

// Close unsubscribes everything added so far. The scope can be reused afterwards.
func (sc *Scope) Close() {
	for _, s := range sc.subs {
		s.Unsubscribe()
	}
	sc.subs = nil
}

func (sc *Scope) Len() int {
	return len(sc.subs)
}
