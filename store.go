package trellis

// Unsubscribe removes a subscription. Calling it more than once is harmless.
type Unsubscribe func()

// Readable is a value that can be read and observed.
type Readable[T any] interface {
	Get() T
	Subscribe(fn func(T)) Unsubscribe
}

// Store holds a value and notifies subscribers when it changes.
//
// Subscribe invokes the handler immediately with the current value and then
// once per change. Setting an equal value is a no-op. A Store is not safe for
// concurrent use; all access happens on the frame loop.
type Store[T comparable] struct {
	value  T
	subs   []*subscriber[T]
	setter func(T)
}

type subscriber[T any] struct {
	fn     func(T)
	active bool
}

// NewStore returns a store holding initial.
func NewStore[T comparable](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// newDerivedStore returns a store whose Set is routed through setter. The
// setter is expected to call store.publish with the accepted value.
func newDerivedStore[T comparable](initial T, setter func(T)) *Store[T] {
	return &Store[T]{value: initial, setter: setter}
}

// Get returns the current value.
func (s *Store[T]) Get() T { return s.value }

// Set stores v and notifies subscribers if it differs from the current value.
func (s *Store[T]) Set(v T) {
	if s.setter != nil {
		s.setter(v)
		return
	}
	s.publish(v)
}

// Update applies fn to the current value and sets the result.
func (s *Store[T]) Update(fn func(T) T) {
	s.Set(fn(s.value))
}

// publish stores v and notifies subscribers. It reports whether the value
// changed.
func (s *Store[T]) publish(v T) bool {
	if v == s.value {
		return false
	}
	s.value = v
	s.notify()
	return true
}

// force stores v and notifies subscribers even when v is unchanged.
func (s *Store[T]) force(v T) {
	s.value = v
	s.notify()
}

func (s *Store[T]) notify() {
	n := 0
	for _, sub := range s.subs {
		if sub.active {
			s.subs[n] = sub
			n++
		}
	}
	clear(s.subs[n:])
	s.subs = s.subs[:n]

	v := s.value
	for i := 0; i < n; i++ {
		if sub := s.subs[i]; sub.active {
			sub.fn(v)
		}
	}
}

// Subscribe registers fn, invokes it with the current value and returns a
// handle that removes it.
func (s *Store[T]) Subscribe(fn func(T)) Unsubscribe {
	sub := &subscriber[T]{fn: fn, active: true}
	s.subs = append(s.subs, sub)
	fn(s.value)
	return func() { sub.active = false }
}

// Subscribers returns the number of active subscribers.
func (s *Store[T]) Subscribers() int {
	n := 0
	for _, sub := range s.subs {
		if sub.active {
			n++
		}
	}
	return n
}
