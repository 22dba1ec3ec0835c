package trellis

import (
	"slices"

	"github.com/google/uuid"
)

// Box is an in-memory Element. It backs headless hosts and tests, and the
// ebiten Host draws it as a filled quad.
//
// Its offset size is the base size unless the inline style pins width or
// height in pixels, mirroring how a browser lays out an absolutely
// positioned element.
type Box struct {
	id        uuid.UUID
	baseW     float64
	baseH     float64
	connected bool

	// Fill is the color used by Host when drawing the box.
	Fill Color

	inline   *boxStyle
	computed MapStyle
	classes  []string

	observers []*resizeObserver
}

type resizeObserver struct {
	fn     func(ResizeObserved)
	active bool
}

// NewBox returns a connected box with the given base size.
func NewBox(width, height float64) *Box {
	return &Box{
		id:        uuid.New(),
		baseW:     width,
		baseH:     height,
		connected: true,
		Fill:      ColorWhite,
		inline:    &boxStyle{props: MapStyle{}, writes: map[string]int{}},
		computed:  MapStyle{},
	}
}

// ID returns the unique id of the box.
func (b *Box) ID() uuid.UUID { return b.id }

// OffsetWidth implements Element.
func (b *Box) OffsetWidth() float64 {
	if v, ok := ParsePixels(b.inline.props["width"]).Float(); ok {
		return v
	}
	return b.baseW
}

// OffsetHeight implements Element.
func (b *Box) OffsetHeight() float64 {
	if v, ok := ParsePixels(b.inline.props["height"]).Float(); ok {
		return v
	}
	return b.baseH
}

// IsConnected implements Element.
func (b *Box) IsConnected() bool { return b.connected }

// SetConnected attaches or detaches the box from its document.
func (b *Box) SetConnected(connected bool) { b.connected = connected }

// Style implements Element.
func (b *Box) Style() Style { return b.inline }

// ComputedStyle implements Element. Inline declarations override the
// computed ones set with SetComputed.
func (b *Box) ComputedStyle() Style {
	merged := make(MapStyle, len(b.computed)+len(b.inline.props))
	for k, v := range b.computed {
		merged[k] = v
	}
	for k, v := range b.inline.props {
		merged[k] = v
	}
	return merged
}

// SetComputed sets a stylesheet-level declaration.
func (b *Box) SetComputed(name, value string) { b.computed.SetProperty(name, value) }

// Writes returns how many times the inline property name has been set or
// removed.
func (b *Box) Writes(name string) int { return b.inline.writes[name] }

// AddClass adds class names to the box.
func (b *Box) AddClass(names ...string) {
	for _, n := range names {
		if !slices.Contains(b.classes, n) {
			b.classes = append(b.classes, n)
		}
	}
}

// HasClass implements ClassList.
func (b *Box) HasClass(name string) bool { return slices.Contains(b.classes, name) }

// Resize changes the base size and notifies resize observers.
func (b *Box) Resize(width, height float64) {
	b.baseW, b.baseH = width, height
	r := ResizeObserved{
		OffsetWidth:   Num(b.OffsetWidth()),
		OffsetHeight:  Num(b.OffsetHeight()),
		ContentWidth:  Num(width),
		ContentHeight: Num(height),
	}
	for _, o := range b.observers {
		if o.active {
			o.fn(r)
		}
	}
}

// ObserveResize implements ResizeObservable.
func (b *Box) ObserveResize(fn func(ResizeObserved)) Unsubscribe {
	o := &resizeObserver{fn: fn, active: true}
	b.observers = append(b.observers, o)
	return func() {
		o.active = false
		b.observers = slices.DeleteFunc(b.observers, func(x *resizeObserver) bool { return x == o })
	}
}

// Bounds returns the box rectangle in container space from its inline
// left/top and offset size.
func (b *Box) Bounds() Rect {
	return Rect{
		X:      ParsePixels(b.inline.props["left"]).Or(0),
		Y:      ParsePixels(b.inline.props["top"]).Or(0),
		Width:  b.OffsetWidth(),
		Height: b.OffsetHeight(),
	}
}

type boxStyle struct {
	props  MapStyle
	writes map[string]int
}

func (s *boxStyle) GetPropertyValue(name string) string { return s.props[name] }

func (s *boxStyle) SetProperty(name, value string) {
	s.writes[name]++
	s.props.SetProperty(name, value)
}

func (s *boxStyle) RemoveProperty(name string) {
	s.writes[name]++
	delete(s.props, name)
}

// ClassList is implemented by pointer targets that carry CSS classes.
type ClassList interface {
	HasClass(name string) bool
}
