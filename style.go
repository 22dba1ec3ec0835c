package trellis

import (
	"regexp"
	"strconv"
	"strings"
)

// Style is a mutable set of CSS declarations.
type Style interface {
	GetPropertyValue(name string) string
	SetProperty(name, value string)
	RemoveProperty(name string)
}

// Element is the surface a Position writes its geometry to.
type Element interface {
	// OffsetWidth and OffsetHeight are the laid out border-box size.
	OffsetWidth() float64
	OffsetHeight() float64
	// IsConnected reports whether the element is still attached to a live
	// document. Detached elements are skipped by the batcher and end any
	// animation targeting them.
	IsConnected() bool
	// Style returns the inline style, ComputedStyle the resolved style.
	Style() Style
	ComputedStyle() Style
}

// ResizeObserved holds sizes reported by a resize observer. Null fields have
// not been observed.
type ResizeObserved struct {
	OffsetWidth, OffsetHeight   Value
	ContentWidth, ContentHeight Value
}

// ResizeObservable is implemented by elements that report size changes.
type ResizeObservable interface {
	ObserveResize(fn func(ResizeObserved)) Unsubscribe
}

// MapStyle is a Style backed by a map.
type MapStyle map[string]string

// GetPropertyValue returns the value of name or "".
func (m MapStyle) GetPropertyValue(name string) string { return m[name] }

// SetProperty sets name to value. An empty value removes the property.
func (m MapStyle) SetProperty(name, value string) {
	if value == "" {
		delete(m, name)
		return
	}
	m[name] = value
}

// RemoveProperty deletes name.
func (m MapStyle) RemoveProperty(name string) { delete(m, name) }

var pixelRx = regexp.MustCompile(`^(-?[0-9]*\.?[0-9]+)px$`)

// ParsePixels parses a "12px" style value. Anything else yields null.
func ParsePixels(s string) Value {
	m := pixelRx.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Null()
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Null()
	}
	return Num(f)
}

// StyleCache snapshots the style values of one element that validation
// needs: margins, min/max sizes and whether will-change is declared. Offset
// sizes prefer the values reported by a resize observer.
type StyleCache struct {
	el       Element
	computed Style

	MarginLeft, MarginTop Value
	MaxWidth, MaxHeight   Value
	MinWidth, MinHeight   Value
	HasWillChange         bool

	resize    *Store[ResizeObserved]
	unobserve Unsubscribe
}

// NewStyleCache returns an empty cache.
func NewStyleCache() *StyleCache {
	return &StyleCache{resize: NewStore(ResizeObserved{})}
}

// Element returns the cached element or nil.
func (c *StyleCache) Element() Element { return c.el }

// HasData reports whether the cache currently describes el.
func (c *StyleCache) HasData(el Element) bool {
	return c.el != nil && c.el == el
}

// ResizeObserved returns the store of observed sizes.
func (c *StyleCache) ResizeObserved() *Store[ResizeObserved] { return c.resize }

// OffsetWidth returns the observed offset width, falling back to the element.
func (c *StyleCache) OffsetWidth() float64 {
	if v, ok := c.resize.Get().OffsetWidth.Float(); ok {
		return v
	}
	if c.el != nil {
		return c.el.OffsetWidth()
	}
	return 0
}

// OffsetHeight returns the observed offset height, falling back to the element.
func (c *StyleCache) OffsetHeight() float64 {
	if v, ok := c.resize.Get().OffsetHeight.Float(); ok {
		return v
	}
	if c.el != nil {
		return c.el.OffsetHeight()
	}
	return 0
}

// Update reads the style of el into the cache. Inline values win over
// computed ones.
func (c *StyleCache) Update(el Element) {
	if c.el != el {
		c.stopObserving()
	}
	c.el = el
	c.computed = el.ComputedStyle()
	inline := el.Style()

	read := func(name string) Value {
		if v := ParsePixels(inline.GetPropertyValue(name)); !v.IsNull() {
			return v
		}
		if c.computed == nil {
			return Null()
		}
		return ParsePixels(c.computed.GetPropertyValue(name))
	}
	c.MarginLeft = read("margin-left")
	c.MarginTop = read("margin-top")
	c.MaxHeight = read("max-height")
	c.MaxWidth = read("max-width")
	c.MinHeight = read("min-height")
	c.MinWidth = read("min-width")

	wc := inline.GetPropertyValue("will-change")
	if wc == "" && c.computed != nil {
		wc = c.computed.GetPropertyValue("will-change")
	}
	c.HasWillChange = wc != "" && wc != "auto"

	if c.unobserve == nil {
		if ro, ok := el.(ResizeObservable); ok {
			c.unobserve = ro.ObserveResize(func(r ResizeObserved) { c.resize.Set(r) })
		}
	}
}

func (c *StyleCache) stopObserving() {
	if c.unobserve != nil {
		c.unobserve()
		c.unobserve = nil
	}
	c.resize.Set(ResizeObserved{})
}

// Reset removes the will-change declaration from the cached element and
// clears every cached value.
func (c *StyleCache) Reset() {
	if c.el != nil {
		c.el.Style().RemoveProperty("will-change")
	}
	c.stopObserving()
	c.el = nil
	c.computed = nil
	c.HasWillChange = false
	c.MarginLeft, c.MarginTop = Null(), Null()
	c.MaxWidth, c.MaxHeight = Null(), Null()
	c.MinWidth, c.MinHeight = Null(), Null()
}
