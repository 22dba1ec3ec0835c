package trellis

// Centered places a position without left or top in the middle of a
// container element, a fixed size or the surface viewport.
type Centered struct {
	element  Element
	width    Value
	height   Value
	lock     bool
	viewport func() Vec2
}

// CenteredOption configures a Centered helper.
type CenteredOption func(*Centered)

// WithCenterElement centres inside el.
func WithCenterElement(el Element) CenteredOption {
	return func(c *Centered) { c.element = el }
}

// WithCenterSize centres inside a fixed size. Null values fall back to the
// element or the viewport.
func WithCenterSize(width, height Value) CenteredOption {
	return func(c *Centered) { c.width, c.height = width, height }
}

// WithCenterLock makes the helper ignore later setters.
func WithCenterLock() CenteredOption {
	return func(c *Centered) { c.lock = true }
}

// NewCentered returns a helper centring inside the surface viewport unless
// an element or size is given.
func (s *Surface) NewCentered(opts ...CenteredOption) *Centered {
	c := &Centered{viewport: s.Viewport}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetElement replaces the container element. Ignored when locked.
func (c *Centered) SetElement(el Element) {
	if !c.lock {
		c.element = el
	}
}

// SetSize replaces the fixed size. Ignored when locked.
func (c *Centered) SetSize(width, height Value) {
	if !c.lock {
		c.width, c.height = width, height
	}
}

func (c *Centered) bounds() (float64, float64) {
	var vp Vec2
	if c.viewport != nil {
		vp = c.viewport()
	}
	w, h := vp.X, vp.Y
	if c.element != nil {
		w, h = c.element.OffsetWidth(), c.element.OffsetHeight()
	}
	return c.width.Or(w), c.height.Or(h)
}

// Left implements InitialHelper.
func (c *Centered) Left(width float64) float64 {
	w, _ := c.bounds()
	return (w - width) / 2
}

// Top implements InitialHelper.
func (c *Centered) Top(height float64) float64 {
	_, h := c.bounds()
	return (h - height) / 2
}
