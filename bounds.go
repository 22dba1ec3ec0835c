package trellis

import (
	"math"
	"slices"
)

// BoundsOption configures a bounds validator.
type BoundsOption func(*boundsConfig)

type boundsConfig struct {
	element   Element
	width     Value
	height    Value
	constrain bool
	enabled   bool
	locked    bool
}

// WithBoundsElement sets the container element whose offset size bounds the
// position.
func WithBoundsElement(el Element) BoundsOption {
	return func(c *boundsConfig) { c.element = el }
}

// WithBoundsSize sets a manual container size. Null values fall back to the
// element or the viewport.
func WithBoundsSize(width, height Value) BoundsOption {
	return func(c *boundsConfig) { c.width, c.height = width, height }
}

// WithConstrain caps width and height at the container size when no max
// size is set. Enabled by default.
func WithConstrain(constrain bool) BoundsOption {
	return func(c *boundsConfig) { c.constrain = constrain }
}

// WithBoundsEnabled enables or disables the validator. Enabled by default.
func WithBoundsEnabled(enabled bool) BoundsOption {
	return func(c *boundsConfig) { c.enabled = enabled }
}

// WithBoundsLock makes the validator immutable after construction. Setters
// on a locked validator are ignored.
func WithBoundsLock() BoundsOption {
	return func(c *boundsConfig) { c.locked = true }
}

// bounds holds the configuration and change feed shared by both validators.
type bounds struct {
	cfg       boundsConfig
	listeners []*subscriber[struct{}]
}

func newBounds(opts []BoundsOption) bounds {
	cfg := boundsConfig{constrain: true, enabled: true}
	for _, o := range opts {
		o(&cfg)
	}
	return bounds{cfg: cfg}
}

// Element returns the container element, if any.
func (b *bounds) Element() Element { return b.cfg.element }

// Constrain reports whether sizes are capped at the container.
func (b *bounds) Constrain() bool { return b.cfg.constrain }

// Enabled reports whether the validator adjusts geometry.
func (b *bounds) Enabled() bool { return b.cfg.enabled }

// Locked reports whether the validator ignores setters.
func (b *bounds) Locked() bool { return b.cfg.locked }

// SetElement replaces the container element.
func (b *bounds) SetElement(el Element) {
	if b.cfg.locked {
		return
	}
	b.cfg.element = el
	b.notify()
}

// SetSize sets the manual container size.
func (b *bounds) SetSize(width, height Value) {
	if b.cfg.locked {
		return
	}
	b.cfg.width, b.cfg.height = width, height
	b.notify()
}

// SetConstrain toggles size capping.
func (b *bounds) SetConstrain(constrain bool) {
	if b.cfg.locked {
		return
	}
	b.cfg.constrain = constrain
	b.notify()
}

// SetEnabled toggles the validator.
func (b *bounds) SetEnabled(enabled bool) {
	if b.cfg.locked {
		return
	}
	b.cfg.enabled = enabled
	b.notify()
}

// Subscribe registers fn to be called whenever the configuration changes.
func (b *bounds) Subscribe(fn func()) Unsubscribe {
	s := &subscriber[struct{}]{fn: func(struct{}) { fn() }, active: true}
	b.listeners = append(b.listeners, s)
	return func() {
		s.active = false
		b.listeners = slices.DeleteFunc(b.listeners, func(x *subscriber[struct{}]) bool { return x == s })
	}
}

func (b *bounds) notify() {
	for _, s := range slices.Clone(b.listeners) {
		if s.active {
			s.fn(struct{}{})
		}
	}
}

// size resolves the container size: manual size, then element offset size,
// then viewport.
func (b *bounds) size(viewport Vec2) (w, h float64) {
	w, h = viewport.X, viewport.Y
	if b.cfg.element != nil {
		w, h = b.cfg.element.OffsetWidth(), b.cfg.element.OffsetHeight()
	}
	w = b.cfg.width.Or(w)
	h = b.cfg.height.Or(h)
	return w, h
}

// clampSize clamps the proposed width and height against the resolved
// min/max and, when constraining, the container size.
func (b *bounds) clampSize(ctx *ValidationContext, boundsW, boundsH float64) (widthSet, heightSet bool) {
	pos := ctx.Position
	if w, ok := pos.Width.Float(); ok {
		maxW := ctx.MaxWidth.Or(math.MaxFloat64)
		if ctx.MaxWidth.IsNull() && b.cfg.constrain {
			maxW = boundsW
		}
		ctx.Width = clamp(w, ctx.MinWidth, maxW)
		pos.Width = Num(ctx.Width)
		widthSet = true
	}
	if h, ok := pos.Height.Float(); ok {
		maxH := ctx.MaxHeight.Or(math.MaxFloat64)
		if ctx.MaxHeight.IsNull() && b.cfg.constrain {
			maxH = boundsH
		}
		ctx.Height = clamp(h, ctx.MinHeight, maxH)
		pos.Height = Num(ctx.Height)
		heightSet = true
	}
	return widthSet, heightSet
}

// clamp returns v limited to [lo, hi]. When hi < lo, hi wins.
func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// BasicBounds keeps the untransformed box of a position inside its
// container.
type BasicBounds struct {
	bounds
}

// NewBasicBounds returns a simple clamp-to-container validator.
func NewBasicBounds(opts ...BoundsOption) *BasicBounds {
	return &BasicBounds{bounds: newBounds(opts)}
}

// Validate implements Validator.
func (b *BasicBounds) Validate(ctx *ValidationContext) *Data {
	pos := ctx.Position
	if !b.cfg.enabled {
		return pos
	}
	boundsW, boundsH := b.size(ctx.Viewport)
	widthSet, heightSet := b.clampSize(ctx, boundsW, boundsH)

	left, top := pos.Left.Or(0), pos.Top.Or(0)
	if widthSet && ctx.Width+left+ctx.MarginLeft > boundsW {
		left = boundsW - ctx.Width - ctx.MarginLeft
	}
	if heightSet && ctx.Height+top+ctx.MarginTop > boundsH {
		top = boundsH - ctx.Height - ctx.MarginTop
	}
	pos.Left = Num(math.Round(math.Max(math.Min(left, boundsW-ctx.Width-ctx.MarginLeft), 0)))
	pos.Top = Num(math.Round(math.Max(math.Min(top, boundsH-ctx.Height-ctx.MarginTop), 0)))
	return pos
}

// TransformBounds keeps the transformed footprint of a position inside its
// container. Rotation and scale are taken into account by clamping the
// bounding rectangle of the projected corners.
type TransformBounds struct {
	bounds
	scratch TransformData
}

// NewTransformBounds returns a transform aware clamp-to-container validator.
func NewTransformBounds(opts ...BoundsOption) *TransformBounds {
	return &TransformBounds{bounds: newBounds(opts)}
}

// Validate implements Validator. Edges are corrected in the order bottom,
// right, top, left, so the top and left edges win when the footprint is
// larger than the container.
func (b *TransformBounds) Validate(ctx *ValidationContext) *Data {
	pos := ctx.Position
	if !b.cfg.enabled {
		return pos
	}
	boundsW, boundsH := b.size(ctx.Viewport)
	b.clampSize(ctx, boundsW, boundsH)

	if ctx.Transforms == nil {
		return pos
	}
	data := ctx.Transforms.GetData(pos, &b.scratch, ctx.Width, ctx.Height)
	rect := data.BoundingRect
	initialX, initialY := rect.X, rect.Y

	if rect.Bottom()+ctx.MarginTop > boundsH {
		rect.Y += boundsH - rect.Bottom() - ctx.MarginTop
	}
	if rect.Right()+ctx.MarginLeft > boundsW {
		rect.X += boundsW - rect.Right() - ctx.MarginLeft
	}
	if rect.Top() < 0 {
		rect.Y -= rect.Top()
	}
	if rect.Left() < 0 {
		rect.X -= rect.Left()
	}

	pos.Left = Num(pos.Left.Or(0) - (initialX - rect.X))
	pos.Top = Num(pos.Top.Or(0) - (initialY - rect.Y))
	return pos
}

// Shared locked validators for positions bounded by the viewport.
var (
	BasicWindow     = NewBasicBounds(WithBoundsLock())
	TransformWindow = NewTransformBounds(WithBoundsLock())
)
