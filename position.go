package trellis

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/google/uuid"
)

// Parent owns a Position and supplies the element it writes to.
type Parent interface {
	ElementTarget() Element
}

// PositionableParent is implemented by parents that can switch positioning
// off. While Positionable returns false, Set is a no-op and animations
// return a finished control.
type PositionableParent interface {
	Parent
	Positionable() bool
}

// MinimizableParent is implemented by parents that can be minimized. While
// minimized, stylesheet min sizes are ignored during validation.
type MinimizableParent interface {
	Parent
	Minimized() bool
}

// MaximizableParent is implemented by parents that can leave the minimized
// state. StateStore.Reset calls Maximize on a minimized parent.
type MaximizableParent interface {
	MinimizableParent
	Maximize()
}

type elementParent struct{ el Element }

func (e elementParent) ElementTarget() Element { return e.el }

// InitialHelper places a position that has no left or top yet.
type InitialHelper interface {
	Left(width float64) float64
	Top(height float64) float64
}

// GetOptions restricts and shapes the result of Position.Get.
type GetOptions struct {
	// Keys limits the result to these keys. Empty means every key.
	Keys []Key
	// Exclude removes keys from the result.
	Exclude []Key
	// Numeric replaces null values with numeric defaults where one exists.
	Numeric bool
}

// PositionOption configures a Position.
type PositionOption func(*Position)

// WithParent sets the owning parent.
func WithParent(parent Parent) PositionOption {
	return func(p *Position) { p.parent = parent }
}

// WithElement sets the element the position writes to.
func WithElement(el Element) PositionOption {
	return func(p *Position) { p.parent = elementParent{el} }
}

// WithInitial sets the helper used to place a position without left/top.
func WithInitial(h InitialHelper) PositionOption {
	return func(p *Position) { p.initial = h }
}

// WithOrtho enables orthographic mode: left and top are folded into the
// transform matrix instead of being written as separate properties.
func WithOrtho(ortho bool) PositionOption {
	return func(p *Position) { p.ortho = ortho }
}

// WithCalculateTransform recomputes TransformData on every element write
// even without transform subscribers.
func WithCalculateTransform(calc bool) PositionOption {
	return func(p *Position) { p.calculateTransform = calc }
}

// WithTransformOrigin overrides the configured default transform origin.
func WithTransformOrigin(o Origin) PositionOption {
	return func(p *Position) { p.data.TransformOrigin = o }
}

// WithValidators adds validators with the default weight.
func WithValidators(vs ...Validator) PositionOption {
	return func(p *Position) { p.initValidators = append(p.initValidators, vs...) }
}

// WithData applies an initial update once the position is constructed.
func WithData(u Update) PositionOption {
	return func(p *Position) { p.initData = u }
}

// Position is the reactive geometry model of one element. Updates pass
// through relative value resolution and the validator chain, are written to
// the element on the next frame, and are then published to subscribers.
type Position struct {
	id      uuid.UUID
	surface *Surface

	data       Data
	candidate  Data
	transforms *TransformState
	validators *Validators
	styleCache *StyleCache
	valCtx     ValidationContext

	parent  Parent
	initial InitialHelper

	changeSet          ChangeSet
	enabled            bool
	ortho              bool
	calculateTransform bool

	queued  bool
	pending *Pending

	stores         [numKeys]*Store[Value]
	dataStore      *Store[Data]
	transformData  TransformData
	transformStore *Store[TransformData]

	animate *Animator
	state   *StateStore

	initValidators []Validator
	initData       Update
}

// NewPosition creates a position on the surface.
func (s *Surface) NewPosition(opts ...PositionOption) (*Position, error) {
	p := &Position{
		id:      uuid.New(),
		surface: s,
		data:    NewData(s.cfg.origin()),
		enabled: true,
	}
	p.transforms = NewTransformState(&p.data)
	p.validators = newValidators(p.revalidate)
	p.styleCache = NewStyleCache()
	p.animate = &Animator{position: p}
	p.state = &StateStore{position: p, saved: make(map[string]SavedState)}

	for _, o := range opts {
		o(p)
	}

	for k := Key(0); k < numKeys; k++ {
		p.stores[k] = newDerivedStore(p.data.Field(k), func(v Value) {
			if err := p.Set(Update{k: v}); err != nil {
				logger().Warn("field store set failed", "position", p.id, "key", k, "err", err)
			}
		})
	}
	p.dataStore = NewStore(p.data)
	p.transformData.Mat4 = p.transforms.GetMat4(nil)
	p.transformStore = NewStore(p.transformData)

	if err := p.validators.Add(p.initValidators...); err != nil {
		return nil, err
	}
	p.initValidators = nil

	u := p.initData
	p.initData = nil
	if u == nil && p.parent != nil {
		u = Update{}
	}
	if u != nil {
		if err := p.Set(u); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ID returns the unique id of the position.
func (p *Position) ID() uuid.UUID { return p.id }

// GetPosition implements Positioned.
func (p *Position) GetPosition() *Position { return p }

// Surface returns the owning surface.
func (p *Position) Surface() *Surface { return p.surface }

// Animate returns the tween API of the position.
func (p *Position) Animate() *Animator { return p.animate }

// State returns the named state API of the position.
func (p *Position) State() *StateStore { return p.state }

// Validators returns the validator chain.
func (p *Position) Validators() *Validators { return p.validators }

// Transforms returns the transform state.
func (p *Position) Transforms() *TransformState { return p.transforms }

// StyleCache returns the style snapshot of the current element.
func (p *Position) StyleCache() *StyleCache { return p.styleCache }

// Enabled reports whether Set applies updates.
func (p *Position) Enabled() bool { return p.enabled }

// SetEnabled toggles the position. A disabled position ignores Set.
func (p *Position) SetEnabled(enabled bool) { p.enabled = enabled }

// Ortho reports whether orthographic mode is on.
func (p *Position) Ortho() bool { return p.ortho }

// SetOrtho switches orthographic mode and rewrites the element.
func (p *Position) SetOrtho(ortho bool) {
	if p.ortho == ortho {
		return
	}
	p.ortho = ortho
	el := p.elementTarget()
	if el == nil || !p.styleCache.HasData(el) {
		return
	}
	st := el.Style()
	if ortho {
		st.RemoveProperty("left")
		st.RemoveProperty("top")
	}
	if !p.styleCache.HasWillChange {
		st.SetProperty("will-change", p.willChange())
	}
	p.changeSet = ChangeAll
	if !p.queued {
		p.pending = p.surface.batcher.Add(el, p)
	}
}

// CalculateTransform reports whether TransformData is always recomputed.
func (p *Position) CalculateTransform() bool { return p.calculateTransform }

// SetCalculateTransform toggles TransformData recomputation.
func (p *Position) SetCalculateTransform(calc bool) { p.calculateTransform = calc }

// SetInitial sets the helper used to place a position without left/top.
func (p *Position) SetInitial(h InitialHelper) { p.initial = h }

// Parent returns the owning parent, if any.
func (p *Position) Parent() Parent { return p.parent }

// SetParent replaces the owning parent. The style snapshot and default state
// are dropped, and if parent is not nil the current geometry is re-applied.
func (p *Position) SetParent(parent Parent) {
	p.parent = parent
	p.state.removeDefault()
	p.styleCache.Reset()
	if parent != nil {
		if err := p.Set(p.data.Update()); err != nil {
			logger().Warn("re-applying geometry failed", "position", p.id, "err", err)
		}
	}
}

// Attach makes el the element of the position.
func (p *Position) Attach(el Element) {
	if el == nil {
		p.Detach()
		return
	}
	p.SetParent(elementParent{el})
}

// Detach removes the parent and element.
func (p *Position) Detach() { p.SetParent(nil) }

// Element returns the connected element of the position or nil.
func (p *Position) Element() Element { return p.elementTarget() }

func (p *Position) elementTarget() Element {
	if p.parent == nil {
		return nil
	}
	el := p.parent.ElementTarget()
	if el == nil || !el.IsConnected() {
		return nil
	}
	return el
}

func (p *Position) positionable() bool {
	if pp, ok := p.parent.(PositionableParent); ok {
		return pp.Positionable()
	}
	return true
}

func (p *Position) minimized() bool {
	if mp, ok := p.parent.(MinimizableParent); ok {
		return mp.Minimized()
	}
	return false
}

func (p *Position) willChange() string {
	if p.ortho {
		return "transform"
	}
	return "top, left, transform"
}

// revalidate re-runs the validator chain after a validator changed.
func (p *Position) revalidate() {
	if err := p.Set(Update{}); err != nil {
		logger().Warn("revalidation failed", "position", p.id, "err", err)
	}
}

// Data returns a copy of the current geometry.
func (p *Position) Data() Data { return p.data }

// Field returns the current value of k.
func (p *Position) Field(k Key) Value { return p.data.Field(k) }

// SetField sets a single field.
func (p *Position) SetField(k Key, v Value) error { return p.Set(Update{k: v}) }

// Store returns the reactive store of field k. Setting the store routes
// through Set; it publishes after each element write.
func (p *Position) Store(k Key) *Store[Value] {
	if k >= numKeys {
		return nil
	}
	return p.stores[k]
}

// Subscribe registers fn for geometry changes. fn is called immediately with
// the current geometry and then once per element write that changed it, or
// synchronously per Set when no element is attached.
func (p *Position) Subscribe(fn func(Data)) Unsubscribe {
	u := p.dataStore.Subscribe(fn)
	if p.surface.debug {
		debugCheckSubscribers(p, p.dataStore.Subscribers())
	}
	return u
}

// SubscribeTransform registers fn for TransformData. While at least one
// subscriber exists, TransformData is recomputed on every element write.
func (p *Position) SubscribeTransform(fn func(TransformData)) Unsubscribe {
	return p.transformStore.Subscribe(fn)
}

// TransformData returns the last computed TransformData.
func (p *Position) TransformData() TransformData { return p.transformStore.Get() }

// ChangeSet returns the fields changed since the last publish.
func (p *Position) ChangeSet() ChangeSet { return p.changeSet }

// ElementUpdated returns the pending element write pass. If nothing is
// queued it returns an already resolved Pending.
func (p *Position) ElementUpdated() *Pending {
	if p.queued && p.pending != nil {
		return p.pending
	}
	return resolvedPending(p.surface.scheduler.Now())
}

// Get copies the current geometry into dst (allocated when nil) and returns
// it.
func (p *Position) Get(dst Update, opts GetOptions) Update {
	if dst == nil {
		dst = make(Update, numKeys)
	}
	keys := opts.Keys
	if len(keys) == 0 {
		keys = Keys()
	}
	for _, k := range keys {
		if k >= numKeys || slices.Contains(opts.Exclude, k) {
			continue
		}
		v := p.data.Field(k)
		if opts.Numeric && v.IsNull() {
			if def, ok := numericDefault(k); ok {
				v = Num(def)
			}
		}
		dst[k] = v
	}
	return dst
}

// Set applies a partial update. Relative values are resolved against the
// current geometry. When an element is attached, the candidate geometry runs
// through the validator chain; a veto leaves the position untouched and
// returns nil. The element write happens on the next frame.
func (p *Position) Set(u Update) error { return p.set(u, nil, false) }

// SetImmediate is Set with the element written before returning, for frame
// driven callers that are already inside a frame callback.
func (p *Position) SetImmediate(u Update) error { return p.set(u, nil, true) }

// SetMap parses a loosely typed update and applies it. Keys that are not
// geometry fields are passed to validators in ValidationContext.Rest.
func (p *Position) SetMap(m map[string]any) error {
	u, rest, err := ParseUpdate(m)
	if err != nil {
		return err
	}
	return p.set(u, rest, false)
}

func (p *Position) set(u Update, rest map[string]any, immediate bool) error {
	if !p.enabled || !p.positionable() {
		return nil
	}
	u, err := p.resolveRelative(u)
	if err != nil {
		return err
	}

	el := p.elementTarget()
	if el != nil {
		if !p.styleCache.HasData(el) {
			p.styleCache.Update(el)
			if !p.styleCache.HasWillChange {
				el.Style().SetProperty("will-change", p.willChange())
			}
			p.changeSet = ChangeAll
			p.queued = false
		}
		cand := p.updatePosition(u, rest, el)
		if cand == nil {
			return nil
		}
		for k := Key(0); k < numKeys; k++ {
			p.applyField(k, cand.Field(k))
		}
	} else {
		for k := Key(0); k < numKeys; k++ {
			if v, ok := u[k]; ok {
				p.applyField(k, v)
			}
		}
	}

	if el != nil {
		if !p.state.hasDefault {
			p.state.saveDefault(p.data)
		}
		if immediate {
			p.surface.batcher.Immediate(el, p)
		} else if !p.queued {
			p.pending = p.surface.batcher.Add(el, p)
		}
	} else {
		p.updateSubscribers()
	}
	return nil
}

// resolveRelative returns u with relative values resolved against the
// current geometry. u itself is copied before the first replacement.
func (p *Position) resolveRelative(u Update) (Update, error) {
	return resolveUpdate(u, &p.data)
}

func resolveUpdate(u Update, d *Data) (Update, error) {
	copied := false
	for k, v := range u {
		if v.Kind != KindRelative {
			continue
		}
		if !k.IsAnimatable() {
			return nil, fmt.Errorf("%w: %s does not accept relative values", ErrFormat, k)
		}
		cur, _ := numericDefault(k)
		cur = d.Field(k).Or(cur)
		rv, err := resolveRelative(v, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		if !copied {
			u = maps.Clone(u)
			copied = true
		}
		u[k] = rv
	}
	return u, nil
}

// updatePosition builds the full candidate geometry for u, resolves its
// size against the element and runs the validator chain. It returns nil on
// a veto.
func (p *Position) updatePosition(u Update, rest map[string]any, el Element) *Data {
	p.candidate = p.data
	cur := &p.candidate
	sc := p.styleCache
	inline := el.Style()

	width := resolveSize(&cur.Width, u, KeyWidth, inline.GetPropertyValue("width") == "", sc.OffsetWidth)
	height := resolveSize(&cur.Height, u, KeyHeight, inline.GetPropertyValue("height") == "", sc.OffsetHeight)

	if v, ok := u[KeyLeft]; ok && v.IsNumber() {
		cur.Left = v
	} else if !cur.Left.IsNumber() {
		cur.Left = Num(0)
		if p.initial != nil {
			cur.Left = Num(p.initial.Left(width))
		}
	}
	if v, ok := u[KeyTop]; ok && v.IsNumber() {
		cur.Top = v
	} else if !cur.Top.IsNumber() {
		cur.Top = Num(0)
		if p.initial != nil {
			cur.Top = Num(p.initial.Top(height))
		}
	}

	for _, k := range [...]Key{KeyMaxHeight, KeyMaxWidth, KeyMinHeight, KeyMinWidth, KeyZIndex} {
		if v, ok := u[k]; ok {
			if f, isNum := v.Float(); isNum {
				cur.SetField(k, Num(math.Round(f)))
			} else if v.IsNull() {
				cur.SetField(k, Null())
			}
		}
	}
	for _, k := range transformKeys {
		v, ok := u[k]
		if !ok || !(v.IsNumber() || v.IsNull()) {
			continue
		}
		if k == KeyScale && v.IsNumber() {
			v = Num(clamp(v.Num, p.surface.cfg.ScaleMin, p.surface.cfg.ScaleMax))
		}
		cur.SetField(k, v)
	}
	if v, ok := u[KeyTransformOrigin]; ok && (v.Kind == KindOrigin || v.IsNull()) {
		cur.SetField(KeyTransformOrigin, v)
	}

	if !p.validators.enabled || p.validators.Len() == 0 {
		return cur
	}

	ctx := &p.valCtx
	*ctx = ValidationContext{
		Position:   cur,
		Element:    el,
		Parent:     p.parent,
		Width:      width,
		Height:     height,
		MarginLeft: sc.MarginLeft.Or(0),
		MarginTop:  sc.MarginTop.Or(0),
		MaxWidth:   sc.MaxWidth,
		MaxHeight:  sc.MaxHeight,
		Viewport:   p.surface.viewport,
		Transforms: p.transforms,
		Rest:       rest,
	}
	if ctx.MaxWidth.IsNull() {
		ctx.MaxWidth = cur.MaxWidth
	}
	if ctx.MaxHeight.IsNull() {
		ctx.MaxHeight = cur.MaxHeight
	}
	if p.minimized() {
		ctx.MinWidth = cur.MinWidth.Or(0)
		ctx.MinHeight = cur.MinHeight.Or(0)
	} else {
		ctx.MinWidth = nonZeroOr(cur.MinWidth, sc.MinWidth.Or(0))
		ctx.MinHeight = nonZeroOr(cur.MinHeight, sc.MinHeight.Or(0))
	}
	return p.validators.run(ctx)
}

func nonZeroOr(v Value, def float64) float64 {
	if f, ok := v.Float(); ok && f != 0 {
		return f
	}
	return def
}

// resolveSize resolves the width or height field of a candidate. The
// keywords auto and inherit are kept in the record and resolve to the live
// offset size. An explicit number wins; otherwise the previous number is
// kept or the offset size is adopted. When the element already pins the
// size inline and the update does not mention it, the record is left alone.
func resolveSize(field *Value, u Update, k Key, unpinned bool, offset func() float64) float64 {
	v, given := u[k]
	if !unpinned && !given {
		return field.Or(offset())
	}
	switch {
	case given && (v.Kind == KindAuto || v.Kind == KindInherit):
		*field = v
		return offset()
	case !given && (field.Kind == KindAuto || field.Kind == KindInherit):
		return offset()
	}
	next := *field
	if given && v.IsNumber() {
		next = v
	}
	size := offset()
	if f, ok := next.Float(); ok {
		size = math.Round(f)
	}
	*field = Num(size)
	return size
}

// applyField writes one accepted field and marks it dirty when it changed.
func (p *Position) applyField(k Key, v Value) {
	switch k {
	case KeyLeft, KeyTop:
		f, ok := v.Float()
		if !ok {
			return
		}
		v = Num(math.Round(f))
	case KeyZIndex, KeyMinWidth, KeyMinHeight, KeyMaxWidth, KeyMaxHeight:
		if f, ok := v.Float(); ok {
			v = Num(math.Round(f))
		} else if !v.IsNull() {
			return
		}
	case KeyScale:
		if f, ok := v.Float(); ok {
			v = Num(clamp(f, p.surface.cfg.ScaleMin, p.surface.cfg.ScaleMax))
		} else if !v.IsNull() {
			return
		}
	case KeyRotateX, KeyRotateY, KeyRotateZ, KeyTranslateX, KeyTranslateY, KeyTranslateZ:
		if !v.IsNumber() && !v.IsNull() {
			return
		}
	case KeyTransformOrigin:
		if v.Kind != KindOrigin && !v.IsNull() {
			return
		}
	case KeyWidth, KeyHeight:
		switch v.Kind {
		case KindNumber:
			v = Num(math.Round(v.Num))
		case KindNull, KindAuto, KindInherit:
		default:
			return
		}
	default:
		return
	}
	if p.data.Field(k) == v {
		return
	}
	p.data.SetField(k, v)
	if k.IsTransform() {
		p.transforms.Set(k, v)
	}
	p.changeSet |= changeFor(k)
}

// writeElement writes the dirty fields to el, recomputes TransformData when
// needed and publishes the change. Called by the Batcher.
func (p *Position) writeElement(el Element) {
	st := el.Style()
	cs := p.changeSet
	d := &p.data

	if !p.ortho {
		if cs.Has(ChangeLeft) {
			setPx(st, "left", d.Left)
		}
		if cs.Has(ChangeTop) {
			setPx(st, "top", d.Top)
		}
	}
	if cs.Has(ChangeZIndex) {
		if f, ok := d.ZIndex.Float(); ok {
			st.SetProperty("z-index", formatNumber(f))
		} else {
			st.RemoveProperty("z-index")
		}
	}
	if cs.Has(ChangeWidth) {
		setSize(st, "width", d.Width)
	}
	if cs.Has(ChangeHeight) {
		setSize(st, "height", d.Height)
	}
	if cs.Has(ChangeTransformOrigin) {
		if d.TransformOrigin == OriginNone {
			st.RemoveProperty("transform-origin")
		} else {
			st.SetProperty("transform-origin", d.TransformOrigin.String())
		}
	}
	if p.ortho {
		if cs&(ChangeLeft|ChangeTop|ChangeTransform) != 0 {
			st.SetProperty("transform", p.transforms.CSSOrtho(d))
		}
	} else if cs.Has(ChangeTransform) {
		if p.transforms.IsActive() {
			st.SetProperty("transform", p.transforms.CSS(nil))
		} else {
			st.RemoveProperty("transform")
		}
	}

	if p.calculateTransform || p.transformStore.Subscribers() > 0 {
		p.updateTransform()
	}
	p.updateSubscribers()
}

func setPx(st Style, name string, v Value) {
	if f, ok := v.Float(); ok {
		st.SetProperty(name, formatNumber(f)+"px")
		return
	}
	st.RemoveProperty(name)
}

func setSize(st Style, name string, v Value) {
	switch v.Kind {
	case KindNumber:
		st.SetProperty(name, formatNumber(v.Num)+"px")
	case KindAuto, KindInherit:
		st.SetProperty(name, v.String())
	default:
		st.RemoveProperty(name)
	}
}

func (p *Position) updateTransform() {
	w := p.data.Width.Or(p.styleCache.OffsetWidth())
	h := p.data.Height.Or(p.styleCache.OffsetHeight())
	p.transforms.GetData(&p.data, &p.transformData, w, h)
	p.transformStore.publish(p.transformData)
}

// updateSubscribers publishes the geometry if anything changed since the
// last publish.
func (p *Position) updateSubscribers() {
	cs := p.changeSet
	if !cs.HasChange() {
		return
	}
	p.changeSet = 0
	p.dataStore.force(p.data)
	for k := Key(0); k < numKeys; k++ {
		p.stores[k].publish(p.data.Field(k))
	}
	p.surface.emit(p, cs)
}
