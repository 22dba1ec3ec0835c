package trellis

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

const numTransformKeys = int(KeyTranslateZ-KeyRotateX) + 1

func transformIndex(k Key) int { return int(k - KeyRotateX) }

// TransformState tracks the locally active transform keys of one Position in
// the order they became active, and composes 4x4 matrices from them.
//
// A key is in the order list iff its value is finite. Assigning a new finite
// value to a key that is already active keeps its place in the order.
type TransformState struct {
	owner  *Data
	values [numTransformKeys]Value
	order  []Key
}

// NewTransformState returns an empty transform state. owner is the geometry
// record the state mirrors; matrices built from any other record also apply
// that record's remaining transform keys.
func NewTransformState(owner *Data) *TransformState {
	return &TransformState{owner: owner, order: make([]Key, 0, numTransformKeys)}
}

// Get returns the local value of transform key k.
func (t *TransformState) Get(k Key) Value {
	if !k.IsTransform() {
		return Null()
	}
	return t.values[transformIndex(k)]
}

// Set assigns transform key k. A finite value activates the key (appending it
// to the order if it was inactive); anything else deactivates it.
func (t *TransformState) Set(k Key, v Value) {
	if !k.IsTransform() {
		return
	}
	i := transformIndex(k)
	if v.IsNumber() {
		if !t.values[i].IsNumber() {
			t.order = append(t.order, k)
		}
		t.values[i] = v
		return
	}
	if t.values[i].IsNumber() {
		t.removeOrder(k)
	}
	t.values[i] = Null()
}

func (t *TransformState) removeOrder(k Key) {
	for i, o := range t.order {
		if o == k {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}

// Reset applies every transform key present in u: finite values are kept,
// everything else is removed.
func (t *TransformState) Reset(u Update) {
	for _, k := range transformKeys {
		if v, ok := u[k]; ok {
			t.Set(k, v)
		}
	}
}

// IsActive reports whether any transform key is active.
func (t *TransformState) IsActive() bool { return len(t.order) > 0 }

// Order returns a copy of the active keys in composition order.
func (t *TransformState) Order() []Key {
	out := make([]Key, len(t.order))
	copy(out, t.order)
	return out
}

// IsActiveKey reports whether k is currently in the order list.
func (t *TransformState) IsActiveKey(k Key) bool {
	return k.IsTransform() && t.values[transformIndex(k)].IsNumber()
}

func (t *TransformState) external(d *Data) bool {
	return d != nil && d != t.owner
}

func (t *TransformState) valueFor(d *Data, k Key) Value {
	if t.external(d) {
		return d.Field(k)
	}
	return t.values[transformIndex(k)]
}

func keyMatrix(k Key, v float64) mgl64.Mat4 {
	switch k {
	case KeyRotateX:
		return mgl64.HomogRotate3DX(mgl64.DegToRad(v))
	case KeyRotateY:
		return mgl64.HomogRotate3DY(mgl64.DegToRad(v))
	case KeyRotateZ:
		return mgl64.HomogRotate3DZ(mgl64.DegToRad(v))
	case KeyScale:
		return mgl64.Scale3D(v, v, 1)
	case KeyTranslateX:
		return mgl64.Translate3D(v, 0, 0)
	case KeyTranslateY:
		return mgl64.Translate3D(0, v, 0)
	case KeyTranslateZ:
		return mgl64.Translate3D(0, 0, v)
	}
	return mgl64.Ident4()
}

// GetMat4 composes the transform matrix. Keys are applied in local order. When
// d is a record other than the owner, values are read from d and any finite
// transform key of d that the local order did not cover is applied afterward
// in canonical order (rotateX, rotateY, rotateZ, scale, translateX,
// translateY, translateZ). A nil d uses the local values.
func (t *TransformState) GetMat4(d *Data) mgl64.Mat4 {
	m := mgl64.Ident4()
	var seen [numTransformKeys]bool
	for _, k := range t.order {
		seen[transformIndex(k)] = true
		v, ok := t.valueFor(d, k).Float()
		if !ok {
			continue
		}
		m = m.Mul4(keyMatrix(k, v))
	}
	if t.external(d) {
		for _, k := range transformKeys {
			if seen[transformIndex(k)] {
				continue
			}
			if v, ok := d.Field(k).Float(); ok {
				m = m.Mul4(keyMatrix(k, v))
			}
		}
	}
	return m
}

// GetMat4Ortho composes the orthographic matrix: left/top folded into the
// translation, then scale, then rotations in local order. d must not be nil
// since left and top are read from it.
func (t *TransformState) GetMat4Ortho(d *Data) mgl64.Mat4 {
	if d == nil {
		d = t.owner
	}
	if d == nil {
		return mgl64.Ident4()
	}
	m := mgl64.Translate3D(
		d.Left.Or(0)+t.valueFor(d, KeyTranslateX).Or(0),
		d.Top.Or(0)+t.valueFor(d, KeyTranslateY).Or(0),
		t.valueFor(d, KeyTranslateZ).Or(0),
	)
	if s, ok := t.valueFor(d, KeyScale).Float(); ok {
		m = m.Mul4(mgl64.Scale3D(s, s, 1))
	}
	var seen [3]bool
	for _, k := range t.order {
		if k > KeyRotateZ {
			continue
		}
		seen[transformIndex(k)] = true
		if v, ok := t.valueFor(d, k).Float(); ok {
			m = m.Mul4(keyMatrix(k, v))
		}
	}
	if t.external(d) {
		for _, k := range [...]Key{KeyRotateX, KeyRotateY, KeyRotateZ} {
			if seen[transformIndex(k)] {
				continue
			}
			if v, ok := d.Field(k).Float(); ok {
				m = m.Mul4(keyMatrix(k, v))
			}
		}
	}
	return m
}

// CSS returns the transform as a CSS matrix3d string.
func (t *TransformState) CSS(d *Data) string {
	return matrixCSS(t.GetMat4(d))
}

// CSSOrtho returns the orthographic transform as a CSS matrix3d string.
func (t *TransformState) CSSOrtho(d *Data) string {
	return matrixCSS(t.GetMat4Ortho(d))
}

func matrixCSS(m mgl64.Mat4) string {
	var b strings.Builder
	b.Grow(160)
	b.WriteString("matrix3d(")
	for i, v := range m {
		if i > 0 {
			b.WriteByte(',')
		}
		if math.Abs(v) < 1e-12 {
			v = 0
		}
		b.WriteString(formatNumber(v))
	}
	b.WriteByte(')')
	return b.String()
}

// TransformData is the projected footprint of a transformed element.
type TransformData struct {
	// BoundingRect is the axis-aligned bounds of the projected corners.
	BoundingRect Rect
	// Corners are the projected box corners: top-left, top-right,
	// bottom-right, bottom-left.
	Corners [4]mgl64.Vec3
	// Mat4 is the full matrix including origin translation.
	Mat4 mgl64.Mat4
	// OriginTranslations are the pre and post origin translations.
	OriginTranslations [2]mgl64.Mat4
	// Transform is the CSS transform string for Mat4.
	Transform string
}

// originTranslations returns the translations moving the transform origin to
// (0, 0) and back again. OriginNone behaves as center.
func originTranslations(o Origin, w, h float64) (pre, post mgl64.Mat4) {
	var x, y float64
	switch o {
	case OriginTopLeft:
	case OriginTopCenter:
		x = w * 0.5
	case OriginTopRight:
		x = w
	case OriginCenterLeft:
		y = h * 0.5
	case OriginNone, OriginCenter:
		x, y = w*0.5, h*0.5
	case OriginCenterRight:
		x, y = w, h*0.5
	case OriginBottomLeft:
		y = h
	case OriginBottomCenter:
		x, y = w*0.5, h
	case OriginBottomRight:
		x, y = w, h
	}
	return mgl64.Translate3D(-x, -y, 0), mgl64.Translate3D(x, y, 0)
}

// HasTransform reports whether d holds any finite transform value.
func HasTransform(d *Data) bool {
	for _, k := range transformKeys {
		if d.Field(k).IsNumber() {
			return true
		}
	}
	return false
}

// GetData projects the box (0,0)-(w,h) of d through its transform and the
// transform origin, offsets it by d's left/top and stores the corners and
// their bounding rectangle in out. width and height override d's size when
// finite. If out is nil a new TransformData is allocated.
func (t *TransformState) GetData(d *Data, out *TransformData, width, height float64) *TransformData {
	if out == nil {
		out = &TransformData{}
	}
	if d == nil {
		d = t.owner
	}
	if d == nil {
		*out = TransformData{Mat4: mgl64.Ident4()}
		return out
	}
	if math.IsNaN(width) || math.IsInf(width, 0) {
		width = d.Width.Or(0)
	}
	if math.IsNaN(height) || math.IsInf(height, 0) {
		height = d.Height.Or(0)
	}

	corners := [4]mgl64.Vec4{
		{0, 0, 0, 1},
		{width, 0, 0, 1},
		{width, height, 0, 1},
		{0, height, 0, 1},
	}

	var active bool
	if t.external(d) {
		active = HasTransform(d)
	} else {
		active = t.IsActive()
	}
	if active {
		pre, post := originTranslations(d.TransformOrigin, width, height)
		m := post.Mul4(t.GetMat4(d)).Mul4(pre)
		out.Mat4 = m
		out.OriginTranslations = [2]mgl64.Mat4{pre, post}
		for i := range corners {
			corners[i] = m.Mul4x1(corners[i])
		}
	} else {
		out.Mat4 = mgl64.Ident4()
		out.OriginTranslations = [2]mgl64.Mat4{mgl64.Ident4(), mgl64.Ident4()}
	}

	left, top := d.Left.Or(0), d.Top.Or(0)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, c := range corners {
		x, y := c.X()+left, c.Y()+top
		out.Corners[i] = mgl64.Vec3{x, y, c.Z()}
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	out.BoundingRect = Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	out.Transform = matrixCSS(out.Mat4)
	return out
}
