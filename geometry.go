package trellis

// Data is the full geometry record of one positioned element. Every numeric
// field is either a finite number or null; Width and Height may also hold
// the auto or inherit keywords.
type Data struct {
	Left, Top     Value
	Width, Height Value

	MinWidth, MinHeight Value
	MaxWidth, MaxHeight Value

	RotateX, RotateY, RotateZ Value
	Scale                     Value

	TranslateX, TranslateY, TranslateZ Value

	TransformOrigin Origin
	ZIndex          Value
}

// NewData returns geometry with every field null and the transform origin
// set to origin.
func NewData(origin Origin) Data {
	return Data{TransformOrigin: origin}
}

// Field returns the value stored under k.
func (d *Data) Field(k Key) Value {
	switch k {
	case KeyLeft:
		return d.Left
	case KeyTop:
		return d.Top
	case KeyWidth:
		return d.Width
	case KeyHeight:
		return d.Height
	case KeyMinWidth:
		return d.MinWidth
	case KeyMinHeight:
		return d.MinHeight
	case KeyMaxWidth:
		return d.MaxWidth
	case KeyMaxHeight:
		return d.MaxHeight
	case KeyRotateX:
		return d.RotateX
	case KeyRotateY:
		return d.RotateY
	case KeyRotateZ:
		return d.RotateZ
	case KeyScale:
		return d.Scale
	case KeyTranslateX:
		return d.TranslateX
	case KeyTranslateY:
		return d.TranslateY
	case KeyTranslateZ:
		return d.TranslateZ
	case KeyTransformOrigin:
		return OriginValue(d.TransformOrigin)
	case KeyZIndex:
		return d.ZIndex
	}
	return Value{}
}

// SetField stores v under k without any validation.
func (d *Data) SetField(k Key, v Value) {
	switch k {
	case KeyLeft:
		d.Left = v
	case KeyTop:
		d.Top = v
	case KeyWidth:
		d.Width = v
	case KeyHeight:
		d.Height = v
	case KeyMinWidth:
		d.MinWidth = v
	case KeyMinHeight:
		d.MinHeight = v
	case KeyMaxWidth:
		d.MaxWidth = v
	case KeyMaxHeight:
		d.MaxHeight = v
	case KeyRotateX:
		d.RotateX = v
	case KeyRotateY:
		d.RotateY = v
	case KeyRotateZ:
		d.RotateZ = v
	case KeyScale:
		d.Scale = v
	case KeyTranslateX:
		d.TranslateX = v
	case KeyTranslateY:
		d.TranslateY = v
	case KeyTranslateZ:
		d.TranslateZ = v
	case KeyTransformOrigin:
		if v.Kind == KindOrigin {
			d.TransformOrigin = v.Origin
		} else {
			d.TransformOrigin = OriginNone
		}
	case KeyZIndex:
		d.ZIndex = v
	}
}

// Update returns the geometry as an Update holding every key.
func (d *Data) Update() Update {
	u := make(Update, numKeys)
	for k := Key(0); k < numKeys; k++ {
		u[k] = d.Field(k)
	}
	return u
}

// Apply writes every key present in u into d without validation.
func (d *Data) Apply(u Update) {
	for k, v := range u {
		d.SetField(k, v)
	}
}

// numericDefault is the value substituted for null when a caller asks for
// purely numeric geometry. ok is false for keys that stay null.
func numericDefault(k Key) (v float64, ok bool) {
	switch k {
	case KeyLeft, KeyTop, KeyWidth, KeyHeight,
		KeyRotateX, KeyRotateY, KeyRotateZ,
		KeyTranslateX, KeyTranslateY, KeyTranslateZ:
		return 0, true
	case KeyScale:
		return 1, true
	}
	return 0, false
}

// setTransformDefaults replaces null transform values in u with their
// numeric defaults, since null cannot be interpolated.
func setTransformDefaults(u Update) {
	for _, k := range transformKeys {
		if v, ok := u[k]; ok && v.IsNull() {
			def, _ := numericDefault(k)
			u[k] = Num(def)
		}
	}
}

// ChangeSet is a per-field dirty mask accumulated between element writes.
type ChangeSet uint16

const (
	ChangeLeft ChangeSet = 1 << iota
	ChangeTop
	ChangeWidth
	ChangeHeight
	ChangeMaxHeight
	ChangeMaxWidth
	ChangeMinHeight
	ChangeMinWidth
	ChangeZIndex
	ChangeTransform
	ChangeTransformOrigin

	ChangeAll = ChangeLeft | ChangeTop | ChangeWidth | ChangeHeight |
		ChangeMaxHeight | ChangeMaxWidth | ChangeMinHeight | ChangeMinWidth |
		ChangeZIndex | ChangeTransform | ChangeTransformOrigin
)

// Has reports whether every bit in c is set.
func (s ChangeSet) Has(c ChangeSet) bool { return s&c == c }

// HasChange reports whether any field is dirty.
func (s ChangeSet) HasChange() bool { return s != 0 }

// changeFor maps a key to the dirty bit it raises.
func changeFor(k Key) ChangeSet {
	switch k {
	case KeyLeft:
		return ChangeLeft
	case KeyTop:
		return ChangeTop
	case KeyWidth:
		return ChangeWidth
	case KeyHeight:
		return ChangeHeight
	case KeyMinWidth:
		return ChangeMinWidth
	case KeyMinHeight:
		return ChangeMinHeight
	case KeyMaxWidth:
		return ChangeMaxWidth
	case KeyMaxHeight:
		return ChangeMaxHeight
	case KeyZIndex:
		return ChangeZIndex
	case KeyTransformOrigin:
		return ChangeTransformOrigin
	}
	if k.IsTransform() {
		return ChangeTransform
	}
	return 0
}
