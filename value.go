package trellis

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Key names one geometry field.
type Key uint8

const (
	KeyLeft Key = iota
	KeyTop
	KeyWidth
	KeyHeight
	KeyMinWidth
	KeyMinHeight
	KeyMaxWidth
	KeyMaxHeight
	KeyRotateX
	KeyRotateY
	KeyRotateZ
	KeyScale
	KeyTranslateX
	KeyTranslateY
	KeyTranslateZ
	KeyTransformOrigin
	KeyZIndex

	numKeys
)

var keyNames = [numKeys]string{
	"left", "top", "width", "height",
	"minWidth", "minHeight", "maxWidth", "maxHeight",
	"rotateX", "rotateY", "rotateZ", "scale",
	"translateX", "translateY", "translateZ",
	"transformOrigin", "zIndex",
}

// String returns the camelCase field name ("left", "rotateZ", ...).
func (k Key) String() string {
	if k < numKeys {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", uint8(k))
}

// KeyByName looks a key up by its camelCase field name.
func KeyByName(name string) (Key, bool) {
	for i, n := range keyNames {
		if n == name {
			return Key(i), true
		}
	}
	return 0, false
}

// Keys returns every geometry key in declaration order.
func Keys() []Key {
	keys := make([]Key, numKeys)
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}

// transformKeys is the canonical fallback order used when composing matrices.
var transformKeys = [...]Key{
	KeyRotateX, KeyRotateY, KeyRotateZ, KeyScale,
	KeyTranslateX, KeyTranslateY, KeyTranslateZ,
}

// IsTransform reports whether k is one of the seven transform keys.
func (k Key) IsTransform() bool {
	return k >= KeyRotateX && k <= KeyTranslateZ
}

// IsAnimatable reports whether k can be tweened or given a relative value.
func (k Key) IsAnimatable() bool {
	return k < numKeys && k != KeyTransformOrigin
}

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull     Kind = iota // no value
	KindNumber               // finite number
	KindAuto                 // width/height "auto"
	KindInherit              // width/height "inherit"
	KindRelative             // "+=n", "-=n" or "*=n", resolved before validation
	KindOrigin               // a transform origin
)

// Value is one geometry field: a finite number, null, a sizing keyword, a
// relative adjustment or a transform origin. The zero Value is null.
type Value struct {
	Kind   Kind
	Num    float64
	Op     byte
	Origin Origin
}

// Null returns the null value.
func Null() Value { return Value{} }

// Num returns a number value. Non-finite input yields null so stored data
// never holds NaN or Inf.
func Num(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Value{Kind: KindNumber, Num: v}
}

// Auto returns the "auto" sizing keyword.
func Auto() Value { return Value{Kind: KindAuto} }

// Inherit returns the "inherit" sizing keyword.
func Inherit() Value { return Value{Kind: KindInherit} }

// Rel returns a relative adjustment. op is one of '+', '-' or '*'.
func Rel(op byte, v float64) Value {
	return Value{Kind: KindRelative, Op: op, Num: v}
}

// OriginValue wraps a transform origin. OriginNone yields null.
func OriginValue(o Origin) Value {
	if o == OriginNone {
		return Value{}
	}
	return Value{Kind: KindOrigin, Origin: o}
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsNumber reports whether v holds a finite number.
func (v Value) IsNumber() bool { return v.Kind == KindNumber }

// Float returns the number held by v, if any.
func (v Value) Float() (float64, bool) {
	if v.Kind == KindNumber {
		return v.Num, true
	}
	return 0, false
}

// Or returns the number held by v or def when v is not a number.
func (v Value) Or(def float64) float64 {
	if v.Kind == KindNumber {
		return v.Num
	}
	return def
}

// String renders v the way it would appear in a style sheet or update map.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return formatNumber(v.Num)
	case KindAuto:
		return "auto"
	case KindInherit:
		return "inherit"
	case KindRelative:
		return string(v.Op) + "=" + formatNumber(v.Num)
	case KindOrigin:
		return v.Origin.String()
	default:
		return "null"
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// relativeRx matches "+=10", "-=0.5", "*=2" and friends.
var relativeRx = regexp.MustCompile(`^([-+*])=(-?[0-9]*\.?[0-9]+)$`)

// ParseValue parses the textual form of a field value: a number, "null",
// "auto", "inherit", a relative adjustment or a transform origin name.
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "null":
		return Null(), nil
	case "auto":
		return Auto(), nil
	case "inherit":
		return Inherit(), nil
	}
	if o, ok := ParseOrigin(s); ok {
		return OriginValue(o), nil
	}
	if strings.Contains(s, "=") {
		m := relativeRx.FindStringSubmatch(s)
		if m == nil {
			return Value{}, fmt.Errorf("%w: malformed relative value %q", ErrFormat, s)
		}
		n, err := strconv.ParseFloat(m[2], 64)
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			return Value{}, fmt.Errorf("%w: malformed relative value %q", ErrFormat, s)
		}
		return Rel(m[1][0], n), nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: cannot parse %q", ErrFormat, s)
	}
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return Value{}, fmt.Errorf("%w: %q is not finite", ErrFormat, s)
	}
	return Num(n), nil
}

// resolveRelative applies a relative adjustment to current. Any other kind
// is returned unchanged.
func resolveRelative(v Value, current float64) (Value, error) {
	if v.Kind != KindRelative {
		return v, nil
	}
	if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
		return Value{}, fmt.Errorf("%w: relative operand is not finite", ErrFormat)
	}
	switch v.Op {
	case '+':
		return Num(current + v.Num), nil
	case '-':
		return Num(current - v.Num), nil
	case '*':
		return Num(current * v.Num), nil
	}
	return Value{}, fmt.Errorf("%w: unknown relative operator %q", ErrFormat, v.Op)
}

// Update is a partial geometry update. Absent keys are left untouched;
// present keys with a null Value clear the field where that is allowed.
type Update map[Key]Value

// ParseUpdate converts a loosely typed map (as decoded from JSON or built by
// scripting glue) into an Update. Values may be float64, int, string, nil or
// a Value. Unknown keys are collected into the returned extras map.
func ParseUpdate(in map[string]any) (Update, map[string]any, error) {
	if in == nil {
		return nil, nil, fmt.Errorf("%w: update is not an object", ErrType)
	}
	u := make(Update, len(in))
	var extra map[string]any
	for name, raw := range in {
		k, ok := KeyByName(name)
		if !ok {
			if extra == nil {
				extra = make(map[string]any)
			}
			extra[name] = raw
			continue
		}
		v, err := valueOf(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		u[k] = v
	}
	return u, extra, nil
}

func valueOf(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case float64:
		return numOrErr(t)
	case float32:
		return numOrErr(float64(t))
	case int:
		return Num(float64(t)), nil
	case int64:
		return Num(float64(t)), nil
	case string:
		return ParseValue(t)
	case Origin:
		return OriginValue(t), nil
	}
	return Value{}, fmt.Errorf("%w: unsupported value type %T", ErrType, raw)
}

func numOrErr(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("%w: %v is not finite", ErrFormat, f)
	}
	return Num(f), nil
}

// Origin is one of the nine named transform origins.
type Origin uint8

const (
	OriginNone Origin = iota // null; matrix math treats it as center
	OriginTopLeft
	OriginTopCenter
	OriginTopRight
	OriginCenterLeft
	OriginCenter
	OriginCenterRight
	OriginBottomLeft
	OriginBottomCenter
	OriginBottomRight
)

var originNames = [...]string{
	"", "top left", "top center", "top right",
	"center left", "center", "center right",
	"bottom left", "bottom center", "bottom right",
}

// String returns the CSS spelling of the origin, or "" for OriginNone.
func (o Origin) String() string {
	if int(o) < len(originNames) {
		return originNames[o]
	}
	return ""
}

// ParseOrigin looks an origin up by its CSS spelling.
func ParseOrigin(s string) (Origin, bool) {
	for i := 1; i < len(originNames); i++ {
		if originNames[i] == s {
			return Origin(i), true
		}
	}
	return OriginNone, false
}
