package trellis

import (
	"fmt"
	"reflect"
)

// ValidationContext is the per-call input of a Validator. Position is the
// proposed geometry; validators adjust it in place and return it, or return
// nil to veto the update.
type ValidationContext struct {
	Position *Data
	Element  Element
	Parent   Parent

	// Width and Height are the proposed size resolved to numbers.
	Width, Height float64

	MarginLeft, MarginTop float64
	MinWidth, MinHeight   float64
	MaxWidth, MaxHeight   Value

	// Viewport is the size of the hosting surface.
	Viewport Vec2

	Transforms *TransformState

	// Rest holds caller supplied keys that are not geometry fields.
	Rest map[string]any
}

// Validator accepts or adjusts proposed geometry.
type Validator interface {
	Validate(ctx *ValidationContext) *Data
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(ctx *ValidationContext) *Data

// Validate implements Validator.
func (f ValidatorFunc) Validate(ctx *ValidationContext) *Data { return f(ctx) }

// Observable is implemented by validators whose configuration can change.
// The chain subscribes when the validator is added so the owning Position
// can re-validate.
type Observable interface {
	Subscribe(fn func()) Unsubscribe
}

// DefaultWeight is the weight Add gives its validators.
const DefaultWeight = 1.0

// ValidatorEntry is one validator in a chain. Weight orders the chain
// ascending and must be in [0, 1].
type ValidatorEntry struct {
	ID        string
	Validator Validator
	Weight    float64
}

type validatorSub struct {
	target Validator
	unsub  Unsubscribe
}

// Validators is an ordered, weighted chain of validators.
type Validators struct {
	entries  []ValidatorEntry
	subs     []validatorSub
	enabled  bool
	onChange func()
}

func newValidators(onChange func()) *Validators {
	return &Validators{enabled: true, onChange: onChange}
}

// Enabled reports whether the chain runs. A disabled chain neither adjusts
// nor vetoes.
func (v *Validators) Enabled() bool { return v.enabled }

// SetEnabled toggles the chain.
func (v *Validators) SetEnabled(enabled bool) { v.enabled = enabled }

// Len returns the number of entries.
func (v *Validators) Len() int { return len(v.entries) }

// Add appends validators with the default weight.
func (v *Validators) Add(vs ...Validator) error {
	entries := make([]ValidatorEntry, len(vs))
	for i, val := range vs {
		entries[i] = ValidatorEntry{Validator: val, Weight: DefaultWeight}
	}
	return v.AddEntries(entries...)
}

// AddEntries inserts each entry before the first existing entry with a
// greater weight, keeping insertion order among equal weights. Entries are
// checked before any is inserted, so an error leaves the chain unchanged.
func (v *Validators) AddEntries(entries ...ValidatorEntry) error {
	for i, e := range entries {
		if e.Validator == nil {
			return fmt.Errorf("%w: validator entry %q has no validator", ErrType, e.ID)
		}
		if e.Weight < 0 || e.Weight > 1 {
			return fmt.Errorf("%w: validator weight %v is outside [0, 1]", ErrType, e.Weight)
		}
		if _, ok := e.Validator.(Observable); !ok {
			continue
		}
		for _, s := range v.subs {
			if sameValidator(s.target, e.Validator) {
				return ErrDuplicateSubscription
			}
		}
		for _, prev := range entries[:i] {
			if sameValidator(prev.Validator, e.Validator) {
				return ErrDuplicateSubscription
			}
		}
	}

	for _, e := range entries {
		if obs, ok := e.Validator.(Observable); ok {
			unsub := obs.Subscribe(v.changed)
			v.subs = append(v.subs, validatorSub{target: e.Validator, unsub: unsub})
		}

		i := len(v.entries)
		for j, existing := range v.entries {
			if existing.Weight > e.Weight {
				i = j
				break
			}
		}
		v.entries = append(v.entries, ValidatorEntry{})
		copy(v.entries[i+1:], v.entries[i:])
		v.entries[i] = e
	}
	return nil
}

func (v *Validators) changed() {
	if v.onChange != nil {
		v.onChange()
	}
}

// Clear removes every entry and drops every subscription.
func (v *Validators) Clear() {
	for _, s := range v.subs {
		s.unsub()
	}
	v.subs = nil
	v.entries = v.entries[:0]
}

// Remove removes entries holding any of vs.
func (v *Validators) Remove(vs ...Validator) {
	v.RemoveBy(func(e ValidatorEntry) bool {
		for _, val := range vs {
			if sameValidator(e.Validator, val) {
				return true
			}
		}
		return false
	})
}

// RemoveByID removes entries whose ID matches any of ids.
func (v *Validators) RemoveByID(ids ...string) {
	v.RemoveBy(func(e ValidatorEntry) bool {
		for _, id := range ids {
			if e.ID == id {
				return true
			}
		}
		return false
	})
}

// RemoveBy removes entries for which pred returns true, ending their
// subscriptions.
func (v *Validators) RemoveBy(pred func(ValidatorEntry) bool) {
	n := 0
	for _, e := range v.entries {
		if pred(e) {
			v.unsubscribe(e.Validator)
			continue
		}
		v.entries[n] = e
		n++
	}
	clear(v.entries[n:])
	v.entries = v.entries[:n]
}

func (v *Validators) unsubscribe(val Validator) {
	for i, s := range v.subs {
		if sameValidator(s.target, val) {
			s.unsub()
			v.subs = append(v.subs[:i], v.subs[i+1:]...)
			return
		}
	}
}

// Entries returns a copy of the chain in run order.
func (v *Validators) Entries() []ValidatorEntry {
	out := make([]ValidatorEntry, len(v.entries))
	copy(out, v.entries)
	return out
}

// run threads ctx through every validator in order. A nil result from any
// validator vetoes the update.
func (v *Validators) run(ctx *ValidationContext) *Data {
	d := ctx.Position
	for _, e := range v.entries {
		d = e.Validator.Validate(ctx)
		if d == nil {
			return nil
		}
		ctx.Position = d
	}
	return d
}

// sameValidator compares validators by identity. Functions compare by code
// pointer since Go funcs are not comparable.
func sameValidator(a, b Validator) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	if va.Type().Comparable() {
		return a == b
	}
	return false
}
