package trellis

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/tanema/gween/ease"
)

// SavedState is a named snapshot of a position's geometry.
type SavedState struct {
	Name  string
	Data  Data
	Extra map[string]any
}

// StateStore saves and restores named geometry snapshots of one Position.
// The geometry of the first update with an attached element is kept as the
// default state used by Reset.
type StateStore struct {
	position *Position
	saved    map[string]SavedState

	def        Data
	hasDefault bool
}

func (s *StateStore) saveDefault(d Data) {
	s.def = d
	s.hasDefault = true
}

func (s *StateStore) removeDefault() {
	s.def = Data{}
	s.hasDefault = false
}

// Default returns the default state, if one has been captured.
func (s *StateStore) Default() (Data, bool) { return s.def, s.hasDefault }

// Save stores the current geometry under name along with extra.
func (s *StateStore) Save(name string, extra map[string]any) (SavedState, error) {
	if name == "" {
		return SavedState{}, fmt.Errorf("%w: state name must not be empty", ErrType)
	}
	st := SavedState{Name: name, Data: s.position.data, Extra: maps.Clone(extra)}
	s.saved[name] = st
	return st, nil
}

// Set stores st under its name.
func (s *StateStore) Set(st SavedState) error {
	if st.Name == "" {
		return fmt.Errorf("%w: state name must not be empty", ErrType)
	}
	s.saved[st.Name] = st
	return nil
}

// Get returns the state saved under name.
func (s *StateStore) Get(name string) (SavedState, bool) {
	st, ok := s.saved[name]
	return st, ok
}

// Remove deletes and returns the state saved under name.
func (s *StateStore) Remove(name string) (SavedState, bool) {
	st, ok := s.saved[name]
	if ok {
		delete(s.saved, name)
	}
	return st, ok
}

// Names returns the saved state names, sorted.
func (s *StateStore) Names() []string {
	return slices.Sorted(maps.Keys(s.saved))
}

// ResetOptions configures StateStore.Reset.
type ResetOptions struct {
	// KeepZIndex keeps the current z-index instead of the default one.
	KeepZIndex bool
	// SkipSet resets the transform state without applying the default
	// geometry on the next frame.
	SkipSet bool
}

// Reset returns the position to its default state: scheduled animations are
// cancelled, transforms are reset, a minimized parent is maximized and the
// default geometry is applied on the next frame. It reports false when no
// default state exists.
func (s *StateStore) Reset(opts ResetOptions) bool {
	if !s.hasDefault {
		return false
	}
	p := s.position
	if p.animate.IsScheduled() {
		p.animate.Cancel()
	}
	d := s.def
	if opts.KeepZIndex {
		d.ZIndex = p.data.ZIndex
	}
	u := d.Update()
	p.transforms.Reset(u)

	if mp, ok := p.parent.(MaximizableParent); ok && mp.Minimized() {
		mp.Maximize()
	}
	if !opts.SkipSet {
		p.surface.frames.RequestFrame(func(time.Time) {
			if err := p.Set(u); err != nil {
				logger().Warn("reset failed", "position", p.id, "err", err)
			}
		})
	}
	return true
}

// RestoreOptions configures StateStore.Restore.
type RestoreOptions struct {
	Name string
	// Remove deletes the saved state after restoring it.
	Remove bool
	// Keys limits the restore to these keys.
	Keys []Key
	// Silent writes the geometry without validation, element writes or
	// notifications.
	Silent bool
	// AnimateTo tweens to the saved geometry.
	AnimateTo bool

	// Duration, Ease and Interpolate configure AnimateTo. Zero values select
	// the configured state defaults.
	Duration    time.Duration
	Ease        ease.TweenFunc
	Interpolate InterpolateFunc
}

// Restore applies the state saved under opts.Name. When the state is
// animated the returned control finishes with the animation; otherwise it
// is already finished. A missing state logs a warning and returns a zero
// SavedState.
func (s *StateStore) Restore(opts RestoreOptions) (SavedState, *Control, error) {
	if opts.Name == "" {
		return SavedState{}, nil, fmt.Errorf("%w: state name must not be empty", ErrType)
	}
	p := s.position
	st, ok := s.saved[opts.Name]
	if !ok {
		logger().Warn("no state saved", "position", p.id, "name", opts.Name)
		return SavedState{}, newVoidControl(), nil
	}
	if opts.Remove {
		delete(s.saved, opts.Name)
	}

	u := st.Data.Update()
	if len(opts.Keys) > 0 {
		sub := make(Update, len(opts.Keys))
		for _, k := range opts.Keys {
			if v, ok := u[k]; ok {
				sub[k] = v
			}
		}
		u = sub
	}

	switch {
	case opts.Silent:
		for k, v := range u {
			p.data.SetField(k, v)
			if k.IsTransform() {
				p.transforms.Set(k, v)
			}
		}
		return st, newVoidControl(), nil

	case opts.AnimateTo:
		if o, ok := u[KeyTransformOrigin]; ok {
			if o != p.data.Field(KeyTransformOrigin) {
				if err := p.Set(Update{KeyTransformOrigin: o}); err != nil {
					return st, nil, err
				}
			}
			delete(u, KeyTransformOrigin)
		}
		cfg := p.surface.cfg
		tweenOpts := []TweenOption{WithDuration(cfg.StateDuration), WithEase(cfg.stateEase())}
		if opts.Duration > 0 {
			tweenOpts = append(tweenOpts, WithDuration(opts.Duration))
		}
		if opts.Ease != nil {
			tweenOpts = append(tweenOpts, WithEase(opts.Ease))
		}
		if opts.Interpolate != nil {
			tweenOpts = append(tweenOpts, WithInterpolate(opts.Interpolate))
		}
		ctl, err := p.animate.To(u, tweenOpts...)
		return st, ctl, err
	}

	if err := p.Set(u); err != nil {
		return st, nil, err
	}
	return st, newVoidControl(), nil
}
