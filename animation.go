package trellis

import (
	"fmt"
	"time"

	"github.com/tanema/gween/ease"
)

// AnimationControl is a handle on one or more scheduled tweens.
type AnimationControl interface {
	// Done is closed when the tweens finish or are cancelled.
	Done() <-chan struct{}
	// Cancelled reports whether the tweens ended by cancellation. Only
	// meaningful once Done is closed.
	Cancelled() bool
	IsActive() bool
	IsFinished() bool
	Cancel()
}

// Control is the handle of a single tween.
type Control struct {
	t         *task
	done      chan struct{}
	finished  bool
	cancelled bool
	onFinish  []func()
}

func newVoidControl() *Control {
	return &Control{finished: true}
}

// Done returns a channel closed when the tween ends. The channel is created
// on first use.
func (c *Control) Done() <-chan struct{} {
	if c.done == nil {
		c.done = make(chan struct{})
		if c.finished {
			close(c.done)
		}
	}
	return c.done
}

// Cancelled reports whether the tween was cancelled or lost its element.
func (c *Control) Cancelled() bool { return c.cancelled }

// IsActive reports whether the tween is running (its delay has elapsed).
func (c *Control) IsActive() bool {
	return c.t != nil && !c.finished && c.t.active
}

// IsFinished reports whether the tween has ended.
func (c *Control) IsFinished() bool { return c.finished }

// Cancel stops the tween on the next scheduler tick.
func (c *Control) Cancel() {
	if c.t != nil && !c.finished {
		c.t.cancelled = true
	}
}

func (c *Control) resolve(cancelled bool) {
	if c.finished {
		return
	}
	c.finished = true
	c.cancelled = cancelled
	if c.done != nil {
		close(c.done)
	}
	fns := c.onFinish
	c.onFinish = nil
	for _, fn := range fns {
		fn()
	}
}

// whenDone runs fn once the tween ends, or immediately if it already has.
func (c *Control) whenDone(fn func()) {
	if c.finished {
		fn()
		return
	}
	c.onFinish = append(c.onFinish, fn)
}

// TweenOption configures a tween.
type TweenOption func(*tweenConfig)

type tweenConfig struct {
	delay       time.Duration
	duration    time.Duration
	ease        ease.TweenFunc
	interpolate InterpolateFunc
	err         error
}

// WithDelay postpones the start of the tween.
func WithDelay(d time.Duration) TweenOption {
	return func(c *tweenConfig) { c.delay = d }
}

// WithDuration sets the tween duration.
func WithDuration(d time.Duration) TweenOption {
	return func(c *tweenConfig) { c.duration = d }
}

// WithEase sets the easing function.
func WithEase(fn ease.TweenFunc) TweenOption {
	return func(c *tweenConfig) { c.ease = fn }
}

// WithEaseName sets the easing function by registry name.
func WithEaseName(name string) TweenOption {
	return func(c *tweenConfig) {
		fn, ok := EasingByName(name)
		if !ok {
			c.err = fmt.Errorf("%w: unknown easing %q", ErrType, name)
			return
		}
		c.ease = fn
	}
}

// WithInterpolate sets the interpolation function.
func WithInterpolate(fn InterpolateFunc) TweenOption {
	return func(c *tweenConfig) { c.interpolate = fn }
}

// Animator schedules tweens for one Position.
type Animator struct {
	position  *Position
	instances int
}

func (a *Animator) scheduler() *Scheduler { return a.position.surface.scheduler }

func (a *Animator) config(def time.Duration, opts []TweenOption) (tweenConfig, error) {
	cfg := tweenConfig{
		duration:    def,
		ease:        a.position.surface.cfg.ease(),
		interpolate: Lerp,
	}
	for _, o := range opts {
		o(&cfg)
	}
	switch {
	case cfg.err != nil:
		return cfg, cfg.err
	case cfg.delay < 0:
		return cfg, fmt.Errorf("%w: negative delay %v", ErrType, cfg.delay)
	case cfg.duration < 0:
		return cfg, fmt.Errorf("%w: negative duration %v", ErrType, cfg.duration)
	case cfg.ease == nil:
		return cfg, fmt.Errorf("%w: nil ease function", ErrType)
	case cfg.interpolate == nil:
		return cfg, fmt.Errorf("%w: nil interpolate function", ErrType)
	}
	return cfg, nil
}

// IsScheduled reports whether any tween of the position is outstanding.
func (a *Animator) IsScheduled() bool { return a.instances > 0 }

// Cancel cancels every tween of the position on the next tick.
func (a *Animator) Cancel() { a.scheduler().Cancel(a.position) }

// Scheduled returns the controls of the position's outstanding tweens.
func (a *Animator) Scheduled() []*Control { return a.scheduler().Scheduled(a.position) }

// To tweens from the current geometry to dest. Keys already at their
// destination are skipped. Relative values resolve against the current
// geometry.
func (a *Animator) To(dest Update, opts ...TweenOption) (*Control, error) {
	p := a.position
	if !p.positionable() {
		return newVoidControl(), nil
	}
	cfg, err := a.config(p.surface.cfg.Duration, opts)
	if err != nil {
		return nil, err
	}
	initial, destination := Update{}, Update{}
	for k, v := range dest {
		if k >= numKeys {
			continue
		}
		if cur := p.data.Field(k); v != cur {
			destination[k] = v
			initial[k] = cur
		}
	}
	if destination, err = resolveUpdate(destination, &p.data); err != nil {
		return nil, err
	}
	return a.add(initial, destination, cfg), nil
}

// From tweens from src to the current geometry.
func (a *Animator) From(src Update, opts ...TweenOption) (*Control, error) {
	p := a.position
	if !p.positionable() {
		return newVoidControl(), nil
	}
	cfg, err := a.config(p.surface.cfg.Duration, opts)
	if err != nil {
		return nil, err
	}
	initial, destination := Update{}, Update{}
	for k, v := range src {
		if k >= numKeys {
			continue
		}
		if cur := p.data.Field(k); v != cur {
			initial[k] = v
			destination[k] = cur
		}
	}
	if initial, err = resolveUpdate(initial, &p.data); err != nil {
		return nil, err
	}
	return a.add(initial, destination, cfg), nil
}

// FromTo tweens from src to dest. Keys of src missing from dest are skipped
// with a warning.
func (a *Animator) FromTo(src, dest Update, opts ...TweenOption) (*Control, error) {
	p := a.position
	if !p.positionable() {
		return newVoidControl(), nil
	}
	cfg, err := a.config(p.surface.cfg.Duration, opts)
	if err != nil {
		return nil, err
	}
	initial, destination := Update{}, Update{}
	for k, v := range src {
		if k >= numKeys {
			continue
		}
		dv, ok := dest[k]
		if !ok {
			logger().Warn("fromTo key has no destination", "position", p.id, "key", k)
			continue
		}
		initial[k] = v
		destination[k] = dv
	}
	if initial, err = resolveUpdate(initial, &p.data); err != nil {
		return nil, err
	}
	if destination, err = resolveUpdate(destination, &p.data); err != nil {
		return nil, err
	}
	return a.add(initial, destination, cfg), nil
}

// add schedules a tween over every key whose initial and destination values
// are both numbers. With nothing to animate it returns a finished control.
func (a *Animator) add(initial, destination Update, cfg tweenConfig) *Control {
	setTransformDefaults(initial)
	setTransformDefaults(destination)

	t := &task{
		position:    a.position,
		el:          a.position.elementTarget(),
		delay:       cfg.delay,
		prog:        newProgress(cfg.duration, cfg.ease),
		interpolate: cfg.interpolate,
		cleanup:     a.cleanup,
	}
	for k := Key(0); k < numKeys; k++ {
		iv, ok := initial[k].Float()
		if !ok {
			continue
		}
		dv, ok := destination[k].Float()
		if !ok {
			continue
		}
		t.keys = append(t.keys, k)
		t.initial = append(t.initial, iv)
		t.dest = append(t.dest, dv)
	}
	if len(t.keys) == 0 {
		return newVoidControl()
	}
	t.out = make(Update, len(t.keys))
	t.control = &Control{t: t}

	a.instances++
	a.scheduler().add(t)
	return t.control
}

func (a *Animator) cleanup(t *task, cancelled bool) {
	a.instances--
	if t.control != nil {
		t.control.resolve(cancelled)
	}
}

// QuickTo is a reusable tween toward a moving destination, for pointer
// driven motion. Each call retargets the tween from the current geometry;
// a running tween is rebased to the last tick instead of restarting.
type QuickTo struct {
	a    *Animator
	t    *task
	keys []Key
	noop bool
}

// QuickTo returns a QuickTo over keys. Every key must be animatable.
func (a *Animator) QuickTo(keys []Key, opts ...TweenOption) (*QuickTo, error) {
	p := a.position
	if !p.positionable() {
		return &QuickTo{a: a, noop: true}, nil
	}
	cfg, err := a.config(p.surface.cfg.QuickDuration, opts)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if !k.IsAnimatable() {
			return nil, fmt.Errorf("%w: key %s is not animatable", ErrType, k)
		}
	}

	t := &task{
		position:    p,
		quick:       true,
		finished:    true,
		prog:        newProgress(cfg.duration, cfg.ease),
		interpolate: cfg.interpolate,
		cleanup:     a.cleanup,
	}
	for _, k := range keys {
		v, ok := currentOrDefault(&p.data, k)
		if !ok {
			continue
		}
		t.keys = append(t.keys, k)
		t.initial = append(t.initial, v)
		t.dest = append(t.dest, v)
	}
	t.out = make(Update, len(t.keys))
	return &QuickTo{a: a, t: t, keys: append([]Key(nil), keys...)}, nil
}

// currentOrDefault returns the numeric value of k or its numeric default.
func currentOrDefault(d *Data, k Key) (float64, bool) {
	if v, ok := d.Field(k).Float(); ok {
		return v, true
	}
	if k.IsTransform() {
		return numericDefault(k)
	}
	return 0, false
}

// Keys returns the keys the QuickTo was created with.
func (q *QuickTo) Keys() []Key { return append([]Key(nil), q.keys...) }

// To retargets the tween. values are matched to Keys by position; extra
// values are ignored.
func (q *QuickTo) To(values ...float64) {
	if q.noop || len(values) == 0 {
		return
	}
	q.resetInitial()
	for i, v := range values {
		if i >= len(q.keys) {
			break
		}
		q.setDest(q.keys[i], v)
	}
	q.schedule()
}

// ToUpdate retargets the tween from an update. Relative values resolve
// against the current geometry; keys outside the QuickTo are ignored.
func (q *QuickTo) ToUpdate(u Update) error {
	if q.noop || len(u) == 0 {
		return nil
	}
	p := q.a.position
	u, err := resolveUpdate(u, &p.data)
	if err != nil {
		return err
	}
	q.resetInitial()
	for k, v := range u {
		f, ok := v.Float()
		if !ok && k.IsTransform() && v.IsNull() {
			f, ok = numericDefault(k)
		}
		if ok {
			q.setDest(k, f)
		}
	}
	q.schedule()
	return nil
}

// SetOptions changes the duration, ease or interpolation. Delay is ignored.
func (q *QuickTo) SetOptions(opts ...TweenOption) error {
	if q.noop {
		return nil
	}
	cfg := tweenConfig{duration: q.t.prog.dur, ease: q.t.prog.fn, interpolate: q.t.interpolate}
	for _, o := range opts {
		o(&cfg)
	}
	switch {
	case cfg.err != nil:
		return cfg.err
	case cfg.duration < 0:
		return fmt.Errorf("%w: negative duration %v", ErrType, cfg.duration)
	case cfg.ease == nil:
		return fmt.Errorf("%w: nil ease function", ErrType)
	case cfg.interpolate == nil:
		return fmt.Errorf("%w: nil interpolate function", ErrType)
	}
	q.t.prog = newProgress(cfg.duration, cfg.ease)
	q.t.interpolate = cfg.interpolate
	return nil
}

func (q *QuickTo) resetInitial() {
	d := &q.a.position.data
	for i, k := range q.t.keys {
		if v, ok := currentOrDefault(d, k); ok {
			q.t.initial[i] = v
		}
	}
}

func (q *QuickTo) setDest(k Key, v float64) {
	for i, tk := range q.t.keys {
		if tk == k {
			q.t.dest[i] = v
			return
		}
	}
}

func (q *QuickTo) schedule() {
	t := q.t
	if len(t.keys) == 0 {
		return
	}
	t.el = q.a.position.elementTarget()
	if t.finished {
		t.cancelled = false
		t.finished = false
		q.a.instances++
		q.a.scheduler().add(t)
		return
	}
	q.a.scheduler().rebase(t)
}
