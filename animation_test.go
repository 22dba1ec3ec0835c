package trellis

import (
	"errors"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

func linear100() []TweenOption {
	return []TweenOption{WithDuration(100 * time.Millisecond), WithEase(ease.Linear)}
}

func TestAnimateTo(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t, WithData(Update{KeyLeft: Num(0), KeyTop: Num(0)}))

	ctl, err := p.Animate().To(Update{KeyLeft: Num(100), KeyTop: Num(0)}, linear100()...)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Animate().IsScheduled() || len(p.Animate().Scheduled()) != 1 {
		t.Fatal("tween not scheduled")
	}

	ts.step(50 * time.Millisecond)
	assertNum(t, "left", p.Field(KeyLeft), 50)
	if !ctl.IsActive() || ctl.IsFinished() {
		t.Error("control should be active")
	}

	ts.step(50 * time.Millisecond)
	assertNum(t, "left", p.Field(KeyLeft), 100)
	if !ctl.IsFinished() || ctl.Cancelled() || !isClosed(ctl.Done()) {
		t.Error("control should be finished")
	}
	if p.Animate().IsScheduled() {
		t.Error("finished tween still scheduled")
	}
}

func TestAnimateFrom(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t, WithData(Update{KeyLeft: Num(100)}))

	if _, err := p.Animate().From(Update{KeyLeft: Num(0)}, linear100()...); err != nil {
		t.Fatal(err)
	}
	ts.step(0)
	assertNum(t, "start", p.Field(KeyLeft), 0)
	ts.step(25 * time.Millisecond)
	assertNum(t, "quarter", p.Field(KeyLeft), 25)
	ts.step(75 * time.Millisecond)
	assertNum(t, "end", p.Field(KeyLeft), 100)
}

func TestAnimateFromTo(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t, WithData(Update{KeyLeft: Num(7), KeyTop: Num(7)}))

	_, err := p.Animate().FromTo(
		Update{KeyLeft: Num(0), KeyTop: Num(0)},
		Update{KeyLeft: Num(200)},
		linear100()...,
	)
	if err != nil {
		t.Fatal(err)
	}
	ts.step(50 * time.Millisecond)
	assertNum(t, "left", p.Field(KeyLeft), 100)
	assertNum(t, "top untouched", p.Field(KeyTop), 7)
}

func TestAnimateRelativeAndTransformDefaults(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t, WithData(Update{KeyLeft: Num(10)}))

	_, err := p.Animate().To(Update{KeyLeft: Rel('+', 90), KeyScale: Num(3)}, linear100()...)
	if err != nil {
		t.Fatal(err)
	}
	ts.step(50 * time.Millisecond)
	assertNum(t, "left", p.Field(KeyLeft), 55)
	if s, _ := p.Field(KeyScale).Float(); s < 1.99 || s > 2.01 {
		t.Errorf("scale = %v, want ~2", s)
	}
	ts.step(50 * time.Millisecond)
	assertNum(t, "scale", p.Field(KeyScale), 3)
}

func TestAnimateDelay(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t, WithData(Update{KeyLeft: Num(0)}))

	opts := append(linear100(), WithDelay(100*time.Millisecond))
	ctl, err := p.Animate().To(Update{KeyLeft: Num(100)}, opts...)
	if err != nil {
		t.Fatal(err)
	}
	ts.step(50 * time.Millisecond)
	assertNum(t, "during delay", p.Field(KeyLeft), 0)
	if ctl.IsActive() {
		t.Error("delayed tween should not be active")
	}

	ts.step(50 * time.Millisecond)
	assertNum(t, "activation", p.Field(KeyLeft), 0)
	ts.step(50 * time.Millisecond)
	assertNum(t, "halfway", p.Field(KeyLeft), 50)
	ts.step(50 * time.Millisecond)
	assertNum(t, "end", p.Field(KeyLeft), 100)
}

func TestAnimateCancel(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t, WithData(Update{KeyLeft: Num(0)}))

	ctl, _ := p.Animate().To(Update{KeyLeft: Num(100)}, linear100()...)
	ts.step(50 * time.Millisecond)
	ctl.Cancel()
	ts.step(10 * time.Millisecond)

	assertNum(t, "left", p.Field(KeyLeft), 50)
	if !ctl.IsFinished() || !ctl.Cancelled() {
		t.Errorf("finished=%v cancelled=%v", ctl.IsFinished(), ctl.Cancelled())
	}
	if p.Animate().IsScheduled() {
		t.Error("cancelled tween still scheduled")
	}
}

func TestAnimateCancelAll(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t, WithData(Update{KeyLeft: Num(0), KeyTop: Num(0)}))
	a, _ := p.Animate().To(Update{KeyLeft: Num(100)})
	b, _ := p.Animate().To(Update{KeyTop: Num(100)}, WithDelay(time.Second))

	ts.Scheduler().CancelAll()
	if !a.Cancelled() || !b.Cancelled() || ts.Scheduler().Len() != 0 {
		t.Error("CancelAll should resolve every tween as cancelled")
	}
}

func TestAnimateDisconnectedElement(t *testing.T) {
	ts := newTestSurface()
	box := NewBox(10, 10)
	p := ts.mustPosition(t, WithElement(box))

	ctl, _ := p.Animate().To(Update{KeyLeft: Num(100)}, linear100()...)
	box.SetConnected(false)
	ts.step(50 * time.Millisecond)
	if !ctl.IsFinished() || !ctl.Cancelled() {
		t.Error("tween on a disconnected element should finish cancelled")
	}
}

func TestAnimateVoidControl(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t, WithData(Update{KeyLeft: Num(5)}))

	ctl, err := p.Animate().To(Update{KeyLeft: Num(5), KeyWidth: Auto()})
	if err != nil {
		t.Fatal(err)
	}
	if !ctl.IsFinished() || ctl.Cancelled() || !isClosed(ctl.Done()) {
		t.Error("nothing to animate should return a finished control")
	}
	if p.Animate().IsScheduled() {
		t.Error("void control scheduled a tween")
	}

	parent := &stubParent{el: NewBox(1, 1)}
	q := ts.mustPosition(t, WithParent(parent))
	ctl, _ = q.Animate().To(Update{KeyLeft: Num(5)})
	if !ctl.IsFinished() {
		t.Error("non-positionable parent should return a finished control")
	}
}

func TestAnimateOptionErrors(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t, WithData(Update{KeyLeft: Num(0)}))
	dest := Update{KeyLeft: Num(1)}

	cases := map[string]TweenOption{
		"negative duration": WithDuration(-time.Second),
		"negative delay":    WithDelay(-time.Second),
		"nil ease":          WithEase(nil),
		"nil interpolate":   WithInterpolate(nil),
		"unknown ease":      WithEaseName("wobble"),
	}
	for name, opt := range cases {
		if _, err := p.Animate().To(dest, opt); !errors.Is(err, ErrType) {
			t.Errorf("%s: err = %v, want ErrType", name, err)
		}
	}
	if _, err := p.Animate().To(Update{KeyTransformOrigin: Rel('+', 1)}); !errors.Is(err, ErrFormat) {
		t.Errorf("relative origin err = %v, want ErrFormat", err)
	}
}

func TestAnimateCustomInterpolate(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t, WithData(Update{KeyLeft: Num(0)}))
	step := func(a, b, t float64) float64 {
		if t < 1 {
			return a
		}
		return b
	}
	opts := append(linear100(), WithInterpolate(step))
	_, _ = p.Animate().To(Update{KeyLeft: Num(100)}, opts...)
	ts.step(90 * time.Millisecond)
	assertNum(t, "held", p.Field(KeyLeft), 0)
	ts.step(10 * time.Millisecond)
	assertNum(t, "end", p.Field(KeyLeft), 100)
}

// --- QuickTo ---

func TestQuickToRetarget(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t, WithData(Update{KeyLeft: Num(0), KeyTop: Num(0)}))

	q, err := p.Animate().QuickTo([]Key{KeyLeft, KeyTop}, linear100()...)
	if err != nil {
		t.Fatal(err)
	}
	q.To(100, 50)
	ts.step(50 * time.Millisecond)
	assertNum(t, "left", p.Field(KeyLeft), 50)
	assertNum(t, "top", p.Field(KeyTop), 25)

	// Retargeting continues from the current geometry without a jump.
	q.To(250, 75)
	assertNum(t, "left after retarget", p.Field(KeyLeft), 50)
	if p.Animate().Scheduled() != nil {
		t.Error("QuickTo tasks carry no control")
	}

	ts.step(50 * time.Millisecond)
	assertNum(t, "left", p.Field(KeyLeft), 150)
	assertNum(t, "top", p.Field(KeyTop), 50)

	ts.step(50 * time.Millisecond)
	assertNum(t, "left", p.Field(KeyLeft), 250)
	if p.Animate().IsScheduled() {
		t.Error("QuickTo still scheduled after finishing")
	}

	// A finished QuickTo is rescheduled by the next call.
	q.To(0)
	ts.step(100 * time.Millisecond)
	assertNum(t, "left", p.Field(KeyLeft), 0)
	assertNum(t, "top", p.Field(KeyTop), 75)
}

func TestQuickToUpdate(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t, WithData(Update{KeyLeft: Num(10)}))

	q, err := p.Animate().QuickTo([]Key{KeyLeft, KeyScale}, linear100()...)
	if err != nil {
		t.Fatal(err)
	}
	if err := q.ToUpdate(Update{KeyLeft: Rel('+', 90), KeyScale: Num(3), KeyTop: Num(99)}); err != nil {
		t.Fatal(err)
	}
	ts.step(100 * time.Millisecond)
	assertNum(t, "left", p.Field(KeyLeft), 100)
	assertNum(t, "scale", p.Field(KeyScale), 3)
	if !p.Field(KeyTop).IsNull() {
		t.Error("keys outside the QuickTo must be ignored")
	}
}

func TestQuickToKeysAndErrors(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t)

	if _, err := p.Animate().QuickTo([]Key{KeyTransformOrigin}); !errors.Is(err, ErrType) {
		t.Errorf("err = %v, want ErrType", err)
	}
	// left has no value on a detached position and is left out.
	q, err := p.Animate().QuickTo([]Key{KeyLeft, KeyRotateZ})
	if err != nil {
		t.Fatal(err)
	}
	if got := q.Keys(); len(got) != 2 || got[0] != KeyLeft {
		t.Errorf("Keys = %v", got)
	}
	if len(q.t.keys) != 1 || q.t.keys[0] != KeyRotateZ {
		t.Errorf("animated keys = %v", q.t.keys)
	}
	if err := q.SetOptions(WithDuration(-1)); !errors.Is(err, ErrType) {
		t.Errorf("SetOptions err = %v", err)
	}
	if err := q.SetOptions(WithDuration(time.Second), WithDelay(time.Hour)); err != nil {
		t.Errorf("SetOptions: %v", err)
	}
	if q.t.duration() != time.Second || q.t.delay != 0 {
		t.Errorf("duration = %v delay = %v", q.t.duration(), q.t.delay)
	}
}
