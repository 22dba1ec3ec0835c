package trellis

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

func TestStateSaveRestore(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t, WithData(Update{KeyLeft: Num(10), KeyTop: Num(20)}))

	st, err := p.State().Save("home", map[string]any{"tag": 1})
	if err != nil {
		t.Fatal(err)
	}
	if st.Name != "home" || st.Extra["tag"] != 1 {
		t.Errorf("saved = %+v", st)
	}

	_ = p.Set(Update{KeyLeft: Num(50), KeyTop: Num(60)})
	got, ctl, err := p.State().Restore(RestoreOptions{Name: "home", Keys: []Key{KeyLeft}})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "home" || !ctl.IsFinished() {
		t.Errorf("restore = %+v finished=%v", got, ctl.IsFinished())
	}
	assertNum(t, "left", p.Field(KeyLeft), 10)
	assertNum(t, "top", p.Field(KeyTop), 60)

	if _, ok := p.State().Get("home"); !ok {
		t.Error("state removed without Remove")
	}
	_, _, _ = p.State().Restore(RestoreOptions{Name: "home", Remove: true})
	if _, ok := p.State().Get("home"); ok {
		t.Error("Remove did not delete the state")
	}
	assertNum(t, "full restore top", p.Field(KeyTop), 20)
}

func TestStateNames(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t)
	for _, n := range []string{"b", "a", "c"} {
		if _, err := p.State().Save(n, nil); err != nil {
			t.Fatal(err)
		}
	}
	if got := p.State().Names(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Names = %v", got)
	}
	if _, ok := p.State().Remove("b"); !ok {
		t.Error("Remove(b) failed")
	}
	if _, ok := p.State().Remove("b"); ok {
		t.Error("second Remove(b) should fail")
	}
	if err := p.State().Set(SavedState{Name: "d"}); err != nil {
		t.Error(err)
	}
	if len(p.State().Names()) != 3 {
		t.Errorf("Names = %v", p.State().Names())
	}
}

func TestStateEmptyName(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t)
	if _, err := p.State().Save("", nil); !errors.Is(err, ErrType) {
		t.Errorf("Save err = %v", err)
	}
	if err := p.State().Set(SavedState{}); !errors.Is(err, ErrType) {
		t.Errorf("Set err = %v", err)
	}
	if _, _, err := p.State().Restore(RestoreOptions{}); !errors.Is(err, ErrType) {
		t.Errorf("Restore err = %v", err)
	}
}

func TestStateRestoreMissing(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t)
	st, ctl, err := p.State().Restore(RestoreOptions{Name: "nope"})
	if err != nil || st.Name != "" || !ctl.IsFinished() {
		t.Errorf("missing restore = %+v, %v, %v", st, ctl, err)
	}
}

func TestStateRestoreSilent(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t, WithData(Update{KeyLeft: Num(1), KeyRotateZ: Num(45)}))
	_, _ = p.State().Save("s", nil)
	_ = p.Set(Update{KeyLeft: Num(9), KeyRotateZ: Null()})

	publishes := 0
	p.Subscribe(func(Data) { publishes++ })
	_, _, _ = p.State().Restore(RestoreOptions{Name: "s", Silent: true})
	assertNum(t, "left", p.Field(KeyLeft), 1)
	if !p.Transforms().IsActiveKey(KeyRotateZ) {
		t.Error("silent restore should update the transform state")
	}
	if publishes != 1 {
		t.Errorf("silent restore published, publishes = %d", publishes)
	}
}

func TestStateRestoreAnimated(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t, WithData(Update{KeyLeft: Num(0), KeyTop: Num(0)}))
	_, _ = p.State().Save("s", nil)
	_ = p.Set(Update{KeyLeft: Num(100)})

	_, ctl, err := p.State().Restore(RestoreOptions{
		Name:      "s",
		AnimateTo: true,
		Duration:  100 * time.Millisecond,
		Ease:      ease.Linear,
	})
	if err != nil {
		t.Fatal(err)
	}
	ts.step(50 * time.Millisecond)
	assertNum(t, "halfway", p.Field(KeyLeft), 50)
	ts.step(50 * time.Millisecond)
	assertNum(t, "end", p.Field(KeyLeft), 0)
	if !ctl.IsFinished() || ctl.Cancelled() {
		t.Errorf("finished=%v cancelled=%v", ctl.IsFinished(), ctl.Cancelled())
	}
}

func TestStateReset(t *testing.T) {
	ts := newTestSurface()
	box := NewBox(100, 50)
	parent := &stubParent{el: box, positionable: true}
	p := ts.mustPosition(t, WithParent(parent), WithData(Update{KeyLeft: Num(10), KeyZIndex: Num(1)}))

	_ = p.Set(Update{KeyLeft: Num(300), KeyScale: Num(2), KeyZIndex: Num(5)})
	ctl, _ := p.Animate().To(Update{KeyTop: Num(200)})
	parent.minimized = true

	if !p.State().Reset(ResetOptions{KeepZIndex: true}) {
		t.Fatal("Reset reported no default")
	}
	if p.Transforms().IsActive() {
		t.Error("transforms should reset to the default")
	}
	if parent.maximized != 1 {
		t.Errorf("Maximize calls = %d", parent.maximized)
	}
	assertNum(t, "left before frame", p.Field(KeyLeft), 300)

	ts.step(frameTime)
	assertNum(t, "left", p.Field(KeyLeft), 10)
	assertNum(t, "zIndex kept", p.Field(KeyZIndex), 5)
	if !p.Field(KeyScale).IsNull() {
		t.Errorf("scale = %v", p.Field(KeyScale))
	}
	if !ctl.IsFinished() || !ctl.Cancelled() {
		t.Error("Reset should cancel scheduled tweens")
	}
}

func TestStateResetSkipSetAndNoDefault(t *testing.T) {
	ts := newTestSurface()
	p := ts.mustPosition(t)
	if p.State().Reset(ResetOptions{}) {
		t.Error("detached position has no default")
	}

	box := NewBox(10, 10)
	p.Attach(box)
	_ = p.Set(Update{KeyLeft: Num(40)})
	if !p.State().Reset(ResetOptions{SkipSet: true}) {
		t.Fatal("Reset failed")
	}
	ts.step(frameTime)
	ts.step(frameTime)
	assertNum(t, "left", p.Field(KeyLeft), 40)
}
