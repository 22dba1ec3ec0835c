package trellis

import (
	"errors"
	"testing"
)

func TestHostLayoutAndBoxes(t *testing.T) {
	h := NewHost(WithViewport(320, 240))
	if w, ht := h.Layout(1000, 1000); w != 320 || ht != 240 {
		t.Errorf("Layout = %d, %d", w, ht)
	}

	box := NewBox(10, 10)
	p, err := h.Surface().NewPosition(WithElement(box))
	if err != nil {
		t.Fatal(err)
	}
	h.AddBox(box, p)
	if !p.CalculateTransform() || len(h.boxes) != 1 {
		t.Error("AddBox should register the box and enable transform calculation")
	}
	h.RemoveBox(box)
	if len(h.boxes) != 0 {
		t.Error("RemoveBox did not unregister the box")
	}
}

func TestHostUpdateDrivesScriptAndFrames(t *testing.T) {
	h := NewHost(WithViewport(320, 240))
	box := NewBox(50, 50)
	p, _ := h.Surface().NewPosition(WithElement(box))
	h.AddBox(box, p)
	h.Pointer().AddSink(NewDragController(p))

	script, err := LoadPointerScript([]byte(`{"steps": [
		{"action": "drag", "fromX": 10, "fromY": 10, "toX": 30, "toY": 20, "frames": 3}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	h.SetPointerScript(script)

	updates := 0
	h.SetUpdateFunc(func() error {
		updates++
		return nil
	})
	// One update per queued event keeps Poll off the real mouse.
	for i := 0; i < 3; i++ {
		if err := h.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if updates != 3 || h.Frames().Frame() != 3 {
		t.Errorf("updates = %d frames = %d", updates, h.Frames().Frame())
	}
	assertNum(t, "left", p.Field(KeyLeft), 20)
	assertNum(t, "top", p.Field(KeyTop), 10)
	if td := p.TransformData(); td.BoundingRect.Width != 50 {
		t.Errorf("transform data = %+v", td.BoundingRect)
	}

	stop := errors.New("stop")
	h.SetUpdateFunc(func() error { return stop })
	h.Pointer().InjectMove(30, 20)
	if err := h.Update(); !errors.Is(err, stop) {
		t.Errorf("err = %v, want stop", err)
	}
}
