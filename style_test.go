package trellis

import "testing"

func TestParsePixels(t *testing.T) {
	assertNum(t, "12px", ParsePixels("12px"), 12)
	assertNum(t, "-3.5px", ParsePixels(" -3.5px "), -3.5)
	assertNum(t, ".5px", ParsePixels(".5px"), 0.5)
	for _, s := range []string{"", "auto", "12", "12em", "px"} {
		if !ParsePixels(s).IsNull() {
			t.Errorf("ParsePixels(%q) should be null", s)
		}
	}
}

func TestMapStyleEmptyRemoves(t *testing.T) {
	m := MapStyle{}
	m.SetProperty("left", "1px")
	m.SetProperty("left", "")
	if _, ok := m["left"]; ok {
		t.Error("empty value should remove the property")
	}
}

func TestStyleCacheInlineWins(t *testing.T) {
	b := NewBox(100, 50)
	b.SetComputed("margin-left", "4px")
	b.SetComputed("margin-top", "6px")
	b.SetComputed("max-width", "400px")
	b.Style().SetProperty("margin-top", "8px")

	c := NewStyleCache()
	c.Update(b)
	assertNum(t, "margin-left", c.MarginLeft, 4)
	assertNum(t, "margin-top", c.MarginTop, 8)
	assertNum(t, "max-width", c.MaxWidth, 400)
	if !c.MaxHeight.IsNull() || !c.MinWidth.IsNull() {
		t.Error("unset sizes should be null")
	}
	if !c.HasData(b) || c.HasData(NewBox(1, 1)) {
		t.Error("HasData mismatch")
	}
}

func TestStyleCacheWillChange(t *testing.T) {
	b := NewBox(10, 10)
	c := NewStyleCache()
	c.Update(b)
	if c.HasWillChange {
		t.Error("no will-change declared")
	}

	b.SetComputed("will-change", "auto")
	c.Update(b)
	if c.HasWillChange {
		t.Error("will-change: auto does not count")
	}

	b.Style().SetProperty("will-change", "transform")
	c.Update(b)
	if !c.HasWillChange {
		t.Error("inline will-change not detected")
	}

	c.Reset()
	if b.Style().GetPropertyValue("will-change") != "" {
		t.Error("Reset should remove will-change")
	}
	if c.Element() != nil || c.HasWillChange {
		t.Error("Reset should clear the cache")
	}
}

func TestStyleCacheResizeObserved(t *testing.T) {
	b := NewBox(100, 50)
	c := NewStyleCache()
	c.Update(b)
	assertNear(t, "width", c.OffsetWidth(), 100)

	b.Resize(200, 80)
	assertNear(t, "observed width", c.OffsetWidth(), 200)
	assertNear(t, "observed height", c.OffsetHeight(), 80)

	c.Reset()
	b.Resize(300, 90)
	if len(b.observers) != 0 {
		t.Errorf("observers = %d after Reset", len(b.observers))
	}
	assertNear(t, "reset width", c.OffsetWidth(), 0)
}

func TestBoxInlineSize(t *testing.T) {
	b := NewBox(100, 50)
	b.Style().SetProperty("width", "120px")
	b.Style().SetProperty("left", "7px")
	assertNear(t, "width", b.OffsetWidth(), 120)
	assertNear(t, "height", b.OffsetHeight(), 50)

	r := b.Bounds()
	if r != (Rect{X: 7, Y: 0, Width: 120, Height: 50}) {
		t.Errorf("Bounds = %+v", r)
	}
	if b.Writes("width") != 1 {
		t.Errorf("Writes(width) = %d", b.Writes("width"))
	}
	b.Style().RemoveProperty("width")
	if b.Writes("width") != 2 {
		t.Errorf("Writes(width) = %d", b.Writes("width"))
	}
}

func TestBoxClasses(t *testing.T) {
	b := NewBox(1, 1)
	b.AddClass("handle", "handle", "panel")
	if !b.HasClass("handle") || !b.HasClass("panel") || b.HasClass("other") {
		t.Error("HasClass mismatch")
	}
	if len(b.classes) != 2 {
		t.Errorf("classes = %v", b.classes)
	}
}
