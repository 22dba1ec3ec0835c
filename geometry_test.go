package trellis

import "testing"

func TestDataFieldRoundTrip(t *testing.T) {
	var d Data
	for _, k := range Keys() {
		if k == KeyTransformOrigin {
			continue
		}
		d.SetField(k, Num(float64(k)+1))
	}
	for _, k := range Keys() {
		if k == KeyTransformOrigin {
			continue
		}
		assertNum(t, k.String(), d.Field(k), float64(k)+1)
	}
}

func TestDataTransformOrigin(t *testing.T) {
	d := NewData(OriginTopLeft)
	if d.Field(KeyTransformOrigin) != OriginValue(OriginTopLeft) {
		t.Errorf("origin = %v", d.Field(KeyTransformOrigin))
	}
	d.SetField(KeyTransformOrigin, Null())
	if d.TransformOrigin != OriginNone {
		t.Errorf("null origin = %v", d.TransformOrigin)
	}
	d.SetField(KeyTransformOrigin, Num(3))
	if d.TransformOrigin != OriginNone {
		t.Errorf("numeric origin should clear, got %v", d.TransformOrigin)
	}
}

func TestDataUpdateApply(t *testing.T) {
	d := NewData(OriginCenter)
	d.Left = Num(10)
	d.Width = Auto()
	u := d.Update()
	if len(u) != int(numKeys) {
		t.Fatalf("Update has %d keys, want %d", len(u), numKeys)
	}

	var e Data
	e.Apply(u)
	if e != d {
		t.Errorf("Apply(Update()) = %+v, want %+v", e, d)
	}
}

func TestNumericDefault(t *testing.T) {
	for _, k := range []Key{KeyLeft, KeyTop, KeyWidth, KeyHeight, KeyRotateZ, KeyTranslateX} {
		if v, ok := numericDefault(k); !ok || v != 0 {
			t.Errorf("numericDefault(%v) = %v, %v", k, v, ok)
		}
	}
	if v, ok := numericDefault(KeyScale); !ok || v != 1 {
		t.Errorf("numericDefault(scale) = %v, %v", v, ok)
	}
	for _, k := range []Key{KeyMinWidth, KeyMaxHeight, KeyZIndex, KeyTransformOrigin} {
		if _, ok := numericDefault(k); ok {
			t.Errorf("numericDefault(%v) should stay null", k)
		}
	}
}

func TestSetTransformDefaults(t *testing.T) {
	u := Update{KeyScale: Null(), KeyRotateZ: Null(), KeyLeft: Null()}
	setTransformDefaults(u)
	assertNum(t, "scale", u[KeyScale], 1)
	assertNum(t, "rotateZ", u[KeyRotateZ], 0)
	if !u[KeyLeft].IsNull() {
		t.Error("left should stay null")
	}
	if _, ok := u[KeyTranslateX]; ok {
		t.Error("absent keys must not be added")
	}
}

func TestChangeFor(t *testing.T) {
	if changeFor(KeyLeft) != ChangeLeft || changeFor(KeyZIndex) != ChangeZIndex {
		t.Error("changeFor mismatch")
	}
	for _, k := range transformKeys {
		if changeFor(k) != ChangeTransform {
			t.Errorf("changeFor(%v) = %b", k, changeFor(k))
		}
	}
	cs := ChangeLeft | ChangeTop
	if !cs.Has(ChangeLeft) || cs.Has(ChangeWidth) || !cs.HasChange() {
		t.Error("ChangeSet.Has mismatch")
	}
	if ChangeSet(0).HasChange() {
		t.Error("empty ChangeSet has no change")
	}
}
