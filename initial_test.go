package trellis

import "testing"

func TestCenteredViewport(t *testing.T) {
	ts := newTestSurface()
	c := ts.NewCentered()
	assertNear(t, "left", c.Left(200), 300)
	assertNear(t, "top", c.Top(100), 250)

	ts.SetViewport(400, 400)
	assertNear(t, "resized left", c.Left(200), 100)
}

func TestCenteredElementAndSize(t *testing.T) {
	ts := newTestSurface()
	c := ts.NewCentered(WithCenterElement(NewBox(300, 100)))
	assertNear(t, "element left", c.Left(100), 100)
	assertNear(t, "element top", c.Top(50), 25)

	c.SetSize(Num(500), Null())
	assertNear(t, "size left", c.Left(100), 200)
	assertNear(t, "element top", c.Top(50), 25)
}

func TestCenteredLock(t *testing.T) {
	ts := newTestSurface()
	c := ts.NewCentered(WithCenterSize(Num(100), Num(100)), WithCenterLock())
	c.SetSize(Num(1000), Num(1000))
	c.SetElement(NewBox(1, 1))
	assertNear(t, "left", c.Left(20), 40)
	assertNear(t, "top", c.Top(20), 40)
}
