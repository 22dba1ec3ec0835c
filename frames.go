package trellis

import "time"

// FrameSource delivers display refresh callbacks. Each requested callback
// runs once, on the next frame.
type FrameSource interface {
	RequestFrame(fn func(now time.Time))
}

// ManualFrames is a FrameSource stepped explicitly. Host steps it once per
// ebiten Update; tests step it directly.
type ManualFrames struct {
	pending []func(time.Time)
	running []func(time.Time)
	frame   uint64
}

// NewManualFrames returns an idle frame source.
func NewManualFrames() *ManualFrames {
	return &ManualFrames{}
}

// RequestFrame implements FrameSource.
func (m *ManualFrames) RequestFrame(fn func(now time.Time)) {
	m.pending = append(m.pending, fn)
}

// Step runs the callbacks that were pending when Step was called. Callbacks
// requested while stepping run on the next Step. It returns the number of
// callbacks run.
func (m *ManualFrames) Step(now time.Time) int {
	m.running, m.pending = m.pending, m.running[:0]
	n := len(m.running)
	for i, fn := range m.running {
		m.running[i] = nil
		fn(now)
	}
	m.frame++
	return n
}

// Pending returns the number of callbacks waiting for the next Step.
func (m *ManualFrames) Pending() int { return len(m.pending) }

// Frame returns the number of completed steps.
func (m *ManualFrames) Frame() uint64 { return m.frame }

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// MockClock is a manually advanced Clock for deterministic tests.
type MockClock struct {
	now time.Time
}

// NewMockClock returns a clock reading start.
func NewMockClock(start time.Time) *MockClock {
	return &MockClock{now: start}
}

// Now implements Clock.
func (c *MockClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d and returns the new time.
func (c *MockClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

// Set moves the clock to t.
func (c *MockClock) Set(t time.Time) { c.now = t }
