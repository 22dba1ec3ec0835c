package trellis

import (
	"time"

	"github.com/google/uuid"
)

// EventSink is the interface for optional ECS integration. When set on a
// Surface, a GeometryEvent is emitted for every position whose changes were
// published.
type EventSink interface {
	EmitGeometry(event GeometryEvent)
}

// GeometryEvent carries the published geometry of one position.
type GeometryEvent struct {
	PositionID uuid.UUID
	Data       Data
	Changes    ChangeSet
	Time       time.Time
}

// Surface is the composition root shared by every Position on one display:
// it owns the frame source, the tween scheduler, the element write batcher,
// the viewport size and the configuration.
type Surface struct {
	cfg       Config
	frames    FrameSource
	clock     Clock
	scheduler *Scheduler
	batcher   *Batcher
	viewport  Vec2
	sink      EventSink

	debug          bool
	debugScheduled bool
}

// SurfaceOption configures a Surface.
type SurfaceOption func(*Surface)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) SurfaceOption {
	return func(s *Surface) { s.cfg = cfg }
}

// WithClock sets the clock used before the first frame.
func WithClock(c Clock) SurfaceOption {
	return func(s *Surface) { s.clock = c }
}

// WithViewport sets the viewport size.
func WithViewport(width, height float64) SurfaceOption {
	return func(s *Surface) { s.viewport = Vec2{X: width, Y: height} }
}

// WithEventSink sets the ECS bridge.
func WithEventSink(sink EventSink) SurfaceOption {
	return func(s *Surface) { s.sink = sink }
}

// NewSurface creates a surface driven by frames.
func NewSurface(frames FrameSource, opts ...SurfaceOption) *Surface {
	s := &Surface{
		cfg:    DefaultConfig(),
		frames: frames,
		clock:  SystemClock,
	}
	for _, o := range opts {
		o(s)
	}
	if s.viewport == (Vec2{}) {
		s.viewport = Vec2{X: s.cfg.ViewportWidth, Y: s.cfg.ViewportHeight}
	}
	s.scheduler = NewScheduler(frames, s.clock)
	s.batcher = NewBatcher(frames)
	if s.cfg.Debug {
		s.SetDebugMode(true)
	}
	return s
}

// Config returns the surface configuration.
func (s *Surface) Config() Config { return s.cfg }

// Frames returns the frame source.
func (s *Surface) Frames() FrameSource { return s.frames }

// Scheduler returns the shared tween scheduler.
func (s *Surface) Scheduler() *Scheduler { return s.scheduler }

// Batcher returns the shared element write batcher.
func (s *Surface) Batcher() *Batcher { return s.batcher }

// Viewport returns the viewport size.
func (s *Surface) Viewport() Vec2 { return s.viewport }

// SetViewport changes the viewport size.
func (s *Surface) SetViewport(width, height float64) {
	s.viewport = Vec2{X: width, Y: height}
}

// SetEventSink sets the optional ECS bridge.
func (s *Surface) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame
// scheduler and batcher stats are logged at debug level.
func (s *Surface) SetDebugMode(enabled bool) {
	s.debug = enabled
	if enabled && !s.debugScheduled {
		s.debugScheduled = true
		s.frames.RequestFrame(s.debugFrame)
	}
}

func (s *Surface) emit(p *Position, changes ChangeSet) {
	if s.sink == nil {
		return
	}
	s.sink.EmitGeometry(GeometryEvent{
		PositionID: p.id,
		Data:       p.data,
		Changes:    changes,
		Time:       s.scheduler.Now(),
	})
}
