package trellis

import (
	"time"
)

// task is one scheduled interpolation.
type task struct {
	position *Position
	el       Element

	keys    []Key
	initial []float64
	dest    []float64

	start      time.Time
	activateAt time.Time
	delay      time.Duration
	active     bool

	prog        progress
	interpolate InterpolateFunc

	cancelled bool
	finished  bool
	quick     bool

	control *Control
	cleanup func(t *task, cancelled bool)

	out Update
}

func (t *task) duration() time.Duration { return t.prog.dur }

// apply writes the interpolated values for eased progress p.
func (t *task) apply(p float64) {
	for i, k := range t.keys {
		t.out[k] = Num(t.interpolate(t.initial[i], t.dest[i], p))
	}
	if err := t.position.SetImmediate(t.out); err != nil {
		logger().Debug("tween step rejected", "position", t.position.ID(), "err", err)
	}
}

// snap writes the destination values.
func (t *task) snap() {
	for i, k := range t.keys {
		t.out[k] = Num(t.dest[i])
	}
	if err := t.position.SetImmediate(t.out); err != nil {
		logger().Debug("tween final step rejected", "position", t.position.ID(), "err", err)
	}
}

func (t *task) finish(cancelled bool) {
	t.active = false
	t.finished = true
	if t.cleanup != nil {
		t.cleanup(t, cancelled)
	}
}

// Scheduler advances every scheduled tween once per frame. One Scheduler is
// shared by all positions of a Surface. It requests a new frame from its
// FrameSource on every tick, so it runs for the lifetime of the source.
type Scheduler struct {
	frames FrameSource
	clock  Clock

	newList    []*task
	activeList []*task

	current time.Time
	ticked  bool

	// lastStepped is the number of tasks stepped by the last tick.
	lastStepped int
}

// NewScheduler returns a scheduler driven by frames and starts it.
func NewScheduler(frames FrameSource, clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock
	}
	s := &Scheduler{frames: frames, clock: clock}
	frames.RequestFrame(s.tick)
	return s
}

// Now returns the time of the last tick, or the clock time before the first
// tick.
func (s *Scheduler) Now() time.Time {
	if s.ticked {
		return s.current
	}
	return s.clock.Now()
}

// add schedules t. Its start time is the last tick time so tasks added
// between ticks stay in phase with tasks already running.
func (s *Scheduler) add(t *task) {
	t.start = s.Now()
	if t.delay > 0 {
		t.active = false
		t.activateAt = t.start.Add(t.delay)
	} else {
		t.active = true
	}
	s.newList = append(s.newList, t)
}

func (s *Scheduler) tick(now time.Time) {
	s.current = now
	s.ticked = true
	defer s.frames.RequestFrame(s.tick)

	if len(s.newList) == 0 && len(s.activeList) == 0 {
		s.lastStepped = 0
		return
	}

	for i := len(s.newList) - 1; i >= 0; i-- {
		if i >= len(s.newList) {
			continue
		}
		t := s.newList[i]
		if t.cancelled {
			s.newList = removeTask(s.newList, i)
			t.finish(true)
			continue
		}
		if !t.active && !now.Before(t.activateAt) {
			t.active = true
			t.start = now
		}
		if t.active {
			s.newList = removeTask(s.newList, i)
			s.activeList = append(s.activeList, t)
		}
	}

	stepped := 0
	for i := len(s.activeList) - 1; i >= 0; i-- {
		// A finish callback may have cancelled everything.
		if i >= len(s.activeList) {
			continue
		}
		t := s.activeList[i]
		if t.cancelled || (t.el != nil && !t.el.IsConnected()) {
			s.activeList = removeTask(s.activeList, i)
			t.finish(true)
			continue
		}
		stepped++
		elapsed := now.Sub(t.start)
		if elapsed >= t.duration() {
			t.snap()
			s.activeList = removeTask(s.activeList, i)
			t.finish(false)
			continue
		}
		t.apply(t.prog.at(elapsed))
	}
	s.lastStepped = stepped
}

func removeTask(list []*task, i int) []*task {
	copy(list[i:], list[i+1:])
	list[len(list)-1] = nil
	return list[:len(list)-1]
}

// Cancel flags every task of p as cancelled. They are removed on the next
// tick.
func (s *Scheduler) Cancel(p *Position) {
	for _, t := range s.newList {
		if t.position == p {
			t.cancelled = true
		}
	}
	for _, t := range s.activeList {
		if t.position == p {
			t.cancelled = true
		}
	}
}

// CancelAll cancels and removes every task immediately.
func (s *Scheduler) CancelAll() {
	lists := [][]*task{s.newList, s.activeList}
	s.newList, s.activeList = nil, nil
	for _, list := range lists {
		for _, t := range list {
			t.cancelled = true
			t.finish(true)
		}
	}
}

// Scheduled returns the controls of every task of p that has one.
func (s *Scheduler) Scheduled(p *Position) []*Control {
	var out []*Control
	for _, list := range [][]*task{s.newList, s.activeList} {
		for _, t := range list {
			if t.position == p && t.control != nil {
				out = append(out, t.control)
			}
		}
	}
	return out
}

// IsScheduled reports whether p has any pending or active task.
func (s *Scheduler) IsScheduled(p *Position) bool {
	for _, list := range [][]*task{s.newList, s.activeList} {
		for _, t := range list {
			if t.position == p {
				return true
			}
		}
	}
	return false
}

// Len returns the number of pending and active tasks.
func (s *Scheduler) Len() int { return len(s.newList) + len(s.activeList) }

// rebase restarts t from the last tick time.
func (s *Scheduler) rebase(t *task) {
	t.start = s.Now()
}
