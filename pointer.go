package trellis

import "slices"

// syntheticPointerEvent is a queued injected mouse state.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
	button  MouseButton
}

// VirtualPointer turns mouse state snapshots into PointerEvents for its
// sinks. It tracks held buttons and the last position so that moves and
// button changes are reported as separate events. Injected events are
// queued and delivered one per Poll.
//
// VirtualPointer is the headless pointer; EbitenPointer and TcellPointer
// feed it from real devices.
type VirtualPointer struct {
	sinks []PointerSink

	// TargetAt, when set, resolves the sub-element under the pointer for
	// class list filtering.
	TargetAt func(x, y float64) ClassList

	injectQueue []syntheticPointerEvent

	pressed Buttons
	lastX   float64
	lastY   float64
	seen    bool
}

// NewVirtualPointer returns a headless pointer feeding sinks.
func NewVirtualPointer(sinks ...PointerSink) *VirtualPointer {
	return &VirtualPointer{sinks: sinks}
}

// AddSink registers another sink.
func (v *VirtualPointer) AddSink(s PointerSink) {
	v.sinks = append(v.sinks, s)
}

// RemoveSink unregisters s.
func (v *VirtualPointer) RemoveSink(s PointerSink) {
	v.sinks = slices.DeleteFunc(v.sinks, func(x PointerSink) bool { return x == s })
}

// InjectPress queues a left button press at (x, y).
func (v *VirtualPointer) InjectPress(x, y float64) {
	v.injectQueue = append(v.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true, button: MouseButtonLeft})
}

// InjectMove queues a move at (x, y) with the left button held. Use it
// between InjectPress and InjectRelease to simulate a drag.
func (v *VirtualPointer) InjectMove(x, y float64) {
	v.injectQueue = append(v.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true, button: MouseButtonLeft})
}

// InjectRelease queues a left button release at (x, y).
func (v *VirtualPointer) InjectRelease(x, y float64) {
	v.injectQueue = append(v.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: false, button: MouseButtonLeft})
}

// InjectClick queues a press and a release at (x, y). Consumes two polls.
func (v *VirtualPointer) InjectClick(x, y float64) {
	v.InjectPress(x, y)
	v.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 linearly
// interpolated moves and a release at (toX, toY). The sequence consumes
// frames polls; the minimum is 2.
func (v *VirtualPointer) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	v.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		v.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	v.InjectRelease(toX, toY)
}

// Queued returns the number of injected events not yet delivered.
func (v *VirtualPointer) Queued() int { return len(v.injectQueue) }

// PollInjected delivers the next injected event. It reports whether one was
// consumed.
func (v *VirtualPointer) PollInjected() bool {
	if len(v.injectQueue) == 0 {
		return false
	}
	evt := v.injectQueue[0]
	copy(v.injectQueue, v.injectQueue[1:])
	v.injectQueue = v.injectQueue[:len(v.injectQueue)-1]

	held := v.pressed &^ buttonsFor(evt.button)
	if evt.pressed {
		held |= buttonsFor(evt.button)
	}
	v.Apply(evt.x, evt.y, held, 0)
	return true
}

// Apply diffs a mouse snapshot against the previous one. A position change
// is dispatched as a move with the previously held buttons, followed by one
// down or up event per changed button.
func (v *VirtualPointer) Apply(x, y float64, held Buttons, mods KeyModifiers) {
	base := PointerEvent{
		Primary: true,
		Button:  MouseButtonNone,
		X:       x,
		Y:       y,
		Mods:    mods,
	}
	if v.TargetAt != nil {
		base.Target = v.TargetAt(x, y)
	}

	if v.seen && (x != v.lastX || y != v.lastY) {
		ev := base
		ev.Type = PointerMove
		ev.Buttons = v.pressed
		v.dispatch(ev)
	}
	v.lastX, v.lastY, v.seen = x, y, true

	for _, b := range [...]MouseButton{MouseButtonLeft, MouseButtonMiddle, MouseButtonRight} {
		bit := buttonsFor(b)
		was, is := v.pressed&bit != 0, held&bit != 0
		if was == is {
			continue
		}
		ev := base
		ev.Button = b
		if is {
			v.pressed |= bit
			ev.Type = PointerDown
		} else {
			v.pressed &^= bit
			ev.Type = PointerUp
		}
		ev.Buttons = v.pressed
		v.dispatch(ev)
	}
}

// Held returns the buttons currently held.
func (v *VirtualPointer) Held() Buttons { return v.pressed }

func (v *VirtualPointer) dispatch(ev PointerEvent) {
	for _, s := range slices.Clone(v.sinks) {
		s.HandlePointer(ev)
	}
}

func buttonsFor(b MouseButton) Buttons {
	switch b {
	case MouseButtonLeft:
		return ButtonsPrimary
	case MouseButtonRight:
		return ButtonsSecondary
	case MouseButtonMiddle:
		return ButtonsMiddle
	}
	return 0
}
