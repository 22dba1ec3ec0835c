package trellis

import (
	"slices"
	"time"

	"github.com/tanema/gween/ease"
)

// PointerEventType identifies a pointer event.
type PointerEventType uint8

const (
	PointerDown PointerEventType = iota
	PointerMove
	PointerUp
	PointerCancel
)

// String returns the DOM name of the event type.
func (t PointerEventType) String() string {
	switch t {
	case PointerDown:
		return "pointerdown"
	case PointerMove:
		return "pointermove"
	case PointerUp:
		return "pointerup"
	case PointerCancel:
		return "pointercancel"
	}
	return "unknown"
}

// PointerEvent is a pointer event delivered to a PointerSink.
type PointerEvent struct {
	Type      PointerEventType
	PointerID int
	// Primary is false for secondary touches of a multi-touch gesture.
	Primary bool
	// Button is the button that changed state; MouseButtonNone for moves.
	Button MouseButton
	// Buttons is the set of buttons held after the event.
	Buttons Buttons
	X, Y    float64
	Mods    KeyModifiers
	// Target is the sub-element the event hit, if known.
	Target ClassList
}

// PointerSink consumes pointer events. HandlePointer reports whether the
// event was used.
type PointerSink interface {
	HandlePointer(ev PointerEvent) bool
}

// hitTester is implemented by elements that can report their screen rect.
type hitTester interface {
	Bounds() Rect
}

// DragOption configures a DragController.
type DragOption func(*DragController)

// WithDragButton sets the button that starts a drag. Defaults to the
// primary button.
func WithDragButton(b MouseButton) DragOption {
	return func(d *DragController) { d.button = b }
}

// WithDragEase routes moves through a QuickTo for smoothed following.
func WithDragEase(enabled bool) DragOption {
	return func(d *DragController) { d.ease = enabled }
}

// WithDragEaseOptions sets the duration and easing of eased dragging.
func WithDragEaseOptions(dur time.Duration, fn ease.TweenFunc) DragOption {
	return func(d *DragController) { d.easeDuration, d.easeFn = dur, fn }
}

// WithHasTargetClassList only starts a drag when the target has one of the
// classes.
func WithHasTargetClassList(classes ...string) DragOption {
	return func(d *DragController) { d.hasTarget = classes }
}

// WithIgnoreTargetClassList never starts a drag when the target has one of
// the classes.
func WithIgnoreTargetClassList(classes ...string) DragOption {
	return func(d *DragController) { d.ignoreTarget = classes }
}

// WithDragHandle sets the element whose rect must contain the pointer on
// press. Defaults to the position's element.
func WithDragHandle(el Element) DragOption {
	return func(d *DragController) { d.handle = el }
}

type dragState uint8

const (
	dragIdle dragState = iota
	dragTracking
)

// DragController moves a Position with the pointer. Pressing the configured
// button over the handle starts tracking; each move sets left and top to the
// position at press time plus the cumulative pointer delta. Releasing the
// button, or a move without the primary button held, ends the drag.
type DragController struct {
	target Positioned

	active       bool
	button       MouseButton
	ease         bool
	easeDuration time.Duration
	easeFn       ease.TweenFunc
	hasTarget    []string
	ignoreTarget []string
	handle       Element

	// Dragging becomes true on the first move of a drag and false when it
	// ends. A press without a move leaves it false.
	Dragging *Store[bool]

	state            dragState
	pointerID        int
	startX, startY   float64
	startLeft        float64
	startTop         float64
	quick            *QuickTo
	quickFor         *Position
	quickOptsChanged bool
}

// NewDragController returns an active controller for target.
func NewDragController(target Positioned, opts ...DragOption) *DragController {
	d := &DragController{
		target:   target,
		active:   true,
		button:   MouseButtonLeft,
		Dragging: NewStore(false),
	}
	if p := target.GetPosition(); p != nil {
		cfg := p.surface.cfg
		d.easeDuration = cfg.DragDuration
		d.easeFn = cfg.ease()
	} else {
		d.easeDuration = DefaultConfig().DragDuration
		d.easeFn = ease.OutCubic
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Active reports whether the controller reacts to pointer events.
func (d *DragController) Active() bool { return d.active }

// SetActive enables or disables the controller. Disabling ends a drag.
func (d *DragController) SetActive(active bool) {
	d.active = active
	if !active {
		d.end()
	}
}

// SetButton changes the button that starts a drag.
func (d *DragController) SetButton(b MouseButton) { d.button = b }

// SetEase toggles eased dragging.
func (d *DragController) SetEase(enabled bool) { d.ease = enabled }

// SetEaseOptions changes the duration and easing of eased dragging.
func (d *DragController) SetEaseOptions(dur time.Duration, fn ease.TweenFunc) {
	d.easeDuration, d.easeFn = dur, fn
	d.quickOptsChanged = true
}

// SetHasTargetClassList replaces the required target classes.
func (d *DragController) SetHasTargetClassList(classes ...string) { d.hasTarget = classes }

// SetIgnoreTargetClassList replaces the ignored target classes.
func (d *DragController) SetIgnoreTargetClassList(classes ...string) { d.ignoreTarget = classes }

// SetTarget replaces the dragged target and ends any drag in progress.
func (d *DragController) SetTarget(target Positioned) {
	d.end()
	d.target = target
	d.quick, d.quickFor = nil, nil
}

// IsTracking reports whether a press is being tracked.
func (d *DragController) IsTracking() bool { return d.state == dragTracking }

// HandlePointer implements PointerSink.
func (d *DragController) HandlePointer(ev PointerEvent) bool {
	if !d.active {
		return false
	}
	switch ev.Type {
	case PointerDown:
		return d.down(ev)
	case PointerMove:
		if d.state != dragTracking || ev.PointerID != d.pointerID {
			return false
		}
		if ev.Buttons&ButtonsPrimary == 0 {
			d.end()
			return true
		}
		d.move(ev)
		return true
	case PointerUp, PointerCancel:
		if d.state != dragTracking || ev.PointerID != d.pointerID {
			return false
		}
		d.end()
		return true
	}
	return false
}

func (d *DragController) down(ev PointerEvent) bool {
	if d.state == dragTracking || ev.Button != d.button || !ev.Primary {
		return false
	}
	p := d.target.GetPosition()
	if p == nil || !p.enabled {
		return false
	}
	if !d.hit(p, ev) || !d.classesAllow(ev.Target) {
		return false
	}

	d.state = dragTracking
	d.pointerID = ev.PointerID
	d.startX, d.startY = ev.X, ev.Y
	d.startLeft = p.data.Left.Or(0)
	d.startTop = p.data.Top.Or(0)
	return true
}

func (d *DragController) hit(p *Position, ev PointerEvent) bool {
	el := d.handle
	if el == nil {
		el = p.elementTarget()
	}
	ht, ok := el.(hitTester)
	if !ok {
		return true
	}
	return ht.Bounds().Contains(ev.X, ev.Y)
}

func (d *DragController) classesAllow(target ClassList) bool {
	if len(d.hasTarget) > 0 {
		if target == nil || !slices.ContainsFunc(d.hasTarget, target.HasClass) {
			return false
		}
	}
	if len(d.ignoreTarget) > 0 && target != nil && slices.ContainsFunc(d.ignoreTarget, target.HasClass) {
		return false
	}
	return true
}

func (d *DragController) move(ev PointerEvent) {
	p := d.target.GetPosition()
	if p == nil {
		d.end()
		return
	}
	if !d.Dragging.Get() {
		d.Dragging.Set(true)
	}
	left := d.startLeft + (ev.X - d.startX)
	top := d.startTop + (ev.Y - d.startY)

	if d.ease {
		if q := d.quickTo(p); q != nil {
			q.To(top, left)
			return
		}
	}
	if err := p.Set(Update{KeyLeft: Num(left), KeyTop: Num(top)}); err != nil {
		logger().Warn("drag update failed", "position", p.id, "err", err)
	}
}

func (d *DragController) quickTo(p *Position) *QuickTo {
	if d.quick != nil && d.quickFor == p {
		if d.quickOptsChanged {
			if err := d.quick.SetOptions(WithDuration(d.easeDuration), WithEase(d.easeFn)); err != nil {
				logger().Warn("drag ease options rejected", "position", p.id, "err", err)
			}
			d.quickOptsChanged = false
		}
		return d.quick
	}
	q, err := p.animate.QuickTo([]Key{KeyTop, KeyLeft}, WithDuration(d.easeDuration), WithEase(d.easeFn))
	if err != nil {
		logger().Warn("drag quickTo failed", "position", p.id, "err", err)
		return nil
	}
	d.quick, d.quickFor = q, p
	d.quickOptsChanged = false
	return q
}

func (d *DragController) end() {
	d.state = dragIdle
	if d.Dragging.Get() {
		d.Dragging.Set(false)
	}
}
