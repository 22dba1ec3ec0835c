package trellis

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action of a pointer script.
type scriptStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type pointerScript struct {
	Steps []scriptStep `json:"steps"`
}

// PointerScript sequences injected pointer events across frames. Supported
// actions are press, move, release, click, drag and wait.
type PointerScript struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadPointerScript parses a JSON pointer script.
func LoadPointerScript(data []byte) (*PointerScript, error) {
	var script pointerScript
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse pointer script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse pointer script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "press", "move", "release", "click", "drag", "wait":
		default:
			return nil, fmt.Errorf("parse pointer script: step %d: %w: unknown action %q", i, ErrType, st.Action)
		}
	}
	return &PointerScript{steps: script.Steps}, nil
}

// Done reports whether every step has been executed.
func (r *PointerScript) Done() bool { return r.done }

// Step advances the script by one frame, queueing events on v. Call it
// before v is polled.
func (r *PointerScript) Step(v *VirtualPointer) {
	if r.done {
		return
	}
	if v.Queued() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		v.InjectPress(st.X, st.Y)
	case "move":
		v.InjectMove(st.X, st.Y)
	case "release":
		v.InjectRelease(st.X, st.Y)
	case "click":
		v.InjectClick(st.X, st.Y)
	case "drag":
		v.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && v.Queued() == 0 {
		r.done = true
	}
}
