package trellis

import (
	"github.com/gdamore/tcell/v2"
)

// TcellPointer converts terminal mouse events into PointerEvents. Cell
// coordinates are scaled by CellWidth and CellHeight.
type TcellPointer struct {
	VirtualPointer

	CellWidth  float64
	CellHeight float64
}

// NewTcellPointer returns a pointer with 1x1 cells feeding sinks.
func NewTcellPointer(sinks ...PointerSink) *TcellPointer {
	return &TcellPointer{VirtualPointer: VirtualPointer{sinks: sinks}, CellWidth: 1, CellHeight: 1}
}

// HandleEvent processes a tcell event and reports whether it was a mouse
// event.
func (t *TcellPointer) HandleEvent(ev tcell.Event) bool {
	me, ok := ev.(*tcell.EventMouse)
	if !ok {
		return false
	}
	cx, cy := me.Position()
	t.Apply(float64(cx)*t.CellWidth, float64(cy)*t.CellHeight,
		tcellButtons(me.Buttons()), tcellModifiers(me.Modifiers()))
	return true
}

func tcellButtons(m tcell.ButtonMask) Buttons {
	var b Buttons
	if m&tcell.ButtonPrimary != 0 {
		b |= ButtonsPrimary
	}
	if m&tcell.ButtonSecondary != 0 {
		b |= ButtonsSecondary
	}
	if m&tcell.ButtonMiddle != 0 {
		b |= ButtonsMiddle
	}
	return b
}

func tcellModifiers(m tcell.ModMask) KeyModifiers {
	var mods KeyModifiers
	if m&tcell.ModShift != 0 {
		mods |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mods |= ModMeta
	}
	return mods
}
