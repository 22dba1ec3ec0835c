package trellis

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenPointer polls the ebiten mouse once per frame. Injected events take
// priority over the real mouse.
type EbitenPointer struct {
	VirtualPointer
}

// NewEbitenPointer returns a pointer feeding sinks.
func NewEbitenPointer(sinks ...PointerSink) *EbitenPointer {
	return &EbitenPointer{VirtualPointer{sinks: sinks}}
}

// Poll delivers the events of one frame. Call it from ebiten.Game.Update.
func (e *EbitenPointer) Poll() {
	if e.PollInjected() {
		return
	}
	mx, my := ebiten.CursorPosition()
	var held Buttons
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		held |= ButtonsPrimary
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		held |= ButtonsSecondary
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		held |= ButtonsMiddle
	}
	e.Apply(float64(mx), float64(my), held, ebitenModifiers())
}

func ebitenModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}
