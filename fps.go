package trellis

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay prints FPS, TPS and scheduler counts in the top-left corner.
// The text is refreshed every ~0.5 seconds.
type fpsOverlay struct {
	enabled    bool
	text       string
	lastUpdate time.Time
}

func (o *fpsOverlay) draw(screen *ebiten.Image, s *Surface) {
	if !o.enabled && !s.debug {
		return
	}
	now := time.Now()
	if o.text == "" || now.Sub(o.lastUpdate) >= 500*time.Millisecond {
		o.lastUpdate = now
		o.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f\ntweens: %d\nwrites: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), s.scheduler.Len(), s.batcher.lastFlushed)
	}
	ebitenutil.DebugPrint(screen, o.text)
}
