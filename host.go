package trellis

import (
	"cmp"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
}

// hostBox is a box drawn by the Host with the geometry of its position.
type hostBox struct {
	box *Box
	pos *Position
}

// Host is an ebiten.Game that drives a Surface: each Update polls the mouse
// into the registered pointer sinks, runs the update callback and steps the
// frame source, which ticks the scheduler and flushes element writes. Draw
// renders every registered Box as a quad transformed by its position.
type Host struct {
	surface *Surface
	frames  *ManualFrames
	clock   Clock
	pointer *EbitenPointer
	script  *PointerScript

	boxes      []hostBox
	updateFunc func() error

	width, height int
	fps           fpsOverlay
	whitePixel    *ebiten.Image
}

// NewHost returns a host with its own frame source and surface.
func NewHost(opts ...SurfaceOption) *Host {
	frames := NewManualFrames()
	s := NewSurface(frames, opts...)
	vp := s.Viewport()
	return &Host{
		surface: s,
		frames:  frames,
		clock:   s.clock,
		pointer: NewEbitenPointer(),
		width:   int(vp.X),
		height:  int(vp.Y),
	}
}

// Surface returns the driven surface.
func (h *Host) Surface() *Surface { return h.surface }

// Frames returns the frame source stepped by Update.
func (h *Host) Frames() *ManualFrames { return h.frames }

// Pointer returns the mouse pointer polled by Update.
func (h *Host) Pointer() *EbitenPointer { return h.pointer }

// SetUpdateFunc sets a callback run every Update before frames are stepped.
func (h *Host) SetUpdateFunc(fn func() error) { h.updateFunc = fn }

// SetPointerScript replays script through the pointer inject queue.
func (h *Host) SetPointerScript(script *PointerScript) { h.script = script }

// AddBox registers b for drawing with the geometry of p, and enables
// transform calculation on p.
func (h *Host) AddBox(b *Box, p *Position) {
	p.SetCalculateTransform(true)
	h.boxes = append(h.boxes, hostBox{box: b, pos: p})
}

// RemoveBox unregisters b.
func (h *Host) RemoveBox(b *Box) {
	h.boxes = slices.DeleteFunc(h.boxes, func(hb hostBox) bool { return hb.box == b })
}

// Update implements ebiten.Game.
func (h *Host) Update() error {
	if h.script != nil {
		h.script.Step(&h.pointer.VirtualPointer)
	}
	h.pointer.Poll()
	if h.updateFunc != nil {
		if err := h.updateFunc(); err != nil {
			return err
		}
	}
	h.frames.Step(h.clock.Now())
	return nil
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	if h.whitePixel == nil {
		h.whitePixel = ebiten.NewImage(1, 1)
		h.whitePixel.Fill(ColorWhite.toRGBA())
	}
	slices.SortStableFunc(h.boxes, func(a, b hostBox) int {
		return cmp.Compare(a.pos.data.ZIndex.Or(0), b.pos.data.ZIndex.Or(0))
	})
	for _, hb := range h.boxes {
		if !hb.box.IsConnected() {
			continue
		}
		h.drawBox(screen, hb)
	}
	h.fps.draw(screen, h.surface)
}

func (h *Host) drawBox(screen *ebiten.Image, hb hostBox) {
	d := &hb.pos.data
	w := d.Width.Or(hb.box.OffsetWidth())
	ht := d.Height.Or(hb.box.OffsetHeight())
	if w <= 0 || ht <= 0 {
		return
	}
	td := hb.pos.TransformData()
	m := td.Mat4

	var geo ebiten.GeoM
	geo.SetElement(0, 0, m[0])
	geo.SetElement(0, 1, m[4])
	geo.SetElement(0, 2, m[12]+d.Left.Or(0))
	geo.SetElement(1, 0, m[1])
	geo.SetElement(1, 1, m[5])
	geo.SetElement(1, 2, m[13]+d.Top.Or(0))

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w, ht)
	op.GeoM.Concat(geo)
	c := hb.box.Fill
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	screen.DrawImage(h.whitePixel, &op)
}

// Layout implements ebiten.Game.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	return h.width, h.height
}

// Run opens a window and runs h until the window is closed or Update
// returns an error.
func Run(h *Host, cfg RunConfig) error {
	if cfg.Width > 0 && cfg.Height > 0 {
		h.width, h.height = cfg.Width, cfg.Height
		h.surface.SetViewport(float64(cfg.Width), float64(cfg.Height))
	}
	h.fps.enabled = cfg.ShowFPS
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(h.width, h.height)
	return ebiten.RunGame(h)
}
