package ecs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phanxgames/trellis"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitGeometry(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []trellis.GeometryEvent
	GeometryEventType.Subscribe(world, func(w donburi.World, e trellis.GeometryEvent) {
		received = append(received, e)
	})

	id := uuid.New()
	d := trellis.NewData(trellis.OriginTopLeft)
	d.Left = trellis.Num(100)
	d.Top = trellis.Num(200)
	sink.EmitGeometry(trellis.GeometryEvent{
		PositionID: id,
		Data:       d,
		Changes:    trellis.ChangeLeft | trellis.ChangeTop,
	})
	sink.EmitGeometry(trellis.GeometryEvent{PositionID: id, Changes: trellis.ChangeTransform})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("expected no events before processing, got %d", len(received))
	}
	GeometryEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.PositionID != id || e0.Data.Left.Num != 100 || e0.Data.Top.Num != 200 {
		t.Errorf("event 0: %+v", e0)
	}
	if !e0.Changes.Has(trellis.ChangeLeft | trellis.ChangeTop) {
		t.Errorf("event 0 changes = %b", e0.Changes)
	}
	if received[1].Changes != trellis.ChangeTransform {
		t.Errorf("event 1 changes = %b", received[1].Changes)
	}
}

func TestDonburiSink_ImplementsEventSink(t *testing.T) {
	world := donburi.NewWorld()
	var sink trellis.EventSink = NewDonburiSink(world)
	_ = sink
}

func TestDonburiSink_SurfaceFlush(t *testing.T) {
	world := donburi.NewWorld()
	frames := trellis.NewManualFrames()
	clock := trellis.NewMockClock(time.Unix(0, 0))
	s := trellis.NewSurface(frames, trellis.WithClock(clock), trellis.WithEventSink(NewDonburiSink(world)))

	box := trellis.NewBox(100, 50)
	p, err := s.NewPosition(trellis.WithElement(box))
	if err != nil {
		t.Fatal(err)
	}

	var count int
	var last trellis.GeometryEvent
	GeometryEventType.Subscribe(world, func(w donburi.World, e trellis.GeometryEvent) {
		count++
		last = e
	})

	if err := p.Set(trellis.Update{trellis.KeyLeft: trellis.Num(40)}); err != nil {
		t.Fatal(err)
	}
	frames.Step(clock.Advance(16 * time.Millisecond))
	events.ProcessAllEvents(world)

	if count != 1 {
		t.Fatalf("expected one event per flush, got %d", count)
	}
	if last.PositionID != p.ID() || last.Data.Left.Num != 40 {
		t.Errorf("last event: %+v", last)
	}
}
