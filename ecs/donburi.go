package ecs

import (
	"github.com/phanxgames/trellis"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GeometryEventType is the Donburi event type for trellis geometry events.
var GeometryEventType = events.NewEventType[trellis.GeometryEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Geometry
// events are published to GeometryEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) trellis.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitGeometry(event trellis.GeometryEvent) {
	GeometryEventType.Publish(s.world, event)
}
