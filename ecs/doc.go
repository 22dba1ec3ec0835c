// Package ecs provides ECS adapters for trellis geometry events.
//
// The primary adapter is [NewDonburiSink], which publishes every geometry
// change flushed by a trellis Surface into a [Donburi] world as a typed
// event. Subscribe to [GeometryEventType] in your ECS systems to receive
// them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	surface.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
