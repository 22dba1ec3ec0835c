// Package trellis is a reactive positioning and animation layer for
// floating windows and other absolutely positioned elements.
//
// A [Position] tracks the geometry of one element: left, top, width,
// height, min/max sizes, z-index, rotations, scale, translations and the
// transform origin. Updates pass through relative value resolution and a
// weighted chain of validators, are written to the element once per frame by
// a shared [Batcher], and are then published to subscribers. A shared
// [Scheduler] interpolates every running tween once per frame.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop driving a [Surface] for you:
//
//	host := trellis.NewHost()
//	box := trellis.NewBox(200, 120)
//	pos, _ := host.Surface().NewPosition(trellis.WithElement(box))
//	host.AddBox(box, pos)
//	trellis.Run(host, trellis.RunConfig{
//		Title: "My Window", Width: 1280, Height: 720,
//	})
//
// For headless use or tests, drive a [Surface] from a [ManualFrames]
// source and step it yourself:
//
//	frames := trellis.NewManualFrames()
//	surface := trellis.NewSurface(frames)
//	// ...
//	frames.Step(time.Now())
//
// # Geometry updates
//
// [Position.Set] takes an [Update] keyed by [Key]. Values are numbers,
// null, the keywords auto and inherit for width/height, a transform
// [Origin], or a relative operation ("+=10", "-=5", "*=2") resolved against
// the current value:
//
//	pos.Set(trellis.Update{
//		trellis.KeyLeft:    trellis.Num(100),
//		trellis.KeyRotateZ: trellis.Rel('+', 15),
//	})
//
// Nothing is written to the element until the next frame. Every Set within
// one frame collapses into a single write and a single notification.
//
// # Validators
//
// [NewBasicBounds] and [NewTransformBounds] keep a position inside its
// container; the latter accounts for rotation and scale through the
// projected bounding box. Any [Validator] can be added with a weight in
// [0, 1]; lower weights run first and a nil result vetoes the update.
//
// # Animation
//
// [Position.Animate] returns an [Animator] with To, From, FromTo and
// QuickTo. Each returns a [Control] whose Done channel closes when the
// tween finishes or is cancelled. [Group] applies the same operations to
// many positions. Easing functions come from [gween/ease].
//
// # Dragging
//
// [DragController] follows the pointer, optionally through a QuickTo for
// eased motion. Pointer events come from [EbitenPointer], [TcellPointer] or
// the headless [VirtualPointer], and can be scripted with
// [LoadPointerScript].
//
// # ECS
//
// [Surface.SetEventSink] receives a [GeometryEvent] per published change.
// The trellis/ecs module publishes them into a [Donburi] world.
//
// [gween/ease]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package trellis
