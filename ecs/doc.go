// Package ecs provides ECS adapters for arbor's pointer events.
//
// The primary adapter is [NewDonburiStore], which bridges arbor pointer
// events (down, up, move, enter, leave, click) into a [Donburi] world as
// typed events. Subscribe to [PointerEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	stage.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
