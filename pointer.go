package arbor

import "github.com/hajimehoshi/ebiten/v2"

// pointerState tracks the mouse pointer between frames.
type pointerState struct {
	x, y    int
	seen    bool  // x and y hold a previous sample
	down    bool  // primary button held
	hover   *Node // shape under the pointer last frame
	pressed *Node // shape under the pointer when the button went down
}

// EntityStore receives every pointer event the stage dispatches, once per
// event, with Target set to the shape or to the root over empty area.
// It is the hook for ECS integration.
type EntityStore interface {
	EmitEvent(event Event)
}

// SetEntityStore sets the optional ECS bridge. Pass nil to detach it.
func (s *Stage) SetEntityStore(store EntityStore) {
	s.store = store
}

// syntheticPointerEvent is a queued pointer sample that stands in for the
// real mouse for one Update.
type syntheticPointerEvent struct {
	x, y    int
	pressed bool
}

// Update advances an attached script, refreshes the hit canvases and handles
// one frame of pointer input. A queued synthetic event, if any, is consumed
// instead of reading the mouse. Call it from the ebiten game's Update.
func (s *Stage) Update() error {
	if s.script != nil {
		s.script.step(s)
	}
	if err := s.DrawHit(); err != nil {
		return err
	}
	if s.processInjectedInput() {
		return nil
	}
	x, y := ebiten.CursorPosition()
	s.HandlePointer(x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	return nil
}

// HandlePointer runs the pointer state machine for one sample at stage
// coordinates (x, y). The shape under the pointer is found with
// GetIntersection, so the hit canvases must be current.
//
// Enter and leave fire when the hovered shape changes. A press fires
// pointerdown; a release fires pointerup, then click when the release lands
// on the shape that was pressed. Movement without a button change fires
// pointermove.
func (s *Stage) HandlePointer(x, y int, pressed bool) {
	ps := &s.pointer
	target := s.GetIntersection(x, y)

	if ps.hover != nil && ps.hover.IsDestroyed() {
		ps.hover = nil
	}
	if target != ps.hover {
		if ps.hover != nil {
			s.firePointer(EventPointerLeave, ps.hover, x, y, false)
		}
		if target != nil {
			s.firePointer(EventPointerEnter, target, x, y, false)
		}
		ps.hover = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.pressed = target
		s.firePointer(EventPointerDown, target, x, y, true)
	case !pressed && ps.down:
		ps.down = false
		s.firePointer(EventPointerUp, target, x, y, true)
		if target != nil && target == ps.pressed {
			s.firePointer(EventClick, target, x, y, true)
		}
		ps.pressed = nil
	case ps.seen && (x != ps.x || y != ps.y):
		s.firePointer(EventPointerMove, target, x, y, true)
	}
	ps.x, ps.y, ps.seen = x, y, true
}

// firePointer fires a pointer event on shape and, when bubble is set, on
// each of its ancestors up to the stage root. With no shape a bubbling event
// fires on the root alone.
func (s *Stage) firePointer(typ EventType, shape *Node, x, y int, bubble bool) {
	e := Event{Type: typ, Shape: shape, X: x, Y: y}
	if s.store != nil && (shape != nil || bubble) {
		e.Target = shape
		if e.Target == nil {
			e.Target = s.root
		}
		s.store.EmitEvent(e)
	}
	if shape == nil {
		if bubble {
			e.Target = s.root
			s.root.fire(e)
		}
		return
	}
	for n := shape; n != nil; n = n.parent {
		e.Target = n
		n.fire(e)
		if !bubble {
			return
		}
	}
}

// InjectPress queues a primary button press at stage coordinates (x, y).
// The event is consumed by the next Update.
func (s *Stage) InjectPress(x, y int) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a pointer move with the button held. Use it between
// InjectPress and InjectRelease.
func (s *Stage) InjectMove(x, y int) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a button release at (x, y). Queued after another
// release it acts as a plain hover move.
func (s *Stage) InjectRelease(x, y int) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (s *Stage) InjectClick(x, y int) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// processInjectedInput pops one queued event and feeds it to HandlePointer.
// It reports whether an event was consumed.
func (s *Stage) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	s.HandlePointer(evt.x, evt.y, evt.pressed)
	return true
}
