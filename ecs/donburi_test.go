package ecs

import (
	"testing"

	"github.com/phanxgames/arbor"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []arbor.Event
	PointerEventType.Subscribe(world, func(w donburi.World, e arbor.Event) {
		received = append(received, e)
	})

	shape := arbor.NewRect("box", 10, 10)
	store.EmitEvent(arbor.Event{Type: arbor.EventPointerDown, Target: shape, Shape: shape, X: 100, Y: 200})
	store.EmitEvent(arbor.Event{Type: arbor.EventClick, Target: shape, Shape: shape})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("events delivered before ProcessEvents: %d", len(received))
	}
	PointerEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Type != arbor.EventPointerDown || e0.Shape != shape {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.X != 100 || e0.Y != 200 {
		t.Errorf("event 0 position: (%d,%d)", e0.X, e0.Y)
	}
	if received[1].Type != arbor.EventClick {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestDonburiStore_FromStage(t *testing.T) {
	world := donburi.NewWorld()
	stage := arbor.NewStage(arbor.StageConfig{Width: 50, Height: 50}, nil)
	stage.SetEntityStore(NewDonburiStore(world))

	layer := arbor.NewLayer("layer")
	if err := stage.Add(layer); err != nil {
		t.Fatal(err)
	}
	box := arbor.NewRect("box", 20, 20)
	layer.MustAdd(box)

	var clicked *arbor.Node
	PointerEventType.Subscribe(world, func(w donburi.World, e arbor.Event) {
		if e.Type == arbor.EventClick {
			clicked = e.Shape
		}
	})

	stage.InjectClick(5, 5)
	for i := 0; i < 2; i++ {
		if err := stage.Update(); err != nil {
			t.Fatal(err)
		}
	}
	events.ProcessAllEvents(world)

	if clicked != box {
		t.Errorf("clicked = %v, want box", clicked)
	}
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	PointerEventType.Subscribe(world, func(w donburi.World, e arbor.Event) {
		count1++
	})
	PointerEventType.Subscribe(world, func(w donburi.World, e arbor.Event) {
		count2++
	})

	store.EmitEvent(arbor.Event{Type: arbor.EventClick})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
