package arbor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pointerFixture is a 100x100 stage with two rects on one layer:
// left covers x 0..40, right covers x 60..100, both y 0..40.
type pointerFixture struct {
	stage       *Stage
	layer       *Node
	left, right *Node
	log         []string
}

func newPointerFixture(t *testing.T) *pointerFixture {
	t.Helper()
	f := &pointerFixture{
		stage: NewStage(StageConfig{Width: 100, Height: 100}, nil),
		layer: NewLayer("layer"),
		left:  NewRect("left", 40, 40),
		right: NewRect("right", 40, 40),
	}
	f.right.X = 60
	require.NoError(t, f.stage.Add(f.layer))
	f.layer.MustAdd(f.left, f.right)
	require.NoError(t, f.stage.DrawHit())
	return f
}

// record logs every pointer event that reaches n as "event:target/shape".
func (f *pointerFixture) record(n *Node) {
	for _, evt := range []EventType{EventPointerDown, EventPointerUp, EventPointerMove,
		EventPointerEnter, EventPointerLeave, EventClick} {
		n.On(evt, func(e Event) {
			f.log = append(f.log, fmt.Sprintf("%s:%s/%s", e.Type, e.Target.Name(), e.Shape.Name()))
		})
	}
}

func TestPointerClickBubbles(t *testing.T) {
	f := newPointerFixture(t)
	f.record(f.left)
	f.record(f.layer)

	f.stage.HandlePointer(10, 10, true)
	f.stage.HandlePointer(10, 10, false)

	assert.Equal(t, []string{
		"pointerenter:left/left",
		"pointerdown:left/left",
		"pointerdown:layer/left",
		"pointerup:left/left",
		"pointerup:layer/left",
		"click:left/left",
		"click:layer/left",
	}, f.log)
}

func TestPointerNoClickWhenReleasedElsewhere(t *testing.T) {
	f := newPointerFixture(t)
	var clicks int
	f.layer.On(EventClick, func(Event) { clicks++ })

	f.stage.HandlePointer(10, 10, true)
	f.stage.HandlePointer(70, 10, true)
	f.stage.HandlePointer(70, 10, false)
	assert.Zero(t, clicks)

	f.stage.HandlePointer(70, 10, true)
	f.stage.HandlePointer(70, 10, false)
	assert.Equal(t, 1, clicks)
}

func TestPointerEnterLeaveAndMove(t *testing.T) {
	f := newPointerFixture(t)
	f.record(f.left)
	f.record(f.right)

	f.stage.HandlePointer(10, 10, false)
	f.stage.HandlePointer(12, 10, false)
	f.stage.HandlePointer(70, 10, false)
	f.stage.HandlePointer(50, 50, false)

	assert.Equal(t, []string{
		"pointerenter:left/left",
		"pointermove:left/left",
		"pointerleave:left/left",
		"pointerenter:right/right",
		"pointermove:right/right",
		"pointerleave:right/right",
	}, f.log)
}

func TestPointerOverEmptyAreaFiresOnRoot(t *testing.T) {
	f := newPointerFixture(t)
	var got []Event
	f.stage.Root().On(EventPointerDown, func(e Event) { got = append(got, e) })

	f.stage.HandlePointer(50, 80, true)
	f.stage.HandlePointer(5, 5, false)
	f.stage.HandlePointer(5, 5, true)

	require.Len(t, got, 2)
	assert.Nil(t, got[0].Shape)
	assert.Equal(t, [2]int{50, 80}, [2]int{got[0].X, got[0].Y})
	assert.Same(t, f.left, got[1].Shape, "events bubble all the way to the root")
	assert.Same(t, f.stage.Root(), got[1].Target)
}

func TestPointerSkipsNonListeningShapes(t *testing.T) {
	f := newPointerFixture(t)
	f.left.Listening = false
	require.NoError(t, f.stage.DrawHit())

	var downs int
	f.stage.Root().On(EventPointerDown, func(e Event) {
		assert.Nil(t, e.Shape)
		downs++
	})
	f.stage.HandlePointer(10, 10, true)
	assert.Equal(t, 1, downs)
}

func TestPointerHoverTargetDestroyed(t *testing.T) {
	f := newPointerFixture(t)
	var leaves int
	f.left.On(EventPointerLeave, func(Event) { leaves++ })

	f.stage.HandlePointer(10, 10, false)
	require.NoError(t, f.left.Destroy())
	require.NoError(t, f.stage.DrawHit())
	f.stage.HandlePointer(11, 10, false)
	assert.Zero(t, leaves, "destroyed shapes get no further events")
}

func TestInjectedClickThroughUpdate(t *testing.T) {
	f := newPointerFixture(t)
	var clicked *Node
	f.layer.On(EventClick, func(e Event) { clicked = e.Shape })

	f.stage.InjectClick(70, 20)
	require.Len(t, f.stage.injectQueue, 2)

	require.NoError(t, f.stage.Update())
	assert.Nil(t, clicked, "click fires on the release frame")
	require.NoError(t, f.stage.Update())
	assert.Same(t, f.right, clicked)
	assert.Empty(t, f.stage.injectQueue)
}

func TestInjectQueueOrder(t *testing.T) {
	s := NewStage(StageConfig{Width: 10, Height: 10}, nil)
	s.InjectPress(1, 2)
	s.InjectMove(3, 4)
	s.InjectRelease(5, 6)

	assert.Equal(t, []syntheticPointerEvent{
		{x: 1, y: 2, pressed: true},
		{x: 3, y: 4, pressed: true},
		{x: 5, y: 6},
	}, s.injectQueue)
	assert.False(t, (&Stage{}).processInjectedInput(), "empty queue consumes nothing")
}

type recordingStore struct {
	events []Event
}

func (r *recordingStore) EmitEvent(e Event) {
	r.events = append(r.events, e)
}

func TestEntityStoreReceivesEachEventOnce(t *testing.T) {
	f := newPointerFixture(t)
	store := &recordingStore{}
	f.stage.SetEntityStore(store)

	f.stage.HandlePointer(10, 10, true)
	f.stage.HandlePointer(10, 10, false)
	f.stage.HandlePointer(50, 90, false)

	var types []EventType
	for _, e := range store.events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []EventType{
		EventPointerEnter, EventPointerDown, EventPointerUp, EventClick,
		EventPointerLeave, EventPointerMove,
	}, types)
	assert.Same(t, f.left, store.events[0].Target)
	assert.Same(t, f.stage.Root(), store.events[5].Target, "empty area reports the root")
	assert.Nil(t, store.events[5].Shape)

	f.stage.SetEntityStore(nil)
	f.stage.HandlePointer(10, 10, false)
	assert.Len(t, store.events, 6)
}
