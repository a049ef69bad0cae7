package arbor

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween animates up to four float64 attributes of one node together. Build
// one with TweenPosition, TweenScale, TweenRotation, TweenOpacity or
// TweenFill and call Update(dt) each frame; values are written straight into
// the node's fields. A tween whose node is destroyed stops without writing.
type Tween struct {
	tweens [4]*gween.Tween
	fields [4]*float64
	count  int
	target *Node
	Done   bool
}

func newTween(node *Node, duration float32, fn ease.TweenFunc, pairs ...tweenPair) *Tween {
	tw := &Tween{target: node, count: len(pairs)}
	for i, p := range pairs {
		tw.tweens[i] = gween.New(float32(*p.field), float32(p.to), duration, fn)
		tw.fields[i] = p.field
	}
	return tw
}

type tweenPair struct {
	field *float64
	to    float64
}

// Update advances the tween by dt seconds. It reports whether the tween is
// done, either because it ran its full duration or because the node was
// destroyed.
func (tw *Tween) Update(dt float32) bool {
	if tw.Done {
		return true
	}
	if tw.target == nil || tw.target.IsDestroyed() {
		tw.Done = true
		return true
	}
	finished := true
	for i := 0; i < tw.count; i++ {
		v, done := tw.tweens[i].Update(dt)
		*tw.fields[i] = float64(v)
		finished = finished && done
	}
	tw.Done = finished
	return finished
}

// Reset rewinds the tween to its start values.
func (tw *Tween) Reset() {
	for i := 0; i < tw.count; i++ {
		tw.tweens[i].Reset()
	}
	tw.Done = false
}

// TweenPosition animates X and Y to (toX, toY).
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *Tween {
	return newTween(node, duration, fn, tweenPair{&node.X, toX}, tweenPair{&node.Y, toY})
}

// TweenScale animates ScaleX and ScaleY.
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *Tween {
	return newTween(node, duration, fn, tweenPair{&node.ScaleX, toSX}, tweenPair{&node.ScaleY, toSY})
}

// TweenRotation animates Rotation (radians).
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *Tween {
	return newTween(node, duration, fn, tweenPair{&node.Rotation, to})
}

// TweenOpacity animates Opacity.
func TweenOpacity(node *Node, to float64, duration float32, fn ease.TweenFunc) *Tween {
	return newTween(node, duration, fn, tweenPair{&node.Opacity, to})
}

// TweenFill animates all four components of a shape's Fill.
func TweenFill(node *Node, to Color, duration float32, fn ease.TweenFunc) *Tween {
	return newTween(node, duration, fn,
		tweenPair{&node.Fill.R, to.R},
		tweenPair{&node.Fill.G, to.G},
		tweenPair{&node.Fill.B, to.B},
		tweenPair{&node.Fill.A, to.A},
	)
}

// Tweens runs a set of tweens and drops each one when it finishes.
type Tweens struct {
	active []*Tween
}

// Add starts tw.
func (ts *Tweens) Add(tw *Tween) {
	ts.active = append(ts.active, tw)
}

// Len returns the number of running tweens.
func (ts *Tweens) Len() int {
	return len(ts.active)
}

// Update advances every running tween by dt seconds.
func (ts *Tweens) Update(dt float32) {
	kept := ts.active[:0]
	for _, tw := range ts.active {
		if !tw.Update(dt) {
			kept = append(kept, tw)
		}
	}
	clear(ts.active[len(kept):])
	ts.active = kept
}
