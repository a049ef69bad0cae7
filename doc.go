// Package arbor is a retained-mode 2D scene graph for [Ebitengine].
//
// Arbor keeps shapes in a strict tree of stages, layers, groups and shapes,
// finds them with a small selector language, and draws them in two passes:
// a scene pass that produces the visible image and a hit pass that paints
// every shape in a unique color so the shape under a pixel can be found
// with a single lookup.
//
// # Quick start
//
//	stage := arbor.NewStage(arbor.DefaultStageConfig(), nil)
//	layer := arbor.NewLayer("main")
//	stage.Add(layer)
//
//	box := arbor.NewRect("box", 80, 40)
//	box.SetID("hero")
//	box.X, box.Y = 100, 50
//	box.Fill = arbor.Color{R: 0.3, G: 0.7, B: 1, A: 1}
//	layer.Add(box)
//
// Implement [ebiten.Game] and call [Stage.Draw] from Draw:
//
//	type Game struct{ stage *arbor.Stage }
//
//	func (g *Game) Update() error              { return g.stage.Update() }
//	func (g *Game) Draw(s *ebiten.Image)       { g.stage.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Tree
//
// Every element is a [Node]. A [Stage] holds layers; layers and groups hold
// groups and shapes. [Node.Add] validates the child against these rules and
// returns an [*AddError] (matching [ErrInvalidAdd]) without touching the
// tree when it is rejected. Adding a node that already has a parent moves it.
//
// Every child knows its position among its siblings ([Node.Index]) and the
// z-order helpers ([Node.MoveToTop], [Node.SetZIndex], ...) keep those
// positions contiguous.
//
// [Node.Destroy] destroys descendants first, then the node itself, and
// releases their registry entries. [Node.Remove] only detaches.
//
// # Selectors
//
// [Node.Get] resolves comma-separated clauses against the subtree:
//
//	layer.Get("#hero")         // by id
//	layer.Get(".enemy")        // by name
//	layer.Get("Circle")        // by class or type
//	layer.Get("#hero, .enemy") // both, concatenated
//
// Ids and names are looked up in the tree's [Registry] and then filtered to
// descendants of the queried node, so a subtree query never returns nodes
// living elsewhere.
//
// # Drawing
//
// [Node.DrawScene] and [Node.DrawHit] walk the tree depth-first in child
// order. A container with a ClipFunc draws its children inside a clip scope
// on the [Surface]; the scope is always released, even when a child fails.
// [Stage.GetIntersection] reads the hit canvases to find the top-most shape
// at a pixel; [Node.GetAllIntersections] tests geometry directly and is the
// slower fallback.
//
// # Pointer events
//
// [Stage.Update] redraws the hit canvases and feeds the mouse through
// [Stage.HandlePointer], which fires pointerdown, pointerup, pointermove and
// click on the shape under the pointer and bubbles them to the root.
// Register listeners with [Node.On]. [Stage.InjectClick] and friends queue
// synthetic input, and [LoadScript] with [Stage.RunScript] replays a scripted
// session headless, taking screenshots along the way.
//
// # Persistence
//
// [Node.ToJSON], [Node.ToYAML], [Create], [CreateYAML] and [LoadStage]
// convert trees to and from plain records. [Node.Clone] deep-copies a
// subtree with fresh identities.
//
// [Ebitengine]: https://ebitengine.org
package arbor
