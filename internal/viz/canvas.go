package viz

import (
	"github.com/matsen/kbm/internal/layout"
	"github.com/matsen/kbm/internal/node"
)

// DragAlphaTarget keeps the simulation warm while a node is dragged.
const DragAlphaTarget = 0.3

// AnimationAlpha is the temperature the simulation restarts at when
// animation is switched back on.
const AnimationAlpha = 0.3

// Notice is a transient user-facing message.
type Notice struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// SelectedNotice is shown when a node is clicked.
func SelectedNotice(n *node.Node) Notice {
	return Notice{Title: "Node Selected", Message: `Viewing details for "` + n.Title + `"`}
}

// Canvas is the interaction model for a rendered scene: zoom and pan, node
// drag, hover and click. Points passed in are screen coordinates.
type Canvas struct {
	Scene     *Scene
	Sim       *layout.Simulation
	Transform Transform

	// OnNodeClick receives a copy of the clicked article.
	OnNodeClick func(node.Node)
	// OnHover receives the hovered article, or nil when the pointer leaves it.
	OnHover  func(*node.Node)
	OnNotice func(Notice)

	// TicksPerMove is how many simulation ticks run per drag move.
	TicksPerMove int

	hovered   *SceneNode
	dragging  *SceneNode
	animating bool
}

// NewCanvas wraps scene and its simulation. sim may be nil for an empty scene.
func NewCanvas(scene *Scene, sim *layout.Simulation) *Canvas {
	return &Canvas{Scene: scene, Sim: sim, Transform: Identity, TicksPerMove: 1, animating: true}
}

// ZoomIn scales up by ZoomFactor, keeping the translation.
func (c *Canvas) ZoomIn() {
	c.Transform = c.Transform.Scale(c.Transform.K * ZoomFactor)
}

// ZoomOut scales down by ZoomFactor, keeping the translation.
func (c *Canvas) ZoomOut() {
	c.Transform = c.Transform.Scale(c.Transform.K / ZoomFactor)
}

// ResetZoom returns to the identity transform.
func (c *Canvas) ResetZoom() {
	c.Transform = Identity
}

// Zoom scales by factor around the screen point at, as a wheel gesture does.
func (c *Canvas) Zoom(factor float64, at layout.Point) {
	c.Transform = c.Transform.ZoomAt(at, factor)
}

// Pan moves the scene by (dx, dy) screen pixels.
func (c *Canvas) Pan(dx, dy float64) {
	c.Transform = c.Transform.Pan(dx, dy)
}

// HitTest returns the topmost node under screen point p, or nil.
func (c *Canvas) HitTest(p layout.Point) *SceneNode {
	if c.Scene == nil {
		return nil
	}
	sp := c.Transform.Invert(p)
	for i := len(c.Scene.Nodes) - 1; i >= 0; i-- {
		n := c.Scene.Nodes[i]
		dx, dy := sp.X-n.X, sp.Y-n.Y
		if dx*dx+dy*dy <= n.Radius*n.Radius {
			return n
		}
	}
	return nil
}

// Hovered returns the hovered article, or nil.
func (c *Canvas) Hovered() *node.Node {
	if c.hovered == nil {
		return nil
	}
	return c.hovered.Node
}

// Dragging reports whether a node drag is in progress.
func (c *Canvas) Dragging() bool {
	return c.dragging != nil
}

// PointerDown starts dragging the node under p, if any. The node is pinned
// where it is and the simulation is reheated.
func (c *Canvas) PointerDown(p layout.Point) bool {
	n := c.HitTest(p)
	if n == nil || n.Body == nil || c.Sim == nil {
		return false
	}
	if c.Sim.AlphaTarget() == 0 {
		c.Sim.SetAlphaTarget(DragAlphaTarget)
		c.Sim.Restart()
	}
	n.Body.Pin(n.Body.X, n.Body.Y)
	c.dragging = n
	return true
}

// PointerMove drags the active node to p, or updates the hover state.
func (c *Canvas) PointerMove(p layout.Point) {
	if c.dragging != nil {
		sp := c.Transform.Invert(p)
		c.dragging.Body.Pin(sp.X, sp.Y)
		c.Advance(c.TicksPerMove)
		return
	}

	n := c.HitTest(p)
	if n == c.hovered {
		return
	}
	c.hovered = n
	if c.OnHover == nil {
		return
	}
	if n == nil {
		c.OnHover(nil)
		return
	}
	c.OnHover(n.Node)
}

// PointerUp ends a drag, releasing the pin and letting the simulation cool.
func (c *Canvas) PointerUp() {
	if c.dragging == nil {
		return
	}
	c.Sim.SetAlphaTarget(0)
	c.dragging.Body.Unpin()
	c.dragging = nil
}

// Click selects the node under p. The click callback fires once with a
// copy of the full article; the scene is not modified.
func (c *Canvas) Click(p layout.Point) (*node.Node, bool) {
	n := c.HitTest(p)
	if n == nil {
		return nil, false
	}
	if c.OnNodeClick != nil {
		c.OnNodeClick(n.Node.Clone())
	}
	if c.OnNotice != nil {
		c.OnNotice(SelectedNotice(n.Node))
	}
	return n.Node, true
}

// Animating reports whether the simulation is allowed to run.
func (c *Canvas) Animating() bool {
	return c.animating
}

// SetAnimating reheats and restarts the simulation, or freezes it in place.
func (c *Canvas) SetAnimating(on bool) {
	c.animating = on
	if c.Sim == nil {
		return
	}
	if on {
		c.Sim.SetAlpha(AnimationAlpha)
		c.Sim.Restart()
		return
	}
	c.Sim.SetAlpha(0)
	c.Sim.Stop()
}

// Advance runs up to n simulation ticks and syncs positions into the scene.
// A stopped or cooled simulation does not move unless it is being held warm.
func (c *Canvas) Advance(n int) int {
	if c.Sim == nil {
		return 0
	}
	ran := 0
	for ; ran < n; ran++ {
		if c.Sim.Stopped() {
			break
		}
		if c.Sim.Settled() && c.Sim.AlphaTarget() == 0 {
			break
		}
		c.Sim.Tick()
	}
	c.Scene.Sync()
	return ran
}
