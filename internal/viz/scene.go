package viz

import (
	"github.com/matsen/kbm/internal/edge"
	"github.com/matsen/kbm/internal/layout"
	"github.com/matsen/kbm/internal/node"
)

// LabelMaxRunes is the longest title shown untruncated under a node.
const LabelMaxRunes = 20

// Label offsets and sizes.
const (
	LabelOffset          = 15
	LabelFontSize        = 12
	DepartmentLabelRise  = 40
	DepartmentLabelSize  = 14
	DepartmentLabelClass = "department-label"
)

// SceneNode is a styled, positioned article.
type SceneNode struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Radius  float64 `json:"radius"`
	Fill    string  `json:"fill"`
	Stroke  string  `json:"stroke"`
	Label   string  `json:"label,omitempty"`
	LabelDY float64 `json:"label_dy,omitempty"`

	// Node is the scene's own copy of the article.
	Node *node.Node   `json:"-"`
	Body *layout.Body `json:"-"`
}

// SceneLink is a styled link between two scene nodes.
type SceneLink struct {
	Source  string        `json:"source"`
	Target  string        `json:"target"`
	Type    edge.LinkType `json:"type"`
	Value   float64       `json:"value"`
	Color   string        `json:"color"`
	Width   float64       `json:"width"`
	Opacity float64       `json:"opacity"`

	From *SceneNode `json:"-"`
	To   *SceneNode `json:"-"`
}

// SceneLabel is a free-standing text label, used for cluster names.
type SceneLabel struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// Scene is everything needed to draw one graph.
type Scene struct {
	Width            float64      `json:"width"`
	Height           float64      `json:"height"`
	Layout           layout.Mode  `json:"layout"`
	Theme            Theme        `json:"theme"`
	Nodes            []*SceneNode `json:"nodes"`
	Links            []*SceneLink `json:"links"`
	DepartmentLabels []SceneLabel `json:"department_labels,omitempty"`
	Empty            bool         `json:"empty"`
	Settled          bool         `json:"settled"`

	byID map[string]*SceneNode
}

// EmptyScene is the scene for a filter that matched nothing.
func EmptyScene(opts Options) *Scene {
	return &Scene{Width: opts.Width, Height: opts.Height, Layout: opts.Layout, Theme: opts.Theme, Empty: true}
}

// Node returns the scene node with id, or nil.
func (s *Scene) Node(id string) *SceneNode {
	return s.byID[id]
}

// Sync copies simulated positions into the scene.
func (s *Scene) Sync() {
	for _, n := range s.Nodes {
		if n.Body != nil {
			n.X, n.Y = n.Body.X, n.Body.Y
		}
	}
}

// TruncateLabel shortens title to LabelMaxRunes runes plus "...".
func TruncateLabel(title string) string {
	r := []rune(title)
	if len(r) <= LabelMaxRunes {
		return title
	}
	return string(r[:LabelMaxRunes]) + "..."
}

// BuildScene styles nodes and links and prepares a simulation for them.
// nodes and links must already be private copies; the scene keeps pointers
// into nodes. Links whose endpoints are missing are skipped.
func BuildScene(nodes []node.Node, links []edge.Link, opts Options, seed int64) (*Scene, *layout.Simulation, error) {
	if len(nodes) == 0 {
		return EmptyScene(opts), nil, nil
	}

	scale := NewDensityScale(nodes)
	scene := &Scene{
		Width:  opts.Width,
		Height: opts.Height,
		Layout: opts.Layout,
		Theme:  opts.Theme,
		Nodes:  make([]*SceneNode, 0, len(nodes)),
		byID:   make(map[string]*SceneNode, len(nodes)),
	}
	bodies := make([]*layout.Body, 0, len(nodes))

	for i := range nodes {
		n := &nodes[i]
		r := n.Radius()
		body := layout.NewBody(n.ID, string(n.Department), r)
		sn := &SceneNode{
			ID:     n.ID,
			Title:  n.Title,
			Radius: r,
			Fill:   NodeFill(n, opts, scale),
			Stroke: NodeStroke(n),
			Node:   n,
			Body:   body,
		}
		if opts.ShowLabels {
			sn.Label = TruncateLabel(n.Title)
			sn.LabelDY = r + LabelOffset
		}
		scene.Nodes = append(scene.Nodes, sn)
		scene.byID[n.ID] = sn
		bodies = append(bodies, body)
	}

	simLinks := make([]layout.Link, 0, len(links))
	for _, l := range links {
		from, to := scene.byID[l.Source], scene.byID[l.Target]
		if from == nil || to == nil {
			continue
		}
		scene.Links = append(scene.Links, &SceneLink{
			Source:  l.Source,
			Target:  l.Target,
			Type:    l.Type,
			Value:   l.Value,
			Color:   LinkColor(l.Type, opts.Theme),
			Width:   LinkWidth(l.Value),
			Opacity: LinkOpacity,
			From:    from,
			To:      to,
		})
		simLinks = append(simLinks, layout.Link{Source: from.Body, Target: to.Body, Value: l.Value})
	}

	sim, err := layout.Build(opts.Layout, bodies, simLinks, opts.Width, opts.Height, seed)
	if err != nil {
		return nil, nil, err
	}

	if opts.Layout == layout.ModeCluster {
		depts := layout.Departments(bodies)
		centers := layout.ClusterCenters(depts, opts.Width, opts.Height)
		for _, d := range depts {
			c := centers[d]
			scene.DepartmentLabels = append(scene.DepartmentLabels, SceneLabel{
				Text:  d,
				X:     c.X,
				Y:     c.Y - DepartmentLabelRise,
				Color: DepartmentLabelColor(node.Department(d), opts.Theme),
			})
		}
	}

	scene.Sync()
	return scene, sim, nil
}
