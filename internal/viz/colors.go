package viz

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matsen/kbm/internal/edge"
	"github.com/matsen/kbm/internal/node"
)

// DepartmentColors maps departments to their node fill.
var DepartmentColors = map[node.Department]string{
	node.DeptHR:              "#a78bfa",
	node.DeptSupport:         "#60a5fa",
	node.DeptIT:              "#5eead4",
	node.DeptSales:           "#fde68a",
	node.DeptMarketing:       "#fca5a5",
	node.DeptEngineering:     "#93c5fd",
	node.DeptProduct:         "#86efac",
	node.DeptCustomerSupport: "#fdba74",
	node.DeptFinance:         "#c4b5fd",
	node.DeptLegal:           "#f9a8d4",
	node.DeptOperations:      "#a5b4fc",
	node.DeptResearch:        "#d8b4fe",
}

// StatusColors maps statuses to their node stroke. Statuses without an entry
// get a transparent stroke.
var StatusColors = map[node.Status]string{
	node.StatusOutdated:        "#ef4444",
	node.StatusCurrent:         "#10b981",
	node.StatusRecentlyUpdated: "#3b82f6",
	node.StatusLowPerforming:   "#f59e0b",
	node.StatusDraft:           "#9ca3af",
	node.StatusPublished:       "#10b981",
	node.StatusArchived:        "#6b7280",
	node.StatusReview:          "#f59e0b",
}

// Palette is the set of theme-dependent colors.
type Palette struct {
	Neutral           string
	UnknownDepartment string
	Label             string
	DepartmentLabel   string
	LinkRelated       string
	LinkCross         string
	LinkDefault       string
	Background        string
}

var (
	lightPalette = Palette{
		Neutral:           "#d1d5db",
		UnknownDepartment: "#e5e7eb",
		Label:             "#4b5563",
		DepartmentLabel:   "#4b5563",
		LinkRelated:       "#a78bfa",
		LinkCross:         "#fbbf24",
		LinkDefault:       "#e5e7eb",
		Background:        "#ffffff",
	}
	darkPalette = Palette{
		Neutral:           "#6b7280",
		UnknownDepartment: "#e5e7eb",
		Label:             "#d1d5db",
		DepartmentLabel:   "#4b5563",
		LinkRelated:       "#8b5cf6",
		LinkCross:         "#f59e0b",
		LinkDefault:       "#374151",
		Background:        "#111827",
	}
)

// PaletteFor returns the palette for theme.
func PaletteFor(theme Theme) Palette {
	if theme == ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// Stroke and link styling constants.
const (
	StrokeWidth   = 3
	StrokeOpacity = 0.9
	LinkOpacity   = 0.6
	Transparent   = "transparent"
)

// viridisStops samples the viridis colormap at t = 0, 0.1, ..., 1.
var viridisStops = mustHexes(
	"#440154", "#482475", "#414487", "#355f8d", "#2a788e",
	"#21918c", "#22a884", "#44bf70", "#7ad151", "#bddf26", "#fde725",
)

func mustHexes(hexes ...string) []colorful.Color {
	out := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}

// DefaultDensityMax is the top of the density scale when no article has views.
const DefaultDensityMax = 1000

// DensityScale maps view counts onto the viridis colormap over [0, Max].
type DensityScale struct {
	Max float64
}

// NewDensityScale returns a scale spanning the highest view count in nodes.
func NewDensityScale(nodes []node.Node) DensityScale {
	maxViews := 0
	for _, n := range nodes {
		if n.Analytics.Views > maxViews {
			maxViews = n.Analytics.Views
		}
	}
	if maxViews == 0 {
		return DensityScale{Max: DefaultDensityMax}
	}
	return DensityScale{Max: float64(maxViews)}
}

// Color returns the hex color for views. Values outside [0, Max] are clamped.
func (s DensityScale) Color(views float64) string {
	max := s.Max
	if max <= 0 {
		max = DefaultDensityMax
	}
	return Viridis(views / max).Hex()
}

// Viridis interpolates the viridis colormap at t in [0, 1].
func Viridis(t float64) colorful.Color {
	if math.IsNaN(t) || t <= 0 {
		return viridisStops[0]
	}
	if t >= 1 {
		return viridisStops[len(viridisStops)-1]
	}
	pos := t * float64(len(viridisStops)-1)
	i := int(pos)
	return viridisStops[i].BlendRgb(viridisStops[i+1], pos-float64(i)).Clamped()
}

// NodeFill picks a node's fill: density first, then department, then neutral.
func NodeFill(n *node.Node, opts Options, scale DensityScale) string {
	if opts.ColorByDensity {
		return scale.Color(float64(n.Analytics.Views))
	}
	pal := PaletteFor(opts.Theme)
	if opts.ColorByDepartment {
		if c, ok := DepartmentColors[n.Department]; ok {
			return c
		}
		return pal.UnknownDepartment
	}
	return pal.Neutral
}

// NodeStroke returns the status stroke color.
func NodeStroke(n *node.Node) string {
	if c, ok := StatusColors[n.Status]; ok {
		return c
	}
	return Transparent
}

// DepartmentLabelColor is the fill of a cluster label.
func DepartmentLabelColor(d node.Department, theme Theme) string {
	if c, ok := DepartmentColors[d]; ok {
		return c
	}
	return PaletteFor(theme).DepartmentLabel
}

// LinkColor colors a link by type.
func LinkColor(t edge.LinkType, theme Theme) string {
	pal := PaletteFor(theme)
	switch t {
	case edge.TypeRelated:
		return pal.LinkRelated
	case edge.TypeCrossDepartment:
		return pal.LinkCross
	default:
		return pal.LinkDefault
	}
}

// LinkWidth is sqrt(value)*2, treating a non-positive value as 1.
func LinkWidth(value float64) float64 {
	if value <= 0 {
		value = 1
	}
	return math.Sqrt(value) * 2
}
