package viz

import (
	"errors"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

// EmptyMessage is shown when a filter leaves no articles.
const EmptyMessage = "No matching articles"

// RenderSVG draws scene as a standalone SVG document under transform t.
func RenderSVG(scene *Scene, t Transform) (string, error) {
	if scene == nil {
		return "", errors.New("scene cannot be nil")
	}
	if t.K == 0 {
		t = Identity
	}
	pal := PaletteFor(scene.Theme)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" class="kbm-graph" width="%s" height="%s" viewBox="0 0 %s %s">`,
		ftoa(scene.Width), ftoa(scene.Height), ftoa(scene.Width), ftoa(scene.Height))
	fmt.Fprintf(&b, `<rect class="background" width="100%%" height="100%%" fill="%s"/>`, pal.Background)

	if scene.Empty || len(scene.Nodes) == 0 {
		fmt.Fprintf(&b, `<text class="empty" x="%s" y="%s" text-anchor="middle" font-size="16" fill="%s">%s</text>`,
			ftoa(scene.Width/2), ftoa(scene.Height/2), pal.Label, EmptyMessage)
		b.WriteString(`</svg>`)
		return b.String(), nil
	}

	fmt.Fprintf(&b, `<g class="viewport" transform="%s">`, t.SVG())

	b.WriteString(`<g class="links">`)
	for _, l := range scene.Links {
		fmt.Fprintf(&b, `<line class="link link-%s" data-source="%s" data-target="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-opacity="%s"/>`,
			esc(string(l.Type)), esc(l.Source), esc(l.Target),
			ftoa(l.From.X), ftoa(l.From.Y), ftoa(l.To.X), ftoa(l.To.Y),
			l.Color, ftoa(l.Width), ftoa(l.Opacity))
	}
	b.WriteString(`</g>`)

	b.WriteString(`<g class="nodes">`)
	for _, n := range scene.Nodes {
		fmt.Fprintf(&b, `<g class="node" data-id="%s" transform="translate(%s,%s)">`, esc(n.ID), ftoa(n.X), ftoa(n.Y))
		fmt.Fprintf(&b, `<circle r="%s" fill="%s" stroke="%s" stroke-width="%d" stroke-opacity="%s"/>`,
			ftoa(n.Radius), n.Fill, n.Stroke, StrokeWidth, ftoa(StrokeOpacity))
		if n.Label != "" {
			fmt.Fprintf(&b, `<text dy="%s" text-anchor="middle" font-size="%dpx" fill="%s">%s</text>`,
				ftoa(n.LabelDY), LabelFontSize, pal.Label, esc(n.Label))
		}
		fmt.Fprintf(&b, `<title>%s</title></g>`, esc(n.Title))
	}
	b.WriteString(`</g>`)

	if len(scene.DepartmentLabels) > 0 {
		fmt.Fprintf(&b, `<g class="%ss">`, DepartmentLabelClass)
		for _, l := range scene.DepartmentLabels {
			fmt.Fprintf(&b, `<text class="%s" x="%s" y="%s" text-anchor="middle" font-size="%dpx" font-weight="bold" fill="%s">%s</text>`,
				DepartmentLabelClass, ftoa(l.X), ftoa(l.Y), DepartmentLabelSize, l.Color, esc(l.Text))
		}
		b.WriteString(`</g>`)
	}

	b.WriteString(`</g></svg>`)
	return b.String(), nil
}

func esc(s string) string {
	return html.EscapeString(s)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
