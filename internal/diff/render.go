package diff

import (
	"html"
	"strings"

	"github.com/fatih/color"
)

// CSS classes for rendered spans.
const (
	ClassAdded   = "diff-added"
	ClassRemoved = "diff-removed"
)

// RenderHTML renders spans as escaped HTML. Unchanged text is plain, added
// text is highlighted green and removed text red with a strike-through.
func RenderHTML(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		v := html.EscapeString(s.Value)
		switch {
		case s.Added:
			b.WriteString(`<span class="` + ClassAdded + `" style="background:#ecfdf5;color:#065f46">` + v + `</span>`)
		case s.Removed:
			b.WriteString(`<span class="` + ClassRemoved + `" style="background:#fef2f2;color:#991b1b;text-decoration:line-through">` + v + `</span>`)
		default:
			b.WriteString(v)
		}
	}
	return b.String()
}

var (
	addedColor   = color.New(color.FgGreen, color.Bold)
	removedColor = color.New(color.FgRed, color.CrossedOut)
)

// RenderANSI renders spans for a terminal. When color output is disabled,
// changes are marked as {+added+} and [-removed-].
func RenderANSI(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch {
		case s.Added && color.NoColor:
			b.WriteString("{+" + s.Value + "+}")
		case s.Removed && color.NoColor:
			b.WriteString("[-" + s.Value + "-]")
		case s.Added:
			b.WriteString(addedColor.Sprint(s.Value))
		case s.Removed:
			b.WriteString(removedColor.Sprint(s.Value))
		default:
			b.WriteString(s.Value)
		}
	}
	return b.String()
}
