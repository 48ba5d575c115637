package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/matsen/kbm/internal/diff"
	"github.com/matsen/kbm/internal/insights"
	"github.com/matsen/kbm/internal/node"
	"github.com/matsen/kbm/internal/viz"
)

// pages is parsed at init time to fail fast on template errors.
var pages = template.Must(template.New("pages").Parse(pageTemplates))

type nodePageData struct {
	Notice      viz.Notice
	Node        node.Node
	Tooltip     viz.Tooltip
	Content     template.HTML
	Suggestions []insights.Suggestion
}

type comparePageData struct {
	Comparison diff.Comparison
	DiffHTML   template.HTML
	Summary    string
}

// page executes a named template into a buffer first so a template error
// never produces a half-written page.
func (s *Server) page(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

const pageTemplates = `
{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; margin: 0 auto; max-width: 960px; padding: 24px; color: #111827; }
.notice { background: #eef2ff; border-radius: 6px; padding: 8px 12px; margin-bottom: 16px; }
.meta { color: #6b7280; font-size: 14px; }
.tag { display: inline-block; background: #f3f4f6; border-radius: 4px; padding: 2px 6px; margin-right: 4px; font-size: 12px; }
.cols { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; }
.diff { white-space: pre-wrap; border: 1px solid #e5e7eb; border-radius: 6px; padding: 12px; }
table { border-collapse: collapse; }
td, th { padding: 4px 12px 4px 0; text-align: left; }
</style>
</head>
<body>
{{end}}

{{define "node"}}{{template "head" .Node.Title}}
<div class="notice"><strong>{{.Notice.Title}}</strong> {{.Notice.Message}}</div>
<a href="/graph">&larr; Back to graph</a>
<h1>{{.Node.Title}}</h1>
<p class="meta">{{.Tooltip.Department}} &middot; {{.Tooltip.Status}} &middot; {{.Node.Author}} &middot; updated {{.Node.UpdatedAt}}</p>
<p>{{.Node.Description}}</p>
<p>{{range .Node.Tags}}<span class="tag">{{.}}</span>{{end}}</p>
<table>
<tr><th>Views</th><td>{{.Node.Analytics.Views}}</td></tr>
<tr><th>Helpfulness</th><td>{{.Node.Analytics.Helpfulness}}%</td></tr>
<tr><th>Search relevance</th><td>{{.Node.Analytics.SearchRelevance}}%</td></tr>
<tr><th>Freshness</th><td>{{.Node.Analytics.Freshness}}%</td></tr>
<tr><th>Completeness</th><td>{{.Node.Analytics.Completeness}}%</td></tr>
<tr><th>Accuracy</th><td>{{.Node.Analytics.Accuracy}}%</td></tr>
</table>
<h2>Content</h2>
<div>{{.Content}}</div>
{{if .Node.RelatedDocuments}}<h2>Related documents</h2>
<ul>{{range .Node.RelatedDocuments}}<li><a href="/nodes/{{.ID}}">{{.Title}}</a> ({{.Similarity}}% similar)</li>{{end}}</ul>{{end}}
{{if .Suggestions}}<h2>Suggestions</h2>
<ul>{{range .Suggestions}}<li><strong>{{.Type}}</strong> ({{.Impact}} impact): {{.Description}}</li>{{end}}</ul>{{end}}
</body>
</html>
{{end}}

{{define "compare"}}{{template "head" "Compare articles"}}
<h1>Compare articles</h1>
<div class="cols">
<div><h2>Article 1: {{.Comparison.A.Title}}</h2>
<p class="meta">{{.Comparison.A.Views}} views &middot; {{printf "%.0f" .Comparison.HelpfulnessA}}% helpful &middot; updated {{.Comparison.A.UpdatedAt}}</p></div>
<div><h2>Article 2: {{.Comparison.B.Title}}</h2>
<p class="meta">{{.Comparison.B.Views}} views &middot; {{printf "%.0f" .Comparison.HelpfulnessB}}% helpful &middot; updated {{.Comparison.B.UpdatedAt}}</p></div>
</div>
<h2>Content differences</h2>
<p class="meta">{{.Comparison.Stats.Added}} added, {{.Comparison.Stats.Removed}} removed, {{.Comparison.Stats.Unchanged}} unchanged</p>
<div class="diff">{{.DiffHTML}}</div>
<h2>Tags</h2>
<p>Common: {{range .Comparison.Tags.Common}}<span class="tag">{{.}}</span>{{end}}</p>
<p>Only in article 1: {{range .Comparison.Tags.OnlyA}}<span class="tag">{{.}}</span>{{end}}</p>
<p>Only in article 2: {{range .Comparison.Tags.OnlyB}}<span class="tag">{{.}}</span>{{end}}</p>
<h2>Performance</h2>
<p>{{.Summary}}</p>
<p>Better overall performance: <strong>{{.Comparison.PerformanceWinner}}</strong></p>
<h2>Recommendation</h2>
<p><strong>{{.Comparison.Recommendation}}</strong></p>
<p>{{.Comparison.ContentStrategy}}</p>
<ul>{{range .Comparison.Suggestions}}<li>{{.}}</li>{{end}}</ul>
</body>
</html>
{{end}}
`
