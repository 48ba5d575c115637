package viz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Title      string
	DetailBase string // click target prefix; the node id is appended
}

// DefaultHTMLOptions returns default HTML generation options.
func DefaultHTMLOptions() HTMLOptions {
	return HTMLOptions{
		Title:      "Knowledge Graph",
		DetailBase: "/nodes/",
	}
}

// GenerateHTML generates a self-contained interactive page for scene.
func GenerateHTML(scene *Scene, opts HTMLOptions) (string, error) {
	if scene == nil {
		return "", fmt.Errorf("scene cannot be nil")
	}
	if opts.Title == "" {
		opts.Title = DefaultHTMLOptions().Title
	}

	if scene.Empty || len(scene.Nodes) == 0 {
		return generateEmptyHTML(opts.Title), nil
	}

	svg, err := RenderSVG(scene, Identity)
	if err != nil {
		return "", err
	}

	tips := make(map[string]Tooltip, len(scene.Nodes))
	for _, n := range scene.Nodes {
		tips[n.ID] = TooltipFor(n.Node)
	}
	tipsJSON, err := json.Marshal(tips)
	if err != nil {
		return "", err
	}

	data := templateData{
		Title:      opts.Title,
		SVG:        template.HTML(svg),
		Tooltips:   template.JS(tipsJSON),
		DetailBase: opts.DetailBase,
		MinScale:   MinScale,
		MaxScale:   MaxScale,
		ZoomFactor: ZoomFactor,
		Background: PaletteFor(scene.Theme).Background,
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// templateData holds data for the HTML template.
type templateData struct {
	Title      string
	SVG        template.HTML
	Tooltips   template.JS
	DetailBase string
	MinScale   float64
	MaxScale   float64
	ZoomFactor float64
	Background string
}

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML(title string) string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>` + template.HTMLEscapeString(title) + ` - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>` + EmptyMessage + `</h2>
    <p>Try clearing the search, department or status filters, or raising the density.</p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: {{.Background}};
    }
    #graph svg {
      width: 100%;
      height: 100vh;
      cursor: grab;
    }
    .node { cursor: pointer; }
    #controls {
      position: absolute;
      top: 12px;
      right: 12px;
      display: flex;
      gap: 4px;
    }
    #controls button {
      border: 1px solid #ccc;
      background: white;
      border-radius: 4px;
      padding: 4px 8px;
      cursor: pointer;
    }
    #tooltip {
      position: absolute;
      display: none;
      left: 50%;
      top: 20px;
      transform: translateX(-50%);
      background: white;
      border: 1px solid #e5e7eb;
      border-radius: 6px;
      padding: 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 300px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip h3 { margin: 0 0 4px; font-size: 14px; }
    #tooltip p { margin: 0 0 8px; color: #4b5563; }
    #tooltip .row { display: flex; justify-content: space-between; gap: 12px; font-size: 11px; color: #6b7280; }
    #notice {
      position: absolute;
      bottom: 16px;
      right: 16px;
      display: none;
      background: #111827;
      color: white;
      border-radius: 6px;
      padding: 10px 14px;
      font-size: 13px;
    }
  </style>
</head>
<body>
  <div id="graph">{{.SVG}}</div>
  <div id="controls">
    <button id="zoom-in" title="Zoom In">+</button>
    <button id="zoom-out" title="Zoom Out">&minus;</button>
    <button id="zoom-reset" title="Reset Zoom">Reset</button>
  </div>
  <div id="tooltip"></div>
  <div id="notice"></div>
  <script>
    (function() {
      const tips = {{.Tooltips}};
      const detailBase = {{.DetailBase}};
      const minScale = {{.MinScale}}, maxScale = {{.MaxScale}}, step = {{.ZoomFactor}};

      const svg = document.querySelector('#graph svg');
      const viewport = svg.querySelector('.viewport');
      const tooltip = document.getElementById('tooltip');
      const notice = document.getElementById('notice');
      let t = {k: 1, x: 0, y: 0};

      function clamp(k) { return Math.max(minScale, Math.min(maxScale, k)); }
      function apply() {
        viewport.setAttribute('transform', 'translate(' + t.x + ',' + t.y + ') scale(' + t.k + ')');
      }
      function toScene(evt) {
        const r = svg.getBoundingClientRect();
        return {x: (evt.clientX - r.left - t.x) / t.k, y: (evt.clientY - r.top - t.y) / t.k};
      }

      document.getElementById('zoom-in').onclick = function() { t.k = clamp(t.k * step); apply(); };
      document.getElementById('zoom-out').onclick = function() { t.k = clamp(t.k / step); apply(); };
      document.getElementById('zoom-reset').onclick = function() { t = {k: 1, x: 0, y: 0}; apply(); };

      svg.addEventListener('wheel', function(evt) {
        evt.preventDefault();
        const r = svg.getBoundingClientRect();
        const px = evt.clientX - r.left, py = evt.clientY - r.top;
        const k = clamp(t.k * (evt.deltaY < 0 ? step : 1 / step));
        const sx = (px - t.x) / t.k, sy = (py - t.y) / t.k;
        t = {k: k, x: px - sx * k, y: py - sy * k};
        apply();
      }, {passive: false});

      function escapeHtml(str) {
        if (str === undefined || str === null) return '';
        return String(str).replace(/&/g, '&amp;')
                          .replace(/</g, '&lt;')
                          .replace(/>/g, '&gt;')
                          .replace(/"/g, '&quot;');
      }

      function showTooltip(id) {
        const d = tips[id];
        if (!d) return;
        tooltip.innerHTML = '<h3>' + escapeHtml(d.title) + '</h3>' +
          '<p>' + escapeHtml(d.description) + '</p>' +
          '<div class="row"><span>Department: ' + escapeHtml(d.department) + '</span><span>Views: ' + d.views + '</span></div>' +
          '<div class="row"><span>Status: ' + escapeHtml(d.status) + '</span><span>Helpfulness: ' + d.helpfulness + '%</span></div>';
        tooltip.style.display = 'block';
      }

      function showNotice(title, message) {
        notice.innerHTML = '<strong>' + escapeHtml(title) + '</strong><br>' + escapeHtml(message);
        notice.style.display = 'block';
        setTimeout(function() { notice.style.display = 'none'; }, 2500);
      }

      // Node drag moves the node and its incident links; background drag pans.
      let drag = null;
      svg.querySelectorAll('.node').forEach(function(g) {
        const id = g.getAttribute('data-id');
        g.addEventListener('mouseover', function() { if (!drag) showTooltip(id); });
        g.addEventListener('mouseout', function() { tooltip.style.display = 'none'; });
        g.addEventListener('mousedown', function(evt) {
          evt.stopPropagation();
          drag = {node: g, id: id, moved: false};
        });
        g.addEventListener('click', function() {
          if (drag && drag.moved) return;
          const d = tips[id];
          showNotice('Node Selected', 'Viewing details for "' + (d ? d.title : id) + '"');
          if (detailBase) window.location.href = detailBase + encodeURIComponent(id);
        });
      });

      svg.addEventListener('mousedown', function(evt) {
        drag = {pan: true, x: evt.clientX - t.x, y: evt.clientY - t.y};
      });

      window.addEventListener('mousemove', function(evt) {
        if (!drag) return;
        if (drag.pan) {
          t.x = evt.clientX - drag.x;
          t.y = evt.clientY - drag.y;
          apply();
          return;
        }
        drag.moved = true;
        const p = toScene(evt);
        drag.node.setAttribute('transform', 'translate(' + p.x + ',' + p.y + ')');
        svg.querySelectorAll('line[data-source="' + drag.id + '"]').forEach(function(l) {
          l.setAttribute('x1', p.x); l.setAttribute('y1', p.y);
        });
        svg.querySelectorAll('line[data-target="' + drag.id + '"]').forEach(function(l) {
          l.setAttribute('x2', p.x); l.setAttribute('y2', p.y);
        });
      });

      window.addEventListener('mouseup', function() {
        const d = drag;
        setTimeout(function() { if (drag === d) drag = null; }, 0);
      });
    })();
  </script>
</body>
</html>`
