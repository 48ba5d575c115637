package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matsen/kbm/internal/corpus"
	"github.com/matsen/kbm/internal/duplicate"
	"github.com/matsen/kbm/internal/filter"
	"github.com/matsen/kbm/internal/node"
)

func newTestServer(t *testing.T, mutate ...func(*Config)) *Server {
	t.Helper()
	store := corpus.NewStore(corpus.MockProvider{
		Seed: 42,
		Now:  time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, store.Reload(context.Background()))

	cfg := Config{
		Store:         store,
		Logger:        zap.NewNop(),
		LayoutTimeout: 10 * time.Second,
		Seed:          1,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 16, body["nodes"])
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestListNodes_FilterAndSort(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/nodes?department=HR&sort=views&dir=desc", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body NodeListResponse
	decode(t, rec, &body)
	assert.Equal(t, 16, body.Total)
	require.NotEmpty(t, body.Nodes)
	for i, n := range body.Nodes {
		assert.Equal(t, node.DeptHR, n.Department)
		if i > 0 {
			assert.GreaterOrEqual(t, body.Nodes[i-1].Analytics.Views, n.Analytics.Views)
		}
	}
}

func TestListNodes_SharedFilter(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPut, "/api/filter", `{"department":"IT"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, filter.ScopeFull, s.Filters().Get().Scope)

	var body NodeListResponse
	decode(t, do(t, s, http.MethodGet, "/api/nodes", ""), &body)
	require.NotEmpty(t, body.Nodes)
	for _, n := range body.Nodes {
		assert.Equal(t, node.DeptIT, n.Department)
	}

	rec = do(t, s, http.MethodPut, "/api/filter", `{"density":150}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetNode(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/nodes/hr-onboarding", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body NodeResponse
	decode(t, rec, &body)
	assert.Equal(t, "Employee Onboarding Process", body.Node.Title)
	assert.Contains(t, string(body.ContentHTML), "<p>")

	rec = do(t, s, http.MethodGet, "/api/nodes/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var e ErrorResponse
	decode(t, rec, &e)
	assert.Contains(t, e.Error, "nope")
}

func TestNodePage(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/nodes/hr-onboarding", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `Viewing details for &#34;Employee Onboarding Process&#34;`)
	assert.Contains(t, rec.Body.String(), "Suggestions")
}

func TestGraphJSON(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/graph?layout=cluster&density=100", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Nodes []struct {
			ID string  `json:"id"`
			X  float64 `json:"x"`
		} `json:"nodes"`
		DepartmentLabels []json.RawMessage `json:"department_labels"`
		Empty            bool              `json:"empty"`
		Settled          bool              `json:"settled"`
		Tooltips         map[string]any    `json:"tooltips"`
	}
	decode(t, rec, &body)
	assert.False(t, body.Empty)
	assert.True(t, body.Settled)
	assert.Len(t, body.Nodes, 16)
	assert.NotEmpty(t, body.DepartmentLabels)
	assert.Len(t, body.Tooltips, 16)

	assert.Equal(t, 1, testutil.CollectAndCount(s.Metrics().RenderDuration))
}

func TestGraphJSON_EmptyFilter(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/graph?department=Legal", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Empty bool              `json:"empty"`
		Nodes []json.RawMessage `json:"nodes"`
	}
	decode(t, rec, &body)
	assert.True(t, body.Empty)
	assert.Empty(t, body.Nodes)
}

func TestGraph_BadParams(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		query string
		want  int
	}{
		{"layout=spiral", http.StatusUnprocessableEntity},
		{"density=lots", http.StatusBadRequest},
		{"density=101", http.StatusUnprocessableEntity},
		{"color=rainbow", http.StatusBadRequest},
		{"width=-5", http.StatusUnprocessableEntity},
		{"zoom=big", http.StatusBadRequest},
		{"zoom=NaN", http.StatusBadRequest},
		{"zoom=Inf", http.StatusBadRequest},
		{"x=NaN", http.StatusBadRequest},
		{"y=-Inf", http.StatusBadRequest},
		{"width=Inf", http.StatusBadRequest},
		{"height=NaN", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/graph?"+tt.query, "")
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestGraphSVGAndHTML(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/graph.svg?layout=radial&zoom=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
	assert.Contains(t, rec.Body.String(), "scale(2)")

	rec = do(t, s, http.MethodGet, "/graph", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "/nodes/")

	rec = do(t, s, http.MethodGet, "/graph?q=zzzz-no-match", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No matching articles")
}

func TestGraph_RateLimited(t *testing.T) {
	s := newTestServer(t, func(c *Config) {
		c.RenderRate = 0.001
		c.RenderBurst = 1
	})
	first := do(t, s, http.MethodGet, "/graph.svg", "")
	require.Equal(t, http.StatusOK, first.Code)

	second := do(t, s, http.MethodGet, "/graph.svg", "")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics().RenderThrottled))

	// non-render routes are not limited
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/nodes", "").Code)
}

func TestDuplicates_ReviewFlow(t *testing.T) {
	s := newTestServer(t)
	const id = "it-security-it-network"

	var list DuplicateListResponse
	decode(t, do(t, s, http.MethodGet, "/api/duplicates?status=pending", ""), &list)
	require.NotEmpty(t, list.Pairs)
	for _, p := range list.Pairs {
		assert.Equal(t, duplicate.StatusPending, p.Status)
	}
	pendingBefore := list.Counts[duplicate.StatusPending]

	rec := do(t, s, http.MethodPut, "/api/duplicates/"+id+"/status", `{"status":"merged"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp StatusResponse
	decode(t, rec, &resp)
	assert.Equal(t, "Merged", resp.Notification.Title)
	assert.Equal(t, "Documents have been merged successfully", resp.Notification.Message)
	assert.Equal(t, duplicate.StatusMerged, resp.Pair.Status)

	// last write wins, any transition allowed
	rec = do(t, s, http.MethodPut, "/api/duplicates/"+id+"/status", `{"status":"pending"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, http.MethodPut, "/api/duplicates/"+id+"/status", `{"status":"flagged"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var pair PairView
	decode(t, do(t, s, http.MethodGet, "/api/duplicates/"+id, ""), &pair)
	assert.Equal(t, duplicate.StatusFlagged, pair.Status)
	assert.Equal(t, "Flagged for Review", pair.StatusLabel)

	decode(t, do(t, s, http.MethodGet, "/api/duplicates", ""), &list)
	assert.Equal(t, pendingBefore-1, list.Counts[duplicate.StatusPending])

	var history []duplicate.Change
	decode(t, do(t, s, http.MethodGet, "/api/duplicates/history", ""), &history)
	assert.Len(t, history, 3)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics().ReviewTransitions.WithLabelValues("flagged")))

	// the corpus itself is untouched
	c, _ := s.store.Current()
	for _, p := range c.Pairs {
		if p.ID == id {
			assert.Equal(t, duplicate.StatusPending, p.Status)
		}
	}

	rec = do(t, s, http.MethodDelete, "/api/duplicates/overrides", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	decode(t, do(t, s, http.MethodGet, "/api/duplicates/"+id, ""), &pair)
	assert.Equal(t, duplicate.StatusPending, pair.Status)
}

func TestDuplicates_Errors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name, target, body string
		want               int
	}{
		{"unknown pair", "/api/duplicates/nope/status", `{"status":"merged"}`, http.StatusNotFound},
		{"invalid status", "/api/duplicates/it-security-it-network/status", `{"status":"deleted"}`, http.StatusUnprocessableEntity},
		{"bad json", "/api/duplicates/it-security-it-network/status", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPut, tt.target, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestDuplicates_SimilarityBand(t *testing.T) {
	s := newTestServer(t)
	var list DuplicateListResponse
	decode(t, do(t, s, http.MethodGet, "/api/duplicates?similarity=medium", ""), &list)
	require.NotEmpty(t, list.Pairs)
	for _, p := range list.Pairs {
		assert.GreaterOrEqual(t, p.Similarity, 75.0)
		assert.Less(t, p.Similarity, 90.0)
		assert.NotEqual(t, duplicate.LevelLow, p.Level)
	}
}

func TestCompare(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/compare?a=hr-onboarding&b=hr-benefits", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Recommendation string `json:"recommendation"`
		DiffHTML       string `json:"diff_html"`
		Summary        string `json:"summary"`
	}
	decode(t, rec, &body)
	assert.NotEmpty(t, body.Recommendation)
	assert.Contains(t, body.DiffHTML, "diff-")
	assert.Contains(t, body.Summary, "views")

	rec = do(t, s, http.MethodGet, "/compare?a=hr-onboarding&b=hr-benefits", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="diff-added"`)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/compare?a=hr-onboarding", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/compare?a=hr-onboarding&b=nope", "").Code)
}

func TestInsights(t *testing.T) {
	s := newTestServer(t)

	var disc struct {
		Kind  string      `json:"kind"`
		Nodes []node.Node `json:"nodes"`
	}
	decode(t, do(t, s, http.MethodGet, "/api/insights/discover?kind=trending", ""), &disc)
	assert.Len(t, disc.Nodes, 6)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, s, http.MethodGet, "/api/insights/discover?kind=popular", "").Code)

	var clusters []struct {
		ID    string `json:"id"`
		Count int    `json:"count"`
	}
	decode(t, do(t, s, http.MethodGet, "/api/insights/clusters", ""), &clusters)
	require.NotEmpty(t, clusters)

	var one ClusterResponse
	decode(t, do(t, s, http.MethodGet, "/api/insights/clusters?id="+clusters[0].ID, ""), &one)
	assert.Len(t, one.Members, clusters[0].Count)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/insights/clusters?id=cluster-nowhere", "").Code)

	var depts []struct {
		Department string `json:"department"`
		Count      int    `json:"count"`
	}
	decode(t, do(t, s, http.MethodGet, "/api/insights/departments", ""), &depts)
	total := 0
	for _, d := range depts {
		total += d.Count
	}
	assert.Equal(t, 16, total)

	var sugg []map[string]string
	decode(t, do(t, s, http.MethodGet, "/api/insights/suggestions?id=hr-onboarding", ""), &sugg)
	assert.Len(t, sugg, 3)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/insights/suggestions", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodGet, "/health", "")
	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kbm_http_requests_total")
}

func TestReloadRebasesWorkflow(t *testing.T) {
	s := newTestServer(t)
	_, err := s.Workflow().SetStatus("it-security-it-network", duplicate.StatusMerged)
	require.NoError(t, err)

	require.NoError(t, s.store.Reload(context.Background()))
	p, err := s.Workflow().Get("it-security-it-network")
	require.NoError(t, err)
	assert.Equal(t, duplicate.StatusMerged, p.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics().CorpusReloads))
}

func TestServe_StopsOnCancel(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	taskRan := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, "127.0.0.1:0", func(ctx context.Context) error {
			close(taskRan)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	<-taskRan
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
