package api

import (
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graph_scene/pkg/config"
	"graph_scene/pkg/geom"
	"graph_scene/pkg/graph"
)

func newTestRouter(t *testing.T, bestEffort bool) (http.Handler, *Handlers) {
	t.Helper()
	g := graph.New(graph.WithRand(rand.New(rand.NewPCG(7, 8))))
	h := NewHandlers(g, bestEffort, NewMetrics(), nil)
	return NewRouter(config.Default().Server, h), h
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func seed(t *testing.T, router http.Handler) EdgeJSON {
	t.Helper()
	w := do(t, router, "POST", "/api/v1/vertices", `{"name":"A","position":{"x":0,"y":0,"z":0}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = do(t, router, "POST", "/api/v1/vertices", `{"name":"B","position":{"x":10,"y":0,"z":0},"color":"#ff0000"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = do(t, router, "POST", "/api/v1/edges", `{"name":"ab","from":"a","to":"b","directed":true}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[EdgeJSON](t, w)
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, false)
	w := do(t, router, "GET", "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[HealthResponse](t, w).Status)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestCreateAndGetVertex(t *testing.T) {
	router, _ := newTestRouter(t, false)
	seed(t, router)

	w := do(t, router, "GET", "/api/v1/vertices/b", "")
	require.Equal(t, http.StatusOK, w.Code)
	v := decode[VertexJSON](t, w)
	assert.Equal(t, "b", v.Name)
	assert.Equal(t, graph.Color(0xff0000), v.Color)
	assert.Equal(t, []string{"enabled", "vertex"}, v.Layers)
	assert.Equal(t, "B", v.Label)

	w = do(t, router, "GET", "/api/v1/vertices", "")
	assert.Len(t, decode[[]VertexJSON](t, w), 2)

	w = do(t, router, "GET", "/api/v1/vertices/zzz", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode[ErrorResponse](t, w).Error)
}

func TestCreateVertexRejectsBadInput(t *testing.T) {
	router, _ := newTestRouter(t, false)

	tests := []struct {
		name        string
		body        string
		contentType string
		wantCode    string
	}{
		{"invalid json", "not json", "application/json", "invalid_request"},
		{"missing name", `{"radius":2}`, "application/json", "malformed_input"},
		{"negative radius", `{"name":"x","radius":-1}`, "application/json", "malformed_input"},
		{"wrong content type", `{"name":"x"}`, "text/plain", "invalid_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/vertices", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, decode[ErrorResponse](t, w).Error)
		})
	}
}

func TestCreateEdge(t *testing.T) {
	router, _ := newTestRouter(t, false)
	e := seed(t, router)

	assert.Equal(t, "directed", e.Kind)
	assert.Equal(t, "a", e.From)
	assert.Equal(t, "b", e.To)
	require.NotNil(t, e.Control)
	assert.True(t, e.Control.ApproxEqual(geom.Vec3{X: 5, Y: 3}, 1e-9))
	require.NotNil(t, e.Arrow)
	assert.InDelta(t, graph.DefaultRadius, e.Arrow.Tip.Dist(geom.Vec3{X: 10}), 1e-9)
	assert.Equal(t, 2*graph.TubularSegments*graph.RadialSegments, e.Triangles)

	w := do(t, router, "POST", "/api/v1/edges", `{"name":"x","from":"a","to":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, router, "POST", "/api/v1/edges", `{"name":"x","from":"a"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, router, "POST", "/api/v1/edges", `{"name":"x","from":"a","to":"a"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "malformed_input", decode[ErrorResponse](t, w).Error)

	w = do(t, router, "GET", "/api/v1/edges/"+e.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, e.ID, decode[EdgeJSON](t, w).ID)
	w = do(t, router, "GET", "/api/v1/edges", "")
	assert.Len(t, decode[[]EdgeJSON](t, w), 1)
}

func TestLookupEdge(t *testing.T) {
	router, _ := newTestRouter(t, false)
	e := seed(t, router)

	for _, q := range []string{"from=a&to=b", "from=B&to=A"} {
		w := do(t, router, "GET", "/api/v1/edges/lookup?"+q, "")
		require.Equal(t, http.StatusOK, w.Code, q)
		assert.Equal(t, e.ID, decode[EdgeJSON](t, w).ID)
	}
	w := do(t, router, "GET", "/api/v1/edges/lookup?from=a", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, router, "GET", "/api/v1/edges/lookup?from=a&to=nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMoveVertexRecomputesEdges(t *testing.T) {
	router, _ := newTestRouter(t, false)
	e := seed(t, router)

	w := do(t, router, "PUT", "/api/v1/vertices/b/position", `{"position":{"x":10,"y":10,"z":0}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, router, "GET", "/api/v1/edges/"+e.ID, "")
	moved := decode[EdgeJSON](t, w)
	assert.InDelta(t, graph.DefaultRadius, moved.Arrow.Tip.Dist(geom.Vec3{X: 10, Y: 10}), 1e-9)
	assert.NotEqual(t, e.Control, moved.Control)

	w = do(t, router, "PUT", "/api/v1/vertices/b/position", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, router, "PUT", "/api/v1/vertices/nope/position", `{"position":{"x":1,"y":1,"z":1}}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNeighborhoodAndSelect(t *testing.T) {
	router, h := newTestRouter(t, false)
	e := seed(t, router)

	w := do(t, router, "GET", "/api/v1/vertices/a/neighborhood", "")
	require.Equal(t, http.StatusOK, w.Code)
	n := decode[NeighborhoodResponse](t, w)
	assert.Equal(t, []string{"edge:" + e.ID, "vertex:b", "vertex:a"}, n.Keys)
	assert.Len(t, n.Vertices, 2)
	assert.Len(t, n.Edges, 1)

	w = do(t, router, "POST", "/api/v1/vertices/a/select", "")
	require.Equal(t, http.StatusOK, w.Code)
	sel := decode[SelectResponse](t, w)
	assert.True(t, sel.Selected)
	assert.Equal(t, "a", sel.Vertex)
	assert.Len(t, sel.Keys, 3)

	w = do(t, router, "GET", "/api/v1/stats", "")
	stats := decode[StatsResponse](t, w)
	assert.Equal(t, StatsResponse{Vertices: 2, Edges: 1, Directed: 1, Components: 1, Largest: 2, Selected: "a"}, stats)

	w = do(t, router, "POST", "/api/v1/vertices/a/select", "")
	sel = decode[SelectResponse](t, w)
	assert.False(t, sel.Selected)
	assert.Empty(t, sel.Keys)
	assert.Empty(t, h.g.Selected())

	w = do(t, router, "POST", "/api/v1/vertices/ghost/select", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdate(t *testing.T) {
	router, _ := newTestRouter(t, false)
	e := seed(t, router)

	w := do(t, router, "POST", "/api/v1/update", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[UpdateResponse](t, w).Updated)

	w = do(t, router, "POST", "/api/v1/update?edge="+e.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, router, "POST", "/api/v1/update?edge=missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

const importBody = `[
	{"data":"vertex","name":"x"},
	{"data":"edge","name":"bad","from":"x","to":"ghost","directed":false},
	{"data":"vertex","name":"y"}
]`

func TestImportStopsAtFirstFailure(t *testing.T) {
	router, h := newTestRouter(t, false)

	w := do(t, router, "POST", "/api/v1/import", importBody)
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decode[ImportResponse](t, w)
	assert.Equal(t, 1, resp.Vertices)
	assert.Len(t, resp.Errors, 1)
	assert.Equal(t, 1, h.g.NumVertices())
}

func TestImportSkipInvalid(t *testing.T) {
	router, h := newTestRouter(t, false)

	w := do(t, router, "POST", "/api/v1/import?skip_invalid=true", importBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[ImportResponse](t, w)
	assert.Equal(t, 2, resp.Vertices)
	assert.Equal(t, 1, resp.Skipped)
	assert.Len(t, resp.Errors, 1)
	assert.Equal(t, 2, h.g.NumVertices())

	w = do(t, router, "POST", "/api/v1/import?skip_invalid=maybe", importBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportBestEffortDefault(t *testing.T) {
	router, _ := newTestRouter(t, true)
	w := do(t, router, "POST", "/api/v1/import", importBody)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, false)
	seed(t, router)

	w := do(t, router, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `graph_scene_edges_added_total{kind="directed"} 1`)
	assert.Contains(t, body, "graph_scene_vertices 2")
	assert.Contains(t, body, "graph_scene_http_requests_total")
}

func TestImportCountsEdgesByKind(t *testing.T) {
	router, _ := newTestRouter(t, false)
	seed(t, router)

	w := do(t, router, "POST", "/api/v1/import", `[
		{"data":"vertex","name":"c","position":{"x":0,"y":20,"z":0}},
		{"data":"edge","name":"bc","from":"b","to":"c","directed":true},
		{"data":"edge","name":"ca","from":"c","to":"a","directed":false}
	]`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, decode[ImportResponse](t, w).Edges)

	w = do(t, router, "GET", "/metrics", "")
	body := w.Body.String()
	assert.Contains(t, body, `graph_scene_edges_added_total{kind="directed"} 2`)
	assert.Contains(t, body, `graph_scene_edges_added_total{kind="undirected"} 1`)
	assert.Contains(t, body, "graph_scene_edges 3")
}

func TestConcurrencyLimit(t *testing.T) {
	block := make(chan struct{})
	entered := make(chan struct{})
	limited := limitConcurrency(1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-block
	}))

	done := make(chan struct{})
	go func() {
		limited.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
		close(done)
	}()
	<-entered

	w := httptest.NewRecorder()
	limited.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	close(block)
	<-done
}
