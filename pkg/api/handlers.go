package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"graph_scene/pkg/graph"
)

// maxBodyBytes caps request bodies; imports are the largest.
const maxBodyBytes = 32 << 20

// Handlers holds the HTTP handlers and their dependencies. The graph is
// single-threaded, so every handler touching it holds mu.
type Handlers struct {
	mu         sync.Mutex
	g          *graph.Graph
	bestEffort bool

	validate *validator.Validate
	metrics  *Metrics
	logger   *zap.Logger
}

// NewHandlers creates handlers serving g. bestEffort is the default for
// imports that do not pass skip_invalid.
func NewHandlers(g *graph.Graph, bestEffort bool, metrics *Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	h := &Handlers{
		g:          g,
		bestEffort: bestEffort,
		validate:   validator.New(),
		metrics:    metrics,
		logger:     logger,
	}
	metrics.setSize(g.NumVertices(), g.NumEdges())
	return h
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	resp := StatsResponse{
		Vertices:   h.g.NumVertices(),
		Edges:      h.g.NumEdges(),
		Components: len(h.g.Components()),
		Largest:    len(h.g.LargestComponent()),
		Overlaps:   len(h.g.Overlaps()),
		Selected:   h.g.Selected(),
	}
	for _, e := range h.g.Edges() {
		if e.Kind() == graph.Directed {
			resp.Directed++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleListVertices handles GET /api/v1/vertices.
func (h *Handlers) HandleListVertices(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]VertexJSON, 0, h.g.NumVertices())
	for _, v := range h.g.Vertices() {
		out = append(out, vertexJSON(v))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreateVertex handles POST /api/v1/vertices.
func (h *Handlers) HandleCreateVertex(w http.ResponseWriter, r *http.Request) {
	var req graph.VertexParameters
	if !decodeJSON(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	v, err := h.g.AddVertex(req)
	if err != nil {
		h.writeGraphError(w, err)
		return
	}
	h.metrics.verticesAdded.Inc()
	h.metrics.setSize(h.g.NumVertices(), h.g.NumEdges())
	writeJSON(w, http.StatusCreated, vertexJSON(v))
}

// HandleGetVertex handles GET /api/v1/vertices/{name}.
func (h *Handlers) HandleGetVertex(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	v, err := h.g.Vertex(chi.URLParam(r, "name"))
	if err != nil {
		h.writeGraphError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vertexJSON(v))
}

// HandleMoveVertex handles PUT /api/v1/vertices/{name}/position. Incident
// edges are recomputed before responding.
func (h *Handlers) HandleMoveVertex(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil || !req.Position.IsFinite() {
		writeError(w, http.StatusBadRequest, "invalid_position", "position must be three finite numbers")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	name := chi.URLParam(r, "name")
	v, err := h.g.Vertex(name)
	if err != nil {
		h.writeGraphError(w, err)
		return
	}
	ids, err := h.g.IncidentEdges(name)
	if err != nil {
		h.writeGraphError(w, err)
		return
	}
	v.SetPosition(*req.Position)
	for _, id := range ids {
		if err := h.g.UpdateEdge(id); err != nil {
			h.writeGraphError(w, err)
			return
		}
	}
	h.logger.Debug("moved vertex", zap.String("name", v.Name()), zap.Int("edges", len(ids)))
	writeJSON(w, http.StatusOK, vertexJSON(v))
}

// HandleNeighborhood handles GET /api/v1/vertices/{name}/neighborhood.
func (h *Handlers) HandleNeighborhood(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := chi.URLParam(r, "name")
	members, err := h.g.Neighborhood(name)
	if err != nil {
		h.writeGraphError(w, err)
		return
	}
	resp := NeighborhoodResponse{
		Vertex:   name,
		Keys:     make([]string, 0, len(members)),
		Vertices: []VertexJSON{},
		Edges:    []EdgeJSON{},
	}
	for _, m := range members {
		resp.Keys = append(resp.Keys, m.Key())
		switch en := m.(type) {
		case *graph.Vertex:
			resp.Vertices = append(resp.Vertices, vertexJSON(en))
		case *graph.Edge:
			resp.Edges = append(resp.Edges, edgeJSON(en))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleSelect handles POST /api/v1/vertices/{name}/select.
func (h *Handlers) HandleSelect(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	selected, err := h.g.SelectNeighborhood(chi.URLParam(r, "name"))
	if err != nil {
		h.writeGraphError(w, err)
		return
	}
	state := "off"
	if selected {
		state = "on"
	}
	h.metrics.selections.WithLabelValues(state).Inc()

	resp := SelectResponse{Selected: selected, Vertex: h.g.Selected(), Keys: []string{}}
	for _, en := range h.g.SelectedNeighborhood() {
		resp.Keys = append(resp.Keys, en.Key())
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleListEdges handles GET /api/v1/edges.
func (h *Handlers) HandleListEdges(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]EdgeJSON, 0, h.g.NumEdges())
	for _, e := range h.g.Edges() {
		out = append(out, edgeJSON(e))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreateEdge handles POST /api/v1/edges.
func (h *Handlers) HandleCreateEdge(w http.ResponseWriter, r *http.Request) {
	var req CreateEdgeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	e, err := h.g.AddEdge(graph.EdgeParameters{
		Name:     req.Name,
		From:     req.From,
		To:       req.To,
		Directed: req.Directed,
		Color:    req.Color,
	})
	if err != nil {
		h.writeGraphError(w, err)
		return
	}
	h.metrics.edgesAdded.WithLabelValues(e.Kind().String()).Inc()
	h.metrics.setSize(h.g.NumVertices(), h.g.NumEdges())
	writeJSON(w, http.StatusCreated, edgeJSON(e))
}

// HandleGetEdge handles GET /api/v1/edges/{id}.
func (h *Handlers) HandleGetEdge(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, err := h.g.Edge(chi.URLParam(r, "id"))
	if err != nil {
		h.writeGraphError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, edgeJSON(e))
}

// HandleLookupEdge handles GET /api/v1/edges/lookup?from=&to=.
func (h *Handlers) HandleLookupEdge(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "from and to are required")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	e, err := h.g.EdgeBetween(from, to)
	if err != nil {
		h.writeGraphError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, edgeJSON(e))
}

// HandleUpdate handles POST /api/v1/update[?edge=id].
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if id := r.URL.Query().Get("edge"); id != "" {
		if err := h.g.UpdateEdge(id); err != nil {
			h.writeGraphError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, UpdateResponse{Updated: 1})
		return
	}
	h.g.Update()
	writeJSON(w, http.StatusOK, UpdateResponse{Updated: h.g.NumEdges()})
}

// HandleImport handles POST /api/v1/import[?skip_invalid=true].
func (h *Handlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	skip := h.bestEffort
	if v := r.URL.Query().Get("skip_invalid"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "skip_invalid must be a boolean")
			return
		}
		skip = b
	}

	var records []graph.ImportRecord
	if !decodeJSON(w, r, &records) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	before := h.g.NumEdges()
	res, err := h.g.ImportData(records, graph.ImportOptions{SkipInvalid: skip})
	h.metrics.verticesAdded.Add(float64(res.Vertices))
	for _, e := range h.g.Edges()[before:] {
		h.metrics.edgesAdded.WithLabelValues(e.Kind().String()).Inc()
	}
	h.metrics.setSize(h.g.NumVertices(), h.g.NumEdges())

	resp := ImportResponse{ImportResult: res, Errors: splitJoined(err)}
	if err != nil {
		h.metrics.importFailed.Add(float64(len(resp.Errors)))
	}
	if err != nil && !skip {
		status, code := errorStatus(err)
		h.logger.Warn("import aborted", zap.Error(err))
		writeJSONWithError(w, status, code, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// splitJoined flattens an errors.Join result into messages.
func splitJoined(err error) []string {
	if err == nil {
		return nil
	}
	var out []string
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range j.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

// errorStatus maps graph errors to HTTP status codes.
func errorStatus(err error) (int, string) {
	switch {
	case graph.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case graph.IsMalformedInput(err):
		return http.StatusBadRequest, "malformed_input"
	}
	return http.StatusInternalServerError, "internal_error"
}

func (h *Handlers) writeGraphError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	var ge *graph.Error
	msg := err.Error()
	if errors.As(err, &ge) {
		msg = ge.Message
	}
	writeError(w, status, code, msg)
}

// decodeJSON enforces the content type and decodes the body into v,
// writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "content type must be application/json")
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONWithError(w http.ResponseWriter, status int, code string, resp ImportResponse) {
	writeJSON(w, status, struct {
		ErrorResponse
		ImportResponse
	}{ErrorResponse{Error: code}, resp})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
