package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/debugtoolbar/debugtoolbar/internal/store"
)

// Settings is the reloadable configuration reported by the health endpoint.
type Settings interface {
	Enabled() bool
	RetentionCount() int
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads stored toolbars and returns JSON, HTML or Prometheus text.
type Handler struct {
	store    *store.Store
	settings Settings
	mux      *http.ServeMux
}

// New creates a Handler wired to the given toolbar store and registers all
// routes.
func New(st *store.Store, settings Settings) http.Handler {
	h := &Handler{store: st, settings: settings, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/toolbars", h.listToolbars)
	h.mux.HandleFunc("/api/v1/toolbars/", h.getToolbar) // subtree: extracts {id}
	h.mux.HandleFunc("/api/v1/metrics", h.metrics)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health: gate state and store reachability.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := HealthResponse{
		Enabled:   h.settings.Enabled(),
		Retention: h.settings.RetentionCount(),
		State:     "ok",
	}
	loc, err := h.store.Location()
	if err == nil {
		var ids []string
		ids, err = h.store.IDs()
		resp.Stored = len(ids)
	}
	resp.Location = loc
	if err != nil {
		resp.State = "degraded"
		resp.StoreError = err.Error()
	}
	jsonResp(w, http.StatusOK, resp)
}

// listToolbars returns GET /api/v1/toolbars: stored ids, oldest first.
func (h *Handler) listToolbars(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp, err := BuildToolbars(h.store)
	if err != nil {
		slog.Error("api: list toolbars", "err", err)
		jsonErr(w, http.StatusInternalServerError, "toolbar store unavailable")
		return
	}
	jsonResp(w, http.StatusOK, resp)
}

// getToolbar returns GET /api/v1/toolbars/{id} as raw HTML, or
// GET /api/v1/toolbars/contents as an id -> HTML map.
func (h *Handler) getToolbar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/toolbars/")
	switch id {
	case "":
		h.listToolbars(w, r)
		return
	case "contents":
		h.contents(w)
		return
	}

	data, err := h.store.Read(id)
	if errors.Is(err, store.ErrNotFound) {
		jsonErr(w, http.StatusNotFound, "toolbar not found")
		return
	}
	if err != nil {
		slog.Error("api: read toolbar", "id", id, "err", err)
		jsonErr(w, http.StatusInternalServerError, "toolbar store unavailable")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

func (h *Handler) contents(w http.ResponseWriter) {
	all, err := h.store.Contents()
	if err != nil {
		slog.Error("api: read toolbar contents", "err", err)
		jsonErr(w, http.StatusInternalServerError, "toolbar store unavailable")
		return
	}
	jsonResp(w, http.StatusOK, ContentsResponse{Toolbars: all})
}

// --- helpers ----------------------------------------------------------------

// BuildToolbars assembles the toolbar list payload shared by the REST API
// and the websocket hub.
func BuildToolbars(st *store.Store) (ToolbarsResponse, error) {
	ids, err := st.IDs()
	if err != nil {
		return ToolbarsResponse{}, err
	}
	return ToolbarsResponse{
		IDs:         ids,
		Count:       len(ids),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
