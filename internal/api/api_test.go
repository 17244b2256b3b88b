package api_test

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/debugtoolbar/debugtoolbar/internal/api"
	"github.com/debugtoolbar/debugtoolbar/internal/store"
)

// --- test helpers -----------------------------------------------------------

type settings struct {
	enabled   bool
	retention int
}

func (s settings) Enabled() bool       { return s.enabled }
func (s settings) RetentionCount() int { return s.retention }

func newStore(t *testing.T, ids ...string) *store.Store {
	t.Helper()
	st := store.New(store.NewMemoryBackend())
	for _, id := range ids {
		if err := st.Save(id, []byte("<div>"+id+"</div>")); err != nil {
			t.Fatalf("Save(%q): %v", id, err)
		}
	}
	return st
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- /api/v1/health ---------------------------------------------------------

func TestHealth(t *testing.T) {
	h := api.New(newStore(t, "st-a", "st-b"), settings{enabled: true, retention: 7})
	rr := get(t, h, "/api/v1/health")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.HealthResponse
	decode(t, rr, &resp)
	if !resp.Enabled || resp.Retention != 7 || resp.Stored != 2 || resp.State != "ok" {
		t.Errorf("health: got %+v", resp)
	}
}

// unlistable fails every listing.
type unlistable struct {
	*store.MemoryBackend
}

func (unlistable) List() ([]string, error) { return nil, fs.ErrPermission }

func TestHealth_Degraded(t *testing.T) {
	h := api.New(store.New(unlistable{store.NewMemoryBackend()}), settings{})
	rr := get(t, h, "/api/v1/health")

	var resp api.HealthResponse
	decode(t, rr, &resp)
	if resp.State != "degraded" || resp.StoreError == "" {
		t.Errorf("health: got %+v, want degraded with error", resp)
	}
}

// --- /api/v1/toolbars -------------------------------------------------------

func TestListToolbars_Empty(t *testing.T) {
	h := api.New(newStore(t), settings{enabled: true})
	rr := get(t, h, "/api/v1/toolbars")

	var resp api.ToolbarsResponse
	decode(t, rr, &resp)
	if resp.Count != 0 || len(resp.IDs) != 0 {
		t.Errorf("toolbars: got %+v, want empty", resp)
	}
	if resp.GeneratedAt == "" {
		t.Error("generated_at: missing")
	}
}

func TestListToolbars_Sorted(t *testing.T) {
	h := api.New(newStore(t, "st-c", "st-a", "st-b"), settings{enabled: true})
	rr := get(t, h, "/api/v1/toolbars/")

	var resp api.ToolbarsResponse
	decode(t, rr, &resp)
	if diff := cmp.Diff([]string{"st-a", "st-b", "st-c"}, resp.IDs); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestListToolbars_StoreError(t *testing.T) {
	h := api.New(store.New(unlistable{store.NewMemoryBackend()}), settings{})
	if rr := get(t, h, "/api/v1/toolbars"); rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
}

func TestGetToolbar(t *testing.T) {
	h := api.New(newStore(t, "st-a"), settings{enabled: true})
	rr := get(t, h, "/api/v1/toolbars/st-a")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content-type: got %q, want text/html", ct)
	}
	if rr.Body.String() != "<div>st-a</div>" {
		t.Errorf("body: got %q", rr.Body.String())
	}
}

func TestGetToolbar_NotFound(t *testing.T) {
	h := api.New(newStore(t, "st-a"), settings{enabled: true})
	for _, path := range []string{"/api/v1/toolbars/st-missing", "/api/v1/toolbars/.hidden"} {
		if rr := get(t, h, path); rr.Code != http.StatusNotFound {
			t.Errorf("%s: status got %d, want 404", path, rr.Code)
		}
	}
}

func TestContents(t *testing.T) {
	h := api.New(newStore(t, "st-a", "st-b"), settings{enabled: true})
	rr := get(t, h, "/api/v1/toolbars/contents")

	var resp api.ContentsResponse
	decode(t, rr, &resp)
	want := map[string]string{"st-a": "<div>st-a</div>", "st-b": "<div>st-b</div>"}
	if diff := cmp.Diff(want, resp.Toolbars); diff != "" {
		t.Errorf("contents mismatch (-want +got):\n%s", diff)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := api.New(newStore(t), settings{})
	for _, path := range []string{"/api/v1/health", "/api/v1/toolbars", "/api/v1/toolbars/st-a", "/api/v1/metrics"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: got %d, want 405", path, rr.Code)
		}
	}
}

// --- /api/v1/metrics --------------------------------------------------------

func TestMetrics(t *testing.T) {
	st := newStore(t, "st-a", "st-b", "st-c")
	if _, err := st.PruneToLast(1); err != nil {
		t.Fatalf("PruneToLast: %v", err)
	}
	h := api.New(st, settings{enabled: true, retention: 1})
	rr := get(t, h, "/api/v1/metrics")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain; version=0.0.4") {
		t.Errorf("content-type: got %q", ct)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"# TYPE debugtoolbar_saved_total counter",
		"debugtoolbar_saved_total 3",
		"debugtoolbar_pruned_total 2",
		"debugtoolbar_save_failures_total 0",
		"# TYPE debugtoolbar_stored gauge",
		"debugtoolbar_stored 1",
		"debugtoolbar_enabled 1",
		"debugtoolbar_retention 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q\n%s", want, body)
		}
	}
}
