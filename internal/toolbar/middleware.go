package toolbar

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/debugtoolbar/debugtoolbar/internal/diag"
	"github.com/debugtoolbar/debugtoolbar/internal/store"
)

// HeaderToolbarID carries the toolbar id of the response.
const HeaderToolbarID = "X-Debug-Toolbar"

// Timer and value keys recorded for every request.
const (
	TimerRequest = "request"

	ValueMethod        = "request.method"
	ValuePath          = "request.path"
	ValueStatus        = "response.status"
	ValueResponseBytes = "response.bytes"
)

// Settings is the reloadable configuration the middleware needs.
type Settings interface {
	Enabled() bool
	RetentionCount() int
}

// Middleware wraps host handlers with the toolbar request lifecycle:
// create a diagnostic context, start the request timer, assign the toolbar
// id, run the handler, then render, save and prune.
type Middleware struct {
	store    *store.Store
	settings Settings
	area     string

	// ActionName maps a request to the action segment of its toolbar id.
	// Defaults to ActionFromPath.
	ActionName func(*http.Request) string

	// OnSaved, if set, is called with each saved toolbar id.
	OnSaved func(id string)
}

// New creates a Middleware persisting into st. area is the scope tag
// embedded in every toolbar id.
func New(st *store.Store, settings Settings, area string) *Middleware {
	return &Middleware{
		store:      st,
		settings:   settings,
		area:       area,
		ActionName: ActionFromPath,
	}
}

// Wrap returns next instrumented with the toolbar. When the toolbar is
// disabled next is called untouched. Toolbar failures are logged and never
// affect the response.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.settings.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		dc := diag.New(m.area)
		dc.StartTimer(TimerRequest)
		id, err := dc.InitToolbarID(m.ActionName(r))
		if err != nil {
			slog.Warn("toolbar: init id failed", "path", r.URL.Path, "err", err)
			next.ServeHTTP(w, r)
			return
		}
		dc.SetValue(ValueMethod, r.Method)
		dc.SetValue(ValuePath, r.URL.Path)

		w.Header().Set(HeaderToolbarID, id)
		rec := &recorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(diag.NewContext(r.Context(), dc)))

		dc.SetValue(ValueStatus, rec.status)
		dc.SetValue(ValueResponseBytes, rec.bytes)
		m.finish(dc, id)
	})
}

// finish renders and stores the toolbar, then trims the store.
func (m *Middleware) finish(dc *diag.Context, id string) {
	start := time.Now()

	html, err := Render(dc)
	if err != nil {
		slog.Warn("toolbar: render failed", "id", id, "err", err)
		return
	}
	if err := m.store.Save(id, html); err != nil {
		slog.Warn("toolbar: save failed", "id", id, "err", err)
		return
	}
	if _, err := m.store.PruneToLast(m.settings.RetentionCount()); err != nil {
		slog.Warn("toolbar: prune failed", "err", err)
	}
	if m.OnSaved != nil {
		m.OnSaved(id)
	}
	slog.Debug("toolbar: saved", "id", id, "took", time.Since(start))
}

// recorder captures the status code and body size written by the handler.
type recorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (r *recorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(p []byte) (int, error) {
	r.wroteHeader = true
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *recorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
