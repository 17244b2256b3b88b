package toolbar_test

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/debugtoolbar/debugtoolbar/internal/diag"
	"github.com/debugtoolbar/debugtoolbar/internal/store"
	"github.com/debugtoolbar/debugtoolbar/internal/toolbar"
)

// --- test helpers -----------------------------------------------------------

type settings struct {
	enabled   bool
	retention int
}

func (s settings) Enabled() bool       { return s.enabled }
func (s settings) RetentionCount() int { return s.retention }

// shopHandler behaves like a host action: it records a timer and a value.
func shopHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if dc, ok := diag.FromContext(r.Context()); ok {
			dc.StartTimer("layout")
			dc.SetValue("cart.items", 3)
			dc.Timer("layout")
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("hello")) //nolint:errcheck
	})
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

// --- tests ------------------------------------------------------------------

func TestWrap_SavesToolbar(t *testing.T) {
	st := store.New(store.NewMemoryBackend())
	mw := toolbar.New(st, settings{enabled: true, retention: 10}, "frontend")
	h := mw.Wrap(shopHandler(t))

	rr := serve(h, "/checkout/index")
	if rr.Code != http.StatusCreated || rr.Body.String() != "hello" {
		t.Fatalf("response: got %d %q, want 201 hello", rr.Code, rr.Body.String())
	}

	id := rr.Header().Get(toolbar.HeaderToolbarID)
	if !strings.HasPrefix(id, "st-") || !strings.HasSuffix(id, "-frontend-checkout_index") {
		t.Fatalf("toolbar header: got %q", id)
	}

	html, err := st.Read(id)
	if err != nil {
		t.Fatalf("Read(%q): %v", id, err)
	}
	body := string(html)
	for _, want := range []string{
		`id="` + id + `"`,
		`id="` + id + `_table_1"`,
		`id="` + id + `_table_2"`,
		"<td>layout</td>",
		"<td>request</td>",
		"<td>cart.items</td><td>3</td>",
		"<td>response.status</td><td>201</td>",
		"<td>response.bytes</td><td>5</td>",
		"<td>request.method</td><td>GET</td>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("toolbar html missing %q\n%s", want, body)
		}
	}
}

func TestWrap_Disabled(t *testing.T) {
	st := store.New(store.NewMemoryBackend())
	mw := toolbar.New(st, settings{enabled: false, retention: 10}, "frontend")

	var sawContext bool
	h := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawContext = diag.FromContext(r.Context())
	}))
	rr := serve(h, "/")

	if sawContext {
		t.Error("handler saw a diag context while toolbar disabled")
	}
	if got := rr.Header().Get(toolbar.HeaderToolbarID); got != "" {
		t.Errorf("toolbar header: got %q, want empty", got)
	}
	if ids, _ := st.IDs(); len(ids) != 0 {
		t.Errorf("stored ids: got %v, want none", ids)
	}
}

func TestWrap_PrunesToRetention(t *testing.T) {
	st := store.New(store.NewMemoryBackend())
	mw := toolbar.New(st, settings{enabled: true, retention: 3}, "frontend")
	h := mw.Wrap(shopHandler(t))

	var last []string
	for i := 0; i < 8; i++ {
		rr := serve(h, "/catalog/product/view")
		last = append(last, rr.Header().Get(toolbar.HeaderToolbarID))
	}

	ids, err := st.IDs()
	if err != nil {
		t.Fatalf("IDs: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("stored ids: got %d, want 3", len(ids))
	}
	for i, id := range last[5:] {
		if ids[i] != id {
			t.Errorf("ids[%d]: got %q, want %q (most recent kept)", i, ids[i], id)
		}
	}
}

func TestWrap_OnSaved(t *testing.T) {
	st := store.New(store.NewMemoryBackend())
	mw := toolbar.New(st, settings{enabled: true, retention: 3}, "frontend")
	var saved []string
	mw.OnSaved = func(id string) { saved = append(saved, id) }

	rr := serve(mw.Wrap(shopHandler(t)), "/")
	if len(saved) != 1 || saved[0] != rr.Header().Get(toolbar.HeaderToolbarID) {
		t.Errorf("OnSaved: got %v", saved)
	}
}

// brokenBackend fails every write, like a full disk.
type brokenBackend struct {
	*store.MemoryBackend
}

func (brokenBackend) Write(string, []byte) error { return fs.ErrPermission }

func TestWrap_StorageFailureDoesNotBreakRequest(t *testing.T) {
	st := store.New(brokenBackend{store.NewMemoryBackend()})
	mw := toolbar.New(st, settings{enabled: true, retention: 3}, "frontend")
	var called bool
	mw.OnSaved = func(string) { called = true }

	rr := serve(mw.Wrap(shopHandler(t)), "/checkout/index")
	if rr.Code != http.StatusCreated || rr.Body.String() != "hello" {
		t.Errorf("response: got %d %q, want 201 hello", rr.Code, rr.Body.String())
	}
	if called {
		t.Error("OnSaved called after failed save")
	}
	if s := st.Stats(); s.SaveFailed != 1 {
		t.Errorf("Stats.SaveFailed: got %d, want 1", s.SaveFailed)
	}
}

func TestWrap_CustomActionName(t *testing.T) {
	st := store.New(store.NewMemoryBackend())
	mw := toolbar.New(st, settings{enabled: true, retention: 3}, "adminhtml")
	mw.ActionName = func(*http.Request) string { return "sales/order-view" }

	rr := serve(mw.Wrap(shopHandler(t)), "/admin/whatever")
	if id := rr.Header().Get(toolbar.HeaderToolbarID); !strings.HasSuffix(id, "-adminhtml-sales_order_view") {
		t.Errorf("toolbar header: got %q", id)
	}
}

func TestActionFromPath(t *testing.T) {
	cases := []struct {
		path, want string
	}{
		{"/", "cms_index_index"},
		{"/checkout/index", "checkout_index"},
		{"/checkout/cart/add/id/5", "checkout_cart_add"},
		{"/catalog/product-view/", "catalog_product_view"},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, c.path, nil)
		if got := toolbar.ActionFromPath(r); got != c.want {
			t.Errorf("ActionFromPath(%q): got %q, want %q", c.path, got, c.want)
		}
	}
}

func TestRender_RequiresID(t *testing.T) {
	if _, err := toolbar.Render(diag.New("frontend")); err == nil {
		t.Fatal("Render without id: expected error")
	}
}

func TestRender_EscapesValues(t *testing.T) {
	dc := diag.New("frontend")
	dc.InitToolbarID("x") //nolint:errcheck
	dc.SetValue("q", "<script>alert(1)</script>")

	html, err := toolbar.Render(dc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(string(html), "<script>") {
		t.Errorf("value not escaped:\n%s", html)
	}
}
