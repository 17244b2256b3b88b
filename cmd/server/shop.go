package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/debugtoolbar/debugtoolbar/internal/diag"
)

// shop is a tiny storefront used to exercise the toolbar. Each action adds
// the kind of timers and values a real page would.
func shop() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		page(w, r, "Home", func(dc *diag.Context) {
			dc.SetValue("cms.page", "home")
		})
	})
	mux.HandleFunc("/catalog/product/view", func(w http.ResponseWriter, r *http.Request) {
		page(w, r, "Product", func(dc *diag.Context) {
			dc.StartTimer("catalog.load")
			time.Sleep(2 * time.Millisecond)
			dc.SetValue("catalog.load", dc.Timer("catalog.load"))
			dc.SetValue("product.sku", r.URL.Query().Get("sku"))
		})
	})
	mux.HandleFunc("/checkout/index", func(w http.ResponseWriter, r *http.Request) {
		page(w, r, "Checkout", func(dc *diag.Context) {
			dc.StartTimer("quote.collect_totals")
			dc.SetValue("quote.items", 2)
			dc.SetValue("quote.collect_totals", dc.Timer("quote.collect_totals"))
		})
	})
	return mux
}

// page renders a minimal HTML page and lets fn record diagnostics when the
// toolbar is active.
func page(w http.ResponseWriter, r *http.Request, title string, fn func(*diag.Context)) {
	if dc, ok := diag.FromContext(r.Context()); ok {
		dc.StartTimer("layout.render")
		fn(dc)
		defer func() { dc.SetValue("layout.render", dc.Timer("layout.render")) }()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!doctype html><title>%s</title><h1>%s</h1>\n", title, title)
}
