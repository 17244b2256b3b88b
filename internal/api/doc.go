// Package api implements the read-only inspection API for stored toolbars.
//
// New(store, settings) returns an http.Handler that serves:
//
//	GET /api/v1/health            : enabled flag, retention, stored count
//	GET /api/v1/toolbars          : stored toolbar ids, oldest first
//	GET /api/v1/toolbars/{id}     : one toolbar's HTML; 404 if unknown
//	GET /api/v1/toolbars/contents : every stored toolbar, id -> HTML
//	GET /api/v1/metrics           : store counters in Prometheus text format
package api
