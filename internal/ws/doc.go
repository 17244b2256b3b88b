// Package ws streams the stored toolbar list to inspection UIs.
//
// New(store, interval) creates a Hub. Hub.Run(ctx) broadcasts on every tick
// and on every Notify (wired to toolbar saves) until ctx is cancelled, then
// closes all connections. Hub.ServeHTTP upgrades the request, sends the
// current list immediately, then streams updates.
//
// Message format sent to clients:
//
//	{
//	  "event": "toolbars",
//	  "data":  { /* same schema as GET /api/v1/toolbars */ }
//	}
//
// The endpoint is mounted at /ws/toolbars by the server.
package ws
