// Package toolbar instruments HTTP handlers with the debug toolbar.
//
// Middleware.Wrap runs, for every request while the toolbar is enabled:
//
//  1. create a diag.Context and start the "request" timer
//  2. assign the toolbar id and expose it in the X-Debug-Toolbar header
//  3. run the handler with the context reachable via diag.FromContext
//  4. record status and body size, render the HTML fragment, save it,
//     and prune the store to the configured retention count
//
// Storage or render failures are logged and dropped: a broken toolbar
// never fails the user-facing request.
package toolbar
