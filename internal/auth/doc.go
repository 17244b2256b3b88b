// Package auth guards the toolbar inspection surface (REST API and websocket
// stream) with an optional shared API key.
package auth
