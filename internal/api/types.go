package api

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Enabled    bool   `json:"enabled"`
	Retention  int    `json:"retention"`
	Stored     int    `json:"stored"`
	Location   string `json:"location"`
	State      string `json:"state"` // "ok" | "degraded"
	StoreError string `json:"store_error,omitempty"`
}

// ToolbarsResponse is the payload for GET /api/v1/toolbars and the data of
// every websocket message.
type ToolbarsResponse struct {
	IDs         []string `json:"ids"` // ascending, oldest first
	Count       int      `json:"count"`
	GeneratedAt string   `json:"generated_at"` // RFC3339
}

// ContentsResponse is the payload for GET /api/v1/toolbars/contents.
type ContentsResponse struct {
	Toolbars map[string]string `json:"toolbars"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
