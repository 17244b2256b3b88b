package config

import "sync/atomic"

// Gate exposes the runtime-switchable part of the configuration: whether the
// toolbar is enabled and how many toolbars to retain. Update swaps both
// atomically, so a config reload takes effect on the next request.
type Gate struct {
	v atomic.Pointer[ToolbarConfig]
}

// NewGate returns a Gate initialised from tb.
func NewGate(tb ToolbarConfig) *Gate {
	g := &Gate{}
	g.Update(tb)
	return g
}

// Update replaces the current settings.
func (g *Gate) Update(tb ToolbarConfig) {
	g.v.Store(&tb)
}

// Enabled reports whether the toolbar is active.
func (g *Gate) Enabled() bool { return g.v.Load().Enabled }

// RetentionCount is the number of toolbars kept after each prune.
func (g *Gate) RetentionCount() int { return g.v.Load().Retention }
