package diag

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrAlreadySet is returned by InitToolbarID when the id was already set.
	ErrAlreadySet = errors.New("diag: toolbar id has already been set")

	// ErrNotSet is returned by ToolbarID before InitToolbarID was called.
	ErrNotSet = errors.New("diag: toolbar id has not been set")
)

// Context accumulates the diagnostics of a single request.
type Context struct {
	area string

	toolbarID  string
	idSet      bool
	tableCount int

	timers map[string]time.Time
	values map[string]any

	now   func() time.Time       // injectable for deterministic tests
	token func(time.Time) string // injectable for deterministic tests
}

// New creates an empty Context for a request served in the given area
// (e.g. "frontend", "adminhtml"). The area is sanitized into an id segment.
func New(area string) *Context {
	return &Context{
		area:   Sanitize(area),
		timers: make(map[string]time.Time),
		values: make(map[string]any),
		now:    time.Now,
		token:  uniqueToken,
	}
}

// Area returns the sanitized area code of the context.
func (c *Context) Area() string { return c.area }

// InitToolbarID assigns the toolbar id for this request and returns it.
// actionName identifies the handled action; it is sanitized into a single id
// segment. A second call returns ErrAlreadySet and leaves the id unchanged.
func (c *Context) InitToolbarID(actionName string) (string, error) {
	if c.idSet {
		return "", ErrAlreadySet
	}
	t := c.now()
	c.toolbarID = formatID(t, c.token(t), c.area, Sanitize(actionName))
	c.idSet = true
	return c.toolbarID, nil
}

// ToolbarID returns the id assigned by InitToolbarID, or ErrNotSet.
func (c *Context) ToolbarID() (string, error) {
	if !c.idSet {
		return "", ErrNotSet
	}
	return c.toolbarID, nil
}

// NewTableID returns a fresh "<toolbarId>_table_<n>" handle. Callers must
// initialize the toolbar id first; before that the prefix is empty.
func (c *Context) NewTableID() string {
	c.tableCount++
	return fmt.Sprintf("%s_table_%d", c.toolbarID, c.tableCount)
}

// StartTimer records the current instant under code, restarting the timer
// if it already exists.
func (c *Context) StartTimer(code string) {
	c.timers[code] = c.now()
}

// Timer returns the time elapsed since code was started. A code that was
// never started is started now, so its first reading is close to zero and
// later readings keep growing from that instant.
func (c *Context) Timer(code string) time.Duration {
	start, ok := c.timers[code]
	if !ok {
		c.StartTimer(code)
		start = c.timers[code]
	}
	return c.now().Sub(start)
}

// Timers returns the started timer codes in ascending order.
func (c *Context) Timers() []string {
	codes := make([]string, 0, len(c.timers))
	for code := range c.timers {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// SetValue stores value under key, replacing any previous value.
func (c *Context) SetValue(key string, value any) {
	c.values[key] = value
}

// Value returns the value stored under key, or def when key is absent.
func (c *Context) Value(key string, def any) any {
	v, ok := c.values[key]
	if !ok {
		return def
	}
	return v
}

// Values returns a copy of all stored values.
func (c *Context) Values() map[string]any {
	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// --- context.Context carriers -----------------------------------------------

type ctxKey struct{}

// NewContext returns a copy of parent carrying dc.
func NewContext(parent context.Context, dc *Context) context.Context {
	return context.WithValue(parent, ctxKey{}, dc)
}

// FromContext returns the diagnostic context carried by ctx, if any.
// Handlers use it to add timers and values when the toolbar is active.
func FromContext(ctx context.Context) (*Context, bool) {
	dc, ok := ctx.Value(ctxKey{}).(*Context)
	return dc, ok && dc != nil
}
