package diag

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

const (
	// IDPrefix is the fixed first segment of every toolbar id.
	IDPrefix = "st"

	// idSeparator joins the id segments. Segments never contain it.
	idSeparator = "-"

	// unknownSegment replaces an area or action that sanitizes to nothing.
	unknownSegment = "unknown"
)

// lastToken is the most recent token value handed out, in microseconds since
// the Unix epoch. Tokens are strictly increasing within the process.
var lastToken atomic.Int64

// uniqueToken returns a 13-hex-digit token derived from t. Two calls never
// return the same token: when t does not advance past the previous token the
// counter is bumped by one microsecond instead.
func uniqueToken(t time.Time) string {
	us := t.UnixMicro()
	for {
		last := lastToken.Load()
		next := us
		if next <= last {
			next = last + 1
		}
		if lastToken.CompareAndSwap(last, next) {
			return fmt.Sprintf("%08x%05x", next/1_000_000, next%1_000_000)
		}
	}
}

// formatID builds a toolbar id from its parts. area and action are expected
// to be sanitized already.
func formatID(t time.Time, token, area, action string) string {
	t = t.UTC()
	return strings.Join([]string{
		IDPrefix,
		t.Format("20060102_150405"),
		fmt.Sprintf("%06d", t.Nanosecond()/1000),
		token,
		area,
		action,
	}, idSeparator)
}

// Sanitize maps s onto the characters allowed inside an id segment:
// ASCII letters, digits and underscore. Everything else becomes '_'.
// An empty result is replaced by "unknown".
func Sanitize(s string) string {
	s = strings.Trim(s, "/")
	if s == "" {
		return unknownSegment
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ValidSegment reports whether s can be used as-is as an id segment.
func ValidSegment(s string) bool {
	return s != "" && Sanitize(s) == s
}
