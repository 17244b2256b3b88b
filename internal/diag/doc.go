// Package diag holds the per-request diagnostic context used by the debug
// toolbar.
//
// A Context is created once per handled request and carries:
//   - the toolbar id, set exactly once by InitToolbarID
//   - named timers (StartTimer / Timer)
//   - arbitrary debug values (SetValue / Value)
//   - a table counter used to mint sub-ids (NewTableID)
//
// Toolbar ids have the form
//
//	st-<YYYYMMDD>_<HHMMSS>-<microseconds>-<token>-<area>-<action>
//
// with the timestamp in UTC, so sorting ids as strings sorts them by
// creation time. The token is unique within the process even for ids minted
// in the same microsecond.
//
// A Context is not safe for concurrent use; it belongs to one request.
package diag
