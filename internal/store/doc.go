// Package store persists rendered toolbars and keeps only the most recent N.
//
// Each toolbar is one artifact named "<toolbarId>.html" in a single location
// (by default "<var_dir>/smile_toolbar"). Toolbar ids embed a zero-padded UTC
// timestamp, so ascending filename order is ascending creation order and
// PruneToLast simply drops the head of the sorted listing.
//
// Storage goes through a Backend: FSBackend for production and MemoryBackend
// for tests. The store is shared by every request worker; directory creation
// and deletion are idempotent so concurrent saves and prunes never fail on
// "already exists" or "not found". Retention under a race is best effort.
package store
