package store

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
)

// Extension is appended to a toolbar id to form its artifact name.
const Extension = ".html"

// ErrNotFound is returned by Read for an unknown or invalid id.
var ErrNotFound = errors.New("store: toolbar not found")

// Stats are process-lifetime counters for one Store.
type Stats struct {
	Saved       uint64
	SaveFailed  uint64
	Pruned      uint64
	PruneFailed uint64
}

// Store is the toolbar artifact store. It is safe for concurrent use; all
// coordination between workers happens through the backend.
type Store struct {
	backend Backend

	saved       atomic.Uint64
	saveFailed  atomic.Uint64
	pruned      atomic.Uint64
	pruneFailed atomic.Uint64
}

// New creates a Store on top of b.
func New(b Backend) *Store {
	return &Store{backend: b}
}

// Location ensures the store location exists and returns it.
func (s *Store) Location() (string, error) {
	loc := s.backend.Location()
	if err := s.backend.Create(); err != nil {
		return "", &StorageError{Op: "create", Path: loc, Err: err}
	}
	return loc, nil
}

// Save writes content as the artifact for id, overwriting any previous one.
func (s *Store) Save(id string, content []byte) error {
	if err := s.save(id, content); err != nil {
		s.saveFailed.Add(1)
		return err
	}
	s.saved.Add(1)
	return nil
}

func (s *Store) save(id string, content []byte) error {
	loc, err := s.Location()
	if err != nil {
		return err
	}
	if !validID(id) {
		return &StorageError{Op: "write", Path: filepath.Join(loc, id+Extension), Err: fs.ErrInvalid}
	}
	name := id + Extension
	if err := s.backend.Write(name, content); err != nil {
		return &StorageError{Op: "write", Path: filepath.Join(loc, name), Err: err}
	}
	return nil
}

// List returns the artifact file names in ascending order, which is
// ascending creation order.
func (s *Store) List() ([]string, error) {
	loc, err := s.Location()
	if err != nil {
		return nil, err
	}
	names, err := s.backend.List()
	if err != nil {
		return nil, &StorageError{Op: "list", Path: loc, Err: err}
	}
	sort.Strings(names)
	return names, nil
}

// IDs returns the stored toolbar ids in ascending order.
func (s *Store) IDs() ([]string, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(names))
	for _, name := range names {
		ids = append(ids, idOf(name))
	}
	return ids, nil
}

// PruneToLast deletes the oldest artifacts so that at most n remain and
// returns how many were removed. Artifacts deleted concurrently by another
// worker count as removed. Individual delete failures do not stop the prune;
// they are joined into the returned error.
func (s *Store) PruneToLast(n int) (int, error) {
	if n < 0 {
		n = 0
	}
	names, err := s.List()
	if err != nil {
		return 0, err
	}
	if len(names) <= n {
		return 0, nil
	}

	loc := s.backend.Location()
	var errs []error
	removed := 0
	for _, name := range names[:len(names)-n] {
		if err := s.backend.Delete(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, &StorageError{Op: "delete", Path: filepath.Join(loc, name), Err: err})
			continue
		}
		removed++
	}

	s.pruned.Add(uint64(removed))
	s.pruneFailed.Add(uint64(len(errs)))
	if removed > 0 {
		slog.Debug("store: pruned old toolbars", "removed", removed, "kept", n)
	}
	return removed, errors.Join(errs...)
}

// Read returns the artifact content for id, or ErrNotFound.
func (s *Store) Read(id string) ([]byte, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	name := id + Extension
	data, err := s.backend.Read(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "read", Path: filepath.Join(s.backend.Location(), name), Err: err}
	}
	return data, nil
}

// Contents reads every stored artifact, keyed by its name up to the first
// dot. An artifact removed between listing and reading is skipped.
func (s *Store) Contents() (map[string]string, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}
	loc := s.backend.Location()
	out := make(map[string]string, len(names))
	for _, name := range names {
		data, err := s.backend.Read(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &StorageError{Op: "read", Path: filepath.Join(loc, name), Err: err}
		}
		out[idOf(name)] = string(data)
	}
	return out, nil
}

// Stats returns a snapshot of the store counters.
func (s *Store) Stats() Stats {
	return Stats{
		Saved:       s.saved.Load(),
		SaveFailed:  s.saveFailed.Load(),
		Pruned:      s.pruned.Load(),
		PruneFailed: s.pruneFailed.Load(),
	}
}

// idOf strips everything from the first dot of an artifact name.
func idOf(name string) string {
	id, _, _ := strings.Cut(name, ".")
	return id
}

// validID rejects ids that could escape the store location or collide with
// hidden files.
func validID(id string) bool {
	if id == "" || strings.HasPrefix(id, ".") {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}
