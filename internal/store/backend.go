package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// DirName is the fixed store directory under the host's variable-data root.
const DirName = "smile_toolbar"

const (
	dirPerm  = 0o775
	filePerm = 0o644
)

// Backend is the storage behind a Store. Names are bare file names inside
// the backend's location.
type Backend interface {
	// Location returns where artifacts are kept.
	Location() string
	// Create ensures the location exists. It succeeds if it already does.
	Create() error
	// Write stores data under name, replacing any previous content.
	Write(name string, data []byte) error
	// List returns the names of the regular files in the location.
	List() ([]string, error)
	// Read returns the content stored under name.
	Read(name string) ([]byte, error)
	// Delete removes name. Removing a missing name succeeds.
	Delete(name string) error
}

// StorageError describes a failed backend operation.
type StorageError struct {
	Op   string // "create", "write", "list", "read" or "delete"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// --- filesystem -------------------------------------------------------------

// FSBackend keeps artifacts as files in one directory on local disk.
type FSBackend struct {
	dir string
}

// NewFSBackend returns a backend rooted at <varDir>/smile_toolbar.
func NewFSBackend(varDir string) *FSBackend {
	return &FSBackend{dir: filepath.Join(varDir, DirName)}
}

func (b *FSBackend) Location() string { return b.dir }

// Create makes the directory and its parents. MkdirAll already treats a
// directory created concurrently by another worker as success.
func (b *FSBackend) Create() error {
	return os.MkdirAll(b.dir, dirPerm)
}

func (b *FSBackend) Write(name string, data []byte) error {
	return os.WriteFile(filepath.Join(b.dir, name), data, filePerm)
}

// List skips directories and anything that is not a regular file, following
// symlinks the way a stat would.
func (b *FSBackend) List() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			out = append(out, e.Name())
			continue
		}
		if e.Type()&fs.ModeSymlink != 0 {
			fi, err := os.Stat(filepath.Join(b.dir, e.Name()))
			if err == nil && fi.Mode().IsRegular() {
				out = append(out, e.Name())
			}
		}
	}
	return out, nil
}

func (b *FSBackend) Read(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(b.dir, name))
}

func (b *FSBackend) Delete(name string) error {
	err := os.Remove(filepath.Join(b.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// --- memory -----------------------------------------------------------------

// MemoryBackend is an in-memory Backend used by tests. It is safe for
// concurrent use.
type MemoryBackend struct {
	mu      sync.Mutex
	created bool
	files   map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{files: make(map[string][]byte)}
}

func (m *MemoryBackend) Location() string { return filepath.Join("memory", DirName) }

func (m *MemoryBackend) Create() error {
	m.mu.Lock()
	m.created = true
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Write(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.created {
		return fs.ErrNotExist
	}
	m.files[name] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryBackend) List() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.created {
		return nil, fs.ErrNotExist
	}
	out := make([]string, 0, len(m.files))
	for name := range m.files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryBackend) Read(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryBackend) Delete(name string) error {
	m.mu.Lock()
	delete(m.files, name)
	m.mu.Unlock()
	return nil
}
