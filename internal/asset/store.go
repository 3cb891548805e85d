package asset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Store manages the files of a single asset directory. Mutating operations
// are serialized so a rename and a delete cannot race on the same file.
type Store struct {
	mu   sync.Mutex
	dir  string
	exts []string
}

// NewStore creates the directory if needed and returns a store over it.
// Only files whose extension is in exts are visible through List.
func NewStore(dir string, exts []string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory %s: %w", dir, err)
	}

	return &Store{dir: dir, exts: exts}, nil
}

// Dir returns the directory the store manages.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the on-disk location for an asset name. The name is reduced
// to its base component so a crafted name cannot escape the directory.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Exists reports whether an asset is present under the given name.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// List returns the sorted names of all assets passing the extension filter.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if s.allowed(entry.Name()) {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}

// Save writes an uploaded asset. The content goes to a temporary file in the
// same directory first and is renamed into place, so a half-written upload
// is never visible under its final name.
func (s *Store) Save(name string, r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmpPath := filepath.Join(s.dir, "."+uuid.NewString()+".part")
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write upload: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close upload file: %w", err)
	}

	if err := os.Rename(tmpPath, s.Path(name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to store upload: %w", err)
	}

	return nil
}

// Rename moves an asset to a new name. When the supplied new name lacks the
// source's extension it is appended, so "drum" renames "drum.wav" to
// "drum.wav" rather than dropping the suffix. Returns the resolved name.
func (s *Store) Rename(oldName, newName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldPath := s.Path(oldName)
	ext := filepath.Ext(oldPath)

	resolved := filepath.Base(newName)
	if !strings.HasSuffix(strings.ToLower(resolved), strings.ToLower(ext)) {
		resolved += ext
	}
	newPath := filepath.Join(s.dir, resolved)

	if _, err := os.Stat(oldPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, oldName)
	}
	if _, err := os.Stat(newPath); err == nil {
		return "", fmt.Errorf("%w: %s", ErrConflict, resolved)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return "", fmt.Errorf("failed to rename asset: %w", err)
	}

	return resolved, nil
}

// Delete removes an asset.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	return nil
}

func (s *Store) allowed(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range s.exts {
		if ext == allowed {
			return true
		}
	}
	return false
}
