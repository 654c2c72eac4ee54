// Package store persists datepick state: the global config, the sqlite
// selection history and the best-effort view state.
package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store is a state directory. History and view state live directly inside Dir.
type Store struct {
	Dir string
}

// DefaultDir is the state directory used when --dir and DATEPICK_DIR are unset.
func DefaultDir() (string, error) {
	return ConfigDir()
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store: empty dir")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// ReadValueFile returns the trimmed first line of a bound value file.
func ReadValueFile(path string) (string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", err
	}
	defer f.Close()
	b, err := io.ReadAll(io.LimitReader(f, 4096))
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(b), "\n")
	return strings.TrimSpace(line), nil
}
