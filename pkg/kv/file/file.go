// Package file provides a key-value backend that keeps one JSON document per
// key in a directory. Writes go to a temporary file that is renamed over the
// target, so readers never observe a partial value.
package file

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/agentstation/proverbs/pkg/constants"
	"github.com/agentstation/proverbs/pkg/errors"
)

const ext = ".json"

var validKey = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Backend stores values under dir.
type Backend struct {
	dir string
}

// New opens (creating if needed) the directory and checks that it is writable.
func New(dir string) (*Backend, error) {
	if dir == "" {
		return nil, errors.NewValidationError("dir", dir, "storage directory is required")
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return nil, errors.WrapIO("write", dir, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return &Backend{dir: dir}, nil
}

// Dir returns the storage directory.
func (b *Backend) Dir() string { return b.dir }

// Path returns the file that holds key.
func (b *Backend) Path(key string) string {
	return filepath.Join(b.dir, key+ext)
}

// Get reads the value of key. A missing file is reported as absent.
func (b *Backend) Get(_ context.Context, key string) ([]byte, bool, error) {
	if !validKey.MatchString(key) {
		return nil, false, errors.NewValidationError("key", key, "invalid storage key")
	}
	data, err := os.ReadFile(b.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.WrapIO("read", b.Path(key), err)
	}
	return data, true, nil
}

// Set atomically replaces the value of key.
func (b *Backend) Set(_ context.Context, key string, value []byte) error {
	if !validKey.MatchString(key) {
		return errors.NewValidationError("key", key, "invalid storage key")
	}
	tmp, err := os.CreateTemp(b.dir, "."+key+".*.tmp")
	if err != nil {
		return errors.WrapIO("create", b.dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.WrapIO("sync", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.WrapIO("close", tmpName, err)
	}
	if err := os.Chmod(tmpName, constants.FilePermissions); err != nil {
		cleanup()
		return errors.WrapIO("chmod", tmpName, err)
	}
	if err := os.Rename(tmpName, b.Path(key)); err != nil {
		cleanup()
		return errors.WrapIO("rename", b.Path(key), err)
	}
	return nil
}

// Close is a no-op.
func (b *Backend) Close() error { return nil }

// WatchPaths lists the directories whose events may change a key.
func (b *Backend) WatchPaths() []string { return []string{b.dir} }

// Affects reports whether a filesystem event on path can change key.
func (b *Backend) Affects(path, key string) bool {
	return filepath.Base(path) == key+ext
}

// String names the backend in logs.
func (b *Backend) String() string { return "file:" + b.dir }
