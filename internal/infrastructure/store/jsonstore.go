// Package store provides the atomic JSON file store the snapshot
// repositories are built on.
package store

import (
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
)

// Store reads and writes JSON documents under a single root directory.
// Writes go through a temp file and rename so readers never observe a
// partially written document.
type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the store's base directory.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) path(relative string) string {
	return filepath.Join(s.root, filepath.FromSlash(relative))
}

// Read decodes the document at the given relative path into out. It
// returns found=false without error when the file does not exist.
func (s *Store) Read(relative string, out any) (bool, error) {
	data, err := os.ReadFile(s.path(relative))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "read %s", relative)
	}

	if err := sonic.Unmarshal(data, out); err != nil {
		return false, errors.Wrapf(err, "decode %s", relative)
	}
	return true, nil
}

// Write encodes value as indented JSON and atomically replaces the
// document at the given relative path, creating parent directories as
// needed.
func (s *Store) Write(relative string, value any) error {
	data, err := sonic.MarshalIndent(value, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encode %s", relative)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(data)
	_ = buf.WriteByte('\n')

	target := s.path(relative)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrapf(err, "mkdir for %s", relative)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "create temp for %s", relative)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.B); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "write temp for %s", relative)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "close temp for %s", relative)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "replace %s", relative)
	}
	return nil
}
