/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// FS performs directory checks and deletions on a billy filesystem.
type FS struct {
	fs billy.Filesystem
	// host is set when fs is the host filesystem rooted at "/". Paths are
	// then made absolute before use.
	host bool
}

// New returns an FS backed by the host filesystem.
func New() *FS {
	return &FS{fs: osfs.New(string(filepath.Separator)), host: true}
}

// NewWithFilesystem returns an FS backed by fs.
func NewWithFilesystem(fs billy.Filesystem) *FS {
	return &FS{fs: fs}
}

func (f *FS) resolve(path string) (string, error) {
	if !f.host {
		return filepath.Clean(path), nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return abs, nil
}

// Exists reports whether path is an existing directory.
func (f *FS) Exists(path string) bool {
	p, err := f.resolve(path)
	if err != nil {
		return false
	}
	info, err := f.fs.Stat(p)
	return err == nil && info.IsDir()
}

// DeleteEntireFolder removes everything under dir. When deleteFolderItself
// is set dir is removed too; otherwise it is left empty. When
// disableReadOnly is set, write permission is restored on every entry
// before removal. A missing dir is not an error.
func (f *FS) DeleteEntireFolder(dir string, deleteFolderItself, disableReadOnly bool) error {
	p, err := f.resolve(dir)
	if err != nil {
		return err
	}

	info, err := f.fs.Lstat(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("inspecting %s: %w", dir, err)
	case !info.IsDir():
		return fmt.Errorf("%s is not a directory", dir)
	}

	if disableReadOnly {
		if err := f.makeWritable(p); err != nil {
			return err
		}
	}

	if deleteFolderItself {
		if err := util.RemoveAll(f.fs, p); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
		return nil
	}

	entries, err := f.fs.ReadDir(p)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, e := range entries {
		child := f.fs.Join(p, e.Name())
		if err := util.RemoveAll(f.fs, child); err != nil {
			return fmt.Errorf("removing %s: %w", child, err)
		}
	}
	return nil
}

// makeWritable restores owner write permission on path and everything
// below it. Each directory is changed before it is listed, so directories
// without read permission can still be descended into. Symlinks are left
// alone.
func (f *FS) makeWritable(path string) error {
	info, err := f.fs.Lstat(path)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return nil
	}

	perm := info.Mode().Perm() | 0o200
	if info.IsDir() {
		perm |= 0o700
	}
	if perm != info.Mode().Perm() {
		if err := f.chmod(path, info.Mode().Type()|perm); err != nil {
			return fmt.Errorf("clearing read-only on %s: %w", path, err)
		}
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := f.fs.ReadDir(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	for _, e := range entries {
		if err := f.makeWritable(f.fs.Join(path, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

type changer interface {
	Chmod(name string, mode os.FileMode) error
}

func (f *FS) chmod(path string, mode os.FileMode) error {
	if f.host {
		return os.Chmod(path, mode)
	}
	if c, ok := f.fs.(changer); ok {
		return c.Chmod(path, mode)
	}
	return nil
}
