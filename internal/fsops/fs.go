// Package fsops provides the filesystem operations pllr performs.
//
// Every filesystem mutation made while processing a manifest goes through the
// FS interface so the engine can be exercised against a fake in tests.
//
// Key features:
//   - File and directory copies that merge into an existing destination
//   - Overwrite-aware copying of individual files inside a directory tree
//   - Glob expansion of asset patterns (doublestar syntax)
//   - Path validation for manifest-supplied relative paths
package fsops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FS provides an abstraction for filesystem operations.
type FS interface {
	// Stat returns file info, following symlinks.
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether path exists, following symlinks.
	Exists(path string) (bool, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm os.FileMode) error

	// MkdirTemp creates a new uniquely named directory in dir.
	MkdirTemp(dir, pattern string) (string, error)

	// RemoveAll removes a path and all its contents.
	RemoveAll(path string) error

	// CopyFile copies the regular file src to dst. The parent of dst must exist.
	CopyFile(src, dst string) error

	// CopyDir merges the directory tree src into dst, creating dst if needed.
	// Files already present in dst are replaced only when overwrite is set.
	CopyDir(src, dst string, overwrite bool) error

	// Glob returns the paths under root matching pattern, relative to root.
	Glob(root, pattern string) ([]string, error)

	// ValidateRelPath validates a manifest-supplied relative path.
	ValidateRelPath(relPath string) error
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// Stat returns file info, following symlinks.
func (rfs *RealFS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Exists checks if a path exists. A dangling symlink does not exist.
func (rfs *RealFS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// MkdirAll creates a directory and all parent directories.
func (rfs *RealFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// MkdirTemp creates a new uniquely named directory in dir.
func (rfs *RealFS) MkdirTemp(dir, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

// RemoveAll removes a path and all its contents.
func (rfs *RealFS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// CopyFile copies a single file from src to dst, truncating dst if it exists.
// Follows symlinks to copy the target content, not the symlink itself.
func (rfs *RealFS) CopyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}
	if srcInfo.IsDir() {
		return fmt.Errorf("source %q is a directory", src)
	}
	return copyFile(src, dst, srcInfo.Mode())
}

// CopyDir recursively copies the directory src to dst.
func (rfs *RealFS) CopyDir(src, dst string, overwrite bool) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source directory: %w", err)
	}
	if !srcInfo.IsDir() {
		return fmt.Errorf("source %q is not a directory", src)
	}
	return copyDir(src, dst, srcInfo.Mode(), overwrite)
}

func copyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer func() {
		_ = srcFile.Close()
	}()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}
	defer func() {
		_ = dstFile.Close()
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	return dstFile.Sync()
}

func copyDir(src, dst string, mode os.FileMode, overwrite bool) error {
	dstInfo, err := os.Stat(dst)
	switch {
	case err == nil && !dstInfo.IsDir():
		if !overwrite {
			return fmt.Errorf("destination %q exists and is not a directory", dst)
		}
		if err := os.RemoveAll(dst); err != nil {
			return fmt.Errorf("failed to remove existing destination: %w", err)
		}
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to stat destination: %w", err)
	}

	if err := os.MkdirAll(dst, mode.Perm()|0o700); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to read source directory: %w", err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		// Stat rather than entry.Type so symlinked directories are descended into.
		info, err := os.Stat(srcPath)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", srcPath, err)
		}

		if info.IsDir() {
			if err := copyDir(srcPath, dstPath, info.Mode(), overwrite); err != nil {
				return err
			}
			continue
		}

		existing, err := os.Stat(dstPath)
		if err == nil {
			if !overwrite {
				continue
			}
			if existing.IsDir() {
				if err := os.RemoveAll(dstPath); err != nil {
					return fmt.Errorf("failed to remove existing destination: %w", err)
				}
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat destination: %w", err)
		}

		if err := copyFile(srcPath, dstPath, info.Mode()); err != nil {
			return fmt.Errorf("copying %s: %w", srcPath, err)
		}
	}

	return nil
}

// Glob expands pattern relative to root. Matches are returned in lexical order
// using forward slashes.
func (rfs *RealFS) Glob(root, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}
	matches, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to expand %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// IsGlob reports whether an asset name contains glob metacharacters.
func IsGlob(name string) bool {
	return strings.ContainsAny(name, "*?[{")
}

// ValidateRelPath validates a relative path for safety.
// Parent references are allowed; manifests are trusted to point outside their
// own directory.
func (rfs *RealFS) ValidateRelPath(relPath string) error {
	if strings.TrimSpace(relPath) == "" {
		return fmt.Errorf("invalid path: empty")
	}

	if filepath.IsAbs(relPath) || strings.HasPrefix(relPath, "/") {
		return fmt.Errorf("invalid path: must be relative, got absolute path %q", relPath)
	}

	if base := filepath.Base(filepath.Clean(relPath)); base == "." || base == ".." {
		return fmt.Errorf("invalid path: %q does not name an entry", relPath)
	}

	return nil
}
