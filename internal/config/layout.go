// Package config locates the files pllr works with.
//
// pllr takes no configuration beyond the target directory given on the
// command line: the manifest is always pllr.json directly inside it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/pllr/internal/manifest"
)

var (
	// ErrNotDirectory indicates the target path is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrManifestMissing indicates pllr.json is absent from the target directory.
	ErrManifestMissing = errors.New("manifest not found")
)

// Layout contains the filesystem paths used for one run.
type Layout struct {
	// Root is the target directory; top-level items use it as their base directory
	Root string

	// Manifest is the path to pllr.json inside Root
	Manifest string
}

// Resolve builds the Layout for dir, checking that dir is a directory that
// contains a manifest.
func Resolve(dir string) (*Layout, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path of %s: %w", dir, err)
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s is %w", dir, ErrNotDirectory)
	}

	layout := &Layout{
		Root:     root,
		Manifest: filepath.Join(root, manifest.FileName),
	}

	if _, err := os.Stat(layout.Manifest); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrManifestMissing, layout.Manifest)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", layout.Manifest, err)
	}

	return layout, nil
}
