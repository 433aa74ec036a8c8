package planner

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/danieljhkim/pllr/internal/fsops"
	"github.com/danieljhkim/pllr/internal/manifest"
)

// ErrInvalidPath indicates an asset path that cannot be resolved.
var ErrInvalidPath = errors.New("invalid asset path")

// Operation type constants
const (
	OpCopyDir  = "copy_dir"
	OpCopyFile = "copy_file"
	OpSkip     = "skip"
	OpMissing  = "missing"
)

// Paths holds the directories resolved for one item.
type Paths struct {
	// Workspace is the item's temporary directory.
	Workspace string

	// Source is where assets are read from and where build runs.
	Source string

	// Dest is where assets are copied to.
	Dest string

	// ChildBase is the base directory handed to the item's children.
	ChildBase string
}

// Operation represents the decision made for a single asset.
type Operation struct {
	// Type is one of OpCopyDir, OpCopyFile, OpSkip, OpMissing
	Type string

	// Asset is the asset name relative to the source root
	Asset string

	// SourcePath is the absolute path the asset is read from
	SourcePath string

	// DestPath is the absolute path the asset is written to
	DestPath string

	// Overwrite is passed through to directory merges
	Overwrite bool
}

// Resolve computes the source, destination and child base directories for an
// item. No filesystem access is performed.
func Resolve(item *manifest.Item, workspace, baseDir string) Paths {
	source := workspace
	if item.Source != nil {
		source = filepath.Join(workspace, *item.Source)
	}

	return Paths{
		Workspace: workspace,
		Source:    source,
		Dest:      destFor(item, baseDir),
		ChildBase: destFor(item, baseDir),
	}
}

func destFor(item *manifest.Item, baseDir string) string {
	if item.Dest != nil {
		return filepath.Join(baseDir, *item.Dest)
	}
	return baseDir
}

// ExpandAsset returns the asset names a declared asset stands for. Plain
// names, and names that exist literally under the source root even if they
// contain glob metacharacters, are returned unchanged. Other glob patterns
// are matched against the source root and may expand to nothing.
func ExpandAsset(asset string, paths Paths, fsys fsops.FS) ([]string, error) {
	if !fsops.IsGlob(asset) {
		return []string{asset}, nil
	}
	if _, err := fsys.Stat(filepath.Join(paths.Source, asset)); err == nil {
		return []string{asset}, nil
	}
	matches, err := fsys.Glob(paths.Source, filepath.ToSlash(asset))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	for i, m := range matches {
		matches[i] = filepath.FromSlash(m)
	}
	return matches, nil
}

// PlanCopy decides what to do with a single asset. It must be called right
// before the operation is executed; an earlier copy in the same item can turn
// a later copy into a skip.
func PlanCopy(asset string, paths Paths, overwrite bool, fsys fsops.FS) (Operation, error) {
	if err := fsys.ValidateRelPath(asset); err != nil {
		return Operation{}, fmt.Errorf("%w %q: %w", ErrInvalidPath, asset, err)
	}

	op := Operation{
		Asset:      asset,
		SourcePath: filepath.Join(paths.Source, asset),
		DestPath:   filepath.Join(paths.Dest, filepath.Base(asset)),
		Overwrite:  overwrite,
	}

	exists, err := fsys.Exists(op.DestPath)
	if err != nil {
		return Operation{}, fmt.Errorf("failed to check destination %s: %w", op.DestPath, err)
	}
	if exists && !overwrite {
		op.Type = OpSkip
		return op, nil
	}

	info, err := fsys.Stat(op.SourcePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		op.Type = OpMissing
	case err != nil:
		return Operation{}, fmt.Errorf("failed to stat asset %s: %w", op.SourcePath, err)
	case info.IsDir():
		op.Type = OpCopyDir
	case info.Mode().IsRegular():
		op.Type = OpCopyFile
	default:
		op.Type = OpMissing
	}
	return op, nil
}

// MissingPattern builds the operation reported for a glob with no matches.
func MissingPattern(pattern string, paths Paths) Operation {
	return Operation{
		Type:       OpMissing,
		Asset:      pattern,
		SourcePath: filepath.Join(paths.Source, pattern),
	}
}
