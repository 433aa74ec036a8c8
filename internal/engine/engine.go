// Package engine provides the core logic for pllr runs.
//
// The engine walks a manifest's item tree depth-first. For every item it
// acquires a fresh workspace, runs the item's get and build commands there,
// copies the declared assets into the resolved destination and then recurses
// into the item's children with that destination as their base directory.
//
// Key components:
//   - Engine: Main orchestrator, constructed with its collaborators
//   - Run: Resolves the target directory, loads the manifest, walks the tree
//   - Operations: Executes the copy decisions made by the planner
//
// Errors are returned, never turned into a process exit, so every workspace
// acquired along the way is released by its deferred cleanup.
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/danieljhkim/pllr/internal/clock"
	"github.com/danieljhkim/pllr/internal/fsops"
	"github.com/danieljhkim/pllr/internal/planner"
	"github.com/danieljhkim/pllr/internal/shell"
	"github.com/danieljhkim/pllr/internal/workspace"
)

// Engine orchestrates a pllr run.
// It is the main API surface called by the CLI.
type Engine struct {
	fs         fsops.FS
	runner     shell.Runner
	workspaces *workspace.Manager
	clock      clock.Clock
	logger     *zap.Logger
	reporter   Reporter
}

// New creates a new Engine with the given dependencies. A nil logger or
// reporter discards output.
func New(
	fs fsops.FS,
	runner shell.Runner,
	workspaces *workspace.Manager,
	clk clock.Clock,
	logger *zap.Logger,
	reporter Reporter,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Engine{
		fs:         fs,
		runner:     runner,
		workspaces: workspaces,
		clock:      clk,
		logger:     logger,
		reporter:   reporter,
	}
}

// executeOperation executes a single asset operation.
func (e *Engine) executeOperation(label string, op planner.Operation) error {
	switch op.Type {
	case planner.OpCopyDir:
		if err := e.fs.CopyDir(op.SourcePath, op.DestPath, op.Overwrite); err != nil {
			return fmt.Errorf("%w: failed to copy directory %s to %s: %w", ErrFilesystem, op.SourcePath, op.DestPath, err)
		}
		e.reporter.AssetCopied(label, op)
	case planner.OpCopyFile:
		if err := e.fs.CopyFile(op.SourcePath, op.DestPath); err != nil {
			return fmt.Errorf("%w: failed to copy file %s to %s: %w", ErrFilesystem, op.SourcePath, op.DestPath, err)
		}
		e.reporter.AssetCopied(label, op)
	case planner.OpSkip:
		e.reporter.AssetSkipped(label, op)
	case planner.OpMissing:
		e.logger.Debug("asset not found",
			zap.String("item", label),
			zap.String("asset", op.Asset),
			zap.String("path", op.SourcePath))
		e.reporter.AssetMissing(label, op)
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}

	return nil
}
