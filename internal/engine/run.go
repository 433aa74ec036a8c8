package engine

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/danieljhkim/pllr/internal/clock"
	"github.com/danieljhkim/pllr/internal/config"
	"github.com/danieljhkim/pllr/internal/manifest"
	"github.com/danieljhkim/pllr/internal/planner"
	"github.com/danieljhkim/pllr/internal/shell"
)

// Algorithm steps:
// 1. Resolve the target directory and locate pllr.json
// 2. Load and validate the manifest
// 3. Process top-level items in order with the target directory as base
// 4. Return the result (partial on failure)
func (e *Engine) Run(ctx context.Context, req *RunRequest) (*RunResult, error) {
	layout, err := config.Resolve(req.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	m, err := manifest.Load(layout.Manifest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	e.logger.Debug("loaded manifest",
		zap.String("path", layout.Manifest),
		zap.Int("items", m.Count()))

	result := &RunResult{
		Root:     layout.Root,
		Manifest: layout.Manifest,
		Items:    []ItemResult{},
	}

	start := e.clock.Now()
	err = e.process(ctx, m.Items, layout.Root, "items", result)
	result.Duration = clock.Since(e.clock, start)

	return result, err
}

// process handles items in order, each fully (children included) before the next.
func (e *Engine) process(ctx context.Context, items []manifest.Item, baseDir, prefix string, result *RunResult) error {
	for i := range items {
		label := fmt.Sprintf("%s[%d]", prefix, i)
		if err := e.processItem(ctx, &items[i], baseDir, label, result); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) processItem(ctx context.Context, item *manifest.Item, baseDir, label string, result *RunResult) (err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", label, ctxErr)
	}

	e.reporter.ItemStarted(label, item)

	ws, err := e.workspaces.Acquire()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWorkspace, label, err)
	}
	log := e.logger.With(zap.String("item", label))
	log.Debug("acquired workspace", zap.String("path", ws.Path()))

	defer func() {
		if relErr := ws.Release(); relErr != nil {
			log.Warn("failed to release workspace", zap.Error(relErr))
			err = multierr.Append(err, fmt.Errorf("%w: %s: %w", ErrWorkspace, label, relErr))
			return
		}
		log.Debug("released workspace", zap.String("path", ws.Path()))
	}()

	if err := e.runStep(ctx, log, "get", ws.Path(), item.Get); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCommand, label, err)
	}

	paths := planner.Resolve(item, ws.Path(), baseDir)
	log.Debug("resolved paths",
		zap.String("source", paths.Source),
		zap.String("dest", paths.Dest))

	if item.HasBuild() {
		if err := e.runStep(ctx, log, "build", paths.Source, *item.Build); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrCommand, label, err)
		}
	}

	if err := e.fs.MkdirAll(paths.Dest, 0755); err != nil {
		return fmt.Errorf("%w: %s: failed to create directory %s: %w", ErrFilesystem, label, paths.Dest, err)
	}

	itemResult := ItemResult{
		Label:   label,
		Source:  paths.Source,
		Dest:    paths.Dest,
		Copied:  []string{},
		Skipped: []string{},
		Missing: []string{},
	}
	copyErr := e.copyAssets(log, item, paths, label, &itemResult)
	result.Items = append(result.Items, itemResult)
	if copyErr != nil {
		return fmt.Errorf("%s: %w", label, copyErr)
	}

	if len(item.Children) > 0 {
		return e.process(ctx, item.Children, paths.ChildBase, label+".children", result)
	}
	return nil
}

// runStep runs one of the item's manifest commands.
func (e *Engine) runStep(ctx context.Context, log *zap.Logger, step, dir, command string) error {
	log.Debug("running command", zap.String("step", step), zap.String("dir", dir))

	res, err := e.runner.Run(ctx, dir, shell.Command(command))
	if err != nil {
		return fmt.Errorf("'%s' command failed: %w", step, err)
	}

	log.Debug("command finished",
		zap.String("step", step),
		zap.Int("stdout_bytes", len(res.Stdout)))
	return nil
}

// copyAssets plans and executes each asset in declared order.
func (e *Engine) copyAssets(log *zap.Logger, item *manifest.Item, paths planner.Paths, label string, itemResult *ItemResult) error {
	overwrite := item.OverwriteEnabled()

	for _, asset := range item.Assets {
		names, err := planner.ExpandAsset(asset, paths, e.fs)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConfig, err)
		}
		if len(names) == 0 {
			op := planner.MissingPattern(asset, paths)
			if err := e.executeOperation(label, op); err != nil {
				return err
			}
			itemResult.Missing = append(itemResult.Missing, asset)
			continue
		}

		for _, name := range names {
			op, err := planner.PlanCopy(name, paths, overwrite, e.fs)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrConfig, err)
			}
			if err := e.executeOperation(label, op); err != nil {
				return err
			}
			log.Debug("asset handled",
				zap.String("asset", name),
				zap.String("op", op.Type),
				zap.String("dest", op.DestPath))

			switch op.Type {
			case planner.OpCopyDir, planner.OpCopyFile:
				itemResult.Copied = append(itemResult.Copied, name)
			case planner.OpSkip:
				itemResult.Skipped = append(itemResult.Skipped, name)
			case planner.OpMissing:
				itemResult.Missing = append(itemResult.Missing, name)
			}
		}
	}
	return nil
}
