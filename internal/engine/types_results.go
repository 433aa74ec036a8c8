package engine

import (
	"time"

	"github.com/danieljhkim/pllr/internal/manifest"
	"github.com/danieljhkim/pllr/internal/planner"
)

// RunResult represents the outcome of a run. On failure it holds the items
// processed before the error.
type RunResult struct {
	// Root is the absolute target directory
	Root string

	// Manifest is the path of the manifest that was processed
	Manifest string

	// Items lists processed items in traversal order (parents before children)
	Items []ItemResult

	// Duration is the wall time of the traversal
	Duration time.Duration
}

// ItemResult records what happened to one item's assets.
type ItemResult struct {
	// Label identifies the item within the manifest, e.g. items[0].children[1]
	Label string

	// Source is the resolved source directory inside the workspace
	Source string

	// Dest is the resolved destination directory
	Dest string

	Copied  []string
	Skipped []string
	Missing []string
}

// Copied returns the number of assets copied across all items.
func (r *RunResult) Copied() int {
	n := 0
	for _, item := range r.Items {
		n += len(item.Copied)
	}
	return n
}

// Skipped returns the number of assets skipped because the destination existed.
func (r *RunResult) Skipped() int {
	n := 0
	for _, item := range r.Items {
		n += len(item.Skipped)
	}
	return n
}

// Missing returns the number of assets that did not exist in the source.
func (r *RunResult) Missing() int {
	n := 0
	for _, item := range r.Items {
		n += len(item.Missing)
	}
	return n
}

// Reporter receives progress events while items are processed.
type Reporter interface {
	ItemStarted(label string, item *manifest.Item)
	AssetCopied(label string, op planner.Operation)
	AssetSkipped(label string, op planner.Operation)
	AssetMissing(label string, op planner.Operation)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) ItemStarted(string, *manifest.Item)     {}
func (NopReporter) AssetCopied(string, planner.Operation)  {}
func (NopReporter) AssetSkipped(string, planner.Operation) {}
func (NopReporter) AssetMissing(string, planner.Operation) {}
