// Package planner decides where an item's assets come from and where they go.
//
// Resolution is pure path arithmetic: an item's source root is its workspace
// or a subdirectory of it, and its destination is the inherited base directory
// or a subdirectory of it. Copy planning then inspects the filesystem one asset
// at a time so that each decision sees the effects of the copies before it.
//
// Key responsibilities:
//   - Resolve source, destination and child base directories for an item
//   - Expand glob assets relative to the source root
//   - Choose directory copy, file copy, skip or missing for each asset
//   - Validate manifest-supplied asset paths
package planner
