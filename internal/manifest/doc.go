// Package manifest handles parsing and validation of pllr.json manifests.
// A manifest is a tree of items, each describing a fetch command, an optional
// build command and the assets to copy out of the item's workspace. Documents
// are checked against the embedded JSON Schema before they are decoded.
package manifest
