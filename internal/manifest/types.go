package manifest

// FileName is the manifest file pllr looks for in the target directory.
const FileName = "pllr.json"

// Manifest is the root of a pllr.json document.
type Manifest struct {
	Items []Item `json:"items"`
}

// Item is one fetch, build and copy unit, plus optional children that inherit
// the item's resolved destination as their base directory.
type Item struct {
	// Get is the shell command that fetches content into the workspace.
	Get string `json:"get"`

	// Build is run in the resolved source directory after Get succeeds.
	Build *string `json:"build,omitempty"`

	// Assets are paths relative to the resolved source directory.
	Assets []string `json:"assets"`

	// Overwrite enables replacing existing destinations when present at all.
	// "overwrite": false enables it just like true does.
	Overwrite *bool `json:"overwrite,omitempty"`

	// Source is a subdirectory of the workspace used as the source root.
	Source *string `json:"source,omitempty"`

	// Dest is a subdirectory of the base directory used as the destination.
	Dest *string `json:"dest,omitempty"`

	Children []Item `json:"children,omitempty"`
}

// OverwriteEnabled reports whether the overwrite key was given.
func (i *Item) OverwriteEnabled() bool {
	return i.Overwrite != nil
}

// HasBuild reports whether the item declares a build command.
func (i *Item) HasBuild() bool {
	return i.Build != nil
}

// Count returns the number of items in the tree, children included.
func (m *Manifest) Count() int {
	return countItems(m.Items)
}

func countItems(items []Item) int {
	n := len(items)
	for i := range items {
		n += countItems(items[i].Children)
	}
	return n
}
