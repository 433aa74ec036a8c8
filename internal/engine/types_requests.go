package engine

// RunRequest describes a single pllr run.
type RunRequest struct {
	// Dir is the target directory containing pllr.json
	Dir string
}
