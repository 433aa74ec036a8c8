package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrRead indicates the manifest file could not be read.
	ErrRead = errors.New("failed to read manifest")

	// ErrParse indicates the manifest is not valid JSON or does not match the schema.
	ErrParse = errors.New("failed to parse manifest")
)

// Load reads, validates and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse validates data against the manifest schema and decodes it.
func Parse(data []byte) (*Manifest, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrParse, result.Summary())
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	normalize(m.Items)

	return &m, nil
}

// normalize replaces absent asset lists with empty ones.
func normalize(items []Item) {
	for i := range items {
		if items[i].Assets == nil {
			items[i].Assets = []string{}
		}
		normalize(items[i].Children)
	}
}

// Summary joins the issues into a single line.
func (r *ValidationResult) Summary() string {
	if r.Valid || len(r.Issues) == 0 {
		return "valid"
	}
	parts := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if issue.Path == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Path, issue.Message))
	}
	return strings.Join(parts, "; ")
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrRead, path, err)
	}
	return data, nil
}
