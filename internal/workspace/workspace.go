// Package workspace manages the ephemeral directories items are fetched into.
//
// Each item gets its own workspace, acquired just before its get command runs
// and released once its assets are copied and its children processed. Callers
// pair Acquire with a deferred Release so the directory is removed on every
// exit path.
package workspace

import (
	"errors"
	"fmt"
	"sync"

	"github.com/danieljhkim/pllr/internal/fsops"
)

// ErrCreate indicates a workspace directory could not be created.
var ErrCreate = errors.New("failed to create workspace")

const pattern = "pllr-*"

// Manager hands out workspaces under a parent directory.
type Manager struct {
	fs     fsops.FS
	parent string

	mu          sync.Mutex
	outstanding int
}

// NewManager creates a Manager. An empty parent uses the OS temp directory.
func NewManager(fs fsops.FS, parent string) *Manager {
	return &Manager{fs: fs, parent: parent}
}

// Workspace is an acquired temporary directory.
type Workspace struct {
	path     string
	manager  *Manager
	released bool
}

// Acquire creates a new, uniquely named workspace directory.
func (m *Manager) Acquire() (*Workspace, error) {
	path, err := m.fs.MkdirTemp(m.parent, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreate, err)
	}

	m.mu.Lock()
	m.outstanding++
	m.mu.Unlock()

	return &Workspace{path: path, manager: m}, nil
}

// Outstanding returns the number of workspaces acquired but not yet released.
func (m *Manager) Outstanding() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outstanding
}

// Path returns the workspace directory.
func (w *Workspace) Path() string {
	return w.path
}

// Release removes the workspace and everything in it. Calling Release more
// than once is a no-op.
func (w *Workspace) Release() error {
	if w == nil || w.released {
		return nil
	}
	w.released = true

	w.manager.mu.Lock()
	w.manager.outstanding--
	w.manager.mu.Unlock()

	if err := w.manager.fs.RemoveAll(w.path); err != nil {
		return fmt.Errorf("failed to remove workspace %s: %w", w.path, err)
	}
	return nil
}
