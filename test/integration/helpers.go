package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/danieljhkim/pllr/internal/clock"
	"github.com/danieljhkim/pllr/internal/engine"
	"github.com/danieljhkim/pllr/internal/fsops"
	"github.com/danieljhkim/pllr/internal/manifest"
	"github.com/danieljhkim/pllr/internal/shell"
	"github.com/danieljhkim/pllr/internal/workspace"
)

// project is a target directory with a manifest, processed by a real engine.
// Workspaces are created under tmp so tests can check they were removed.
type project struct {
	root    string
	tmp     string
	manager *workspace.Manager
	engine  *engine.Engine
}

func setupProject(t *testing.T, manifestJSON string) *project {
	t.Helper()

	root := t.TempDir()
	tmp := t.TempDir()
	writeFile(t, filepath.Join(root, manifest.FileName), manifestJSON)

	fs := fsops.NewRealFS()
	manager := workspace.NewManager(fs, tmp)
	eng := engine.New(fs, shell.NewShRunner(), manager, &clock.RealClock{}, nil, nil)

	return &project{root: root, tmp: tmp, manager: manager, engine: eng}
}

func (p *project) run(t *testing.T) (*engine.RunResult, error) {
	t.Helper()
	return p.engine.Run(context.Background(), &engine.RunRequest{Dir: p.root})
}

func (p *project) path(parts ...string) string {
	return filepath.Join(append([]string{p.root}, parts...)...)
}

// assertWorkspacesRemoved fails if any workspace directory is left behind.
func (p *project) assertWorkspacesRemoved(t *testing.T) {
	t.Helper()
	if n := p.manager.Outstanding(); n != 0 {
		t.Errorf("%d workspaces still outstanding", n)
	}
	entries, err := os.ReadDir(p.tmp)
	if err != nil {
		t.Fatalf("failed to read workspace parent: %v", err)
	}
	for _, e := range entries {
		t.Errorf("workspace %s was not removed", e.Name())
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func assertFileContent(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	if string(got) != want {
		t.Errorf("content of %s = %q, want %q", path, got, want)
	}
}

func assertNotExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s not to exist (stat error: %v)", path, err)
	}
}
