package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/pllr/internal/clock"
	"github.com/danieljhkim/pllr/internal/fsops"
	"github.com/danieljhkim/pllr/internal/manifest"
	"github.com/danieljhkim/pllr/internal/planner"
	"github.com/danieljhkim/pllr/internal/shell"
	"github.com/danieljhkim/pllr/internal/workspace"
)

// runCall records one command invocation.
type runCall struct {
	Dir string
	Cmd shell.Command
}

// fakeRunner executes scripted commands against a MemFS.
type fakeRunner struct {
	fs      *fsops.MemFS
	scripts map[shell.Command]func(dir string) error
	calls   []runCall
}

func newFakeRunner(fs *fsops.MemFS) *fakeRunner {
	return &fakeRunner{fs: fs, scripts: make(map[shell.Command]func(string) error)}
}

// writes scripts cmd to create files (relative to the working directory).
func (r *fakeRunner) writes(cmd shell.Command, files map[string]string) {
	r.scripts[cmd] = func(dir string) error {
		for name, content := range files {
			r.fs.WriteFile(filepath.Join(dir, name), []byte(content))
		}
		return nil
	}
}

// fails scripts cmd to exit non-zero with the given stderr.
func (r *fakeRunner) fails(cmd shell.Command, code int, stderr string) {
	r.scripts[cmd] = func(dir string) error {
		return &shell.ExitError{Command: cmd, Dir: dir, ExitCode: code, Stderr: stderr}
	}
}

func (r *fakeRunner) Run(ctx context.Context, dir string, cmd shell.Command) (*shell.Result, error) {
	r.calls = append(r.calls, runCall{Dir: dir, Cmd: cmd})
	if !r.fs.IsDir(dir) {
		return nil, fmt.Errorf("%w %q in %s: no such directory", shell.ErrSpawn, cmd, dir)
	}
	script, ok := r.scripts[cmd]
	if !ok {
		return &shell.Result{}, nil
	}
	if err := script(dir); err != nil {
		res := &shell.Result{ExitCode: 1}
		return res, err
	}
	return &shell.Result{}, nil
}

// recordingReporter captures progress events in order.
type recordingReporter struct {
	events []string
}

func (r *recordingReporter) ItemStarted(label string, _ *manifest.Item) {
	r.events = append(r.events, "start "+label)
}

func (r *recordingReporter) AssetCopied(label string, op planner.Operation) {
	r.events = append(r.events, fmt.Sprintf("copied %s %s", label, op.Asset))
}

func (r *recordingReporter) AssetSkipped(label string, op planner.Operation) {
	r.events = append(r.events, fmt.Sprintf("skipped %s %s", label, op.Asset))
}

func (r *recordingReporter) AssetMissing(label string, op planner.Operation) {
	r.events = append(r.events, fmt.Sprintf("missing %s %s", label, op.Asset))
}

type testEnv struct {
	root     string
	fs       *fsops.MemFS
	runner   *fakeRunner
	manager  *workspace.Manager
	reporter *recordingReporter
	engine   *Engine
}

// setupTestEngine writes manifestJSON to a real temporary directory (so the
// layout and manifest loading run for real) and wires an engine whose
// workspaces, commands and copies live in a MemFS.
func setupTestEngine(t *testing.T, manifestJSON string) *testEnv {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, manifest.FileName), []byte(manifestJSON), 0644))

	fs := fsops.NewMemFS()
	fs.MkdirAll(root, 0755)
	runner := newFakeRunner(fs)
	manager := workspace.NewManager(fs, "/tmp")
	reporter := &recordingReporter{}
	clk := clock.NewStepClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Second)

	return &testEnv{
		root:     root,
		fs:       fs,
		runner:   runner,
		manager:  manager,
		reporter: reporter,
		engine:   New(fs, runner, manager, clk, nil, reporter),
	}
}

func (env *testEnv) run(t *testing.T) (*RunResult, error) {
	t.Helper()
	return env.engine.Run(context.Background(), &RunRequest{Dir: env.root})
}

func (env *testEnv) path(parts ...string) string {
	return filepath.Join(append([]string{env.root}, parts...)...)
}

func (env *testEnv) read(t *testing.T, parts ...string) string {
	t.Helper()
	data, err := env.fs.ReadFile(env.path(parts...))
	require.NoError(t, err)
	return string(data)
}
