package cli

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/danieljhkim/pllr/internal/clock"
	"github.com/danieljhkim/pllr/internal/engine"
	"github.com/danieljhkim/pllr/internal/fsops"
	"github.com/danieljhkim/pllr/internal/manifest"
	"github.com/danieljhkim/pllr/internal/planner"
	"github.com/danieljhkim/pllr/internal/shell"
	"github.com/danieljhkim/pllr/internal/workspace"
)

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine(log *zap.Logger, reporter engine.Reporter) *engine.Engine {
	fs := fsops.NewRealFS()
	runner := shell.NewShRunner()
	// Empty parent means the OS temporary directory
	workspaces := workspace.NewManager(fs, "")
	clk := &clock.RealClock{}

	return engine.New(fs, runner, workspaces, clk, log, reporter)
}

// newLogger builds a console logger writing to w. Only warnings are shown
// unless verbose is set.
func newLogger(w io.Writer, verbose bool) (*zap.Logger, error) {
	if w == nil {
		return nil, fmt.Errorf("no log output")
	}

	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)

	return zap.New(core), nil
}

// consoleReporter prints engine progress to the console.
type consoleReporter struct {
	out io.Writer
}

func newConsoleReporter(out io.Writer) *consoleReporter {
	return &consoleReporter{out: out}
}

func (r *consoleReporter) ItemStarted(label string, item *manifest.Item) {
	PrintItem(r.out, label, item.Get)
}

func (r *consoleReporter) AssetCopied(label string, op planner.Operation) {
	PrintSuccess(r.out, fmt.Sprintf("  %s -> %s", op.Asset, op.DestPath))
}

func (r *consoleReporter) AssetSkipped(label string, op planner.Operation) {
	PrintInfo(r.out, fmt.Sprintf("  skipped %s: %s already exists", op.Asset, op.DestPath))
}

func (r *consoleReporter) AssetMissing(label string, op planner.Operation) {
	PrintWarning(r.out, fmt.Sprintf("  %s not found at %s", op.Asset, op.SourcePath))
}
