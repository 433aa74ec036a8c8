// Package shell runs manifest commands through the system shell.
//
// Commands come straight from pllr.json and are handed to "sh -c" verbatim.
// Nothing is escaped, quoted or sandboxed: whoever can edit the manifest can
// run arbitrary code as the invoking user. The Command type marks that trust
// boundary in signatures.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
)

// ErrSpawn indicates the shell process could not be started.
var ErrSpawn = errors.New("failed to start command")

// Command is trusted shell source taken from a manifest.
type Command string

// Result captures the outcome of a finished command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the command exited with status 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// ExitError is returned when a command runs but exits non-zero or is killed
// by a signal. ExitCode is -1 for a signaled command.
type ExitError struct {
	Command  Command
	Dir      string
	ExitCode int
	Signal   string
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command %q exited with status %d in %s", string(e.Command), e.ExitCode, e.Dir)
	if e.Signal != "" {
		msg = fmt.Sprintf("command %q was killed by signal %s in %s", string(e.Command), e.Signal, e.Dir)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ":\n" + stderr
	}
	return msg
}

// Runner executes a trusted command with the given working directory.
type Runner interface {
	Run(ctx context.Context, dir string, cmd Command) (*Result, error)
}

// ShRunner implements Runner with a POSIX shell.
type ShRunner struct {
	// Shell is the interpreter invoked as "<Shell> -c <command>".
	Shell string
}

// NewShRunner creates a runner using "sh" from PATH.
func NewShRunner() *ShRunner {
	return &ShRunner{Shell: "sh"}
}

// Run executes cmd in dir, inheriting the process environment. A non-zero exit
// returns the Result together with an *ExitError.
func (r *ShRunner) Run(ctx context.Context, dir string, cmd Command) (*Result, error) {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}

	c := exec.CommandContext(ctx, shell, "-c", string(cmd))
	// Env is left nil so the child inherits the environment with PWD set to dir.
	c.Dir = dir

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, fmt.Errorf("command %q interrupted: %w", string(cmd), ctxErr)
			}
			return result, fmt.Errorf("%w %q in %s: %w", ErrSpawn, string(cmd), dir, err)
		}

		result.ExitCode = exitErr.ExitCode()
		failure := &ExitError{
			Command:  cmd,
			Dir:      dir,
			ExitCode: result.ExitCode,
			Stderr:   result.Stderr,
		}
		if result.ExitCode >= 0 {
			return result, failure
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("command %q interrupted: %w", string(cmd), ctxErr)
		}
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			failure.Signal = ws.Signal().String()
		}
		return result, failure
	}

	return result, nil
}
