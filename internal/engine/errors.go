package engine

import "errors"

var (
	// ErrUsage indicates the command line was malformed.
	ErrUsage = errors.New("usage error")

	// ErrConfig indicates the target directory or manifest is unusable.
	ErrConfig = errors.New("configuration error")

	// ErrWorkspace indicates a workspace could not be created or removed.
	ErrWorkspace = errors.New("workspace error")

	// ErrCommand indicates a get or build command failed to start or exited non-zero.
	ErrCommand = errors.New("command failed")

	// ErrFilesystem indicates a directory creation or copy failed.
	ErrFilesystem = errors.New("filesystem error")
)
