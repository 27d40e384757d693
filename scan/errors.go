package scan

import "errors"

// Setup failures. All of these are unrecoverable: the run aborts before
// any configuration mutation, with no retry.
var (
	// ErrToolchainNotFound is returned when the Go toolchain cannot be
	// located or probed.
	ErrToolchainNotFound = errors.New("go toolchain not found")

	// ErrEntryNotFound is returned when the declared program entry point
	// is missing or does not resolve to a single directory.
	ErrEntryNotFound = errors.New("program entry point not found")

	// ErrEntryModuleUndetermined is returned when no go.mod declares a
	// module for the entry package.
	ErrEntryModuleUndetermined = errors.New("entry module could not be determined")

	// ErrEntryPackageMissing is returned when loading produced no
	// package for the entry directory.
	ErrEntryPackageMissing = errors.New("entry package missing after load")

	// ErrActorShapesNotFound is returned when the actor base shapes are
	// absent from the target program's import graph.
	ErrActorShapesNotFound = errors.New("no actor base shapes found in target module graph")
)
