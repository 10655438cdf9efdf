package domain

import (
	"errors"
	"fmt"
)

// Setup errors - abort the affected component with zero counts
var (
	// ErrSourceNotFound indicates the directory to organize does not exist
	ErrSourceNotFound = errors.New("source directory not found")

	// ErrNotDirectory indicates expected a directory but got a file
	ErrNotDirectory = errors.New("not a directory")

	// ErrRunInProgress indicates another run already holds the run lock
	ErrRunInProgress = errors.New("run already in progress")

	// ErrNothingToDo indicates a run requested neither organizing nor temp cleanup
	ErrNothingToDo = errors.New("nothing to do: specify a directory or temp cleanup")
)

// Checksum errors
var (
	// ErrUnsupportedAlgorithm indicates an unknown hash algorithm name
	ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")
)

// Config errors
var (
	// ErrConfigNotFound indicates config file not found
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigInvalid indicates config file is malformed
	ErrConfigInvalid = errors.New("invalid config")
)

// Operation names an item-level filesystem operation
type Operation string

const (
	OpHash   Operation = "hash"
	OpMkdir  Operation = "mkdir"
	OpMove   Operation = "move"
	OpDelete Operation = "delete"
	OpStat   Operation = "stat"
	OpList   Operation = "list"
)

// ItemError records a failure on a single entry. Item errors never abort a batch.
type ItemError struct {
	Path string
	Op   Operation
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// NewItemError builds an ItemError
func NewItemError(op Operation, path string, err error) *ItemError {
	return &ItemError{Path: path, Op: op, Err: err}
}
