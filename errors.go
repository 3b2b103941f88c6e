package u32sort

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInputNotFound is returned when the input file does not exist or cannot be opened.
var ErrInputNotFound = errors.New("u32sort: input file not found")

// Status is the terminal state of a sort run. Its numeric value is used as
// the process exit code by the command line tool.
type Status int

const (
	// StatusSuccess means the output holds every input element in ascending order.
	StatusSuccess Status = iota
	// StatusInputNotFound means the input file could not be opened.
	StatusInputNotFound
	// StatusOutputOpenFailure means the output file could not be created.
	StatusOutputOpenFailure
	// StatusOutputWriteFailure means a full output buffer was written short.
	StatusOutputWriteFailure
	// StatusOutputFinalWriteFailure means the final partial buffer was written short.
	StatusOutputFinalWriteFailure
	// StatusWorkerFailure means at least one sort worker failed; the merge was skipped.
	StatusWorkerFailure
	// StatusScratchReadFailure means a scratch segment could not be read back during the merge.
	StatusScratchReadFailure
	// StatusCanceled means the context was canceled before the run finished.
	StatusCanceled
	// StatusInvalidConfig means the configuration cannot produce a run.
	StatusInvalidConfig
	// StatusIOFailure covers any other I/O error, such as an unusable scratch directory.
	StatusIOFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusInputNotFound:
		return "input not found"
	case StatusOutputOpenFailure:
		return "output open failure"
	case StatusOutputWriteFailure:
		return "output write failure"
	case StatusOutputFinalWriteFailure:
		return "output final write failure"
	case StatusWorkerFailure:
		return "worker failure"
	case StatusScratchReadFailure:
		return "scratch read failure"
	case StatusCanceled:
		return "canceled"
	case StatusInvalidConfig:
		return "invalid config"
	case StatusIOFailure:
		return "i/o failure"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// StatusOf maps an error returned by Sort to its Status.
// A nil error is StatusSuccess.
func StatusOf(err error) Status {
	var (
		workerErr *WorkerFailureError
		openErr   *OutputOpenError
		writeErr  *OutputWriteError
		readErr   *ScratchReadError
		configErr *ConfigError
	)
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrInputNotFound):
		return StatusInputNotFound
	case errors.As(err, &workerErr):
		return StatusWorkerFailure
	case errors.As(err, &openErr):
		return StatusOutputOpenFailure
	case errors.As(err, &writeErr):
		if writeErr.Final {
			return StatusOutputFinalWriteFailure
		}
		return StatusOutputWriteFailure
	case errors.As(err, &readErr):
		return StatusScratchReadFailure
	case errors.As(err, &configErr):
		return StatusInvalidConfig
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCanceled
	default:
		return StatusIOFailure
	}
}

// ConfigError represents an error in configuration parameters
type ConfigError struct {
	// Field is the name of the configuration field that's invalid
	Field string
	// Value is the invalid value provided
	Value interface{}
	// Reason explains why the value is invalid
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field %s (value: %v): %s", e.Field, e.Value, e.Reason)
}

// ScratchOpenError is returned by a worker that could not create a scratch file.
type ScratchOpenError struct {
	Path string
	Err  error
}

func (e *ScratchOpenError) Error() string {
	return fmt.Sprintf("cannot open scratch file %s: %v", e.Path, e.Err)
}

func (e *ScratchOpenError) Unwrap() error {
	return e.Err
}

// ShortWriteError is returned by a worker when a scratch file accepted fewer
// bytes than requested.
type ShortWriteError struct {
	Path string
	Want int
	Got  int
	Err  error
}

func (e *ShortWriteError) Error() string {
	msg := fmt.Sprintf("error writing scratch file %s: to write=%d actual=%d", e.Path, e.Want, e.Got)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ShortWriteError) Unwrap() error {
	return e.Err
}

// FailureRecord describes why one sort worker stopped.
type FailureRecord struct {
	WorkerID int
	Err      error
}

// WorkerFailureError aggregates the failures of every sort worker that
// failed during a run.
type WorkerFailureError struct {
	Failures []FailureRecord
}

func (e *WorkerFailureError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "u32sort: %d sort worker(s) failed", len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "; worker %d: %v", f.WorkerID, f.Err)
	}
	return b.String()
}

// Unwrap returns the individual worker errors.
func (e *WorkerFailureError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// OutputOpenError is returned when the output file could not be created.
type OutputOpenError struct {
	Path string
	Err  error
}

func (e *OutputOpenError) Error() string {
	return fmt.Sprintf("u32sort: cannot open output file %s: %v", e.Path, e.Err)
}

func (e *OutputOpenError) Unwrap() error {
	return e.Err
}

// OutputWriteError is returned when the output file accepted fewer bytes
// than requested. Final is set when the failing write was the flush of the
// last, partially filled buffer.
type OutputWriteError struct {
	Path  string
	Want  int
	Got   int
	Final bool
	Err   error
}

func (e *OutputWriteError) Error() string {
	stage := "mid-stream"
	if e.Final {
		stage = "final flush"
	}
	msg := fmt.Sprintf("u32sort: error writing output file %s (%s): to write=%d actual=%d", e.Path, stage, e.Want, e.Got)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OutputWriteError) Unwrap() error {
	return e.Err
}

// ScratchReadError is returned when a scratch segment cannot be opened or
// read back during the merge.
type ScratchReadError struct {
	Path string
	Err  error
}

func (e *ScratchReadError) Error() string {
	return fmt.Sprintf("u32sort: cannot read scratch file %s: %v", e.Path, e.Err)
}

func (e *ScratchReadError) Unwrap() error {
	return e.Err
}

// NewDiskError creates an error wrapping an I/O error on the input file
func NewDiskError(err error, operation, path string) error {
	if path != "" {
		return fmt.Errorf("disk error during %s on %s: %w", operation, path, err)
	}
	return fmt.Errorf("disk error during %s: %w", operation, err)
}
