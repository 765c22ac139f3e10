// Package errors provides structured error handling for the motion runtime.
//
// Errors never cross a clock tick as a panic. Construction-time problems are
// returned to the caller, configuration problems inside a command are
// reported as [Diagnostic] values and the offending entry is dropped, and
// panics raised by tick callbacks are captured by [Recover].
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors returned before an action is constructed.
var (
	// ErrNoTarget is returned when a command names a component that does not
	// exist or has already been destroyed.
	ErrNoTarget = errors.New("target component not found")
	// ErrUnknownCommand is returned for an unrecognized command type.
	ErrUnknownCommand = errors.New("unknown command type")
	// ErrUnsupportedVersion is returned when a document is older than the
	// minimum supported version.
	ErrUnsupportedVersion = errors.New("unsupported document version")
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates an invalid runtime configuration.
	KindConfig
	// KindCommand indicates a command that could not be constructed.
	KindCommand
	// KindDocument indicates a document load or inflation failure.
	KindDocument
	// KindBinding indicates a data-binding evaluation failure.
	KindBinding
	// KindThread indicates a call from outside the owning goroutine.
	KindThread
	// KindPanic indicates a recovered panic.
	KindPanic
)

// String returns the lowercase name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindCommand:
		return "command"
	case KindDocument:
		return "document"
	case KindBinding:
		return "binding"
	case KindThread:
		return "thread"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error represents a structured error in the motion runtime.
type Error struct {
	// Op is the operation that failed (e.g., "command.Make").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Component is the id of the component involved, if any.
	Component string
	// Action is the id of the action that was running the command, if any.
	Action string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

// Error formats the operation, kind and context before the cause.
func (e *Error) Error() string {
	s := fmt.Sprintf("%s [%s]", e.Op, e.Kind)
	if e.Component != "" {
		s += " component=" + e.Component
	}
	if e.Action != "" {
		s += " action=" + e.Action
	}
	return fmt.Sprintf("%s: %v", s, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an *Error for op and kind wrapping err.
func New(op string, kind ErrorKind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "clock.tick").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

// Error describes the panic and where it happened.
func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Diagnostic is a non-fatal configuration problem. The entry it describes
// has been dropped; the rest of the command still runs.
type Diagnostic struct {
	// Op is the operation that produced the diagnostic.
	Op string
	// Command is the command type, e.g. "AnimateItem".
	Command string
	// Component is the target component id, if known.
	Component string
	// Property is the offending property name, if any.
	Property string
	// Action is the id of the action the command runs as.
	Action string
	// Message describes the problem.
	Message string
	// Timestamp is when the diagnostic was reported.
	Timestamp time.Time
}

// String formats the diagnostic on one line.
func (d *Diagnostic) String() string {
	s := d.Op
	if d.Command != "" {
		s += " " + d.Command
	}
	if d.Component != "" {
		s += " component=" + d.Component
	}
	if d.Property != "" {
		s += " property=" + d.Property
	}
	if d.Action != "" {
		s += " action=" + d.Action
	}
	return s + ": " + d.Message
}

// ErrorHandler receives errors reported by the runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleDiagnostic is called when a configuration entry is dropped.
	HandleDiagnostic(d *Diagnostic)
}
