package swigload

import (
	"errors"
	"fmt"
)

var (
	// ErrPlatformUnsupported occurs when running on any OS other than linux.
	ErrPlatformUnsupported = errors.New("support only for Linux platforms")
	// ErrToolMissing occurs when a required external tool is not on PATH.
	ErrToolMissing = errors.New("required tool missing")
	// ErrCommandFailed occurs when an external step reports failure.
	ErrCommandFailed = errors.New("command failed")
	// ErrWrite occurs when staging files can not be written.
	ErrWrite = errors.New("staging write failed")
	// ErrImportFailed occurs when the built library can not be loaded.
	ErrImportFailed = errors.New("import failed")
	// ErrMissingSymbol occurs when can't found a symbol.
	ErrMissingSymbol = errors.New("missing symbol")
	// ErrAmbiguousSymbol occurs when a short name matches several overloads.
	ErrAmbiguousSymbol = errors.New("ambiguous symbol")
	// ErrFreed occurs when a Module is used after [Module.Free].
	ErrFreed = errors.New("module already freed")
)

// ToolMissingError names the missing tool and how to install it.
type ToolMissingError struct {
	Tool string
	Hint string
}

func (e *ToolMissingError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("%s does not exist", e.Tool)
	}
	return fmt.Sprintf("%s does not exist. (%s)", e.Tool, e.Hint)
}

func (e *ToolMissingError) Unwrap() error { return ErrToolMissing }

// CommandError carries the diagnostic output of a failed external step.
type CommandError struct {
	Name     string   // executable name
	Args     []string // full argv
	Stdout   string
	Stderr   string
	ExitCode int   // -1 when the process did not run to completion
	Err      error // start or wait error, may be nil under FailOnStderr
}

func (e *CommandError) Error() string {
	msg := e.Stderr
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return "Command : " + e.Name + "\nError   : \\\n" + msg
}

func (e *CommandError) Unwrap() error { return ErrCommandFailed }

// Cause returns the underlying process error, if any.
func (e *CommandError) Cause() error { return e.Err }

// WriteError wraps a filesystem failure while staging.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() []error { return []error{ErrWrite, e.Err} }

// ImportError wraps a failure to open or inspect the built library.
type ImportError struct {
	Package string
	Path    string
	Err     error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s from %s: %v", e.Package, e.Path, e.Err)
}

func (e *ImportError) Unwrap() []error { return []error{ErrImportFailed, e.Err} }
