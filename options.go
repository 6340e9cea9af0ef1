package swigload

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// FailurePolicy decides when an external step counts as failed.
type FailurePolicy int

const (
	// FailOnStderr treats any diagnostic output as fatal, whatever the exit status.
	FailOnStderr FailurePolicy = iota
	// FailOnExitStatus fails only on a non-zero exit; stderr is logged.
	FailOnExitStatus
)

func (p FailurePolicy) String() string {
	switch p {
	case FailOnExitStatus:
		return "exit-status"
	default:
		return "stderr"
	}
}

// ParseFailurePolicy accepts "stderr" or "exit-status".
func ParseFailurePolicy(s string) (FailurePolicy, bool) {
	switch s {
	case "", "stderr":
		return FailOnStderr, true
	case "exit-status", "exit":
		return FailOnExitStatus, true
	}
	return FailOnStderr, false
}

// Toolchain names the external executables and file extensions used by a build.
type Toolchain struct {
	Generator     string   // binding generator, swig
	GeneratorArgs []string // binding mode flags
	Compiler      string   // C++ compiler
	Probes        []string // configuration probes, in preference order
	HeaderExt     string
	InterfaceExt  string
	SharedExt     string
}

// DefaultToolchain is swig in C++/python mode with g++ and python3-config.
func DefaultToolchain() Toolchain {
	return Toolchain{
		Generator:     "swig",
		GeneratorArgs: []string{"-c++", "-python"},
		Compiler:      "g++",
		Probes:        []string{"python3-config", "python-config"},
		HeaderExt:     "h",
		InterfaceExt:  "i",
		SharedExt:     "so",
	}
}

// withDefaults fills empty fields from DefaultToolchain.
func (t Toolchain) withDefaults() Toolchain {
	d := DefaultToolchain()
	if t.Generator == "" {
		t.Generator = d.Generator
	}
	if t.GeneratorArgs == nil {
		t.GeneratorArgs = d.GeneratorArgs
	}
	if t.Compiler == "" {
		t.Compiler = d.Compiler
	}
	if len(t.Probes) == 0 {
		t.Probes = d.Probes
	}
	if t.HeaderExt == "" {
		t.HeaderExt = d.HeaderExt
	}
	if t.InterfaceExt == "" {
		t.InterfaceExt = d.InterfaceExt
	}
	if t.SharedExt == "" {
		t.SharedExt = d.SharedExt
	}
	return t
}

// Options configure an Importer. The zero value is usable.
type Options struct {
	Toolchain    Toolchain
	Debug        bool          // print every command with its output to Out
	Out          io.Writer     // debug console, stdout when nil
	Logger       *log.Logger   // structured logger, stderr at warn level when nil
	TempDir      string        // parent of staging directories, os.TempDir when empty
	Timeout      time.Duration // per command, zero for none
	Policy       FailurePolicy
	ExtraCFlags  []string
	ExtraLDFlags []string
	KeepStage    bool        // leave the staging directory on disk, for inspection
	SearchPath   *SearchPath // process default when nil
}

func (o Options) normalize() Options {
	o.Toolchain = o.Toolchain.withDefaults()
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Logger == nil {
		o.Logger = NewLogger(os.Stderr, o.Debug)
	}
	if o.SearchPath == nil {
		o.SearchPath = DefaultSearchPath()
	}
	return o
}

// NewLogger creates the package logger, at debug level when debug is set.
func NewLogger(w io.Writer, debug bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{Prefix: "swigload", Level: log.WarnLevel})
	if debug {
		l.SetLevel(log.DebugLevel)
	}
	return l
}
