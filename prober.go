package swigload

import (
	"os/exec"
	"runtime"
)

// Requirement describes one external tool; any of Names satisfies it.
type Requirement struct {
	Names []string
	Hint  string // package to install when missing
}

// Prober verifies that the host can run a build.
type Prober struct {
	GOOS     string                            // runtime.GOOS when empty
	LookPath func(file string) (string, error) // exec.LookPath when nil
}

// Requirements lists the tool checks in the order they are evaluated.
func (t Toolchain) Requirements() []Requirement {
	t = t.withDefaults()
	return []Requirement{
		{Names: []string{t.Generator}, Hint: "sudo apt install swig"},
		{Names: []string{t.Compiler}, Hint: "sudo apt install g++"},
		{Names: t.Probes, Hint: "sudo apt install python3-dev"},
	}
}

func (p Prober) lookPath(file string) (string, error) {
	if p.LookPath != nil {
		return p.LookPath(file)
	}
	return exec.LookPath(file)
}

// Check fails at the first unmet condition: platform, generator, compiler, probe.
func (p Prober) Check(t Toolchain) error {
	goos := p.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	if goos != "linux" {
		return ErrPlatformUnsupported
	}
	for _, req := range t.Requirements() {
		if _, ok := p.first(req.Names); !ok {
			return &ToolMissingError{Tool: req.Names[0], Hint: req.Hint}
		}
	}
	return nil
}

// ResolveProbe returns the first configuration probe found on PATH.
func (p Prober) ResolveProbe(t Toolchain) (string, bool) {
	return p.first(t.withDefaults().Probes)
}

func (p Prober) first(names []string) (string, bool) {
	for _, n := range names {
		if _, err := p.lookPath(n); err == nil {
			return n, true
		}
	}
	return "", false
}

// CheckRequirements runs the default Prober against the default toolchain.
func CheckRequirements() error {
	return Prober{}.Check(DefaultToolchain())
}
