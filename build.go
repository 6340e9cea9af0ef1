package swigload

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/shell"
)

// Pipeline runs the four build steps against a Stage.
type Pipeline struct {
	Toolchain    Toolchain
	Runner       *Runner
	Probe        string // configuration probe to use, resolved from Toolchain.Probes when empty
	ExtraCFlags  []string
	ExtraLDFlags []string
	SearchPath   *SearchPath
	Logger       *log.Logger
	prober       Prober
}

func newPipeline(o Options, r *Runner) *Pipeline {
	return &Pipeline{
		Toolchain:    o.Toolchain,
		Runner:       r,
		ExtraCFlags:  o.ExtraCFlags,
		ExtraLDFlags: o.ExtraLDFlags,
		SearchPath:   o.SearchPath,
		Logger:       o.Logger,
	}
}

// Build generates bindings, compiles and links the staged snippet, returning
// the library path. The first failing step aborts; artifacts are left for the
// caller to clean up. On success the stage directory is prepended to the
// search path.
func (p *Pipeline) Build(ctx context.Context, s *Stage) (library string, err error) {
	t := p.Toolchain.withDefaults()
	probe := p.Probe
	if probe == "" {
		var ok bool
		if probe, ok = p.prober.ResolveProbe(t); !ok {
			probe = t.Probes[len(t.Probes)-1]
		}
	}
	steps := []struct {
		name string
		run  func() error
	}{
		{"bindings", func() error {
			return p.exec(ctx, s, append(append([]string{t.Generator}, t.GeneratorArgs...), "./"+s.InterfaceFile()))
		}},
		{"header", func() error {
			return p.exec(ctx, s, []string{t.Compiler, "-fPIC", "-c", s.HeaderFile()})
		}},
		{"wrapper", func() error {
			cflags, err := p.flags(ctx, s, probe, "--cflags")
			if err != nil {
				return err
			}
			cmd := append([]string{t.Compiler, "-fPIC", "-c", s.WrapperSource()}, cflags...)
			return p.exec(ctx, s, append(cmd, p.ExtraCFlags...))
		}},
		{"link", func() error {
			ldflags, err := p.flags(ctx, s, probe, "--ldflags")
			if err != nil {
				return err
			}
			cmd := append([]string{t.Compiler, "-shared", s.WrapperObject()}, ldflags...)
			cmd = append(cmd, p.ExtraLDFlags...)
			return p.exec(ctx, s, append(cmd, "-o", s.Library()))
		}},
	}
	for _, step := range steps {
		if p.Logger != nil {
			p.Logger.Debug("build", "step", step.name, "pkg", s.ID, "dir", s.Dir)
		}
		if err = step.run(); err != nil {
			return "", err
		}
	}
	if p.SearchPath != nil {
		p.SearchPath.Prepend(s.Dir)
	}
	return s.Path(s.Library()), nil
}

func (p *Pipeline) exec(ctx context.Context, s *Stage, command []string) error {
	_, _, err := p.Runner.Run(ctx, s.Dir, command)
	return err
}

// flags runs the configuration probe and splits its output into arguments.
func (p *Pipeline) flags(ctx context.Context, s *Stage, probe string, which ...string) ([]string, error) {
	out, _, err := p.Runner.Run(ctx, s.Dir, append([]string{probe}, which...))
	if err != nil {
		return nil, err
	}
	return SplitFlags(out)
}

// SplitFlags splits tool output into fields the way a shell would. Quotes are
// honoured, variables expand to nothing.
func SplitFlags(out string) ([]string, error) {
	f, err := shell.Fields(out, func(string) string { return "" })
	if err != nil {
		return nil, fmt.Errorf("split flags %q: %w", out, err)
	}
	return f, nil
}
