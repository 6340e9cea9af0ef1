package swigload

import (
	"context"
)

// Importer turns source snippets into loaded modules.
//
// Every call stages into its own directory and passes that directory to each
// external tool, so one Importer may serve concurrent calls.
type Importer struct {
	opts   Options
	prober Prober
}

// NewImporter creates an Importer; zero Options use the default toolchain.
func NewImporter(opts Options) *Importer {
	return &Importer{opts: opts.normalize()}
}

// Options returns the effective options.
func (im *Importer) Options() Options { return im.opts }

// Import checks the host, stages code, builds it and loads the result. The
// staging directory and its search path entry are removed on every path
// that reaches staging.
func (im *Importer) Import(ctx context.Context, code string) (m *Module, err error) {
	o := im.opts
	if err = im.prober.Check(o.Toolchain); err != nil {
		return nil, err
	}
	probe, _ := im.prober.ResolveProbe(o.Toolchain)
	stage, err := im.stage(code)
	if err != nil {
		return nil, err
	}
	lg := o.Logger.With("pkg", stage.ID)
	defer func() {
		o.SearchPath.Remove(stage.Dir)
		if o.KeepStage {
			lg.Info("stage kept", "dir", stage.Dir)
			return
		}
		stage.Remove()
		lg.Debug("stage removed", "dir", stage.Dir)
	}()
	r := newRunner(o)
	p := newPipeline(o, r)
	p.Probe = probe
	if _, err = p.Build(ctx, stage); err != nil {
		lg.Debug("build failed", "err", err)
		return nil, err
	}
	l := newLoader(o, r)
	l.Probe = probe
	return l.Load(ctx, stage)
}

// Build checks the host, stages and builds code without loading it. The
// caller owns the returned Stage and must Remove it.
func (im *Importer) Build(ctx context.Context, code string) (stage *Stage, library string, err error) {
	o := im.opts
	if err = im.prober.Check(o.Toolchain); err != nil {
		return
	}
	if stage, err = im.stage(code); err != nil {
		return
	}
	p := newPipeline(o, newRunner(o))
	p.Probe, _ = im.prober.ResolveProbe(o.Toolchain)
	if library, err = p.Build(ctx, stage); err != nil {
		stage.Remove()
		return nil, "", err
	}
	// the library is addressed by path from here on
	o.SearchPath.Remove(stage.Dir)
	return
}

func (im *Importer) stage(code string) (s *Stage, err error) {
	if s, err = NewStage(im.opts.TempDir, NewPackageID(), im.opts.Toolchain); err != nil {
		return
	}
	if err = s.WriteHeader(code); err == nil {
		err = s.WriteInterface()
	}
	if err != nil {
		s.Remove()
		return nil, err
	}
	im.opts.Logger.Debug("staged", "pkg", s.ID, "dir", s.Dir)
	return
}

// ImportFromSource compiles code and loads it into the running process.
func ImportFromSource(code string, debug bool) (*Module, error) {
	return NewImporter(Options{Debug: debug}).Import(context.Background(), code)
}
