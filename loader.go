package swigload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/purego"
)

// Loader opens built libraries, making the host runtime they were linked
// against visible first.
type Loader struct {
	Runner     *Runner
	Probe      string
	SearchPath *SearchPath
	Logger     *log.Logger
	preloaded  sync.Map // library path -> handle
}

func newLoader(o Options, r *Runner) *Loader {
	return &Loader{Runner: r, SearchPath: o.SearchPath, Logger: o.Logger}
}

// Load opens the library produced for s.
func (l *Loader) Load(ctx context.Context, s *Stage) (*Module, error) {
	path, ok := "", false
	if l.SearchPath != nil {
		path, ok = l.SearchPath.Resolve(s.Library())
	}
	if !ok {
		path = s.Path(s.Library())
	}
	if l.Probe != "" {
		l.preload(ctx, s.Dir)
	}
	m, err := Open(s.ID, path)
	if err != nil {
		return nil, err
	}
	if l.Logger != nil {
		l.Logger.Debug("loaded", "pkg", s.ID, "path", path, "symbols", len(m.symbols))
	}
	return m, nil
}

// preload opens the libraries the embedding runtime needs with global
// visibility. Failures are logged only: the real dlopen reports what is
// still unresolved.
func (l *Loader) preload(ctx context.Context, dir string) {
	out, _, err := l.Runner.Run(ctx, dir, []string{l.Probe, "--ldflags", "--embed"})
	if err != nil {
		if out, _, err = l.Runner.Run(ctx, dir, []string{l.Probe, "--ldflags"}); err != nil {
			l.warn("probe ldflags", err)
			return
		}
	}
	fields, err := SplitFlags(out)
	if err != nil {
		l.warn("split ldflags", err)
		return
	}
	for _, lib := range LinkedLibraries(fields) {
		if _, done := l.preloaded.Load(lib); done {
			continue
		}
		h, err := purego.Dlopen(lib, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			l.warn("preload "+lib, err)
			continue
		}
		l.preloaded.Store(lib, h)
	}
}

func (l *Loader) warn(msg string, err error) {
	if l.Logger != nil {
		l.Logger.Debug(msg, "err", err)
	}
}

// LinkedLibraries turns linker flags into loadable library names: each -lNAME
// becomes the first existing -L dir/libNAME.so, or the bare soname for the
// system loader to find.
func LinkedLibraries(ldflags []string) (libs []string) {
	var dirs, names []string
	for i := 0; i < len(ldflags); i++ {
		f := ldflags[i]
		switch {
		case f == "-L" && i+1 < len(ldflags):
			i++
			dirs = append(dirs, ldflags[i])
		case strings.HasPrefix(f, "-L"):
			dirs = append(dirs, f[2:])
		case f == "-l" && i+1 < len(ldflags):
			i++
			names = append(names, ldflags[i])
		case strings.HasPrefix(f, "-l"):
			names = append(names, f[2:])
		}
	}
	for _, n := range names {
		so := "lib" + n + ".so"
		found := so
		for _, d := range dirs {
			p := filepath.Join(d, so)
			if _, err := os.Stat(p); err == nil {
				found = p
				break
			}
		}
		libs = append(libs, found)
	}
	return
}
