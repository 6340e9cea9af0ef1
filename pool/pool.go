package pool

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/ZenLiuCN/fn"
	. "github.com/ZenLiuCN/swigload"
)

// Builder builds a snippet into a module; *swigload.Importer is one.
type Builder interface {
	Import(ctx context.Context, code string) (*Module, error)
}

// Pool keeps loaded modules under caller chosen names.
type Pool struct {
	Builder
	Modules map[string]*Module
	sync.RWMutex
}

var (
	ErrAlreadyLoad    = errors.New("module already loaded")
	ErrNotLoad        = errors.New("module not loaded")
	ErrMissingPackage = errors.New("package not loaded")
)

// Load imports code as name.
func (p *Pool) Load(ctx context.Context, name, code string) (m *Module, err error) {
	p.Lock()
	defer p.Unlock()
	if _, ok := p.Modules[name]; ok {
		return nil, ErrAlreadyLoad
	}
	if m, err = p.Import(ctx, code); err != nil {
		return
	}
	p.Modules[name] = m
	return
}

// Reload replaces the module called name. The old module is freed only once
// the new one loaded, so a failed build leaves the old one in place.
func (p *Pool) Reload(ctx context.Context, name, code string) (m *Module, err error) {
	p.Lock()
	defer p.Unlock()
	old, ok := p.Modules[name]
	if !ok {
		return nil, ErrNotLoad
	}
	if m, err = p.Import(ctx, code); err != nil {
		return
	}
	p.Modules[name] = m
	err = old.Free()
	return
}

// Unload frees and forgets the module called name.
func (p *Pool) Unload(name string) error {
	p.Lock()
	defer p.Unlock()
	m, ok := p.Modules[name]
	if !ok {
		return ErrNotLoad
	}
	delete(p.Modules, name)
	return m.Free()
}

// Get returns the module called name.
func (p *Pool) Get(name string) (*Module, bool) {
	p.RLock()
	defer p.RUnlock()
	m, ok := p.Modules[name]
	return m, ok
}

// Names lists loaded module names, sorted.
func (p *Pool) Names() []string {
	p.RLock()
	defer p.RUnlock()
	n := fn.MapKeys(p.Modules)
	slices.Sort(n)
	return n
}

// Require fetch symbol from module
func (p *Pool) Require(name, symbolName string) Sym {
	p.RLock()
	defer p.RUnlock()
	if m, ok := p.Modules[name]; ok {
		return m.MustFetch(symbolName)
	}
	panic(ErrMissingPackage)
}

// Close frees every module, returning the joined errors.
func (p *Pool) Close() error {
	p.Lock()
	defer p.Unlock()
	var errs []error
	for name, m := range p.Modules {
		errs = append(errs, m.Free())
		delete(p.Modules, name)
	}
	return errors.Join(errs...)
}

// NewPool create new pool
func NewPool(b Builder) *Pool {
	if b == nil {
		b = NewImporter(Options{})
	}
	return &Pool{Builder: b, Modules: make(map[string]*Module)}
}
