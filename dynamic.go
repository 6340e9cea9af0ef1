package swigload

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

type (
	// Sym is the address of a resolved symbol.
	Sym uintptr

	// Module is a library built from a snippet and opened in this process.
	//
	// Use Steps:
	//
	//	1. Obtain a Module from [ImportFromSource], [Importer.Import] or [Open].
	//	2. [Bind] functions or [Value] data symbols by name.
	//	3. Optionally call [Module.Free] once nothing bound is in use any more.
	//
	// The code stays resident after the files it was loaded from are deleted.
	Module struct {
		name    string
		path    string
		handle  uintptr
		symbols []Symbol
		mu      sync.RWMutex
	}
)

// Open loads the library at path as a module called name.
func Open(name, path string) (m *Module, err error) {
	var syms []Symbol
	if syms, err = Inspect(path); err != nil {
		return nil, &ImportError{Package: name, Path: path, Err: err}
	}
	var h uintptr
	if h, err = purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL); err != nil {
		return nil, &ImportError{Package: name, Path: path, Err: err}
	}
	if h == 0 {
		return nil, &ImportError{Package: name, Path: path, Err: errors.New("nil library handle")}
	}
	return &Module{name: name, path: path, handle: h, symbols: syms}, nil
}

// Name is the package identifier the module was built under.
func (m *Module) Name() string { return m.name }

// Path is the file the module was loaded from; it may no longer exist.
func (m *Module) Path() string { return m.path }

// Symbols returns every defined symbol of the library.
func (m *Module) Symbols() []Symbol {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Symbol(nil), m.symbols...)
}

// Exports returns the symbols declared by the snippet, without binding glue.
func (m *Module) Exports() (v []Symbol) {
	for _, s := range m.Symbols() {
		if !s.IsGlue() {
			v = append(v, s)
		}
	}
	return
}

// Lookup resolves name to an address.
func (m *Module) Lookup(name string) (Sym, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.handle == 0 {
		return 0, ErrFreed
	}
	linked, err := resolve(m.symbols, name)
	if err != nil {
		// symbols outside the table, e.g. from a preloaded dependency
		if p, e := purego.Dlsym(m.handle, name); e == nil && p != 0 {
			return Sym(p), nil
		}
		return 0, err
	}
	p, err := purego.Dlsym(m.handle, linked)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrMissingSymbol, linked, err)
	}
	return Sym(p), nil
}

// Fetch resolves name, reporting whether it was found.
func (m *Module) Fetch(name string) (u Sym, ok bool) {
	u, err := m.Lookup(name)
	return u, err == nil
}

// MustFetch resolves name and panics with ErrMissingSymbol, ErrAmbiguousSymbol or ErrFreed.
func (m *Module) MustFetch(name string) Sym {
	u, err := m.Lookup(name)
	if err != nil {
		panic(err)
	}
	return u
}

// Free closes the library. Bound functions must not be called afterwards.
func (m *Module) Free() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle == 0 {
		return nil
	}
	err := purego.Dlclose(m.handle)
	m.handle = 0
	return err
}

// Bind returns a Go function calling the native function name. T must be a
// func type whose parameters match the native signature.
func Bind[T any](m *Module, name string) (f T, err error) {
	err = m.BindTo(name, &f)
	return
}

// BindTo registers the native function name into fptr, a pointer to a func
// variable.
func (m *Module) BindTo(name string, fptr any) (err error) {
	t := reflect.TypeOf(fptr)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Func {
		return fmt.Errorf("bind %s: %T is not a pointer to a func", name, fptr)
	}
	var p Sym
	if p, err = m.Lookup(name); err != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bind %s: %v", name, r)
		}
	}()
	purego.RegisterFunc(fptr, uintptr(p))
	return
}

// MustBind is like Bind but panics on error.
func MustBind[T any](m *Module, name string) T {
	f, err := Bind[T](m, name)
	if err != nil {
		panic(err)
	}
	return f
}

// Value returns a pointer to the native data symbol name.
func Value[T any](m *Module, name string) (*T, error) {
	p, err := m.Lookup(name)
	if err != nil {
		return nil, err
	}
	return As[T](p), nil
}

// As views the memory at ptr as a T.
func As[T any](ptr Sym) *T {
	return (*T)(unsafe.Pointer(uintptr(ptr)))
}
