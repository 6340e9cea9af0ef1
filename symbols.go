package swigload

import (
	"debug/elf"
	"fmt"
	"strings"

	"github.com/ZenLiuCN/fn"
	"github.com/ianlancetaylor/demangle"
)

// SymbolKind tells functions from data.
type SymbolKind int

const (
	SymbolFunc SymbolKind = iota
	SymbolData
)

func (k SymbolKind) String() string {
	if k == SymbolData {
		return "data"
	}
	return "func"
}

// Symbol is one defined entry of a library's dynamic symbol table.
type Symbol struct {
	Name      string // as linked, possibly mangled
	Demangled string // full C++ signature, or Name for C symbols
	Base      string // Demangled without parameter list
	Kind      SymbolKind
}

func (s Symbol) String() string {
	return fmt.Sprintf("%s %s", s.Kind, s.Demangled)
}

// glue belongs to the generated bindings or the toolchain, not to the snippet.
var (
	gluePrefix = []string{"_wrap_", "Swig", "SWIG_", "swig_", "PyInit_", "std::", "__gnu_cxx::"}
	glueExact  = map[string]bool{"_init": true, "_fini": true, "_edata": true, "_end": true, "__bss_start": true}
)

// IsGlue reports whether the symbol was emitted by the binding generator or toolchain.
func (s Symbol) IsGlue() bool {
	if glueExact[s.Name] {
		return true
	}
	for _, p := range gluePrefix {
		if strings.HasPrefix(s.Name, p) || strings.HasPrefix(s.Base, p) {
			return true
		}
	}
	return false
}

// Inspect reads the defined dynamic symbols of a shared library.
func Inspect(path string) (syms []Symbol, err error) {
	var f *elf.File
	if f, err = elf.Open(path); err != nil {
		return
	}
	defer fn.IgnoreClose(f)
	var dyn []elf.Symbol
	if dyn, err = f.DynamicSymbols(); err != nil {
		return
	}
	for _, s := range dyn {
		if s.Section == elf.SHN_UNDEF || s.Name == "" {
			continue
		}
		switch elf.ST_BIND(s.Info) {
		case elf.STB_GLOBAL, elf.STB_WEAK:
		default:
			continue
		}
		var kind SymbolKind
		switch elf.ST_TYPE(s.Info) {
		case elf.STT_FUNC:
			kind = SymbolFunc
		case elf.STT_OBJECT:
			kind = SymbolData
		default:
			continue
		}
		syms = append(syms, newSymbol(s.Name, kind))
	}
	return
}

func newSymbol(name string, kind SymbolKind) Symbol {
	return Symbol{
		Name:      name,
		Demangled: demangle.Filter(name),
		Base:      demangle.Filter(name, demangle.NoParams),
		Kind:      kind,
	}
}

// resolve maps a user-facing name to the linked symbol name. It accepts the
// linked name itself, a base name such as "add" or "ns::add", or a full
// signature such as "add(int, int)".
func resolve(syms []Symbol, name string) (string, error) {
	var base []string
	for _, s := range syms {
		switch name {
		case s.Name, s.Demangled:
			return s.Name, nil
		case s.Base:
			base = append(base, s.Name)
		}
	}
	switch len(base) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrMissingSymbol, name)
	case 1:
		return base[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %s", ErrAmbiguousSymbol, name, strings.Join(base, ", "))
	}
}
