package swigload

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
)

var global = new(SearchPath)

// DefaultSearchPath is the process-wide library search path shared by every
// Importer that does not bring its own.
func DefaultSearchPath() *SearchPath { return global }

// SearchPath is an ordered list of directories searched for built libraries.
// The first entry wins.
type SearchPath struct {
	mu      sync.RWMutex
	entries []string
}

// Prepend puts dir in front, moving it if already present.
func (p *SearchPath) Prepend(dir string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := slices.Index(p.entries, dir); i >= 0 {
		p.entries = slices.Delete(p.entries, i, i+1)
	}
	p.entries = slices.Insert(p.entries, 0, dir)
}

// Remove drops dir, reporting whether it was present.
func (p *SearchPath) Remove(dir string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := slices.Index(p.entries, dir)
	if i < 0 {
		return false
	}
	p.entries = slices.Delete(p.entries, i, i+1)
	return true
}

// Entries returns a copy of the current directories.
func (p *SearchPath) Entries() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.entries)
}

// Resolve finds file in the first directory that has it.
func (p *SearchPath) Resolve(file string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, dir := range p.entries {
		f := filepath.Join(dir, file)
		if st, err := os.Stat(f); err == nil && !st.IsDir() {
			return f, true
		}
	}
	return "", false
}

// Prune drops every entry whose directory no longer exists and returns them.
func (p *SearchPath) Prune() (stale []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = slices.DeleteFunc(p.entries, func(dir string) bool {
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			stale = append(stale, dir)
			return true
		}
		return false
	})
	return
}
