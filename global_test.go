package swigload

import (
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/ZenLiuCN/fn"
)

func TestSearchPathOrder(t *testing.T) {
	p := new(SearchPath)
	p.Prepend("/a")
	p.Prepend("/b")
	p.Prepend("/a")
	if got := p.Entries(); !reflect.DeepEqual(got, []string{"/a", "/b"}) {
		t.Errorf("Entries() = %v", got)
	}
	if !p.Remove("/b") || p.Remove("/b") {
		t.Error("Remove() should report presence once")
	}
}

func TestSearchPathResolve(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	fn.Panic(os.WriteFile(filepath.Join(second, "_pkg.so"), nil, 0o644))
	p := new(SearchPath)
	p.Prepend(second)
	p.Prepend(first)
	got, ok := p.Resolve("_pkg.so")
	if !ok || got != filepath.Join(second, "_pkg.so") {
		t.Errorf("Resolve() = %q, %v", got, ok)
	}
	fn.Panic(os.WriteFile(filepath.Join(first, "_pkg.so"), nil, 0o644))
	if got, _ = p.Resolve("_pkg.so"); got != filepath.Join(first, "_pkg.so") {
		t.Errorf("Resolve() = %q, want the first entry", got)
	}
	if _, ok = p.Resolve("_other.so"); ok {
		t.Error("Resolve() found a missing file")
	}
}

func TestSearchPathPrune(t *testing.T) {
	live := t.TempDir()
	dead := filepath.Join(t.TempDir(), "gone")
	p := new(SearchPath)
	p.Prepend(live)
	p.Prepend(dead)
	if stale := p.Prune(); !reflect.DeepEqual(stale, []string{dead}) {
		t.Errorf("Prune() = %v", stale)
	}
	if got := p.Entries(); !reflect.DeepEqual(got, []string{live}) {
		t.Errorf("Entries() = %v", got)
	}
}

func TestSearchPathConcurrent(t *testing.T) {
	p := new(SearchPath)
	var w sync.WaitGroup
	for i := 0; i < 10; i++ {
		w.Add(1)
		go func(i int) {
			defer w.Done()
			d := filepath.Join("/stage", string(rune('a'+i)))
			p.Prepend(d)
			p.Resolve("_pkg.so")
			p.Remove(d)
		}(i)
	}
	w.Wait()
	if len(p.Entries()) != 0 {
		t.Errorf("Entries() = %v", p.Entries())
	}
}

func TestDefaultSearchPathShared(t *testing.T) {
	if DefaultSearchPath() != DefaultSearchPath() {
		t.Error("default search path is not process-wide")
	}
}
