package swigload

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ZenLiuCN/fn"
)

// fakeTools writes shell scripts standing in for swig, g++ and python3-config.
// Every script appends its argv to a shared call log.
type fakeTools struct {
	dir string
	log string
}

func newFakeTools(t *testing.T) *fakeTools {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("fake tools need linux")
	}
	dir := t.TempDir()
	f := &fakeTools{dir: dir, log: filepath.Join(dir, "calls.log")}
	f.script(t, "swig", `echo "swig $*" >> `+f.log)
	f.script(t, "g++", `echo "g++ $*" >> `+f.log+`
out=""
prev=""
for a in "$@"; do
	[ "$prev" = "-o" ] && out="$a"
	prev="$a"
done
[ -n "$out" ] && echo "not an elf" > "$out"
exit 0`)
	f.script(t, "python3-config", `echo "python3-config $*" >> `+f.log+`
case "$1" in
	--cflags) echo "-I/opt/py/include -DNDEBUG" ;;
	--ldflags) echo "-L/opt/py/lib -lpyfake" ;;
esac`)
	return f
}

// script writes an executable named name and returns its path.
func (f *fakeTools) script(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(f.dir, name)
	fn.Panic(os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return p
}

func (f *fakeTools) path(name string) string { return filepath.Join(f.dir, name) }

func (f *fakeTools) toolchain() Toolchain {
	t := DefaultToolchain()
	t.Generator = f.path("swig")
	t.Compiler = f.path("g++")
	t.Probes = []string{f.path("python3-config")}
	return t
}

// calls returns logged invocations with the fake directory stripped.
func (f *fakeTools) calls(t *testing.T) []string {
	t.Helper()
	b, err := os.ReadFile(f.log)
	if os.IsNotExist(err) {
		return nil
	}
	fn.Panic(err)
	return strings.Split(strings.TrimSpace(string(b)), "\n")
}

func entries(t *testing.T, dir string) []string {
	t.Helper()
	e := fn.Panic1(os.ReadDir(dir))
	var n []string
	for _, x := range e {
		n = append(n, x.Name())
	}
	return n
}
