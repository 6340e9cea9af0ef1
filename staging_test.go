package swigload

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/ZenLiuCN/fn"
)

func TestNewPackageID(t *testing.T) {
	valid := regexp.MustCompile(`^pkg_[0-9a-f]{12}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewPackageID()
		if !valid.MatchString(id) {
			t.Fatalf("NewPackageID() = %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestStageFiles(t *testing.T) {
	root := t.TempDir()
	s := fn.Panic1(NewStage(root, "pkg_demo", Toolchain{}))
	if filepath.Dir(s.Dir) != fn.Panic1(filepath.Abs(root)) || !strings.HasPrefix(filepath.Base(s.Dir), "pkg_demo-") {
		t.Errorf("stage dir %q not under %q", s.Dir, root)
	}
	fn.Panic(s.WriteHeader("int add(int a, int b) { return a + b; }"))
	fn.Panic(s.WriteInterface())

	h := string(fn.Panic1(os.ReadFile(s.Path("pkg_demo.h"))))
	if h != "int add(int a, int b) { return a + b; }\n" {
		t.Errorf("header = %q", h)
	}
	i := string(fn.Panic1(os.ReadFile(s.Path("pkg_demo.i"))))
	want := "\n    %module pkg_demo\n    %{\n    #include \"pkg_demo.h\"\n    %}\n\n    %include \"pkg_demo.h\"\n\n    "
	if i != want {
		t.Errorf("interface = %q, want %q", i, want)
	}

	names := map[string]string{
		s.HeaderFile():    "pkg_demo.h",
		s.InterfaceFile(): "pkg_demo.i",
		s.WrapperSource(): "pkg_demo_wrap.cxx",
		s.WrapperObject(): "pkg_demo_wrap.o",
		s.HeaderObject():  "pkg_demo.o",
		s.Library():       "_pkg_demo.so",
	}
	for got, want := range names {
		if got != want {
			t.Errorf("artifact name %q, want %q", got, want)
		}
	}
}

func TestStagesDoNotCollide(t *testing.T) {
	root := t.TempDir()
	a := fn.Panic1(NewStage(root, "pkg_same", Toolchain{}))
	b := fn.Panic1(NewStage(root, "pkg_same", Toolchain{}))
	if a.Dir == b.Dir {
		t.Fatalf("two stages share %s", a.Dir)
	}
}

func TestStageRemove(t *testing.T) {
	s := fn.Panic1(NewStage(t.TempDir(), "pkg_gone", Toolchain{}))
	fn.Panic(s.WriteHeader("int x;"))
	s.Remove()
	if _, err := os.Stat(s.Dir); !os.IsNotExist(err) {
		t.Errorf("stage still exists: %v", err)
	}
	s.Remove()
}

func TestStageWriteError(t *testing.T) {
	s := fn.Panic1(NewStage(t.TempDir(), "pkg_ro", Toolchain{}))
	s.Remove()
	err := s.WriteHeader("int x;")
	if !errors.Is(err, ErrWrite) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("WriteHeader() = %v, want ErrWrite wrapping ErrNotExist", err)
	}
	if _, err = NewStage(filepath.Join(s.Dir, "missing"), "pkg_x", Toolchain{}); !errors.Is(err, ErrWrite) {
		t.Errorf("NewStage() = %v, want ErrWrite", err)
	}
}
