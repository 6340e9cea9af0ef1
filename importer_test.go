package swigload

import (
	"context"
	"errors"
	"io"
	"testing"
)

func fakeOptions(t *testing.T, f *fakeTools) (Options, string) {
	root := t.TempDir()
	return Options{
		Toolchain:  f.toolchain(),
		TempDir:    root,
		Logger:     NewLogger(io.Discard, false),
		Out:        io.Discard,
		SearchPath: new(SearchPath),
	}, root
}

func TestImportToolMissingWritesNothing(t *testing.T) {
	f := newFakeTools(t)
	o, root := fakeOptions(t, f)
	o.Toolchain.Compiler = "/nonexistent/g++"
	_, err := NewImporter(o).Import(context.Background(), "int add(int a, int b) { return a + b; }")
	var tm *ToolMissingError
	if !errors.As(err, &tm) || tm.Tool != "/nonexistent/g++" {
		t.Fatalf("Import() = %v, want missing compiler", err)
	}
	if e := entries(t, root); len(e) != 0 {
		t.Errorf("files written before the check failed: %v", e)
	}
	if calls := f.calls(t); len(calls) != 0 {
		t.Errorf("tools ran: %q", calls)
	}
}

func TestImportBuildFailureCleansUp(t *testing.T) {
	f := newFakeTools(t)
	f.script(t, "g++", `echo "error: expected ';' before '}' token" >&2`)
	o, root := fakeOptions(t, f)
	_, err := NewImporter(o).Import(context.Background(), "int add(int a, int b) { return a + b }")
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("Import() = %v, want ErrCommandFailed", err)
	}
	var ce *CommandError
	if errors.As(err, &ce) && ce.Stderr != "error: expected ';' before '}' token\n" {
		t.Errorf("stderr = %q", ce.Stderr)
	}
	if e := entries(t, root); len(e) != 0 {
		t.Errorf("stage left behind: %v", e)
	}
	if e := o.SearchPath.Entries(); len(e) != 0 {
		t.Errorf("search path left behind: %v", e)
	}
}

func TestImportBadArtifactIsImportError(t *testing.T) {
	f := newFakeTools(t)
	o, root := fakeOptions(t, f)
	_, err := NewImporter(o).Import(context.Background(), "int one() { return 1; }")
	if !errors.Is(err, ErrImportFailed) {
		t.Fatalf("Import() = %v, want ErrImportFailed", err)
	}
	var ie *ImportError
	if !errors.As(err, &ie) || ie.Package == "" {
		t.Errorf("ImportError = %+v", ie)
	}
	if e := entries(t, root); len(e) != 0 {
		t.Errorf("stage left behind: %v", e)
	}
	if e := o.SearchPath.Entries(); len(e) != 0 {
		t.Errorf("search path left behind: %v", e)
	}
}

func TestImportKeepStage(t *testing.T) {
	f := newFakeTools(t)
	o, root := fakeOptions(t, f)
	o.KeepStage = true
	_, _ = NewImporter(o).Import(context.Background(), "int one() { return 1; }")
	if e := entries(t, root); len(e) != 1 {
		t.Errorf("stages = %v, want one kept", e)
	}
}

func TestBuildExport(t *testing.T) {
	f := newFakeTools(t)
	o, root := fakeOptions(t, f)
	stage, lib, err := NewImporter(o).Build(context.Background(), "int one() { return 1; }")
	if err != nil {
		t.Fatal(err)
	}
	defer stage.Remove()
	if lib != stage.Path(stage.Library()) {
		t.Errorf("Build() library = %q", lib)
	}
	out := t.TempDir()
	dest, err := Export(stage, out)
	if err != nil {
		t.Fatal(err)
	}
	if e := entries(t, out); len(e) != 1 || e[0] != stage.Library() || dest == lib {
		t.Errorf("exported %v to %s", e, dest)
	}
	stage.Remove()
	if e := entries(t, root); len(e) != 0 {
		t.Errorf("stage left behind: %v", e)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	o := NewImporter(Options{}).Options()
	if o.Out == nil || o.Logger == nil || o.SearchPath != DefaultSearchPath() {
		t.Errorf("normalize() left nil fields: %+v", o)
	}
	if o.Toolchain.Compiler != "g++" || o.Toolchain.SharedExt != "so" {
		t.Errorf("toolchain = %+v", o.Toolchain)
	}
}
