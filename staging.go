package swigload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// interfaceTemplate is the binding description: %[1]s is the package id,
// %[2]s the staged header.
const interfaceTemplate = `
    %%module %[1]s
    %%{
    #include "%[2]s"
    %%}

    %%include "%[2]s"

    `

// NewPackageID returns a fresh identifier such as pkg_3f2a9c01b7de.
func NewPackageID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "pkg_" + id[:12]
}

// Stage is one exclusively owned build directory.
type Stage struct {
	ID        string
	Dir       string
	toolchain Toolchain
}

// NewStage creates a fresh directory under root (os.TempDir when empty).
func NewStage(root, id string, t Toolchain) (s *Stage, err error) {
	var dir string
	if dir, err = os.MkdirTemp(root, id+"-"); err != nil {
		return nil, &WriteError{Path: filepath.Join(root, id), Err: err}
	}
	if dir, err = filepath.Abs(dir); err != nil {
		_ = os.RemoveAll(dir)
		return nil, &WriteError{Path: dir, Err: err}
	}
	return &Stage{ID: id, Dir: dir, toolchain: t.withDefaults()}, nil
}

// Path joins name onto the stage directory.
func (s *Stage) Path(name string) string { return filepath.Join(s.Dir, name) }

func (s *Stage) HeaderFile() string    { return s.ID + "." + s.toolchain.HeaderExt }
func (s *Stage) InterfaceFile() string { return s.ID + "." + s.toolchain.InterfaceExt }
func (s *Stage) WrapperSource() string { return s.ID + "_wrap.cxx" }
func (s *Stage) WrapperObject() string { return s.ID + "_wrap.o" }
func (s *Stage) HeaderObject() string  { return s.ID + ".o" }
func (s *Stage) Library() string       { return "_" + s.ID + "." + s.toolchain.SharedExt }

// WriteHeader writes code verbatim followed by a newline.
func (s *Stage) WriteHeader(code string) error {
	return s.write(s.HeaderFile(), code+"\n")
}

// WriteInterface writes the binding description for the staged header.
func (s *Stage) WriteInterface() error {
	return s.write(s.InterfaceFile(), InterfaceText(s.ID, s.HeaderFile()))
}

// InterfaceText renders the interface description of module id wrapping header.
func InterfaceText(id, header string) string {
	return fmt.Sprintf(interfaceTemplate, id, header)
}

func (s *Stage) write(name, content string) error {
	p := s.Path(name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return &WriteError{Path: p, Err: err}
	}
	return nil
}

// Remove deletes the directory and everything under it, ignoring errors.
func (s *Stage) Remove() {
	_ = os.RemoveAll(s.Dir)
}
