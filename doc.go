/*
Package swigload compiles C/C++ snippets into shared libraries at runtime and
loads them into the calling process.

# Underwater

 1. The snippet is written as a header into a fresh staging directory together with a SWIG interface file.
 2. swig generates the wrapper, g++ compiles header and wrapper, python3-config (or python-config) supplies the flags.
 3. The linked library is opened with dlopen (via [purego]) and its symbols are read from the ELF dynamic table.
 4. The staging directory is removed; the loaded code stays resident in memory.

# Notes

 1. Linux only. swig, g++ and python3-config or python-config must be on PATH, see [CheckRequirements].
 2. By default any text on a tool's stderr fails the build, even warnings. Use [FailOnExitStatus] to fail on exit codes instead.
 3. C++ functions can be bound by short name ("add"), full signature ("add(int, int)") or linked name ("_Z3addii").
 4. Bound functions must not be called after [Module.Free].

# Sample

	mod, err := swigload.ImportFromSource("int add(int a, int b) { return a + b; }", false)
	if err != nil {
		return err
	}
	add := swigload.MustBind[func(int32, int32) int32](mod, "add")
	println(add(2, 3)) // 5

# Compiler tool

The compiler command line exposes the same pipeline:

	go install github.com/ZenLiuCN/swigload/compiler@latest
	compiler check
	compiler call add.h add 2 3

[purego]: https://github.com/ebitengine/purego
*/
package swigload
