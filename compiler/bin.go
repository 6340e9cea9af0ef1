package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"reflect"
	"strconv"

	. "github.com/ZenLiuCN/swigload"
	"github.com/ZenLiuCN/swigload/config"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Usage = "runtime C/C++ snippet compiler"
	app.Name = "Compiler"
	app.Description = "compile C/C++ snippets into shared libraries via swig and load them"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "print every command with its output",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "config file (yaml, toml or json)",
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:   "check",
			Action: check,
			Usage:  "verify platform and required tools",
		},
		{
			Name:   "build",
			Action: build,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: ".", Usage: "directory receiving the library"},
			},
			Args:  true,
			Usage: "build a snippet file into a shared library without loading it",
		},
		{
			Name:   "import",
			Action: imports,
			Args:   true,
			Usage:  "build and load a snippet file, then list its exported symbols",
		},
		{
			Name:   "call",
			Action: call,
			Args:   true,
			Usage:  "build and load a snippet file, then call SYMBOL with int arguments: call FILE SYMBOL [INT...]",
		},
		{
			Name:   "symbols",
			Action: symbols,
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "include binding glue"},
			},
			Args:  true,
			Usage: "display dynamic symbols of shared libraries",
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("failure %s", err)
	}
}

func options(ctx *cli.Context) (o Options, err error) {
	var f *config.File
	if f, err = config.Load(ctx.String("config")); err != nil {
		return
	}
	o = f.Options()
	o.Debug = o.Debug || ctx.Bool("debug")
	o.Out = ctx.App.Writer
	o.Logger = NewLogger(ctx.App.ErrWriter, o.Debug)
	return
}

func source(ctx *cli.Context) (string, error) {
	if ctx.NArg() == 0 {
		return "", fmt.Errorf("missing snippet file")
	}
	b, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func check(ctx *cli.Context) (err error) {
	o, err := options(ctx)
	if err != nil {
		return
	}
	p := Prober{}
	if err = p.Check(o.Toolchain); err != nil {
		return
	}
	probe, _ := p.ResolveProbe(o.Toolchain)
	t := NewImporter(o).Options().Toolchain
	fmt.Fprintf(ctx.App.Writer, "generator: %s\ncompiler:  %s\nprobe:     %s\n", t.Generator, t.Compiler, probe)
	return
}

func build(ctx *cli.Context) (err error) {
	o, err := options(ctx)
	if err != nil {
		return
	}
	code, err := source(ctx)
	if err != nil {
		return
	}
	stage, _, err := NewImporter(o).Build(context.Background(), code)
	if err != nil {
		return
	}
	defer stage.Remove()
	dest, err := Export(stage, ctx.String("out"))
	if err != nil {
		return
	}
	fmt.Fprintln(ctx.App.Writer, dest)
	return
}

func load(ctx *cli.Context) (m *Module, err error) {
	o, err := options(ctx)
	if err != nil {
		return
	}
	code, err := source(ctx)
	if err != nil {
		return
	}
	return NewImporter(o).Import(context.Background(), code)
}

func imports(ctx *cli.Context) (err error) {
	m, err := load(ctx)
	if err != nil {
		return
	}
	defer m.Free()
	fmt.Fprintf(ctx.App.Writer, "%s\n", m.Name())
	for _, s := range m.Exports() {
		fmt.Fprintf(ctx.App.Writer, "\t%s\n", s)
	}
	return
}

func call(ctx *cli.Context) (err error) {
	if ctx.NArg() < 2 {
		return fmt.Errorf("usage: call FILE SYMBOL [INT...]")
	}
	var args []reflect.Value
	in := make([]reflect.Type, 0, ctx.NArg()-2)
	for _, a := range ctx.Args().Slice()[2:] {
		var n int64
		if n, err = strconv.ParseInt(a, 10, 32); err != nil {
			return fmt.Errorf("argument %q: %w", a, err)
		}
		args = append(args, reflect.ValueOf(int32(n)))
		in = append(in, reflect.TypeOf(int32(0)))
	}
	m, err := load(ctx)
	if err != nil {
		return
	}
	defer m.Free()
	f := reflect.New(reflect.FuncOf(in, []reflect.Type{reflect.TypeOf(int32(0))}, false))
	if err = m.BindTo(ctx.Args().Get(1), f.Interface()); err != nil {
		return
	}
	out := f.Elem().Call(args)
	fmt.Fprintln(ctx.App.Writer, out[0].Int())
	return
}

func symbols(ctx *cli.Context) (err error) {
	all := ctx.Bool("all")
	for _, path := range ctx.Args().Slice() {
		var syms []Symbol
		if syms, err = Inspect(path); err != nil {
			return
		}
		fmt.Fprintf(ctx.App.Writer, "%s\n", path)
		for _, s := range syms {
			if all || !s.IsGlue() {
				fmt.Fprintf(ctx.App.Writer, "\t%-60s %s\n", s, s.Name)
			}
		}
	}
	return
}
