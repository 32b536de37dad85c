// Command bfc compiles Brainfuck source, either running it through the
// in-process JIT or emitting a standalone ARM64 assembly object.
package main

import (
	"flag"
	"fmt"
	"os"

	"tlog.app/go/errors"

	"nikand.dev/go/cli"

	"github.com/bfcompiler/bf/compiler"
	"github.com/bfcompiler/bf/compiler/tape"
	"github.com/bfcompiler/bf/internal/config"
	"github.com/bfcompiler/bf/internal/telemetry"
)

const version = "0.1.0"

func main() {
	runCmd := &cli.Command{
		Name:        "run",
		Description: "JIT-compile a source file and run it",
		Action:      runAct,
		Args:        cli.Args{},
	}

	buildCmd := &cli.Command{
		Name:        "build",
		Description: "emit a standalone ARM64 assembly object",
		Action:      buildAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "bfc",
		Description: "bfc compiles Brainfuck source",
		Commands: []*cli.Command{
			runCmd,
			buildCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func runAct(c *cli.Command) (err error) {
	fs := flag.NewFlagSet("bfc run", flag.ContinueOnError)

	strict := fs.Bool("strict", false, "trap on pointer and cell overflow instead of wrapping")
	tapeSize := fs.Int("tape-size", 0, "tape size in cells (0 selects the default of 30000)")
	maxSourceSize := fs.Int("max-source-size", 0, "maximum accepted source size in bytes (0 selects the default)")
	showVersion := fs.Bool("version", false, "print the version and exit")
	fs.BoolVar(showVersion, "v", false, "shorthand for -version")

	if err := fs.Parse(c.Args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return errors.Wrap(err, "parse flags")
	}

	if *showVersion {
		fmt.Println("bfc", version)
		return nil
	}

	args := fs.Args()
	if len(args) != 1 {
		return errors.New("usage: bfc run [flags] <file.bf>")
	}

	ctx := telemetry.NewContext()

	opt := compiler.Options{
		TapeSize:      config.ResolveTapeSize(*tapeSize),
		MaxSourceSize: config.ResolveMaxSourceSize(*maxSourceSize),
		Strict:        config.ResolveStrict(*strict),
	}

	p, err := compiler.JIT(ctx, args[0], opt)
	if err != nil {
		return errors.Wrap(err, "compile %v", args[0])
	}

	t := tape.New(opt.TapeSize, os.Stdin, os.Stdout, opt.Strict)

	if err := p.Run(t); err != nil {
		return telemetry.LogError(ctx, errors.Wrap(err, "run %v", args[0]))
	}

	return nil
}

func buildAct(c *cli.Command) (err error) {
	fs := flag.NewFlagSet("bfc build", flag.ContinueOnError)

	outfile := fs.String("outfile", "", "output path (defaults to <input>.s)")
	fs.StringVar(outfile, "o", "", "shorthand for -outfile")
	dump := fs.Bool("dump", false, "print the generated assembly to stdout instead of writing a file")
	fs.BoolVar(dump, "d", false, "shorthand for -dump")
	printIR := fs.Bool("print", false, "print the parsed IR before emitting assembly")
	fs.BoolVar(printIR, "p", false, "shorthand for -print")
	tapeSize := fs.Int("tape-size", 0, "tape size in cells baked into the emitted object")
	maxSourceSize := fs.Int("max-source-size", 0, "maximum accepted source size in bytes (0 selects the default)")
	showVersion := fs.Bool("version", false, "print the version and exit")
	fs.BoolVar(showVersion, "v", false, "shorthand for -version")

	if err := fs.Parse(c.Args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return errors.Wrap(err, "parse flags")
	}

	if *showVersion {
		fmt.Println("bfc", version)
		return nil
	}

	args := fs.Args()
	if len(args) != 1 {
		return errors.New("usage: bfc build [flags] <file.bf>")
	}

	ctx := telemetry.NewContext()

	opt := compiler.Options{
		TapeSize:      config.ResolveTapeSize(*tapeSize),
		MaxSourceSize: config.ResolveMaxSourceSize(*maxSourceSize),
	}

	if *printIR {
		prog, err := compiler.ParseFile(ctx, args[0], opt.MaxSourceSize)
		if err != nil {
			return errors.Wrap(err, "parse %v", args[0])
		}
		fmt.Print(prog.Dump())
	}

	obj, err := compiler.Build(ctx, args[0], opt)
	if err != nil {
		return errors.Wrap(err, "build %v", args[0])
	}

	if *dump {
		fmt.Print(string(obj))
		return nil
	}

	out := *outfile
	if out == "" {
		out = args[0] + ".s"
	}

	if err := os.WriteFile(out, obj, 0o644); err != nil {
		return errors.Wrap(err, "write %v", out)
	}

	return nil
}
