// Command bfi interprets Brainfuck source files directly, without going
// through the JIT or AOT backends.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"tlog.app/go/errors"

	"nikand.dev/go/cli"

	"github.com/bfcompiler/bf/compiler"
	"github.com/bfcompiler/bf/internal/config"
	"github.com/bfcompiler/bf/internal/telemetry"
)

const version = "0.1.0"

func main() {
	app := &cli.Command{
		Name:        "bfi",
		Description: "bfi interprets Brainfuck source files",
		Action:      run,
		Args:        cli.Args{},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func run(c *cli.Command) (err error) {
	fs := flag.NewFlagSet("bfi", flag.ContinueOnError)

	printAST := fs.Bool("print-ast", false, "print the parsed IR instead of running it")
	fs.BoolVar(printAST, "p", false, "shorthand for -print-ast")
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
		fmt.Println("bfi", version)
		return nil
	}

	args := fs.Args()
	if len(args) != 1 {
		return errors.New("usage: bfi [flags] <file.bf>")
	}

	ctx := telemetry.NewContext()

	opt := compiler.Options{
		TapeSize:      config.ResolveTapeSize(*tapeSize),
		MaxSourceSize: config.ResolveMaxSourceSize(*maxSourceSize),
		Strict:        config.ResolveStrict(*strict),
	}

	if *printAST {
		return printIR(ctx, args[0], opt)
	}

	if err := compiler.Interpret(ctx, args[0], os.Stdin, os.Stdout, opt); err != nil {
		return telemetry.LogError(ctx, errors.Wrap(err, "interpret %v", args[0]))
	}

	return nil
}

// printIR parses name without running it and dumps its IR. On a real
// terminal it's preceded by a one-line banner; piped output gets the bare
// dump so it stays friendly to grep and diff.
func printIR(ctx context.Context, name string, opt compiler.Options) error {
	prog, err := compiler.ParseFile(ctx, name, opt.MaxSourceSize)
	if err != nil {
		return errors.Wrap(err, "parse %v", name)
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("; %s: %d instructions\n", name, len(prog.Code))
	}

	fmt.Print(prog.Dump())

	return nil
}
