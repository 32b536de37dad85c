// Package compiler ties the pipeline's stages together: read source, parse
// it to IR, then hand the IR to whichever backend a caller wants (the
// IR interpreter, the in-process JIT, or the AOT assembly
// emitter). cmd/bfi and cmd/bfc are thin flag-parsing shells around the
// functions here.
package compiler

import (
	"context"
	"io"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/bfcompiler/bf/compiler/aot"
	"github.com/bfcompiler/bf/compiler/interp"
	"github.com/bfcompiler/bf/compiler/ir"
	"github.com/bfcompiler/bf/compiler/jit"
	"github.com/bfcompiler/bf/compiler/parse"
	"github.com/bfcompiler/bf/compiler/tape"
)

// Options configures the pipeline: the source size cap applied when
// parsing, and the tape used when running.
type Options struct {
	TapeSize      int
	MaxSourceSize int
	Strict        bool
}

// ParseFile reads name and parses it to IR.
func ParseFile(ctx context.Context, name string, maxSourceSize int) (*ir.Program, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return parse.Parse(ctx, text, maxSourceSize)
}

// Interpret parses name and runs it directly against a fresh tape wired to
// in and out.
func Interpret(ctx context.Context, name string, in io.Reader, out io.Writer, opt Options) error {
	prog, err := ParseFile(ctx, name, opt.MaxSourceSize)
	if err != nil {
		return errors.Wrap(err, "parse %v", name)
	}

	t := tape.New(opt.TapeSize, in, out, opt.Strict)
	m := interp.New(prog, t)

	if err := m.Run(ctx); err != nil {
		return errors.Wrap(err, "run %v", name)
	}

	return nil
}

// JIT parses name and compiles it to a callable Program without running it.
func JIT(ctx context.Context, name string, opt Options) (*jit.Program, error) {
	prog, err := ParseFile(ctx, name, opt.MaxSourceSize)
	if err != nil {
		return nil, errors.Wrap(err, "parse %v", name)
	}

	return jit.Compile(ctx, prog), nil
}

// Build parses name and emits a standalone ARM64 assembly object.
func Build(ctx context.Context, name string, opt Options) ([]byte, error) {
	prog, err := ParseFile(ctx, name, opt.MaxSourceSize)
	if err != nil {
		return nil, errors.Wrap(err, "parse %v", name)
	}

	return aot.Emit(ctx, prog, opt.TapeSize), nil
}
