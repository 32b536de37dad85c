// Package jit lowers a frozen ir.Program to an in-process callable via the
// compiler/asm builder abstraction, backed by compiler/asm/interp's
// software emulator.
package jit

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/bfcompiler/bf/compiler/asm"
	asmi "github.com/bfcompiler/bf/compiler/asm/interp"
	"github.com/bfcompiler/bf/compiler/ir"
	"github.com/bfcompiler/bf/compiler/tape"
)

// Program is a compiled, callable Brainfuck program.
type Program struct {
	fn func(t *tape.Tape) error
}

// Compile lowers prog into a Program ready to run.
func Compile(ctx context.Context, prog *ir.Program) *Program {
	be := asmi.New()
	asm.Lower(prog, be)

	tlog.SpanFromContext(ctx).Printw("jit compiled", "instructions", len(prog.Code))

	return &Program{fn: be.Func()}
}

// Run executes the compiled program against t.
func (p *Program) Run(t *tape.Tape) (err error) {
	defer func() {
		if ferr := t.Flush(); err == nil {
			err = ferr
		}
	}()

	return p.fn(t)
}
