// Package aot lowers a frozen ir.Program to a standalone linkable assembly
// object: the generated function body from compiler/asm/text, wrapped in a
// _start/_main skeleton that allocates a zeroed tape on the stack and
// invokes it, using the same _start -> BL _main convention as the rest of the toolchain.
package aot

import (
	"context"
	"fmt"

	"tlog.app/go/tlog"

	"github.com/bfcompiler/bf/compiler/asm"
	"github.com/bfcompiler/bf/compiler/asm/text"
	"github.com/bfcompiler/bf/compiler/ir"
	"github.com/bfcompiler/bf/compiler/tape"
)

const funcName = "bf_run"

// Emit lowers prog into a complete assembly object whose _main allocates a
// zeroed tape of tapeSize bytes (tape.DefaultSize if <= 0) and calls the
// generated function.
func Emit(ctx context.Context, prog *ir.Program, tapeSize int) []byte {
	if tapeSize <= 0 {
		tapeSize = tape.DefaultSize
	}

	be := text.New(funcName)
	asm.Lower(prog, be)
	body := be.Bytes()

	var out []byte

	out = fmt.Appendf(out, `// generated by the brainfuck AOT compiler

.global _start
.align 4
_start:
	STP	FP, LR, [SP, #-16]!
	MOV	FP, SP

	BL	_main

	LDP	FP, LR, [SP], #16
	RET

.align 4
.global _main
_main:
	STP	FP, LR, [SP, #-16]!
	MOV	FP, SP

	SUB	SP, SP, #%[1]d
	MOV	X0, SP

	MOV	X2, #0
zero_loop:
	CMP	X2, #%[1]d
	B.EQ	zero_done
	STRB	WZR, [X0, X2]
	ADD	X2, X2, #1
	B	zero_loop
zero_done:

	BL	_%s

	ADD	SP, SP, #%[1]d

	LDP	FP, LR, [SP], #16
	RET

`, tapeSize, funcName)

	out = append(out, body...)

	tlog.SpanFromContext(ctx).Printw("aot emitted", "instructions", len(prog.Code), "bytes", len(out), "tape_size", tapeSize)

	return out
}
