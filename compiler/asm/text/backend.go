// Package text implements the AOT backend: it satisfies compiler/asm.Builder
// by emitting textual ARM64 assembly, using the same prologue/epilogue
// skeleton style used by native-code backends elsewhere in this codebase (STP/LDP frame
// setup, BL for calls). Labels are emitted as ordinary assembly symbols, so
// unlike the JIT's software backend no position back-patching is needed:
// the downstream assembler resolves forward references itself.
package text

import (
	"fmt"

	"github.com/bfcompiler/bf/compiler/asm"
)

// Backend accumulates ARM64 assembly text for one function body as
// compiler/asm.Lower drives it.
type Backend struct {
	FuncName string

	buf       []byte
	nextLabel int
}

// New returns a Backend that will emit a function named name.
func New(name string) *Backend {
	b := &Backend{FuncName: name}

	b.buf = fmt.Appendf(b.buf, `.align 4
.global _%s
_%[1]s:
	STP	FP, LR, [SP, #-16]!
	MOV	FP, SP
	MOV	X1, #0
`, name)

	return b
}

// Bytes returns the accumulated assembly text.
func (b *Backend) Bytes() []byte { return b.buf }

func (b *Backend) NewLabel() asm.Label {
	b.nextLabel++
	return asm.Label(b.nextLabel)
}

func (b *Backend) label(l asm.Label) string {
	return fmt.Sprintf("L%s_%d", b.FuncName, int(l))
}

func (b *Backend) Here(l asm.Label) {
	b.buf = fmt.Appendf(b.buf, "%s:\n", b.label(l))
}

func (b *Backend) move(off int) {
	if off == 0 {
		return
	}
	if off > 0 {
		b.buf = fmt.Appendf(b.buf, "\tADD\tX1, X1, #%d\n", off)
	} else {
		b.buf = fmt.Appendf(b.buf, "\tSUB\tX1, X1, #%d\n", -off)
	}
}

func (b *Backend) Add(off, n int) {
	b.move(off)
	b.buf = fmt.Appendf(b.buf, "\tLDRB\tW2, [X0, X1]\n\tADD\tW2, W2, #%d\n\tSTRB\tW2, [X0, X1]\n", n&0xFF)
}

func (b *Backend) Sub(off, n int) {
	b.move(off)
	b.buf = fmt.Appendf(b.buf, "\tLDRB\tW2, [X0, X1]\n\tSUB\tW2, W2, #%d\n\tSTRB\tW2, [X0, X1]\n", n&0xFF)
}

func (b *Backend) Zero(off int) {
	b.move(off)
	b.buf = append(b.buf, "\tSTRB\tWZR, [X0, X1]\n"...)
}

func (b *Backend) Read(off int) {
	b.move(off)
	b.buf = append(b.buf, "\tSTP\tX0, X1, [SP, #-16]!\n\tBL\t_getchar\n\tMOV\tW2, W0\n\tLDP\tX0, X1, [SP], #16\n\tSTRB\tW2, [X0, X1]\n"...)
}

func (b *Backend) Write(off int) {
	b.move(off)
	b.buf = append(b.buf, "\tSTP\tX0, X1, [SP, #-16]!\n\tLDRB\tW0, [X0, X1]\n\tBL\t_putchar\n\tLDP\tX0, X1, [SP], #16\n"...)
}

func (b *Backend) Scan(off, stride int) {
	top := b.NewLabel()
	end := b.NewLabel()

	b.move(off)
	b.Here(top)
	b.buf = append(b.buf, "\tLDRB\tW2, [X0, X1]\n\tCBZ\tW2, "...)
	b.buf = fmt.Appendf(b.buf, "%s\n", b.label(end))
	b.move(stride)
	b.buf = fmt.Appendf(b.buf, "\tB\t%s\n", b.label(top))
	b.Here(end)
}

func (b *Backend) JumpIfZero(off int, l asm.Label) {
	b.move(off)
	b.buf = append(b.buf, "\tLDRB\tW2, [X0, X1]\n\tCBZ\tW2, "...)
	b.buf = fmt.Appendf(b.buf, "%s\n", b.label(l))
}

func (b *Backend) JumpIfNotZero(off int, l asm.Label) {
	b.move(off)
	b.buf = append(b.buf, "\tLDRB\tW2, [X0, X1]\n\tCBNZ\tW2, "...)
	b.buf = fmt.Appendf(b.buf, "%s\n", b.label(l))
}

func (b *Backend) End() {
	b.buf = append(b.buf, "\tLDP\tFP, LR, [SP], #16\n\tRET\n"...)
}
