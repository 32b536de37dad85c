// Package asm defines the abstract builder interface the code generator
// lowers IR against, isolating the Brainfuck-level lowering rules in
// compiler/jit and compiler/aot from the concrete backend that turns them
// into an in-process callable or a linkable text object.
package asm

// Label identifies a jump target within a backend's own numbering scheme.
type Label int

// Builder is the low-level codegen target the generator lowers a
// compiler/ir.Program against. It intentionally mirrors the shape of the
// block/instruction builders used by real native-code backends: new blocks
// are opened explicitly, control flow is expressed as jumps between labels,
// and the backend owns everything about how a block's contents are finally
// materialized (as machine code, as a fetch/execute closure list, or as
// assembly text).
type Builder interface {
	// NewLabel reserves a label for a block that will be defined later
	// with Here, allowing forward references.
	NewLabel() Label

	// Here binds l to the position the next lowered instruction will
	// occupy.
	Here(l Label)

	// Add lowers ADD(n, off): move the pointer by off, then add n to the
	// cell mod 256.
	Add(off, n int)

	// Sub lowers SUB(n, off).
	Sub(off, n int)

	// Zero lowers ZERO(off).
	Zero(off int)

	// Read lowers READ(off): move the pointer by off, then read one byte
	// of input into the cell (0xFF on EOF).
	Read(off int)

	// Write lowers PUT(off): move the pointer by off, then write the
	// cell to output.
	Write(off int)

	// Scan lowers SCAN(stride, off): move the pointer by off, then loop
	// while the cell is nonzero, advancing by stride each iteration.
	Scan(off, stride int)

	// JumpIfZero emits a conditional branch to l taken when the current
	// cell is zero, after moving the pointer by off. Used for JMP_FWD.
	JumpIfZero(off int, l Label)

	// JumpIfNotZero emits a conditional branch to l taken when the
	// current cell is nonzero, after moving the pointer by off. Used for
	// JMP_BCK.
	JumpIfNotZero(off int, l Label)

	// End emits the function epilogue.
	End()
}
