// Package tape implements the fixed-size byte cell array that Brainfuck
// programs read and write, along with the strict-mode bounds and overflow
// checks that are an opt-in build/runtime flag rather than the default.
package tape

import (
	"bufio"
	"io"

	"tlog.app/go/errors"
)

// DefaultSize is the canonical Brainfuck tape length.
const DefaultSize = 30000

// TrapError is returned in strict mode when a pointer excursion or an 8-bit
// cell overflow/underflow would occur. Non-strict mode never returns it;
// cell and pointer arithmetic wrap instead.
type TrapError struct {
	Reason string
	Pos    int
}

func (e *TrapError) Error() string {
	return "trap: " + e.Reason
}

// Tape is the mutable memory a running program operates on. It is allocated
// fresh per execution and never reused across runs.
type Tape struct {
	Cells  []byte
	Ptr    int
	Strict bool

	in  *bufio.Reader
	out *bufio.Writer
}

// New allocates a zeroed tape of size cells, wired to the given I/O streams.
func New(size int, in io.Reader, out io.Writer, strict bool) *Tape {
	if size <= 0 {
		size = DefaultSize
	}

	return &Tape{
		Cells:  make([]byte, size),
		Strict: strict,
		in:     bufio.NewReader(in),
		out:    bufio.NewWriter(out),
	}
}

// Move applies a pointer displacement, trapping in strict mode if the
// result would fall outside [0, len(Cells)).
func (t *Tape) Move(delta int) error {
	p := t.Ptr + delta

	if t.Strict && (p < 0 || p >= len(t.Cells)) {
		return &TrapError{Reason: "data pointer out of bounds", Pos: p}
	}

	t.Ptr = ((p % len(t.Cells)) + len(t.Cells)) % len(t.Cells)

	return nil
}

// Add adds n to the current cell, wrapping modulo 256 unless Strict. n may
// exceed 255: run-length fusion in the parser can merge an arbitrarily long
// run of '+' into a single instruction, so the arithmetic (and the strict
// bound check) is done in full precision before truncating to a byte.
func (t *Tape) Add(n int) error {
	cur := int(t.Cells[t.Ptr])

	if t.Strict && cur+n > 0xFF {
		return &TrapError{Reason: "cell overflow", Pos: t.Ptr}
	}

	t.Cells[t.Ptr] = byte((cur + n) & 0xFF)

	return nil
}

// Sub subtracts n from the current cell, wrapping modulo 256 unless Strict.
func (t *Tape) Sub(n int) error {
	cur := int(t.Cells[t.Ptr])

	if t.Strict && cur-n < 0 {
		return &TrapError{Reason: "cell underflow", Pos: t.Ptr}
	}

	t.Cells[t.Ptr] = byte(((cur-n)%256 + 256) % 256)

	return nil
}

// Zero sets the current cell to 0.
func (t *Tape) Zero() {
	t.Cells[t.Ptr] = 0
}

// Get returns the current cell's value.
func (t *Tape) Get() byte {
	return t.Cells[t.Ptr]
}

// ReadByte reads one input byte into the current cell. On EOF the cell
// becomes 0xFF, the unsigned wrap of -1.
func (t *Tape) ReadByte() error {
	b, err := t.in.ReadByte()
	if err == io.EOF {
		t.Cells[t.Ptr] = 0xFF
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "read input")
	}

	t.Cells[t.Ptr] = b

	return nil
}

// WriteByte writes the current cell to output. Output is buffered; callers
// must call Flush when execution ends.
func (t *Tape) WriteByte() error {
	if err := t.out.WriteByte(t.Cells[t.Ptr]); err != nil {
		return errors.Wrap(err, "write output")
	}

	return nil
}

// Flush flushes any buffered output. It must be called once execution ends,
// success or failure.
func (t *Tape) Flush() error {
	return t.out.Flush()
}
