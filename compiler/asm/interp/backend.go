// Package interp implements the JIT's in-process backend: it satisfies
// compiler/asm.Builder by compiling into a small closure-based instruction
// list that a tiny fetch/execute loop runs directly against a real tape.
// This stands in for a native-code backend without depending on an
// external assembler while preserving the exact lowering contract used by
// the text backend, so both are exercised by the same compiler/asm.Lower
// pass.
package interp

import (
	"tlog.app/go/errors"

	"github.com/bfcompiler/bf/compiler/asm"
	"github.com/bfcompiler/bf/compiler/tape"
)

type step func(t *tape.Tape) error

type branch struct {
	cond   func(t *tape.Tape) (bool, error)
	target int
}

// Backend accumulates a program of closures as compiler/asm.Lower drives
// it, then exposes it as a single callable via Func. Every position is
// either a plain step (mutates the tape, falls through to pc+1) or a
// branch (conditionally jumps); the End opcode emits nothing; the fetch
// loop halts naturally once pc reaches the end of the program.
type Backend struct {
	code     []step
	branches map[int]*branch

	positions map[asm.Label]int
	pending   map[asm.Label][]*branch
	nextLabel asm.Label
}

// New returns an empty Backend ready to be driven by asm.Lower.
func New() *Backend {
	return &Backend{
		branches:  make(map[int]*branch),
		positions: make(map[asm.Label]int),
		pending:   make(map[asm.Label][]*branch),
	}
}

func (b *Backend) NewLabel() asm.Label {
	b.nextLabel++
	return b.nextLabel
}

// Here binds l to the position the next Emit will occupy, resolving any
// forward-referencing branches recorded against it.
func (b *Backend) Here(l asm.Label) {
	pos := len(b.code)
	b.positions[l] = pos

	for _, br := range b.pending[l] {
		br.target = pos
	}

	delete(b.pending, l)
}

func (b *Backend) Add(off, n int) {
	b.emit(func(t *tape.Tape) error {
		if err := t.Move(off); err != nil {
			return err
		}
		return t.Add(n)
	})
}

func (b *Backend) Sub(off, n int) {
	b.emit(func(t *tape.Tape) error {
		if err := t.Move(off); err != nil {
			return err
		}
		return t.Sub(n)
	})
}

func (b *Backend) Zero(off int) {
	b.emit(func(t *tape.Tape) error {
		if err := t.Move(off); err != nil {
			return err
		}
		t.Zero()
		return nil
	})
}

func (b *Backend) Read(off int) {
	b.emit(func(t *tape.Tape) error {
		if err := t.Move(off); err != nil {
			return err
		}
		return t.ReadByte()
	})
}

func (b *Backend) Write(off int) {
	b.emit(func(t *tape.Tape) error {
		if err := t.Move(off); err != nil {
			return err
		}
		return t.WriteByte()
	})
}

func (b *Backend) Scan(off, stride int) {
	b.emit(func(t *tape.Tape) error {
		if err := t.Move(off); err != nil {
			return err
		}
		for t.Get() != 0 {
			if err := t.Move(stride); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *Backend) JumpIfZero(off int, l asm.Label) {
	b.emitBranch(l, func(t *tape.Tape) (bool, error) {
		if err := t.Move(off); err != nil {
			return false, err
		}
		return t.Get() == 0, nil
	})
}

func (b *Backend) JumpIfNotZero(off int, l asm.Label) {
	b.emitBranch(l, func(t *tape.Tape) (bool, error) {
		if err := t.Move(off); err != nil {
			return false, err
		}
		return t.Get() != 0, nil
	})
}

// End emits nothing: the fetch loop halts once pc runs off the end of code.
func (b *Backend) End() {}

func (b *Backend) emit(fn step) {
	b.code = append(b.code, fn)
}

func (b *Backend) emitBranch(l asm.Label, cond func(*tape.Tape) (bool, error)) {
	idx := len(b.code)

	br := &branch{cond: cond, target: -1}
	if pos, ok := b.positions[l]; ok {
		br.target = pos
	} else {
		b.pending[l] = append(b.pending[l], br)
	}

	b.branches[idx] = br
	b.code = append(b.code, nil) // placeholder; branches are dispatched by Func via b.branches
}

// Func returns the compiled program as a callable that runs it to
// completion against t.
func (b *Backend) Func() func(t *tape.Tape) error {
	code := b.code
	branches := b.branches

	return func(t *tape.Tape) error {
		pc := 0

		for pc < len(code) {
			if br, ok := branches[pc]; ok {
				taken, err := br.cond(t)
				if err != nil {
					return errors.Wrap(err, "at instruction %d", pc)
				}

				if taken {
					pc = br.target
				} else {
					pc++
				}

				continue
			}

			if err := code[pc](t); err != nil {
				return errors.Wrap(err, "at instruction %d", pc)
			}

			pc++
		}

		return nil
	}
}
