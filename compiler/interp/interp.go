// Package interp implements the threaded-code interpreter: a tight central
// dispatch over the frozen IR vector, executing directly against a tape.
package interp

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/bfcompiler/bf/compiler/ir"
	"github.com/bfcompiler/bf/compiler/tape"
)

// Machine runs one ir.Program against one tape.Tape, both supplied to New.
// The instruction cursor is local to Run; the machine keeps no other state.
type Machine struct {
	Prog *ir.Program
	Tape *tape.Tape
}

// New builds a Machine for the given program and tape.
func New(prog *ir.Program, t *tape.Tape) *Machine {
	return &Machine{Prog: prog, Tape: t}
}

// Run executes the program to completion (the END opcode) or until a
// strict-mode trap or I/O error occurs. Output is flushed exactly once,
// regardless of outcome.
func (m *Machine) Run(ctx context.Context) (err error) {
	defer func() {
		if ferr := m.Tape.Flush(); err == nil {
			err = ferr
		}
	}()

	code := m.Prog.Code
	ip := 0

	for {
		in := code[ip]

		if in.Op != ir.END {
			if err := m.Tape.Move(in.Offset); err != nil {
				return errors.Wrap(err, "at instruction %d", ip)
			}
		}

		switch in.Op {
		case ir.ADD:
			if err := m.Tape.Add(in.N); err != nil {
				return errors.Wrap(err, "at instruction %d", ip)
			}
			ip++
		case ir.SUB:
			if err := m.Tape.Sub(in.N); err != nil {
				return errors.Wrap(err, "at instruction %d", ip)
			}
			ip++
		case ir.ZERO:
			m.Tape.Zero()
			ip++
		case ir.READ:
			if err := m.Tape.ReadByte(); err != nil {
				return errors.Wrap(err, "at instruction %d", ip)
			}
			ip++
		case ir.PUT:
			if err := m.Tape.WriteByte(); err != nil {
				return errors.Wrap(err, "at instruction %d", ip)
			}
			ip++
		case ir.SCAN:
			for m.Tape.Get() != 0 {
				if err := m.Tape.Move(in.N); err != nil {
					return errors.Wrap(err, "at instruction %d", ip)
				}
			}
			ip++
		case ir.JMP_FWD:
			// Likely: falls through when the cell is nonzero (loop entered).
			if m.Tape.Get() != 0 {
				ip++
			} else {
				ip = in.N
			}
		case ir.JMP_BCK:
			// Likely: taken when the cell is nonzero (loop continues).
			if m.Tape.Get() != 0 {
				ip = in.N
			} else {
				ip++
			}
		case ir.END:
			tlog.SpanFromContext(ctx).Printw("run complete", "instructions", len(code))
			return nil
		default:
			return errors.New("unknown opcode %v at instruction %d", in.Op, ip)
		}
	}
}
