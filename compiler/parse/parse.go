// Package parse tokenizes and optimizes Brainfuck source into an ir.Program
// in a single left-to-right pass, folding pointer moves, additive runs,
// clear-cell idioms, and scan loops inline as it goes.
package parse

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/bfcompiler/bf/compiler/ir"
)

// maxNesting bounds the bracket stack used during parsing; it caps legal
// loop nesting depth.
const maxNesting = 256

// DefaultMaxSourceSize is the source size cap used when neither a flag nor
// BF_MAX_SOURCE_SIZE sets one (see internal/config). It applies to the
// interpreter and compiler front ends alike; the interpreter has no larger
// default of its own.
const DefaultMaxSourceSize = 1 << 20 // 1 MiB

const tokens = "+-><.,[]"

func isToken(ch byte) bool {
	for i := 0; i < len(tokens); i++ {
		if tokens[i] == ch {
			return true
		}
	}
	return false
}

type state struct {
	b       []byte
	i       int
	pending int // pending pointer offset, folded into the next real op
	prevTok byte
	stack   []int // builder indices of open JMP_FWD instructions
	bld     ir.Builder
}

// Parse tokenizes and optimizes src into a frozen ir.Program, applying the
// maxSize cap. maxSize <= 0 means DefaultMaxSourceSize.
func Parse(ctx context.Context, src []byte, maxSize int) (*ir.Program, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSourceSize
	}

	if len(src) > maxSize {
		return nil, &Error{Kind: ErrSourceTooLarge, Pos: maxSize}
	}

	s := &state{b: src}

	if err := s.run(); err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	prog := s.bld.Program()

	tlog.SpanFromContext(ctx).Printw("parsed program", "instructions", len(prog.Code), "bytes", len(src))

	return prog, nil
}

// skipToToken advances past comment bytes and returns the index of the next
// significant character, or len(b) if none remains.
func skipToToken(b []byte, i int) int {
	for i < len(b) && !isToken(b[i]) {
		i++
	}
	return i
}

func (s *state) run() error {
	for {
		s.i = skipToToken(s.b, s.i)
		if s.i >= len(s.b) {
			break
		}

		switch s.b[s.i] {
		case '>':
			s.pending++
			s.prevTok = '>'
			s.i++
		case '<':
			s.pending--
			s.prevTok = '<'
			s.i++
		case '+':
			s.fuse(ir.ADD, '+')
			s.i++
		case '-':
			s.fuse(ir.SUB, '-')
			s.i++
		case '.':
			s.bld.Emit(ir.Instr{Op: ir.PUT, Offset: s.pending})
			s.pending = 0
			s.prevTok = '.'
			s.i++
		case ',':
			s.bld.Emit(ir.Instr{Op: ir.READ, Offset: s.pending})
			s.pending = 0
			s.prevTok = ','
			s.i++
		case '[':
			if err := s.open(); err != nil {
				return err
			}
		case ']':
			if err := s.close(); err != nil {
				return err
			}
		}
	}

	if len(s.stack) > 0 {
		return &Error{Kind: ErrUnmatchedOpen, Pos: len(s.b)}
	}

	return nil
}

// fuse implements rule 2 (additive run-length): a repeated '+' or '-' with
// no intervening token increments the previous instruction's N in place.
func (s *state) fuse(op ir.Op, tok byte) {
	if s.prevTok == tok {
		s.bld.Last().N++
		return
	}

	s.bld.Emit(ir.Instr{Op: op, N: 1, Offset: s.pending})
	s.pending = 0
	s.prevTok = tok
}

// open handles '[': rule 3 (clear-cell) via a three-token lookahead, else
// rule 5 (general bracket linking) emitting an unresolved JMP_FWD.
func (s *state) open() error {
	if c1, i1, ok := nextToken(s.b, s.i+1); ok && c1 == '-' {
		if c2, i2, ok := nextToken(s.b, i1+1); ok && c2 == ']' {
			s.bld.Emit(ir.Instr{Op: ir.ZERO, Offset: s.pending})
			s.pending = 0
			s.prevTok = ']'
			s.i = i2 + 1
			return nil
		}
	}

	if len(s.stack) >= maxNesting {
		return &Error{Kind: ErrNestingTooDeep, Pos: s.i}
	}

	idx := s.bld.Emit(ir.Instr{Op: ir.JMP_FWD, N: -1, Offset: s.pending})
	s.stack = append(s.stack, idx)
	s.pending = 0
	s.prevTok = '['
	s.i++

	return nil
}

// close handles ']': rule 4 (scan-loop collapse) when the loop body emitted
// no real instruction, else rule 5 (general bracket linking back-patch).
func (s *state) close() error {
	if len(s.stack) == 0 {
		return &Error{Kind: ErrUnmatchedClose, Pos: s.i}
	}

	top := s.stack[len(s.stack)-1]

	if top == s.bld.Len()-1 && s.bld.Code[top].Op == ir.JMP_FWD {
		entry := s.bld.Code[top].Offset
		stride := s.pending

		s.bld.Pop()
		s.stack = s.stack[:len(s.stack)-1]

		s.bld.Emit(ir.Instr{Op: ir.SCAN, N: stride, Offset: entry})
		s.pending = 0
		s.prevTok = ']'
		s.i++

		return nil
	}

	s.stack = s.stack[:len(s.stack)-1]

	bckIdx := s.bld.Len()
	s.bld.Code[top].N = bckIdx + 1

	s.bld.Emit(ir.Instr{Op: ir.JMP_BCK, N: top + 1, Offset: s.pending})
	s.pending = 0
	s.prevTok = ']'
	s.i++

	return nil
}

// nextToken returns the next significant character at or after i, skipping
// comment bytes, without mutating the caller's cursor.
func nextToken(b []byte, i int) (ch byte, idx int, ok bool) {
	i = skipToToken(b, i)
	if i >= len(b) {
		return 0, i, false
	}

	return b[i], i, true
}
