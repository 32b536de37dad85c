package asm

import "github.com/bfcompiler/bf/compiler/ir"

// Lower walks a frozen ir.Program and drives b through it. It never relies
// on any backend-level optimization: every Brainfuck-level optimization has
// already been baked into the IR by the parser, so this is a dumb,
// one-to-one lowering pass over a dumb builder interface.
func Lower(prog *ir.Program, b Builder) {
	labels := make(map[int]Label)

	labelFor := func(idx int) Label {
		if l, ok := labels[idx]; ok {
			return l
		}

		l := b.NewLabel()
		labels[idx] = l

		return l
	}

	for _, in := range prog.Code {
		if in.Op == ir.JMP_FWD || in.Op == ir.JMP_BCK {
			labelFor(in.N)
		}
	}

	for idx, in := range prog.Code {
		if l, ok := labels[idx]; ok {
			b.Here(l)
		}

		switch in.Op {
		case ir.ADD:
			b.Add(in.Offset, in.N)
		case ir.SUB:
			b.Sub(in.Offset, in.N)
		case ir.ZERO:
			b.Zero(in.Offset)
		case ir.READ:
			b.Read(in.Offset)
		case ir.PUT:
			b.Write(in.Offset)
		case ir.SCAN:
			b.Scan(in.Offset, in.N)
		case ir.JMP_FWD:
			b.JumpIfZero(in.Offset, labelFor(in.N))
		case ir.JMP_BCK:
			b.JumpIfNotZero(in.Offset, labelFor(in.N))
		case ir.END:
			b.End()
		}
	}
}
