package parse

import (
	"context"
	"testing"

	"github.com/bfcompiler/bf/compiler/ir"
)

func mustParse(t *testing.T, src string) *ir.Program {
	t.Helper()

	prog, err := Parse(context.Background(), []byte(src), 0)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}

	return prog
}

func TestEmptyInput(t *testing.T) {
	prog := mustParse(t, "")
	if got, want := prog.Dump(), "END\n"; got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
}

func TestAllComments(t *testing.T) {
	prog := mustParse(t, "this is a comment with no bf tokens")
	if got, want := prog.Dump(), "END\n"; got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
}

func TestZeroCell(t *testing.T) {
	prog := mustParse(t, "[-]")
	if got, want := prog.Dump(), "ZERO(0, 0)\nEND\n"; got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
}

func TestZeroCellWithOffset(t *testing.T) {
	prog := mustParse(t, ">[-]<")
	if got, want := prog.Dump(), "ZERO(0, 1)\nEND\n"; got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
}

func TestScanLoop(t *testing.T) {
	prog := mustParse(t, "[>]")
	if got, want := prog.Dump(), "SCAN(1, 0)\nEND\n"; got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
}

func TestPointerCoalescing(t *testing.T) {
	prog := mustParse(t, ">>>+<<<")
	if got, want := prog.Dump(), "ADD(1, 3)\nEND\n"; got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
}

func TestRunLengthFusion(t *testing.T) {
	prog := mustParse(t, "+++")
	if got, want := prog.Dump(), "ADD(3, 0)\nEND\n"; got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
}

func TestGeneralBracketLinking(t *testing.T) {
	// [+] does not match the [-] clear-cell idiom or the scan-loop idiom
	// (its body emits a real ADD), so it stays a general loop.
	prog := mustParse(t, "[+]")

	if len(prog.Code) != 4 {
		t.Fatalf("len(Code) = %d, want 4 (JMP_FWD, ADD, JMP_BCK, END)", len(prog.Code))
	}

	fwd, add, bck := prog.Code[0], prog.Code[1], prog.Code[2]

	if fwd.Op != ir.JMP_FWD || fwd.N != 3 {
		t.Errorf("Code[0] = %v, want JMP_FWD(3, _)", fwd)
	}
	if add.Op != ir.ADD || add.N != 1 {
		t.Errorf("Code[1] = %v, want ADD(1, _)", add)
	}
	if bck.Op != ir.JMP_BCK || bck.N != 1 {
		t.Errorf("Code[2] = %v, want JMP_BCK(1, _)", bck)
	}
}

func TestNestingToLimit(t *testing.T) {
	src := ""
	for i := 0; i < 256; i++ {
		src += "["
	}
	src += "+"
	for i := 0; i < 256; i++ {
		src += "]"
	}

	if _, err := Parse(context.Background(), []byte(src), 0); err != nil {
		t.Fatalf("depth 256: unexpected error: %v", err)
	}
}

func TestNestingTooDeep(t *testing.T) {
	src := ""
	for i := 0; i < 257; i++ {
		src += "["
	}
	src += "+"
	for i := 0; i < 257; i++ {
		src += "]"
	}

	_, err := Parse(context.Background(), []byte(src), 0)
	if err == nil {
		t.Fatal("depth 257: expected error, got nil")
	}
}

func TestMismatchedBrackets(t *testing.T) {
	_, err := Parse(context.Background(), []byte("[[]"), 0)
	if err == nil {
		t.Fatal("expected error for unmatched '['")
	}
}

func TestUnmatchedClose(t *testing.T) {
	_, err := Parse(context.Background(), []byte("]"), 0)
	if err == nil {
		t.Fatal("expected error for unmatched ']'")
	}
}

func TestSourceTooLarge(t *testing.T) {
	_, err := Parse(context.Background(), make([]byte, 10), 4)
	if err == nil {
		t.Fatal("expected error for oversize source")
	}
}

func TestDeterministic(t *testing.T) {
	src := "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

	a := mustParse(t, src)
	b := mustParse(t, src)

	if a.Dump() != b.Dump() {
		t.Fatal("parsing is not deterministic")
	}
}

func TestNoPointerMoveOpcode(t *testing.T) {
	src := "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."
	prog := mustParse(t, src)

	for _, in := range prog.Code {
		if in.Op < ir.ADD || in.Op > ir.END {
			t.Fatalf("unexpected opcode %v", in.Op)
		}
	}
}
