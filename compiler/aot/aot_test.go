package aot

import (
	"context"
	"strings"
	"testing"

	"github.com/bfcompiler/bf/compiler/parse"
)

func emit(t *testing.T, src string, tapeSize int) string {
	t.Helper()

	prog, err := parse.Parse(context.Background(), []byte(src), 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	return string(Emit(context.Background(), prog, tapeSize))
}

func TestEmitSkeleton(t *testing.T) {
	out := emit(t, "+.", 0)

	for _, want := range []string{".global _start", "_start:", "BL\t_main", ".global _main", "_main:", "BL\t_bf_run", ".global _bf_run", "_bf_run:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEmitDefaultTapeSize(t *testing.T) {
	out := emit(t, "+.", 0)

	if !strings.Contains(out, "#30000") {
		t.Errorf("expected default tape size 30000 in output:\n%s", out)
	}
}

func TestEmitCustomTapeSize(t *testing.T) {
	out := emit(t, "+.", 1024)

	if !strings.Contains(out, "#1024") {
		t.Errorf("expected tape size 1024 in output:\n%s", out)
	}
	if strings.Contains(out, "#30000") {
		t.Errorf("did not expect default tape size when overridden:\n%s", out)
	}
}

func TestEmitBodyContainsOpcodes(t *testing.T) {
	out := emit(t, "+-.,[-]", 0)

	for _, want := range []string{"ADD\tW2, W2, #1", "SUB\tW2, W2, #1", "BL\t_putchar", "BL\t_getchar", "STRB\tWZR"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEmitDeterministic(t *testing.T) {
	src := "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

	if emit(t, src, 0) != emit(t, src, 0) {
		t.Errorf("Emit is not deterministic across runs")
	}
}
