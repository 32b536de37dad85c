package jit

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bfcompiler/bf/compiler/interp"
	"github.com/bfcompiler/bf/compiler/parse"
	"github.com/bfcompiler/bf/compiler/tape"
)

func runJIT(t *testing.T, src, stdin string) string {
	t.Helper()

	prog, err := parse.Parse(context.Background(), []byte(src), 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var out bytes.Buffer
	tp := tape.New(0, strings.NewReader(stdin), &out, false)

	p := Compile(context.Background(), prog)
	if err := p.Run(tp); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	return out.String()
}

func TestJITHelloWorld(t *testing.T) {
	src := "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

	if got, want := runJIT(t, src, ""), "Hello World!\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestJITScanLoop(t *testing.T) {
	if got, want := runJIT(t, "+++>+++>+++<<[>]+.", ""), "\x01"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestJITEchoUntilZero(t *testing.T) {
	if got, want := runJIT(t, ",[.,]", "abc\x00xyz"), "abc"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestJITMatchesInterpreter(t *testing.T) {
	cases := []struct{ src, stdin string }{
		{"++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.", ""},
		{",[.,]", "abc\x00xyz"},
		{"-.", ""},
		{"+++>+++>+++<<[>]+.", ""},
		{"[-]", ""},
		{">[-]<", ""},
	}

	for _, c := range cases {
		jitOut := runJIT(t, c.src, c.stdin)

		prog, err := parse.Parse(context.Background(), []byte(c.src), 0)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}

		var interpOut bytes.Buffer
		tp := tape.New(0, strings.NewReader(c.stdin), &interpOut, false)

		m := interp.New(prog, tp)
		if err := m.Run(context.Background()); err != nil {
			t.Fatalf("interp comparison run: %v", err)
		}

		if jitOut != interpOut.String() {
			t.Errorf("src %q: jit = %q, want %q", c.src, jitOut, interpOut.String())
		}
	}
}
