package cube

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCodeFrameMarksColumn(t *testing.T) {
	source := "var x = 1;\nboom();"
	got := codeFrame(source, Position{Line: 2, Column: 1})
	want := "1 | var x = 1;\n2 | boom();\n  | ^"
	if got != want {
		t.Fatalf("frame:\n%s\nwant:\n%s", got, want)
	}
}

func TestCodeFrameFirstLineHasNoContext(t *testing.T) {
	got := codeFrame("boom();", Position{Line: 1, Column: 6})
	want := "1 | boom();\n  |      ^"
	if got != want {
		t.Fatalf("frame:\n%s\nwant:\n%s", got, want)
	}
}

func TestCodeFrameClampsColumn(t *testing.T) {
	got := codeFrame("hi;", Position{Line: 1, Column: 40})
	want := "1 | hi;\n  |    ^"
	if got != want {
		t.Fatalf("frame:\n%s\nwant:\n%s", got, want)
	}
}

func TestCodeFrameOutOfRange(t *testing.T) {
	if got := codeFrame("var x = 1;", Position{Line: 9, Column: 1}); got != "" {
		t.Fatalf("frame for missing line: %q", got)
	}
	if got := codeFrame("", Position{Line: 1, Column: 1}); got != "" {
		t.Fatalf("frame for empty source: %q", got)
	}
}

func TestRuntimeErrorCarriesCodeFrame(t *testing.T) {
	engine := NewEngine(Config{})
	script := compileScript(t, engine, "var x = 1;\nboom();")

	err := script.Start(context.Background())
	if err == nil {
		t.Fatal("expected start failure")
	}
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("error type %T: %v", err, err)
	}
	if !strings.Contains(re.CodeFrame, "2 | boom();") {
		t.Fatalf("code frame missing failing line:\n%s", re.CodeFrame)
	}
	if !strings.Contains(re.CodeFrame, "| ^") {
		t.Fatalf("code frame missing caret:\n%s", re.CodeFrame)
	}
}
