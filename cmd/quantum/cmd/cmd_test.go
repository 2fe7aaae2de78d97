package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it, mirroring the teacher's own pipe-based
// stdout capture in run_unit_test.go.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestReadSource_InlineTakesPrecedence(t *testing.T) {
	input, filename, err := readSource("print(1)", []string{"ignored.sa"})
	if err != nil {
		t.Fatalf("readSource: %v", err)
	}
	if input != "print(1)" || filename != "<eval>" {
		t.Errorf("got (%q, %q), want (%q, %q)", input, filename, "print(1)", "<eval>")
	}
}

func TestReadSource_FileArgument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.sa")
	if err := os.WriteFile(path, []byte("print(1)"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	input, filename, err := readSource("", []string{path})
	if err != nil {
		t.Fatalf("readSource: %v", err)
	}
	if input != "print(1)" || filename != path {
		t.Errorf("got (%q, %q), want (%q, %q)", input, filename, "print(1)", path)
	}
}

func TestReadSource_NoInputIsAnError(t *testing.T) {
	if _, _, err := readSource("", nil); err == nil {
		t.Fatal("expected an error when neither -e nor a file argument is given")
	}
}

func TestRunFile_RunsAndPrints(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.sa")
	if err := os.WriteFile(path, []byte(`print(2 + 2)`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var runErr error
	out := captureStdout(t, func() {
		runErr = runFile(path)
	})
	if runErr != nil {
		t.Fatalf("runFile: %v", runErr)
	}
	if out != "4\n" {
		t.Errorf("output = %q, want %q", out, "4\n")
	}
}

func TestRunFile_SyntaxErrorIsReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.sa")
	if err := os.WriteFile(path, []byte(`let x =`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := runFile(path); err == nil {
		t.Fatal("expected an error for a file with a syntax error")
	}
}

func TestRunFile_MissingFile(t *testing.T) {
	if err := runFile(filepath.Join(t.TempDir(), "missing.sa")); err == nil {
		t.Fatal("expected an error for a nonexistent file")
	}
}

func TestRunCheck_ValidFileExitsCleanly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.sa")
	if err := os.WriteFile(path, []byte(`print("ok")`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := runCheck(checkCmd, []string{path}); err != nil {
		t.Fatalf("runCheck on valid file: %v", err)
	}
}

func TestHasQuantumExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"script.sa", true},
		{"script.py", false},
		{"<eval>", false},
		{"a.sa", true},
	}
	for _, tt := range tests {
		if got := hasQuantumExtension(tt.name); got != tt.want {
			t.Errorf("hasQuantumExtension(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLexScript_PrintsTokens(t *testing.T) {
	evalExpr = "1 + 2"
	defer func() { evalExpr = "" }()

	var runErr error
	out := captureStdout(t, func() {
		runErr = lexScript(lexCmd, nil)
	})
	if runErr != nil {
		t.Fatalf("lexScript: %v", runErr)
	}
	for _, want := range []string{"1", "+", "2"} {
		if !strings.Contains(out, want) {
			t.Errorf("token output %q missing %q", out, want)
		}
	}
}
