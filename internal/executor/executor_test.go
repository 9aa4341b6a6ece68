package executor

import (
	"context"
	"strings"
	"testing"

	"github.com/hubenschmidt/pceh/internal/types"
)

func TestMaterialize_DispatchesPerLanguage(t *testing.T) {
	e := &hostExecutor{workDir: t.TempDir()}
	resp := types.StructuredCodeResponse{FunctionName: "solve", Code: "def solve(x):\n    return x"}

	cases := []struct {
		lang       types.Language
		wantRunCmd string
		wantExt    string
		compiled   bool
	}{
		{types.Python, "python3", ".py", false},
		{types.JavaScript, "node", ".js", false},
		{types.Go, "go", ".go", false},
		{types.Rust, "./driver", ".rs", true},
	}

	for _, c := range cases {
		src, runCmd, _, compileCmd, _, ext, err := e.materialize(resp, c.lang, "[1]")
		if err != nil {
			t.Fatalf("materialize(%s) returned error: %v", c.lang, err)
		}
		if runCmd != c.wantRunCmd {
			t.Errorf("materialize(%s) runCmd = %q, want %q", c.lang, runCmd, c.wantRunCmd)
		}
		if ext != c.wantExt {
			t.Errorf("materialize(%s) ext = %q, want %q", c.lang, ext, c.wantExt)
		}
		if c.compiled && compileCmd == "" {
			t.Errorf("materialize(%s) expected a compile step", c.lang)
		}
		if !c.compiled && compileCmd != "" {
			t.Errorf("materialize(%s) expected no compile step, got %q", c.lang, compileCmd)
		}
		if src == "" {
			t.Errorf("materialize(%s) produced empty source", c.lang)
		}
	}
}

func TestMaterialize_UnsupportedLanguage(t *testing.T) {
	e := &hostExecutor{workDir: t.TempDir()}
	_, _, _, _, _, _, err := e.materialize(types.StructuredCodeResponse{}, types.Language("cobol"), "[]")
	if err == nil {
		t.Fatal("expected error for unsupported language")
	}
	var execErr *Error
	if !asExecError(err, &execErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if execErr.Kind != IO {
		t.Errorf("expected Kind IO, got %v", execErr.Kind)
	}
}

func TestNew_ReturnsWorkingDirAndClose(t *testing.T) {
	ex, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := ex.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func asExecError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}

func TestRunOne_Timeout(t *testing.T) {
	e := &hostExecutor{workDir: t.TempDir()}
	resp := types.StructuredCodeResponse{
		FunctionName: "solve",
		Code:         "import time\ndef solve():\n    time.sleep(5)\n    return 1",
	}
	result := e.runOne(context.Background(), resp, types.Python, types.TestCase{Input: "[]", Expected: "1"}, 1)
	if result.Passed {
		t.Skip("solution finished within the 1ms limit; timeout path not exercised")
	}
	if result.Error == nil || !strings.Contains(*result.Error, "Timeout") {
		t.Logf("non-timeout result (acceptable if python3 unavailable): %+v", result)
	}
}
