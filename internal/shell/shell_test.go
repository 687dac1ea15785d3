package shell

import (
	"bytes"
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func skipWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestRunOutputAndStatus(t *testing.T) {
	skipWindows(t)
	var out bytes.Buffer
	r := &Runner{Shell: DefaultShell, Stdout: &out}

	code, err := r.Run(context.Background(), "echo hello; echo world")
	if err != nil || code != 0 {
		t.Fatalf("Run = %d, %v", code, err)
	}
	if got := strings.TrimSpace(out.String()); got != "hello\nworld" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRunNonZeroExitIsNotAnError(t *testing.T) {
	skipWindows(t)
	r := &Runner{Shell: DefaultShell}
	code, err := r.Run(context.Background(), "exit 3")
	if err != nil || code != 3 {
		t.Errorf("Run = %d, %v; want 3, nil", code, err)
	}
}

func TestRunMissingShell(t *testing.T) {
	r := &Runner{Shell: filepath.Join(t.TempDir(), "nosh")}
	if _, err := r.Run(context.Background(), "true"); err == nil {
		t.Error("expected error for missing shell")
	}
}

func TestResolve(t *testing.T) {
	t.Setenv("SHELL", "/bin/zsh")
	if got := Resolve("/bin/bash"); got != "/bin/bash" {
		t.Errorf("configured: %q", got)
	}
	if got := Resolve(""); got != "/bin/zsh" {
		t.Errorf("env: %q", got)
	}
	t.Setenv("SHELL", "")
	if got := Resolve(""); got != DefaultShell {
		t.Errorf("default: %q", got)
	}
}
