package terminal

import (
	"os"
	"runtime"
	"testing"

	"github.com/creack/pty"
)

func TestIsTerminalPty(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pty is not supported on Windows")
	}
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Fatalf("failed to open pty: %v", err)
	}
	defer func() { _ = ptmx.Close() }()
	defer func() { _ = tty.Close() }()

	if !isTerminal(tty) {
		t.Fatal("expected the pty replica to be detected as a terminal")
	}
}

func TestIsTerminalPipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	defer func() { _ = r.Close() }()
	defer func() { _ = w.Close() }()

	if isTerminal(r) || isTerminal(w) {
		t.Fatal("pipe ends must not be detected as terminals")
	}
}

func TestIsInteractive(t *testing.T) {
	// The result depends on how the test process is attached; only verify
	// the call is safe.
	_ = IsInteractive()
}
