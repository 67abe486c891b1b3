package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteStub writes an executable shell stub that exits successfully.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteStub(t *testing.T, dir string, name string) {
	t.Helper()
	WriteStubWithExit(t, dir, name, 0)
}

// WriteStubWithExit writes an executable shell stub that exits with the provided code.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteStubWithExit(t *testing.T, dir string, name string, exitCode int) {
	t.Helper()
	WriteScript(t, dir, name, fmt.Sprintf("exit %d\n", exitCode))
}

// WriteStubWithOutput writes an executable shell stub that prints output
// on stdout and exits with the provided code.
func WriteStubWithOutput(t *testing.T, dir string, name string, output string, exitCode int) {
	t.Helper()
	body := fmt.Sprintf("cat <<'STUB_EOF'\n%s\nSTUB_EOF\nexit %d\n", output, exitCode)
	WriteScript(t, dir, name, body)
}

// WriteScript writes an executable shell script with the given body, for
// stubs that need to branch on their arguments.
func WriteScript(t *testing.T, dir string, name string, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}
