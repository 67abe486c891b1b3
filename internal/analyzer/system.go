package analyzer

import (
	"context"
	"os/exec"
)

// System abstracts the one external command the analyzer runs. Tests
// substitute it so the suite does not require systemd on the build host.
type System interface {
	// Output runs name with args and returns captured stdout. Partial
	// output is returned even when the command exits non-zero, because
	// systemd-analyze reports through stdout regardless of its exit
	// status.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// RealSystem implements System with os/exec.
type RealSystem struct{}

// Output implements System.
func (RealSystem) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	return string(out), err
}
