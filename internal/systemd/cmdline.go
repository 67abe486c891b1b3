package systemd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"sync"
)

// CmdlineController drives systemd through the systemctl binary. It is
// the fallback for hosts where the manager bus cannot be reached, and
// mirrors the bus controller's behavior.
type CmdlineController struct {
	user bool

	mu sync.Mutex
}

// NewCmdlineController returns a systemctl-backed controller. With user
// set, every command targets the per-user instance.
func NewCmdlineController(user bool) *CmdlineController {
	return &CmdlineController{user: user}
}

func (c *CmdlineController) run(ctx context.Context, args ...string) (string, error) {
	if c.user {
		args = append([]string{"--user"}, args...)
	}
	cmd := exec.CommandContext(ctx, "systemctl", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return stdout.String(), fmt.Errorf("systemctl %s timed out", args[0])
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = fmt.Sprintf("exit status %d", exitErr.ExitCode())
			}
			return stdout.String(), fmt.Errorf("systemctl %s: %s", args[0], msg)
		}
		return stdout.String(), fmt.Errorf("systemctl %s: %w", args[0], err)
	}
	return stdout.String(), nil
}

// Reload implements Controller.
func (c *CmdlineController) Reload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.run(ctx, "daemon-reload"); err != nil {
		return fmt.Errorf("%w: %v", ErrReloadFailed, err)
	}
	return nil
}

// Restart implements Controller.
func (c *CmdlineController) Restart(ctx context.Context, unit string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.run(ctx, "restart", unit); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRestartFailed, unit, err)
	}
	return nil
}

// RunState implements Controller. is-active exits non-zero for inactive
// units while still printing the state, so stdout wins over the exit
// status.
func (c *CmdlineController) RunState(ctx context.Context, unit string) (RunState, error) {
	out, err := c.run(ctx, "is-active", unit)
	if state := strings.TrimSpace(out); state != "" {
		return parseRunState(state), nil
	}
	if err != nil {
		return StateUnknown, fmt.Errorf("failed to read state of %s: %w", unit, err)
	}
	return StateUnknown, nil
}

// Enabled implements Controller. Like is-active, is-enabled reports
// through stdout regardless of the exit status.
func (c *CmdlineController) Enabled(ctx context.Context, unit string) (bool, error) {
	out, err := c.run(ctx, "is-enabled", unit)
	if state := strings.TrimSpace(out); state != "" {
		return parseEnabled(state), nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read enablement of %s: %w", unit, err)
	}
	return false, nil
}

// ListUnits implements Controller. --plain keeps failed units from being
// prefixed with a bullet that would hide them from the column parse.
func (c *CmdlineController) ListUnits(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "list-units", "--type=service", "--all", "--no-pager", "--no-legend", "--plain")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && strings.HasSuffix(fields[0], ".service") {
			names = append(names, fields[0])
		}
	}
	sort.Strings(names)
	return names, nil
}

// Close implements Controller.
func (c *CmdlineController) Close() error {
	return nil
}
