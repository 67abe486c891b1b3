// Package systemd drives the systemd manager: reloading units, restarting
// services and reading their state. Two implementations are provided, one
// speaking D-Bus directly and one shelling out to systemctl for hosts
// where the bus is not reachable.
package systemd

import (
	"context"
	"errors"
	"strings"

	"github.com/coreos/go-systemd/v22/util"
)

// RunState is the coarse activation state of a unit.
type RunState string

const (
	StateActive   RunState = "active"
	StateInactive RunState = "inactive"
	StateFailed   RunState = "failed"
	StateUnknown  RunState = "unknown"
)

// Sentinel errors for the two manager operations whose failure triggers a
// rollback. Callers match them with errors.Is.
var (
	ErrReloadFailed  = errors.New("daemon reload failed")
	ErrRestartFailed = errors.New("unit restart failed")
)

// Controller is the subset of systemd manager operations unitshield needs.
type Controller interface {
	// Reload makes the manager re-read unit files, picking up new or
	// removed drop-in overrides.
	Reload(ctx context.Context) error
	// Restart restarts the unit and waits for the job to finish.
	Restart(ctx context.Context, unit string) error
	// RunState returns the unit's activation state.
	RunState(ctx context.Context, unit string) (RunState, error)
	// Enabled reports whether the unit is enabled or static.
	Enabled(ctx context.Context, unit string) (bool, error)
	// ListUnits returns the names of all loaded service units.
	ListUnits(ctx context.Context) ([]string, error)
	Close() error
}

// UnitName normalizes a service name given on the command line: a bare
// name gets the .service suffix, anything already carrying a unit suffix
// passes through unchanged.
func UnitName(name string) string {
	if name == "" || strings.Contains(name, ".") {
		return name
	}
	return name + ".service"
}

// IsRunningSystemd reports whether the host booted with systemd as init.
func IsRunningSystemd() bool {
	return util.IsRunningSystemd()
}

// parseRunState maps systemd's ActiveState strings onto RunState. States
// that are neither settled nor failed (activating, deactivating,
// reloading) map to StateUnknown.
func parseRunState(s string) RunState {
	switch s {
	case "active":
		return StateActive
	case "inactive":
		return StateInactive
	case "failed":
		return StateFailed
	default:
		return StateUnknown
	}
}

// parseEnabled maps systemd's UnitFileState strings onto the enabled flag
// reported by audit. Static units cannot be disabled, so they count as
// enabled.
func parseEnabled(s string) bool {
	return s == "enabled" || s == "static"
}
