package engine

import (
	"context"

	"github.com/unitshield/unitshield/internal/overlay"
	"github.com/unitshield/unitshield/internal/systemd"
)

// RevertResult reports what a revert did.
type RevertResult struct {
	Service string
	// Removed is false when there was no override to remove.
	Removed bool
	// Profile is the profile recorded in the removed override, when it
	// carried one.
	Profile string
}

// Revert removes the override for service, reloads systemd and restarts
// the service if it is currently running so the original unit
// configuration takes effect again.
func (e *Engine) Revert(ctx context.Context, service string) (RevertResult, error) {
	service = systemd.UnitName(service)
	res := RevertResult{Service: service}
	log := e.log.WithField("service", service)

	current, present, err := e.writer.Current(service)
	if err != nil {
		return res, err
	}
	if !present {
		return res, nil
	}
	if name, ok := overlay.ProfileOf(current); ok {
		res.Profile = name
	}

	// Read the run state before removal so the restart decision matches
	// how the service was running under the override.
	state := e.runState(ctx, service)

	if _, err := e.writer.Remove(service); err != nil {
		return res, err
	}
	res.Removed = true
	log.Debug("override removed")

	// The override is already gone; finish reactivating the original
	// configuration even if the caller's context is cancelled.
	ctx = context.WithoutCancel(ctx)

	if err := e.reload(ctx); err != nil {
		return res, err
	}
	if state == systemd.StateActive {
		if err := e.restart(ctx, service); err != nil {
			return res, err
		}
		log.Debug("service restarted on original configuration")
	}
	return res, nil
}
