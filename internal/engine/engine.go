// Package engine applies hardening profiles to services and rolls them
// back when the service does not survive verification. The sequence for
// one service is: exclusion check, baseline analysis, profile selection,
// override write, daemon reload, restart, health check, rescore. Once the
// override is on disk, every failure path restores the previous state
// before returning.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/unitshield/unitshield/internal/analyzer"
	"github.com/unitshield/unitshield/internal/catalog"
	"github.com/unitshield/unitshield/internal/overlay"
	"github.com/unitshield/unitshield/internal/systemd"
)

// Outcome classifies what happened to one service.
type Outcome string

const (
	OutcomeApplied    Outcome = "applied"
	OutcomeRolledBack Outcome = "rolled-back"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeFailed     Outcome = "failed"
)

// Reasons attached to outcomes other than applied.
const (
	ReasonExcluded            = "excluded"
	ReasonDryRun              = "dry-run"
	ReasonDeclined            = "declined"
	ReasonAnalysisUnavailable = "analysis-unavailable"
	ReasonUnknownProfile      = "unknown-profile"
	ReasonWriteDenied         = "write-denied"
	ReasonPathConflict        = "path-conflict"
	ReasonWriteFailed         = "write-failed"
	ReasonReloadFailed        = "reload-failed"
	ReasonRestartFailed       = "restart-failed"
	ReasonHealthCheckFailed   = "health-check-failed"
	ReasonRollbackFailed      = "rollback-failed"
)

// Result reports the outcome for one service.
type Result struct {
	Service     string
	Outcome     Outcome
	Reason      string
	Detail      string
	Profile     string
	ScoreBefore float64
	ScoreAfter  float64
	Scored      bool
	Rescored    bool
	Preview     string
	Err         error
}

// Scorer yields exposure records for services.
type Scorer interface {
	Query(ctx context.Context, service string) (analyzer.ServiceRecord, error)
}

// OverrideWriter manages override files and their restoration.
type OverrideWriter interface {
	Write(service string, content []byte) (*overlay.State, error)
	Restore(st *overlay.State) error
	Remove(service string) (bool, error)
	Current(service string) ([]byte, bool, error)
	Path(service string) string
}

// Engine coordinates analysis, the override writer and the systemd
// controller to harden and revert services.
type Engine struct {
	scorer  Scorer
	catalog *catalog.Catalog
	writer  OverrideWriter
	ctl     systemd.Controller
	settle  time.Duration
	timeout time.Duration
	log     *logrus.Logger

	sleep func(time.Duration)
}

// New returns an Engine. settle is the delay between restarting a service
// and checking its health; timeout bounds each systemd operation.
func New(scorer Scorer, cat *catalog.Catalog, writer OverrideWriter, ctl systemd.Controller, settle, timeout time.Duration, log *logrus.Logger) *Engine {
	return &Engine{
		scorer:  scorer,
		catalog: cat,
		writer:  writer,
		ctl:     ctl,
		settle:  settle,
		timeout: timeout,
		log:     log,
		sleep:   time.Sleep,
	}
}

// Request describes one hardening attempt.
type Request struct {
	// Service is the target unit; a bare name is normalized to its
	// .service form.
	Service string
	// Profile forces a specific profile. Empty selects automatically.
	Profile string
	// DryRun stops before anything is written and fills Result.Preview
	// with the diff that an actual run would apply.
	DryRun bool
	// Confirm, when set, is consulted after profile selection and before
	// anything is written. It receives the baseline exposure score so the
	// caller can show it. Returning false skips the service.
	Confirm func(service, profile string, score float64) bool
}

// Harden runs the full apply sequence for one service.
func (e *Engine) Harden(ctx context.Context, req Request) Result {
	service := systemd.UnitName(req.Service)
	res := Result{Service: service}
	log := e.log.WithField("service", service)

	if reason, excluded := e.catalog.Exclusions.Match(service); excluded {
		log.WithField("reason", reason).Debug("service is excluded")
		res.Outcome = OutcomeSkipped
		res.Reason = ReasonExcluded
		res.Detail = reason
		return res
	}

	before, err := e.scorer.Query(ctx, service)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Reason = ReasonAnalysisUnavailable
		res.Err = err
		return res
	}
	res.ScoreBefore = before.Score
	res.Scored = true

	profileName := req.Profile
	if profileName == "" {
		profileName = e.catalog.ProfileFor(service)
	}
	prof, ok := e.catalog.Profiles.Get(profileName)
	if !ok {
		res.Outcome = OutcomeFailed
		res.Reason = ReasonUnknownProfile
		res.Err = fmt.Errorf("profile %q is not in the catalog", profileName)
		return res
	}
	res.Profile = profileName
	content := overlay.Render(profileName, prof)

	if req.DryRun {
		current, _, err := e.writer.Current(service)
		if err != nil {
			log.WithError(err).Debug("could not read current override for preview")
			current = nil
		}
		res.Outcome = OutcomeSkipped
		res.Reason = ReasonDryRun
		res.Preview = overlay.Diff(e.writer.Path(service), current, content)
		return res
	}

	if req.Confirm != nil && !req.Confirm(service, profileName, before.Score) {
		res.Outcome = OutcomeSkipped
		res.Reason = ReasonDeclined
		return res
	}

	st, err := e.writer.Write(service, content)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Reason = writeReason(err)
		res.Err = err
		return res
	}
	log.WithField("profile", profileName).Debug("override written")

	// The override is on disk now. The remaining steps must run to
	// completion even if the caller's context is cancelled, or an
	// unverified override would be left behind.
	ctx = context.WithoutCancel(ctx)

	if err := e.reload(ctx); err != nil {
		return e.rollback(ctx, res, st, before, ReasonReloadFailed, err)
	}

	restarted := false
	if before.RunState == systemd.StateActive {
		if err := e.restart(ctx, service); err != nil {
			return e.rollback(ctx, res, st, before, ReasonRestartFailed, err)
		}
		restarted = true
		log.Debug("service restarted")
	}

	if restarted {
		e.sleep(e.settle)
	}
	state := e.runState(ctx, service)
	if !healthy(before.RunState, state) {
		err := fmt.Errorf("service is %s after applying the override", state)
		return e.rollback(ctx, res, st, before, ReasonHealthCheckFailed, err)
	}

	if after, err := e.scorer.Query(ctx, service); err == nil {
		res.ScoreAfter = after.Score
		res.Rescored = true
	} else {
		log.WithError(err).Debug("could not rescore after hardening")
	}

	res.Outcome = OutcomeApplied
	return res
}

// healthy decides whether the post-apply state is acceptable. A failed
// unit is never acceptable; a service that was running must still be
// running. Services that were not running only need to avoid entering
// the failed state.
func healthy(before systemd.RunState, after systemd.RunState) bool {
	if after == systemd.StateFailed {
		return false
	}
	if before == systemd.StateActive {
		return after == systemd.StateActive
	}
	return true
}

// rollback restores the captured override state and brings the service
// back up, then reports the triggering cause.
func (e *Engine) rollback(ctx context.Context, res Result, st *overlay.State, before analyzer.ServiceRecord, reason string, cause error) Result {
	log := e.log.WithField("service", res.Service)
	log.WithError(cause).WithField("reason", reason).Warn("rolling back")

	if err := e.writer.Restore(st); err != nil {
		// The override is still on disk. Report loudly so the operator
		// knows manual cleanup is required.
		res.Outcome = OutcomeFailed
		res.Reason = ReasonRollbackFailed
		res.Err = errors.Join(cause, err)
		return res
	}
	if err := e.reload(ctx); err != nil {
		log.WithError(err).Warn("daemon reload failed during rollback")
	}
	if before.RunState == systemd.StateActive {
		if err := e.restart(ctx, res.Service); err != nil {
			log.WithError(err).Warn("service could not be restarted after rollback")
		}
	}

	res.Outcome = OutcomeRolledBack
	res.Reason = reason
	res.Err = cause
	return res
}

// writeReason maps override write failures onto result reasons.
func writeReason(err error) string {
	switch {
	case errors.Is(err, overlay.ErrWriteDenied):
		return ReasonWriteDenied
	case errors.Is(err, overlay.ErrPathConflict):
		return ReasonPathConflict
	default:
		return ReasonWriteFailed
	}
}

func (e *Engine) reload(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.ctl.Reload(cctx)
}

func (e *Engine) restart(ctx context.Context, service string) error {
	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.ctl.Restart(cctx, service)
}

func (e *Engine) runState(ctx context.Context, service string) systemd.RunState {
	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	state, err := e.ctl.RunState(cctx, service)
	if err != nil {
		e.log.WithField("service", service).WithError(err).Debug("failed to read run state")
		return systemd.StateUnknown
	}
	return state
}
