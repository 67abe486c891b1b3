// Package analyzer scores the exposure of systemd services using
// systemd-analyze security.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/unitshield/unitshield/internal/systemd"
)

// Sentinel errors. ErrAnalysisUnavailable means no exposure verdict could
// be obtained at all; ErrParse means systemd-analyze produced one we could
// not make sense of.
var (
	ErrAnalysisUnavailable = errors.New("security analysis unavailable")
	ErrParse               = errors.New("could not parse analyzer output")
)

// exposureRe matches the verdict line, e.g.
// "→ Overall exposure level for nginx.service: 9.2 UNSAFE :("
var exposureRe = regexp.MustCompile(`Overall exposure level.*?:\s+([\d.]+)\s+(\w+)`)

// ServiceRecord is the analysis of one service.
type ServiceRecord struct {
	Name     string
	Score    float64
	Level    string
	RunState systemd.RunState
	Enabled  bool
}

// Analyzer queries exposure scores and run state for services.
type Analyzer struct {
	sys     System
	ctl     systemd.Controller
	timeout time.Duration
	log     *logrus.Logger
}

// New returns an Analyzer. timeout bounds each external query.
func New(sys System, ctl systemd.Controller, timeout time.Duration, log *logrus.Logger) *Analyzer {
	return &Analyzer{sys: sys, ctl: ctl, timeout: timeout, log: log}
}

// Query analyzes a single service. The returned record always carries a
// parsed score; services systemd-analyze cannot score yield
// ErrAnalysisUnavailable instead.
func (a *Analyzer) Query(ctx context.Context, service string) (ServiceRecord, error) {
	unit := systemd.UnitName(service)

	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	out, runErr := a.sys.Output(cctx, "systemd-analyze", "security", unit, "--no-pager")
	cancel()

	m := exposureRe.FindStringSubmatch(out)
	if m == nil {
		if runErr != nil {
			return ServiceRecord{}, fmt.Errorf("%w: %s: %v", ErrAnalysisUnavailable, unit, runErr)
		}
		return ServiceRecord{}, fmt.Errorf("%w: no exposure verdict for %s", ErrAnalysisUnavailable, unit)
	}
	score, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return ServiceRecord{}, fmt.Errorf("%w: exposure score %q for %s", ErrParse, m[1], unit)
	}
	if score < 0 || score > 10 {
		return ServiceRecord{}, fmt.Errorf("%w: exposure score %v out of range for %s", ErrParse, score, unit)
	}

	rec := ServiceRecord{Name: unit, Score: score, Level: m[2]}
	rec.RunState = a.runState(ctx, unit)
	rec.Enabled = a.enabled(ctx, unit)
	return rec, nil
}

// QueryAll analyzes every loaded service. Services that cannot be scored
// are skipped. Records come back ordered by descending score, with the
// name as tie breaker so output is stable.
func (a *Analyzer) QueryAll(ctx context.Context) ([]ServiceRecord, error) {
	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	units, err := a.ctl.ListUnits(cctx)
	cancel()
	if err != nil {
		return nil, err
	}

	var records []ServiceRecord
	for _, unit := range units {
		rec, err := a.Query(ctx, unit)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.log.WithField("unit", unit).WithError(err).Debug("skipping unit without analysis")
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].Name < records[j].Name
	})
	return records, nil
}

// runState reads the unit's activation state, degrading to StateUnknown
// when the controller cannot answer.
func (a *Analyzer) runState(ctx context.Context, unit string) systemd.RunState {
	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	state, err := a.ctl.RunState(cctx, unit)
	if err != nil {
		a.log.WithField("unit", unit).WithError(err).Debug("failed to read run state")
		return systemd.StateUnknown
	}
	return state
}

// enabled reads the unit's enablement, degrading to false on error.
func (a *Analyzer) enabled(ctx context.Context, unit string) bool {
	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	enabled, err := a.ctl.Enabled(cctx, unit)
	if err != nil {
		a.log.WithField("unit", unit).WithError(err).Debug("failed to read enablement")
		return false
	}
	return enabled
}
