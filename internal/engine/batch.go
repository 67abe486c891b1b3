package engine

import "context"

// BatchOptions controls a multi-service run.
type BatchOptions struct {
	// Profile forces a profile for every service. Empty selects
	// per-service.
	Profile string
	DryRun  bool
	// Confirm is passed through to each Request.
	Confirm func(service, profile string, score float64) bool
	// Progress, when set, is called before each service is processed
	// with its position in the batch.
	Progress func(done, total int, service string)
}

// HardenAll hardens the given services in order. Individual failures do
// not stop the batch; a cancelled context does.
func (e *Engine) HardenAll(ctx context.Context, services []string, opts BatchOptions) []Result {
	results := make([]Result, 0, len(services))
	for i, service := range services {
		if ctx.Err() != nil {
			break
		}
		if opts.Progress != nil {
			opts.Progress(i, len(services), service)
		}
		results = append(results, e.Harden(ctx, Request{
			Service: service,
			Profile: opts.Profile,
			DryRun:  opts.DryRun,
			Confirm: opts.Confirm,
		}))
	}
	return results
}

// Summary tallies batch outcomes.
type Summary struct {
	Applied    int
	RolledBack int
	Skipped    int
	Failed     int
}

// Summarize counts results by outcome.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Outcome {
		case OutcomeApplied:
			s.Applied++
		case OutcomeRolledBack:
			s.RolledBack++
		case OutcomeSkipped:
			s.Skipped++
		case OutcomeFailed:
			s.Failed++
		}
	}
	return s
}
