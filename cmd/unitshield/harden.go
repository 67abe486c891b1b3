package main

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/unitshield/unitshield/internal/catalog"
	"github.com/unitshield/unitshield/internal/config"
	"github.com/unitshield/unitshield/internal/engine"
	"github.com/unitshield/unitshield/internal/messages"
	"github.com/unitshield/unitshield/internal/prompt"
	"github.com/unitshield/unitshield/internal/terminal"
)

func newHardenCmd(opts *rootOptions) *cobra.Command {
	var (
		all         bool
		profileName string
		threshold   float64
		dryRun      bool
		interactive bool
		yes         bool
	)

	cmd := &cobra.Command{
		Use:   messages.HardenUse,
		Short: messages.HardenShort,
		Long:  messages.HardenLong,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !all {
				return errors.New(messages.HardenNeedTarget)
			}
			env, err := opts.buildEnv()
			if err != nil {
				return err
			}
			if err := opts.requireRoot(dryRun); err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = env.settings.Analysis.Threshold
			}
			if profileName != "" {
				if _, ok := env.catalog.Profiles.Get(profileName); !ok {
					return fmt.Errorf(messages.ProfilesUnknownFmt, profileName)
				}
			}

			ctl := connectController(cmd.Context(), opts.user, env.log)
			defer func() { _ = ctl.Close() }()
			eng := opts.newEngine(env, ctl)
			out := cmd.OutOrStdout()

			targets := args
			if all {
				an := opts.newAnalyzer(env, ctl)
				records, err := an.QueryAll(cmd.Context())
				if err != nil {
					return err
				}
				targets = nil
				for _, r := range records {
					if r.Score >= threshold {
						targets = append(targets, r.Name)
					}
				}
			}
			if len(targets) == 0 {
				fmt.Fprintln(out, messages.HardenNothingToDo)
				return nil
			}

			if dryRun {
				fmt.Fprintln(out, messages.HardenDryRunHeader)
			}

			batch := engine.BatchOptions{
				Profile: profileName,
				DryRun:  dryRun,
				Confirm: confirmFunc(env.log, interactive, yes, dryRun),
			}

			reporter := newProgressReporter(cmd.ErrOrStderr(),
				len(targets) > 1 && terminal.IsInteractive() && !opts.noColor)
			reporter.start()
			batch.Progress = reporter.update
			results := eng.HardenAll(cmd.Context(), targets, batch)
			reporter.stop()

			for _, res := range results {
				printHardenResult(out, res)
			}
			if !all && len(results) == 1 && results[0].Outcome == engine.OutcomeApplied {
				explainDirectives(out, env.catalog, results[0].Profile)
			}
			if err := cmd.Context().Err(); err != nil {
				return err
			}

			sum := engine.Summarize(results)
			if !dryRun {
				fmt.Fprintf(out, messages.HardenSummaryFmt+"\n",
					sum.Applied, sum.RolledBack, sum.Skipped, sum.Failed)
			}
			if sum.Failed > 0 {
				return &SilentExitError{Code: 1}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&all, "all", false, messages.HardenFlagAllUsage)
	f.StringVar(&profileName, "profile", "", messages.HardenFlagProfileUsage)
	f.Float64Var(&threshold, "threshold", config.DefaultSettings().Analysis.Threshold, messages.HardenFlagThresholdUsage)
	f.BoolVar(&dryRun, "dry-run", false, messages.HardenFlagDryRunUsage)
	f.BoolVar(&interactive, "interactive", false, messages.HardenFlagInteractiveUsage)
	f.BoolVar(&yes, "yes", false, messages.HardenFlagYesUsage)

	return cmd
}

// confirmFunc builds the per-service confirmation hook. Outside
// interactive mode every service is approved, which matches the engine
// treating a nil hook as consent.
func confirmFunc(log *logrus.Logger, interactive, yes, dryRun bool) func(service, profile string, score float64) bool {
	if !interactive || yes || dryRun {
		return nil
	}
	prompter := newPrompter()
	return func(service, profile string, score float64) bool {
		ok, err := prompter.Confirm(
			fmt.Sprintf(messages.HardenConfirmTitleFmt, service, profile),
			fmt.Sprintf(messages.HardenConfirmDescFmt, score))
		if err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return false
			}
			log.WithError(err).Warn("confirmation unavailable, skipping service")
			return false
		}
		return ok
	}
}

func printHardenResult(out io.Writer, res engine.Result) {
	switch res.Outcome {
	case engine.OutcomeApplied:
		label := color.GreenString(messages.HardenLabelApplied)
		if res.Rescored {
			fmt.Fprintf(out, messages.HardenAppliedFmt+"\n",
				label, res.Service, res.Profile, res.ScoreBefore, res.ScoreAfter)
		} else {
			fmt.Fprintf(out, messages.HardenAppliedNoRescoreFmt+"\n",
				label, res.Service, res.Profile)
		}
	case engine.OutcomeRolledBack:
		fmt.Fprintf(out, messages.HardenRolledBackFmt+"\n",
			color.YellowString(messages.HardenLabelRolledBack), res.Service, reasonDetail(res))
	case engine.OutcomeSkipped:
		if res.Reason == engine.ReasonDryRun {
			fmt.Fprintf(out, messages.HardenDryRunFmt+"\n", res.Service, res.Profile)
			if res.Preview != "" {
				fmt.Fprintln(out, res.Preview)
			}
			return
		}
		fmt.Fprintf(out, messages.HardenSkippedFmt+"\n",
			color.CyanString(messages.HardenLabelSkipped), res.Service, reasonDetail(res))
	case engine.OutcomeFailed:
		fmt.Fprintf(out, messages.HardenFailedFmt+"\n",
			color.RedString(messages.HardenLabelFailed), res.Service, reasonDetail(res))
	}
}

// explainDirectives recaps what a profile changes after a single service
// harden. Batch output stays compact.
func explainDirectives(out io.Writer, cat *catalog.Catalog, profileName string) {
	prof, ok := cat.Profiles.Get(profileName)
	if !ok {
		return
	}
	fmt.Fprintf(out, messages.HardenExplainHeaderFmt+"\n", profileName)
	for _, d := range prof.Directives {
		fmt.Fprintf(out, messages.ProfilesShowDirectiveFmt+"\n", d.Key, d.Value)
		fmt.Fprintf(out, messages.ProfilesShowExplainFmt+"\n",
			color.New(color.Faint).Sprint(catalog.Explain(d.Key)))
	}
}

func reasonDetail(res engine.Result) string {
	s := res.Reason
	if res.Detail != "" {
		s += ": " + res.Detail
	}
	if res.Err != nil {
		s += ": " + res.Err.Error()
	}
	return s
}

var spinnerFrames = []string{"|", "/", "-", "\\"}

// progressReporter prints batch progress on stderr, animating a single
// line when attached to a terminal and falling back to one plain line per
// service otherwise.
type progressReporter struct {
	out        io.Writer
	useSpinner bool

	mu       sync.Mutex
	frameIdx int
	line     string
	rendered bool

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func newProgressReporter(out io.Writer, useSpinner bool) *progressReporter {
	return &progressReporter{
		out:        out,
		useSpinner: useSpinner,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

func (r *progressReporter) start() {
	if !r.useSpinner {
		return
	}
	go r.run()
}

func (r *progressReporter) run() {
	ticker := time.NewTicker(120 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			r.frameIdx = (r.frameIdx + 1) % len(spinnerFrames)
			r.render()
			r.mu.Unlock()
		case <-r.stopCh:
			r.mu.Lock()
			r.clearLine()
			r.mu.Unlock()
			close(r.doneCh)
			return
		}
	}
}

// update is the engine's progress callback. done counts services already
// handled, so the displayed index is done+1.
func (r *progressReporter) update(done, total int, service string) {
	line := fmt.Sprintf(messages.HardenProgressFmt, service, done+1, total)
	if !r.useSpinner {
		fmt.Fprintln(r.out, line)
		return
	}
	r.mu.Lock()
	r.line = line
	r.render()
	r.mu.Unlock()
}

// render redraws the spinner line in place. Callers hold mu.
func (r *progressReporter) render() {
	if r.line == "" {
		return
	}
	fmt.Fprintf(r.out, "\r\x1b[2K%s %s", spinnerFrames[r.frameIdx], r.line)
	r.rendered = true
}

// clearLine erases the spinner line so result output starts on a clean
// row. Callers hold mu.
func (r *progressReporter) clearLine() {
	if r.rendered {
		fmt.Fprint(r.out, "\r\x1b[2K")
	}
}

func (r *progressReporter) stop() {
	if !r.useSpinner {
		return
	}
	r.stopOnce.Do(func() {
		close(r.stopCh)
		<-r.doneCh
	})
}
