package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/unitshield/unitshield/internal/analyzer"
	"github.com/unitshield/unitshield/internal/catalog"
	"github.com/unitshield/unitshield/internal/config"
	"github.com/unitshield/unitshield/internal/messages"
)

func newAuditCmd(opts *rootOptions) *cobra.Command {
	var (
		threshold float64
		all       bool
	)

	cmd := &cobra.Command{
		Use:   messages.AuditUse,
		Short: messages.AuditShort,
		Long:  messages.AuditLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.buildEnv()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = env.settings.Analysis.Threshold
			}

			ctl := connectController(cmd.Context(), opts.user, env.log)
			defer func() { _ = ctl.Close() }()
			an := opts.newAnalyzer(env, ctl)
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				rec, err := an.Query(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				renderAuditTable(out, []analyzer.ServiceRecord{rec}, env.catalog)
				return nil
			}

			records, err := an.QueryAll(cmd.Context())
			if err != nil {
				return err
			}

			shown := records
			if !all {
				shown = make([]analyzer.ServiceRecord, 0, len(records))
				for _, r := range records {
					if r.Score >= threshold {
						shown = append(shown, r)
					}
				}
			}
			if len(shown) == 0 {
				fmt.Fprintln(out, messages.AuditNoServices)
			} else {
				renderAuditTable(out, shown, env.catalog)
			}

			above := 0
			for _, r := range records {
				if r.Score >= threshold {
					above++
				}
			}
			fmt.Fprintf(out, messages.AuditSummaryFmt+"\n", above, len(records), threshold)
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", config.DefaultSettings().Analysis.Threshold, messages.AuditFlagThresholdUsage)
	cmd.Flags().BoolVar(&all, "all", false, messages.AuditFlagAllUsage)

	return cmd
}

// renderAuditTable pads columns by hand because ANSI color codes inside a
// cell would throw off text/tabwriter's width accounting.
func renderAuditTable(out io.Writer, records []analyzer.ServiceRecord, cat *catalog.Catalog) {
	width := len(messages.AuditHeaderService)
	for _, r := range records {
		if len(r.Name) > width {
			width = len(r.Name)
		}
	}

	fmt.Fprintf(out, "%-*s  %-6s  %-8s  %-9s  %-7s\n", width,
		messages.AuditHeaderService, messages.AuditHeaderScore, messages.AuditHeaderLevel,
		messages.AuditHeaderState, messages.AuditHeaderEnabled)

	for _, r := range records {
		score := scoreColor(r.Score).Sprint(fmt.Sprintf("%-6.1f", r.Score))
		enabled := "no"
		if r.Enabled {
			enabled = "yes"
		}
		fmt.Fprintf(out, "%-*s  %s  %-8s  %-9s  %-7s", width,
			r.Name, score, r.Level, string(r.RunState), enabled)
		if _, excluded := cat.Exclusions.Match(r.Name); excluded {
			fmt.Fprintf(out, "  %s", color.New(color.Faint).Sprint(messages.AuditExcludedLabel))
		}
		fmt.Fprintln(out)
	}
}

func scoreColor(score float64) *color.Color {
	switch {
	case score >= 8:
		return color.New(color.FgRed)
	case score >= 5:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
