package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/unitshield/unitshield/internal/doctor"
	"github.com/unitshield/unitshield/internal/messages"
)

// Swapped by tests to avoid probing the host.
var doctorRun = doctor.Run

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.DoctorUse,
		Short: messages.DoctorShort,
		Long:  messages.DoctorLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := opts.resolvePaths()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			results := doctorRun(cmd.Context(), opts.user, paths)
			for _, r := range results {
				printCheckResult(out, r)
			}

			if n := doctor.CountFailed(results); n > 0 {
				fmt.Fprintln(out, color.RedString(fmt.Sprintf(messages.DoctorFailuresFmt, n)))
				return &SilentExitError{Code: 1}
			}
			fmt.Fprintln(out, color.GreenString(messages.DoctorAllGood))
			return nil
		},
	}
}

func printCheckResult(out io.Writer, r doctor.Result) {
	var label string
	switch r.Status {
	case doctor.StatusOK:
		label = color.GreenString(messages.DoctorLabelOK)
	case doctor.StatusWarn:
		label = color.YellowString(messages.DoctorLabelWarn)
	case doctor.StatusFail:
		label = color.RedString(messages.DoctorLabelFail)
	}
	fmt.Fprintf(out, messages.DoctorResultFmt+"\n", label, r.CheckName, r.Message)
	if r.Recommendation != "" {
		fmt.Fprintf(out, messages.DoctorRecommendFmt+"\n", r.Recommendation)
	}
}
