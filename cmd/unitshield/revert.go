package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/unitshield/unitshield/internal/messages"
	"github.com/unitshield/unitshield/internal/prompt"
	"github.com/unitshield/unitshield/internal/systemd"
)

func newRevertCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   messages.RevertUse,
		Short: messages.RevertShort,
		Long:  messages.RevertLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.buildEnv()
			if err != nil {
				return err
			}
			if err := opts.requireRoot(false); err != nil {
				return err
			}
			service := systemd.UnitName(args[0])
			out := cmd.OutOrStdout()

			if !yes {
				prompter := newPrompter()
				ok, err := prompter.Confirm(
					fmt.Sprintf(messages.RevertConfirmTitleFmt, service),
					messages.RevertConfirmDesc)
				if err != nil {
					if errors.Is(err, prompt.ErrAborted) {
						fmt.Fprintln(out, messages.RevertDeclined)
						return nil
					}
					return err
				}
				if !ok {
					fmt.Fprintln(out, messages.RevertDeclined)
					return nil
				}
			}

			ctl := connectController(cmd.Context(), opts.user, env.log)
			defer func() { _ = ctl.Close() }()
			eng := opts.newEngine(env, ctl)

			res, err := eng.Revert(cmd.Context(), service)
			if err != nil {
				return err
			}
			if !res.Removed {
				fmt.Fprintf(out, messages.RevertNoOverrideFmt+"\n", res.Service)
				return nil
			}
			fmt.Fprintf(out, messages.RevertDoneFmt+"\n",
				color.GreenString(messages.RevertLabel), res.Service)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, messages.RevertFlagYesUsage)

	return cmd
}
