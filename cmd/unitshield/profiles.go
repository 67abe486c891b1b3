package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/unitshield/unitshield/internal/catalog"
	"github.com/unitshield/unitshield/internal/messages"
)

func newProfilesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.ProfilesUse,
		Short: messages.ProfilesShort,
	}
	cmd.AddCommand(newProfilesListCmd(opts), newProfilesShowCmd(opts))
	return cmd
}

func newProfilesListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ProfilesListUse,
		Short: messages.ProfilesListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := opts.buildEnv()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			names := env.catalog.Profiles.Names()
			width := len(messages.ProfilesHeaderName)
			for _, name := range names {
				if len(name) > width {
					width = len(name)
				}
			}

			fmt.Fprintf(out, "%-*s  %-10s  %s\n", width,
				messages.ProfilesHeaderName, messages.ProfilesHeaderDirectives,
				messages.ProfilesHeaderDescription)
			for _, name := range names {
				prof, _ := env.catalog.Profiles.Get(name)
				fmt.Fprintf(out, "%-*s  %-10d  %s\n", width,
					name, len(prof.Directives), prof.Description)
			}
			return nil
		},
	}
}

func newProfilesShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ProfilesShowUse,
		Short: messages.ProfilesShowShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.buildEnv()
			if err != nil {
				return err
			}
			prof, ok := env.catalog.Profiles.Get(args[0])
			if !ok {
				return fmt.Errorf(messages.ProfilesUnknownFmt, args[0])
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, messages.ProfilesShowDescriptionFmt+"\n", args[0], prof.Description)
			for _, d := range prof.Directives {
				fmt.Fprintf(out, messages.ProfilesShowDirectiveFmt+"\n", d.Key, d.Value)
				fmt.Fprintf(out, messages.ProfilesShowExplainFmt+"\n",
					color.New(color.Faint).Sprint(catalog.Explain(d.Key)))
			}
			return nil
		},
	}
}
