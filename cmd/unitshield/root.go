package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/unitshield/unitshield/internal/analyzer"
	"github.com/unitshield/unitshield/internal/catalog"
	"github.com/unitshield/unitshield/internal/config"
	"github.com/unitshield/unitshield/internal/engine"
	"github.com/unitshield/unitshield/internal/messages"
	"github.com/unitshield/unitshield/internal/overlay"
	"github.com/unitshield/unitshield/internal/prompt"
	"github.com/unitshield/unitshield/internal/systemd"
)

// Swapped by tests so command logic can run without a live systemd.
var (
	connectController = systemd.Connect
	geteuid           = os.Geteuid
	newPrompter       = func() prompt.Prompter { return prompt.NewHuhPrompter() }
	newSystem         = func() analyzer.System { return analyzer.RealSystem{} }
)

// rootOptions carries the persistent flag values into subcommands.
type rootOptions struct {
	verbose   bool
	user      bool
	configDir string
	noColor   bool

	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{log: logrus.New()}

	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.log.SetOutput(cmd.ErrOrStderr())
			opts.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
			if opts.verbose {
				opts.log.SetLevel(logrus.DebugLevel)
			} else {
				opts.log.SetLevel(logrus.WarnLevel)
			}
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, messages.FlagVerboseUsage)
	pf.BoolVar(&opts.user, "user", false, messages.FlagUserUsage)
	pf.StringVar(&opts.configDir, "config-dir", "", messages.FlagConfigDirUsage)
	pf.BoolVar(&opts.noColor, "no-color", false, messages.FlagNoColorUsage)

	cmd.AddCommand(
		newAuditCmd(opts),
		newHardenCmd(opts),
		newRevertCmd(opts),
		newProfilesCmd(opts),
		newDoctorCmd(opts),
	)

	return cmd
}

// appEnv bundles everything a command needs once flags are parsed.
type appEnv struct {
	paths    config.Paths
	settings config.Settings
	catalog  *catalog.Catalog
	log      *logrus.Logger
}

func (o *rootOptions) resolvePaths() (config.Paths, error) {
	if o.user {
		return config.UserPaths(o.configDir)
	}
	return config.SystemPaths(o.configDir), nil
}

func (o *rootOptions) buildEnv() (*appEnv, error) {
	paths, err := o.resolvePaths()
	if err != nil {
		return nil, err
	}
	settings, err := config.LoadSettings(paths.SettingsPath)
	if err != nil {
		return nil, fmt.Errorf(messages.ErrLoadSettingsFmt, err)
	}
	cat, err := catalog.Load(paths.ProfilesPath, paths.ExclusionsPath)
	if err != nil {
		return nil, fmt.Errorf(messages.ErrLoadCatalogFmt, err)
	}
	return &appEnv{paths: paths, settings: settings, catalog: cat, log: o.log}, nil
}

// requireRoot gates operations that write under /etc. The per-user
// instance and dry runs stay unprivileged.
func (o *rootOptions) requireRoot(dryRun bool) error {
	if o.user || dryRun {
		return nil
	}
	if geteuid() != 0 {
		return errors.New(messages.ErrRootRequired)
	}
	return nil
}

func (o *rootOptions) newAnalyzer(env *appEnv, ctl systemd.Controller) *analyzer.Analyzer {
	return analyzer.New(newSystem(), ctl, env.settings.CommandTimeout(), env.log)
}

func (o *rootOptions) newEngine(env *appEnv, ctl systemd.Controller) *engine.Engine {
	writer := overlay.NewWriter(env.paths.OverrideBase)
	return engine.New(o.newAnalyzer(env, ctl), env.catalog, writer, ctl,
		env.settings.SettleDelay(), env.settings.CommandTimeout(), env.log)
}
