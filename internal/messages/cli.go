// Package messages centralizes user-facing CLI strings so wording stays
// consistent across commands and tests can assert on exact output.
package messages

// Root command.
const (
	RootUse   = "unitshield"
	RootShort = "Audit and harden systemd services"
	RootLong  = "unitshield inspects the exposure of systemd services and applies\n" +
		"curated hardening profiles as drop-in overrides, with automatic\n" +
		"rollback when a hardened service fails to come back healthy."

	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"
)

// Persistent flags shared by all commands.
const (
	FlagVerboseUsage   = "enable diagnostic logging"
	FlagUserUsage      = "operate on the per-user systemd instance"
	FlagConfigDirUsage = "directory containing profiles.yaml and exclusions.yaml"
	FlagNoColorUsage   = "disable colored output"
)

// Common errors surfaced by the CLI layer.
const (
	ErrLoadSettingsFmt = "loading settings: %v"
	ErrLoadCatalogFmt  = "loading catalog: %v"
	ErrRootRequired    = "this operation modifies system units and requires root; re-run with sudo or use --user"

	PromptRequiresTerminal = "confirmation requires an interactive terminal; pass --yes to proceed without one"
)
