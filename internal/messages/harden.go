package messages

// Harden command.
const (
	HardenUse   = "harden [service...]"
	HardenShort = "Apply hardening overrides to services"
	HardenLong  = "Harden selects a profile for each target service, writes it as a\n" +
		"drop-in override, reloads systemd and verifies the service is still\n" +
		"healthy. If verification fails the override is rolled back."

	HardenFlagAllUsage       = "harden every service scoring at or above the threshold"
	HardenFlagProfileUsage   = "force a specific profile instead of automatic selection"
	HardenFlagThresholdUsage = "minimum exposure score a service must have to be hardened"
	HardenFlagDryRunUsage    = "show the override that would be written without changing anything"
	HardenFlagInteractiveUsage = "confirm each service before applying"
	HardenFlagYesUsage         = "assume yes for all confirmations"

	HardenNothingToDo  = "no services require hardening"
	HardenNeedTarget   = "name at least one service or pass --all"
	HardenDryRunHeader = "dry run, no changes will be made"
	HardenDryRunFmt    = "%s: would apply profile %s"

	HardenProgressFmt  = "hardening %s (%d/%d)"
	HardenAppliedFmt   = "%s %s: profile %s applied (score %.1f -> %.1f)"
	HardenAppliedNoRescoreFmt = "%s %s: profile %s applied"
	HardenRolledBackFmt = "%s %s: rolled back (%s)"
	HardenSkippedFmt    = "%s %s: skipped (%s)"
	HardenFailedFmt     = "%s %s: failed (%s)"

	HardenLabelApplied    = "[APPLIED]"
	HardenLabelRolledBack = "[ROLLED BACK]"
	HardenLabelSkipped    = "[SKIPPED]"
	HardenLabelFailed     = "[FAILED]"

	HardenSummaryFmt = "applied %d, rolled back %d, skipped %d, failed %d"

	HardenConfirmTitleFmt = "Harden %s with profile %q?"
	HardenConfirmDescFmt  = "Current exposure score is %.1f. A drop-in override will be written and the service restarted."

	HardenExplainHeaderFmt = "profile %s applied these directives:"
)
