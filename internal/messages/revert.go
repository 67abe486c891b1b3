package messages

// Revert command.
const (
	RevertUse   = "revert <service>"
	RevertShort = "Remove a hardening override from a service"
	RevertLong  = "Revert removes the drop-in override previously written for a\n" +
		"service, reloads systemd and restarts the service if it is running."

	RevertFlagYesUsage = "do not ask for confirmation"

	RevertConfirmTitleFmt = "Remove the hardening override for %s?"
	RevertConfirmDesc     = "The service will be restarted with its original configuration."
	RevertDeclined        = "revert cancelled"

	RevertNoOverrideFmt = "%s has no hardening override"
	RevertDoneFmt       = "%s %s: override removed"
	RevertLabel         = "[REVERTED]"
)
