package messages

// Audit command.
const (
	AuditUse   = "audit [service]"
	AuditShort = "Report exposure scores for services"
	AuditLong  = "Audit runs systemd's security analysis and reports the exposure\n" +
		"score, exposure level and run state for one service or for every\n" +
		"service on the system."

	AuditFlagThresholdUsage = "only list services scoring at or above this value"
	AuditFlagAllUsage       = "include services below the threshold"

	AuditHeaderService = "SERVICE"
	AuditHeaderScore   = "SCORE"
	AuditHeaderLevel   = "LEVEL"
	AuditHeaderState   = "STATE"
	AuditHeaderEnabled = "ENABLED"

	AuditNoServices    = "no services matched"
	AuditSummaryFmt    = "%d of %d services score at or above %.1f"
	AuditExcludedLabel = "excluded"
)
