package messages

// Settings loading and validation.
const (
	SettingsReadFmt         = "failed to read settings %s: %v"
	SettingsInvalidFmt      = "invalid TOML in %s: %v"
	SettingsUnknownKeysFmt  = "%s contains unrecognized keys: %v."
	SettingsGuidance        = "Run 'unitshield doctor' to check the configuration."
	SettingsThresholdFmt    = "%s: analysis.threshold must be between 0 and 10"
	SettingsSettleDelayFmt  = "%s: apply.settle_delay_seconds must not be negative"
	SettingsTimeoutFmt      = "%s: apply.command_timeout_seconds must be positive"
	SettingsTemplateFmt     = "failed to read embedded default settings: %v"
	SettingsHomeDirFmt      = "failed to resolve home directory: %v"
)
