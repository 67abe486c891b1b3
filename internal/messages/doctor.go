package messages

// Doctor command.
const (
	DoctorUse   = "doctor"
	DoctorShort = "Check that unitshield can operate on this system"
	DoctorLong  = "Doctor verifies the environment: systemd availability, required\n" +
		"binaries, override directory permissions and catalog integrity."

	DoctorLabelOK   = "[OK]"
	DoctorLabelWarn = "[WARN]"
	DoctorLabelFail = "[FAIL]"

	DoctorCheckSystemd     = "systemd"
	DoctorCheckAnalyze     = "systemd-analyze"
	DoctorCheckSystemctl   = "systemctl"
	DoctorCheckBus         = "dbus"
	DoctorCheckOverrideDir = "override directory"
	DoctorCheckCatalog     = "catalog"
	DoctorCheckSettings    = "settings"

	DoctorSystemdRunning    = "running under systemd"
	DoctorSystemdMissing    = "systemd is not the running init system"
	DoctorSystemdRecommend  = "unitshield only works on systemd hosts"
	DoctorBinaryFoundFmt    = "found %s"
	DoctorBinaryMissingFmt  = "%s not found in PATH"
	DoctorBinaryRecommend   = "install the systemd package for your distribution"
	DoctorBusOKFmt          = "connected to the %s bus"
	DoctorBusFailFmt        = "cannot connect to the %s bus: %v"
	DoctorBusRecommend      = "commands will fall back to systemctl"
	DoctorWritableFmt       = "%s is writable"
	DoctorNotWritableFmt    = "%s is not writable"
	DoctorWritableRecommend = "run unitshield as root to apply or revert overrides"
	DoctorCatalogOKFmt      = "%d profiles, %d exclusion patterns"
	DoctorCatalogFailFmt    = "catalog rejected: %v"
	DoctorCatalogRecommend  = "fix the reported file or remove it to use the built-in defaults"
	DoctorSettingsOK        = "settings loaded"
	DoctorSettingsFailFmt   = "settings rejected: %v"

	DoctorResultFmt    = "%s %s: %s"
	DoctorRecommendFmt = "       %s"

	DoctorAllGood     = "all checks passed"
	DoctorFailuresFmt = "%d check(s) failed"
)
