package doctor

import (
	"context"
	"fmt"
	"os/exec"

	"golang.org/x/sys/unix"

	"github.com/unitshield/unitshield/internal/catalog"
	"github.com/unitshield/unitshield/internal/config"
	"github.com/unitshield/unitshield/internal/messages"
	"github.com/unitshield/unitshield/internal/systemd"
)

var (
	isRunningSystemdFunc = systemd.IsRunningSystemd
	lookPathFunc         = exec.LookPath
	probeBusFunc         = systemd.ProbeBus
	accessFunc           = unix.Access
	loadCatalogFunc      = catalog.Load
	loadSettingsFunc     = config.LoadSettings
)

// CheckSystemd verifies that the host booted with systemd as init.
func CheckSystemd() Result {
	if !isRunningSystemdFunc() {
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckSystemd,
			Message:        messages.DoctorSystemdMissing,
			Recommendation: messages.DoctorSystemdRecommend,
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckSystemd,
		Message:   messages.DoctorSystemdRunning,
	}
}

// CheckBinaries verifies the systemd tooling is on PATH. A missing
// systemd-analyze makes scoring impossible and fails the check; a
// missing systemctl only removes the bus fallback and warns.
func CheckBinaries() []Result {
	binaries := []struct {
		checkName string
		binary    string
		missing   Status
	}{
		{checkName: messages.DoctorCheckAnalyze, binary: "systemd-analyze", missing: StatusFail},
		{checkName: messages.DoctorCheckSystemctl, binary: "systemctl", missing: StatusWarn},
	}

	var results []Result
	for _, b := range binaries {
		path, err := lookPathFunc(b.binary)
		if err != nil {
			results = append(results, Result{
				Status:         b.missing,
				CheckName:      b.checkName,
				Message:        fmt.Sprintf(messages.DoctorBinaryMissingFmt, b.binary),
				Recommendation: messages.DoctorBinaryRecommend,
			})
			continue
		}
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: b.checkName,
			Message:   fmt.Sprintf(messages.DoctorBinaryFoundFmt, path),
		})
	}
	return results
}

// CheckBus probes direct manager bus access. Failure is a warning, not
// an error: every operation can fall back to systemctl.
func CheckBus(ctx context.Context, user bool) Result {
	busName := "system"
	if user {
		busName = "user"
	}
	if err := probeBusFunc(ctx, user); err != nil {
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckBus,
			Message:        fmt.Sprintf(messages.DoctorBusFailFmt, busName, err),
			Recommendation: messages.DoctorBusRecommend,
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckBus,
		Message:   fmt.Sprintf(messages.DoctorBusOKFmt, busName),
	}
}

// CheckOverrideDir verifies the override base directory is writable.
// Doctor is commonly run unprivileged, so a read-only directory is a
// warning rather than a failure.
func CheckOverrideDir(base string) Result {
	if err := accessFunc(base, unix.W_OK); err != nil {
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckOverrideDir,
			Message:        fmt.Sprintf(messages.DoctorNotWritableFmt, base),
			Recommendation: messages.DoctorWritableRecommend,
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckOverrideDir,
		Message:   fmt.Sprintf(messages.DoctorWritableFmt, base),
	}
}

// CheckCatalog loads and validates the profile catalog.
func CheckCatalog(paths config.Paths) Result {
	cat, err := loadCatalogFunc(paths.ProfilesPath, paths.ExclusionsPath)
	if err != nil {
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckCatalog,
			Message:        fmt.Sprintf(messages.DoctorCatalogFailFmt, err),
			Recommendation: messages.DoctorCatalogRecommend,
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckCatalog,
		Message:   fmt.Sprintf(messages.DoctorCatalogOKFmt, cat.Profiles.Len(), len(cat.Exclusions.Patterns)),
	}
}

// CheckSettings loads and validates the settings file.
func CheckSettings(path string) Result {
	if _, err := loadSettingsFunc(path); err != nil {
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckSettings,
			Message:        fmt.Sprintf(messages.DoctorSettingsFailFmt, err),
			Recommendation: messages.DoctorCatalogRecommend,
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckSettings,
		Message:   messages.DoctorSettingsOK,
	}
}

// Run executes every check against the given paths and returns the
// results in display order.
func Run(ctx context.Context, user bool, paths config.Paths) []Result {
	results := []Result{CheckSystemd()}
	results = append(results, CheckBinaries()...)
	results = append(results, CheckBus(ctx, user))
	results = append(results, CheckOverrideDir(paths.OverrideBase))
	results = append(results, CheckCatalog(paths))
	results = append(results, CheckSettings(paths.SettingsPath))
	return results
}
