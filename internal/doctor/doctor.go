// Package doctor runs environment checks that tell the operator whether
// unitshield can do its job on this host.
package doctor

// Status classifies a check outcome.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Result is the outcome of a single check.
type Result struct {
	Status         Status
	CheckName      string
	Message        string
	Recommendation string
}

// CountFailed returns how many results failed. Warnings do not count;
// they describe degraded but workable setups.
func CountFailed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Status == StatusFail {
			n++
		}
	}
	return n
}
