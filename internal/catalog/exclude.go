package catalog

import "strings"

// Exclusions lists services that must never be hardened automatically. A
// pattern with a trailing '*' matches any unit name sharing its prefix;
// all other patterns match exactly.
type Exclusions struct {
	Patterns []string
	Reasons  map[string]string
}

// Match reports whether service is excluded. When it is, the reason
// recorded for the matching pattern is returned; the reason may be empty
// if the catalog does not explain the exclusion.
func (e Exclusions) Match(service string) (string, bool) {
	for _, pattern := range e.Patterns {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(service, prefix) {
				return e.Reasons[pattern], true
			}
			continue
		}
		if service == pattern {
			return e.Reasons[pattern], true
		}
	}
	return "", false
}
