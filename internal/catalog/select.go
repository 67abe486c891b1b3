package catalog

import "strings"

// Default profile names used by the selection heuristics. A custom
// catalog that drops one of these simply makes the affected heuristic
// select a profile the engine will reject as unknown.
const (
	NetworkProfile        = "network_service"
	VirtualizationProfile = "virtualization_service"
	CriticalProfile       = "critical_service"
	DefaultProfile        = "system_service"
)

var heuristics = []struct {
	profile   string
	fragments []string
}{
	{NetworkProfile, []string{"network", "wpa", "dhcp"}},
	{VirtualizationProfile, []string{"docker", "libvirt", "virtual"}},
	{CriticalProfile, []string{"dbus", "gdm", "login"}},
}

// ProfileFor returns the profile name to use for a service. An explicit
// service mapping wins; otherwise the unit name is matched against the
// built-in heuristics, falling back to the default profile.
func (c *Catalog) ProfileFor(service string) string {
	if name, ok := c.Mappings[service]; ok {
		return name
	}
	for _, rule := range heuristics {
		for _, fragment := range rule.fragments {
			if strings.Contains(service, fragment) {
				return rule.profile
			}
		}
	}
	return DefaultProfile
}
