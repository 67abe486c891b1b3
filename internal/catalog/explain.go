package catalog

import "github.com/unitshield/unitshield/internal/messages"

// directiveExplanations describes what each supported directive protects
// against. The set doubles as the list of directives a catalog may use.
var directiveExplanations = map[string]string{
	"NoNewPrivileges":        "Prevents the service and its children from gaining new privileges, for example through setuid binaries. Fundamental for containing privilege escalation.",
	"IPAddressDeny":          "Restricts network access. 'any' blocks all inbound and outbound traffic, shrinking the network attack surface.",
	"IPAddressAllow":         "Permits access only to specific addresses or ranges, following an allow-list approach.",
	"PrivateTmp":             "Gives the service a private /tmp invisible to the rest of the system, preventing shared temporary file attacks.",
	"ProtectKernelModules":   "Stops the service from loading or unloading kernel modules, protecting the integrity of the kernel.",
	"ProtectKernelTunables":  "Makes kernel variables under /proc/sys and /sys read only, so the service cannot alter kernel configuration.",
	"ProtectControlGroups":   "Stops the service from modifying control groups, so it cannot change the system's resource limits.",
	"RestrictRealtime":       "Denies realtime scheduling, which could otherwise be abused for denial of service.",
	"LockPersonality":        "Locks the execution domain, blocking 64-bit to 32-bit switches that some exploits depend on.",
	"ProtectHome":            "Restricts access to /home, /root and /run/user, protecting user data from the service.",
	"ProtectSystem":          "Makes critical directories such as /usr, /boot and /etc read only for the service.",
	"MemoryDenyWriteExecute": "Forbids memory mappings that are both writable and executable, a key mitigation against code injection.",
	"RestrictSUIDSGID":       "Prevents the creation of files with SUID or SGID bits, a common privilege escalation path.",
}

// Explain returns a short description of what a directive does.
func Explain(key string) string {
	if text, ok := directiveExplanations[key]; ok {
		return text
	}
	return messages.CatalogNoExplanation
}

// KnownDirective reports whether key is a directive profiles may use.
func KnownDirective(key string) bool {
	_, ok := directiveExplanations[key]
	return ok
}
