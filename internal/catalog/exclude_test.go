package catalog

import "testing"

func TestExclusionsMatch(t *testing.T) {
	e := Exclusions{
		Patterns: []string{"systemd-*", "dbus.service"},
		Reasons: map[string]string{
			"systemd-*":    "init internals",
			"dbus.service": "message bus",
		},
	}

	cases := []struct {
		service    string
		excluded   bool
		wantReason string
	}{
		{"systemd-journald.service", true, "init internals"},
		{"systemd-networkd.service", true, "init internals"},
		{"dbus.service", true, "message bus"},
		{"nginx.service", false, ""},
		{"mysystemd.service", false, ""},
		{"dbus-broker.service", false, ""},
	}
	for _, tc := range cases {
		reason, excluded := e.Match(tc.service)
		if excluded != tc.excluded {
			t.Fatalf("%s: expected excluded=%v, got %v", tc.service, tc.excluded, excluded)
		}
		if reason != tc.wantReason {
			t.Fatalf("%s: expected reason %q, got %q", tc.service, tc.wantReason, reason)
		}
	}
}

func TestExclusionsMatchWithoutReason(t *testing.T) {
	e := Exclusions{Patterns: []string{"a.service"}}
	reason, excluded := e.Match("a.service")
	if !excluded {
		t.Fatal("expected match")
	}
	if reason != "" {
		t.Fatalf("expected empty reason, got %q", reason)
	}
}

func TestExclusionsBareStarMatchesEverything(t *testing.T) {
	e := Exclusions{Patterns: []string{"*"}}
	if _, excluded := e.Match("anything.service"); !excluded {
		t.Fatal("a bare '*' pattern must match every service")
	}
}
