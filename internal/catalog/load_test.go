package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validProfiles = `profiles:
  web:
    description: "Network daemons"
    overrides:
      NoNewPrivileges: "yes"
      PrivateTmp: "yes"
  locked:
    description: "No network"
    overrides:
      IPAddressDeny: "any"
      NoNewPrivileges: "yes"
service_mappings:
  nginx.service: web
`

const validExclusions = `excluded_services:
  - systemd-*
  - dbus.service
exclusion_reasons:
  dbus.service: "Needed to talk to systemd"
`

func TestParseValidCatalog(t *testing.T) {
	c, err := Parse([]byte(validProfiles), "profiles.yaml", []byte(validExclusions), "exclusions.yaml")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if c.Profiles.Len() != 2 {
		t.Fatalf("expected 2 profiles, got %d", c.Profiles.Len())
	}
	if got := c.Profiles.Names(); got[0] != "web" || got[1] != "locked" {
		t.Fatalf("expected document order [web locked], got %v", got)
	}
	if c.Mappings["nginx.service"] != "web" {
		t.Fatalf("expected nginx.service mapped to web, got %q", c.Mappings["nginx.service"])
	}
}

func TestParsePreservesDirectiveOrder(t *testing.T) {
	c, err := Parse([]byte(validProfiles), "profiles.yaml", []byte(validExclusions), "exclusions.yaml")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	prof, ok := c.Profiles.Get("locked")
	if !ok {
		t.Fatal("expected profile locked")
	}
	want := []Directive{
		{Key: "IPAddressDeny", Value: "any"},
		{Key: "NoNewPrivileges", Value: "yes"},
	}
	if len(prof.Directives) != len(want) {
		t.Fatalf("expected %d directives, got %d", len(want), len(prof.Directives))
	}
	for i, d := range want {
		if prof.Directives[i] != d {
			t.Fatalf("directive %d: expected %+v, got %+v", i, d, prof.Directives[i])
		}
	}
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	cases := []struct {
		name     string
		profiles string
		want     string
	}{
		{
			name:     "no profiles",
			profiles: "profiles: {}\n",
			want:     "declares no profiles",
		},
		{
			name: "missing description",
			profiles: "profiles:\n  web:\n    overrides:\n      NoNewPrivileges: \"yes\"\n",
			want: "has no description",
		},
		{
			name: "no overrides",
			profiles: "profiles:\n  web:\n    description: \"x\"\n",
			want: "has no overrides",
		},
		{
			name: "unknown directive",
			profiles: "profiles:\n  web:\n    description: \"x\"\n    overrides:\n      MadeUpKnob: \"yes\"\n",
			want: "unknown directive",
		},
		{
			name: "duplicate directive",
			profiles: "profiles:\n  web:\n    description: \"x\"\n    overrides:\n      PrivateTmp: \"yes\"\n      PrivateTmp: \"no\"\n",
			want: "twice",
		},
		{
			name: "mapping to undeclared profile",
			profiles: "profiles:\n  web:\n    description: \"x\"\n    overrides:\n      PrivateTmp: \"yes\"\nservice_mappings:\n  a.service: ghost\n",
			want: "undeclared profile",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.profiles), "profiles.yaml", []byte(validExclusions), "exclusions.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.want != "" && !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestParseRejectsBadExclusions(t *testing.T) {
	cases := []struct {
		name       string
		exclusions string
		want       string
	}{
		{
			name:       "inner wildcard",
			exclusions: "excluded_services:\n  - sys*d.service\n",
			want:       "trailing wildcard",
		},
		{
			name:       "empty pattern",
			exclusions: "excluded_services:\n  - \"\"\n",
			want:       "must not be empty",
		},
		{
			name:       "orphan reason",
			exclusions: "excluded_services:\n  - a.service\nexclusion_reasons:\n  b.service: \"typo\"\n",
			want:       "unlisted pattern",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(validProfiles), "profiles.yaml", []byte(tc.exclusions), "exclusions.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrCatalogInvalid) {
				t.Fatalf("expected ErrCatalogInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestParseValidationErrorsWrapSentinel(t *testing.T) {
	_, err := Parse([]byte("profiles: {}\n"), "profiles.yaml", []byte(validExclusions), "exclusions.yaml")
	if !errors.Is(err, ErrCatalogInvalid) {
		t.Fatalf("expected ErrCatalogInvalid, got %v", err)
	}
}

func TestParseSyntaxErrorIsNotValidation(t *testing.T) {
	_, err := Parse([]byte("profiles: [unclosed\n"), "profiles.yaml", []byte(validExclusions), "exclusions.yaml")
	if err == nil {
		t.Fatal("expected YAML syntax error")
	}
	if errors.Is(err, ErrCatalogInvalid) {
		t.Fatalf("syntax errors must not wrap the validation sentinel: %v", err)
	}
}

func TestLoadFallsBackToEmbeddedDefaults(t *testing.T) {
	dir := t.TempDir()
	c, err := Load(filepath.Join(dir, "profiles.yaml"), filepath.Join(dir, "exclusions.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	for _, name := range []string{DefaultProfile, NetworkProfile, CriticalProfile, VirtualizationProfile} {
		if _, ok := c.Profiles.Get(name); !ok {
			t.Fatalf("expected embedded default profile %s", name)
		}
	}
	if _, excluded := c.Exclusions.Match("systemd-journald.service"); !excluded {
		t.Fatal("expected embedded defaults to exclude systemd internals")
	}
}

func TestLoadUsesPresentFiles(t *testing.T) {
	dir := t.TempDir()
	profPath := filepath.Join(dir, "profiles.yaml")
	if err := os.WriteFile(profPath, []byte(validProfiles), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	c, err := Load(profPath, filepath.Join(dir, "exclusions.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if _, ok := c.Profiles.Get("web"); !ok {
		t.Fatal("expected profiles from the provided file")
	}
	if _, ok := c.Profiles.Get(DefaultProfile); ok {
		t.Fatal("embedded profiles must not leak in when a file is present")
	}
	// Exclusions still come from the embedded default.
	if _, excluded := c.Exclusions.Match("systemd-journald.service"); !excluded {
		t.Fatal("expected embedded default exclusions")
	}
}

func TestLoadBrokenFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	profPath := filepath.Join(dir, "profiles.yaml")
	if err := os.WriteFile(profPath, []byte("profiles: {}\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := Load(profPath, filepath.Join(dir, "exclusions.yaml")); err == nil {
		t.Fatal("a present but invalid file must not silently fall back to defaults")
	}
}
