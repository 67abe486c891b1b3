// Package catalog loads the hardening profile catalog and exclusion rules
// and selects profiles for services.
package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Directive is a single [Service] key to be written into an override.
type Directive struct {
	Key   string
	Value string
}

// Profile is a named set of hardening directives.
type Profile struct {
	Description string
	Directives  []Directive
}

// Profiles holds the declared profiles in document order, so listings and
// rendered overrides are stable across runs.
type Profiles struct {
	names  []string
	byName map[string]Profile
}

// Names returns the profile names in document order.
func (p Profiles) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Get returns the named profile.
func (p Profiles) Get(name string) (Profile, bool) {
	prof, ok := p.byName[name]
	return prof, ok
}

// Len returns the number of declared profiles.
func (p Profiles) Len() int {
	return len(p.names)
}

// UnmarshalYAML decodes a profiles mapping, keeping document order for
// both the profiles themselves and each profile's directives.
func (p *Profiles) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("profiles must be a mapping")
	}
	p.names = nil
	p.byName = make(map[string]Profile, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("profile name: %w", err)
		}
		var prof Profile
		if err := node.Content[i+1].Decode(&prof); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
		if _, dup := p.byName[name]; dup {
			return fmt.Errorf("profile %q declared twice", name)
		}
		p.names = append(p.names, name)
		p.byName[name] = prof
	}
	return nil
}

// UnmarshalYAML decodes a single profile, preserving the override order
// from the document.
func (prof *Profile) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Description string    `yaml:"description"`
		Overrides   yaml.Node `yaml:"overrides"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	prof.Description = raw.Description
	prof.Directives = nil
	if raw.Overrides.Kind == 0 || raw.Overrides.IsZero() {
		return nil
	}
	if raw.Overrides.Kind != yaml.MappingNode {
		return fmt.Errorf("overrides must be a mapping")
	}
	for i := 0; i+1 < len(raw.Overrides.Content); i += 2 {
		var key, value string
		if err := raw.Overrides.Content[i].Decode(&key); err != nil {
			return fmt.Errorf("override key: %w", err)
		}
		if err := raw.Overrides.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("override %q: value must be a string: %w", key, err)
		}
		prof.Directives = append(prof.Directives, Directive{Key: key, Value: value})
	}
	return nil
}

// Catalog is the loaded profile catalog plus exclusion rules.
type Catalog struct {
	Profiles   Profiles
	Mappings   map[string]string
	Exclusions Exclusions
}
