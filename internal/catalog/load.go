package catalog

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/unitshield/unitshield/internal/messages"
	"github.com/unitshield/unitshield/internal/templates"
)

// ErrCatalogInvalid is a sentinel that wraps catalog validation failures
// (as opposed to YAML syntax or filesystem errors).
var ErrCatalogInvalid = errors.New("catalog validation failed")

type profilesFile struct {
	Profiles        Profiles          `yaml:"profiles"`
	ServiceMappings map[string]string `yaml:"service_mappings"`
}

type exclusionsFile struct {
	ExcludedServices []string          `yaml:"excluded_services"`
	ExclusionReasons map[string]string `yaml:"exclusion_reasons"`
}

// Load reads the profile and exclusion files and validates them as a
// unit. A file that does not exist falls back to the embedded default, so
// a bare system works out of the box while a present-but-broken file is
// still a hard error.
func Load(profilesPath, exclusionsPath string) (*Catalog, error) {
	profData, profSource, err := readOrTemplate(profilesPath, "profiles.yaml")
	if err != nil {
		return nil, err
	}
	exclData, exclSource, err := readOrTemplate(exclusionsPath, "exclusions.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(profData, profSource, exclData, exclSource)
}

// readOrTemplate returns the file content and the source name used in
// error messages.
func readOrTemplate(path, template string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, path, nil
	}
	if !os.IsNotExist(err) {
		return nil, "", fmt.Errorf(messages.CatalogReadFmt, path, err)
	}
	data, err = templates.Read(template)
	if err != nil {
		return nil, "", fmt.Errorf(messages.CatalogTemplateFmt, template, err)
	}
	return data, "embedded " + template, nil
}

// Parse decodes and validates catalog data. The source arguments name the
// origin of each document in error messages.
func Parse(profData []byte, profSource string, exclData []byte, exclSource string) (*Catalog, error) {
	var pf profilesFile
	if err := yaml.Unmarshal(profData, &pf); err != nil {
		return nil, fmt.Errorf(messages.CatalogInvalidYAMLFmt, profSource, err)
	}
	var ef exclusionsFile
	if err := yaml.Unmarshal(exclData, &ef); err != nil {
		return nil, fmt.Errorf(messages.CatalogInvalidYAMLFmt, exclSource, err)
	}

	c := &Catalog{
		Profiles: pf.Profiles,
		Mappings: pf.ServiceMappings,
		Exclusions: Exclusions{
			Patterns: ef.ExcludedServices,
			Reasons:  ef.ExclusionReasons,
		},
	}
	if err := c.validate(profSource, exclSource); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogInvalid, err)
	}
	return c, nil
}

func (c *Catalog) validate(profSource, exclSource string) error {
	if c.Profiles.Len() == 0 {
		return fmt.Errorf(messages.CatalogNoProfilesFmt, profSource)
	}
	for _, name := range c.Profiles.names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf(messages.CatalogProfileNameEmpty, profSource)
		}
		prof, _ := c.Profiles.Get(name)
		if strings.TrimSpace(prof.Description) == "" {
			return fmt.Errorf(messages.CatalogDescriptionFmt, profSource, name)
		}
		if len(prof.Directives) == 0 {
			return fmt.Errorf(messages.CatalogNoDirectivesFmt, profSource, name)
		}
		seen := make(map[string]struct{}, len(prof.Directives))
		for _, d := range prof.Directives {
			if d.Key == "" {
				return fmt.Errorf(messages.CatalogDirectiveKeyFmt, profSource, name)
			}
			if !KnownDirective(d.Key) {
				return fmt.Errorf(messages.CatalogUnknownDirectiveFmt, profSource, name, d.Key)
			}
			if _, dup := seen[d.Key]; dup {
				return fmt.Errorf(messages.CatalogDuplicateKeyFmt, profSource, name, d.Key)
			}
			seen[d.Key] = struct{}{}
		}
	}
	for service, profile := range c.Mappings {
		if _, ok := c.Profiles.Get(profile); !ok {
			return fmt.Errorf(messages.CatalogMappingProfileFmt, profSource, service, profile)
		}
	}
	for _, pattern := range c.Exclusions.Patterns {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf(messages.CatalogPatternEmptyFmt, exclSource)
		}
		if i := strings.Index(pattern, "*"); i >= 0 && i != len(pattern)-1 {
			return fmt.Errorf(messages.CatalogPatternWildcardFmt, exclSource, pattern)
		}
	}
	for pattern := range c.Exclusions.Reasons {
		if !slices.Contains(c.Exclusions.Patterns, pattern) {
			return fmt.Errorf(messages.CatalogReasonOrphanFmt, exclSource, pattern)
		}
	}
	return nil
}
