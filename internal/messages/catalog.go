package messages

// Catalog loading and validation.
const (
	CatalogReadFmt             = "failed to read %s: %v"
	CatalogInvalidYAMLFmt      = "invalid YAML in %s: %v"
	CatalogTemplateFmt         = "failed to read embedded default %s: %v"
	CatalogNoProfilesFmt       = "%s declares no profiles"
	CatalogProfileNameEmpty    = "%s: profile names must not be empty"
	CatalogDescriptionFmt      = "%s: profile %q has no description"
	CatalogNoDirectivesFmt     = "%s: profile %q has no overrides"
	CatalogDirectiveKeyFmt     = "%s: profile %q contains an empty directive key"
	CatalogUnknownDirectiveFmt = "%s: profile %q uses unknown directive %q"
	CatalogDuplicateKeyFmt     = "%s: profile %q sets %q twice"
	CatalogMappingProfileFmt   = "%s: service %q is mapped to undeclared profile %q"
	CatalogPatternEmptyFmt     = "%s: exclusion patterns must not be empty"
	CatalogPatternWildcardFmt  = "%s: exclusion pattern %q may only use '*' as a trailing wildcard"
	CatalogReasonOrphanFmt     = "%s: exclusion reason given for unlisted pattern %q"

	CatalogNoExplanation = "No description available."
)
