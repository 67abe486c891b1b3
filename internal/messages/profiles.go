package messages

// Profiles command group.
const (
	ProfilesUse   = "profiles"
	ProfilesShort = "Inspect the hardening profile catalog"

	ProfilesListUse   = "list"
	ProfilesListShort = "List available hardening profiles"

	ProfilesShowUse   = "show <profile>"
	ProfilesShowShort = "Show the directives a profile applies"

	ProfilesHeaderName        = "PROFILE"
	ProfilesHeaderDirectives  = "DIRECTIVES"
	ProfilesHeaderDescription = "DESCRIPTION"

	ProfilesShowDescriptionFmt = "%s: %s"
	ProfilesShowDirectiveFmt   = "  %s=%s"
	ProfilesShowExplainFmt     = "      %s"

	ProfilesUnknownFmt = "profile %q is not in the catalog; see \"unitshield profiles list\""
)
