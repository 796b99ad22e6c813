package erx

import "strings"

// Profile is a FHIR profile canonical reference split into its URL and
// version parts. Wire form is "url|version"; the version part may be
// absent.
type Profile struct {
	URL     string
	Version string
}

// ParseProfile splits a canonical profile string at the first '|'.
func ParseProfile(s string) Profile {
	url, version, _ := strings.Cut(s, "|")
	return Profile{URL: url, Version: version}
}

// Is reports whether the profile has the given URL and one of the given
// versions. With no versions it matches any version, including none.
func (p Profile) Is(url string, versions ...string) bool {
	if p.URL != url {
		return false
	}
	if len(versions) == 0 {
		return true
	}
	for _, v := range versions {
		if p.Version == v {
			return true
		}
	}
	return false
}

// String returns the canonical "url|version" form.
func (p Profile) String() string {
	if p.Version == "" {
		return p.URL
	}
	return p.URL + "|" + p.Version
}
