package erx

import (
	"testing"
)

func TestParseProfile(t *testing.T) {
	tests := []struct {
		in          string
		wantURL     string
		wantVersion string
	}{
		{
			"https://fhir.kbv.de/StructureDefinition/KBV_PR_ERP_Bundle|1.1.0",
			"https://fhir.kbv.de/StructureDefinition/KBV_PR_ERP_Bundle",
			"1.1.0",
		},
		{
			"https://gematik.de/fhir/StructureDefinition/ErxTask",
			"https://gematik.de/fhir/StructureDefinition/ErxTask",
			"",
		},
		{"", "", ""},
	}

	for _, tt := range tests {
		p := ParseProfile(tt.in)
		if p.URL != tt.wantURL || p.Version != tt.wantVersion {
			t.Errorf("ParseProfile(%q) = {%q, %q}; want {%q, %q}",
				tt.in, p.URL, p.Version, tt.wantURL, tt.wantVersion)
		}
	}
}

func TestProfile_Is(t *testing.T) {
	p := ParseProfile("https://example.org/StructureDefinition/Thing|1.2")

	if !p.Is("https://example.org/StructureDefinition/Thing") {
		t.Error("Is without versions should match any version")
	}
	if !p.Is("https://example.org/StructureDefinition/Thing", "1.1", "1.2") {
		t.Error("Is should match when one of the versions fits")
	}
	if p.Is("https://example.org/StructureDefinition/Thing", "1.1") {
		t.Error("Is should not match a version not listed")
	}
	if p.Is("https://example.org/StructureDefinition/Other", "1.2") {
		t.Error("Is should not match a different URL")
	}

	unversioned := ParseProfile("https://example.org/StructureDefinition/Thing")
	if !unversioned.Is("https://example.org/StructureDefinition/Thing") {
		t.Error("Is without versions should match a profile without version")
	}
	if unversioned.Is("https://example.org/StructureDefinition/Thing", "1.2") {
		t.Error("Is with versions should not match a profile without version")
	}
}

func TestProfile_String(t *testing.T) {
	tests := []struct {
		profile Profile
		want    string
	}{
		{Profile{URL: "https://example.org/p", Version: "1.0"}, "https://example.org/p|1.0"},
		{Profile{URL: "https://example.org/p"}, "https://example.org/p"},
		{Profile{}, ""},
	}

	for _, tt := range tests {
		if got := tt.profile.String(); got != tt.want {
			t.Errorf("Profile.String() = %q; want %q", got, tt.want)
		}
	}
}
