package erx

import (
	"errors"
	"fmt"
	"testing"
)

func TestIssue_IsError(t *testing.T) {
	tests := []struct {
		severity IssueSeverity
		want     bool
	}{
		{SeverityError, true},
		{SeverityWarning, false},
	}

	for _, tt := range tests {
		issue := Issue{Severity: tt.severity}
		if got := issue.IsError(); got != tt.want {
			t.Errorf("Issue{Severity: %s}.IsError() = %v; want %v", tt.severity, got, tt.want)
		}
	}
}

func TestIssue_Error(t *testing.T) {
	tests := []struct {
		issue *Issue
		want  string
	}{
		{
			issue: RequiredIssue("identifier.value", "prescription id is missing"),
			want:  "required: prescription id is missing at identifier.value",
		},
		{
			issue: MalformedIssue("amount.value", "quantity is not a decimal", errors.New("parse failed")),
			want:  "malformed: quantity is not a decimal at amount.value: parse failed",
		},
		{
			issue: &Issue{Severity: SeverityError, Code: CodeMalformed, Diagnostics: "bad value"},
			want:  "malformed: bad value",
		},
	}

	for _, tt := range tests {
		if got := tt.issue.Error(); got != tt.want {
			t.Errorf("Issue.Error() = %q; want %q", got, tt.want)
		}
	}
}

func TestIssue_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	issue := MalformedIssue("status", "status is not a string", cause)

	if !errors.Is(issue, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}

	var target *Issue
	wrapped := fmt.Errorf("extracting: %w", issue)
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As should find the issue through a wrapping error")
	}
	if target.Code != CodeMalformed {
		t.Errorf("Code = %s; want %s", target.Code, CodeMalformed)
	}
}

func TestMalformedIssue_NilCause(t *testing.T) {
	issue := MalformedIssue("signature.data", "not valid base64", nil)
	if issue.Unwrap() != nil {
		t.Error("Unwrap() should be nil when no cause was given")
	}
	if got := issue.Error(); got != "malformed: not valid base64 at signature.data" {
		t.Errorf("Error() = %q", got)
	}
}

func TestEntryIssue(t *testing.T) {
	cause := RequiredIssue("id", "resource id is missing")
	issue := EntryIssue(3, cause)

	if issue.Code != CodeEntryFailed {
		t.Errorf("Code = %s; want %s", issue.Code, CodeEntryFailed)
	}
	if issue.Path != "entry[3]" {
		t.Errorf("Path = %q; want %q", issue.Path, "entry[3]")
	}
	var inner *Issue
	if !errors.As(issue.Unwrap(), &inner) || inner.Code != CodeRequired {
		t.Error("EntryIssue should wrap the per-entry cause")
	}
}

func TestIssueCode_Constants(t *testing.T) {
	// The string values are part of the diagnostic output.
	expected := map[IssueCode]string{
		CodeRequired:       "required",
		CodeMalformed:      "malformed",
		CodeUnknownVariant: "unknown-variant",
		CodeEntryFailed:    "entry-failed",
	}

	for code, want := range expected {
		if string(code) != want {
			t.Errorf("%v = %q; want %q", code, string(code), want)
		}
	}
}
