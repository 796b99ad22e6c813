package erx

import (
	"fmt"
)

// IssueSeverity represents the severity of an extraction issue.
type IssueSeverity string

const (
	// SeverityError indicates the affected value could not be extracted.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a tolerated anomaly that was worked around.
	SeverityWarning IssueSeverity = "warning"
)

// IssueCode classifies what went wrong during extraction.
type IssueCode string

const (
	// CodeRequired indicates a required field is missing from the source.
	CodeRequired IssueCode = "required"
	// CodeMalformed indicates a field is present but has the wrong shape,
	// e.g. a non-numeric quantity value or an undecodable base64 payload.
	CodeMalformed IssueCode = "malformed"
	// CodeUnknownVariant indicates a coded or profile value that matches
	// none of the supported cases and has no safe domain default.
	CodeUnknownVariant IssueCode = "unknown-variant"
	// CodeEntryFailed indicates a bundle entry whose resource failed to
	// extract; the aggregation around it continued.
	CodeEntryFailed IssueCode = "entry-failed"
)

// Issue represents a single extraction failure. It implements error and
// supports errors.Is/errors.As via Unwrap.
type Issue struct {
	// Severity of the issue
	Severity IssueSeverity

	// Code identifying the failure class
	Code IssueCode

	// Path is the dot-qualified location in the source document
	Path string

	// Diagnostics contains human-readable details
	Diagnostics string

	// Cause is the underlying error, if any
	Cause error
}

// Error implements the error interface.
func (i *Issue) Error() string {
	msg := fmt.Sprintf("%s: %s", i.Code, i.Diagnostics)
	if i.Path != "" {
		msg += " at " + i.Path
	}
	if i.Cause != nil {
		msg += ": " + i.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (i *Issue) Unwrap() error {
	return i.Cause
}

// IsError returns true if this is an error issue.
func (i *Issue) IsError() bool {
	return i.Severity == SeverityError
}

// RequiredIssue creates an error issue for a missing required field.
func RequiredIssue(path, diagnostics string) *Issue {
	return &Issue{Severity: SeverityError, Code: CodeRequired, Path: path, Diagnostics: diagnostics}
}

// MalformedIssue creates an error issue for a field with the wrong shape.
func MalformedIssue(path, diagnostics string, cause error) *Issue {
	return &Issue{Severity: SeverityError, Code: CodeMalformed, Path: path, Diagnostics: diagnostics, Cause: cause}
}

// UnknownVariantIssue creates an error issue for an unrecognized coded value.
func UnknownVariantIssue(path, diagnostics string) *Issue {
	return &Issue{Severity: SeverityError, Code: CodeUnknownVariant, Path: path, Diagnostics: diagnostics}
}

// EntryIssue wraps a per-entry bundle failure.
func EntryIssue(index int, cause error) *Issue {
	return &Issue{
		Severity:    SeverityError,
		Code:        CodeEntryFailed,
		Path:        fmt.Sprintf("entry[%d]", index),
		Diagnostics: "bundle entry skipped",
		Cause:       cause,
	}
}
