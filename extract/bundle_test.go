package extract

import (
	"errors"
	"testing"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
)

func TestExtractBundleOrderAndErrors(t *testing.T) {
	bundle := mustDecode(t, `{
		"resourceType": "Bundle",
		"total": 10,
		"entry": [
			{"resource": {"id": "a"}},
			{"resource": {"id": 42}},
			{"resource": {"id": "b"}},
			{"no-resource": true},
			{"resource": {"id": "c"}}
		]
	}`)

	var reported []error
	total, items, err := ExtractBundle(bundle, func(resource any) (string, bool, error) {
		id, err := fhirjson.StringAt(resource, "id")
		if err != nil {
			return "", false, erx.MalformedIssue("id", "id is not a string", err)
		}
		return id, true, nil
	}, func(entry any, err error) {
		reported = append(reported, err)
	})
	if err != nil {
		t.Fatalf("ExtractBundle returned error: %v", err)
	}

	if total != 10 {
		t.Errorf("total = %d, want the declared value even when entries differ", total)
	}
	if len(items) != 3 || items[0] != "a" || items[1] != "b" || items[2] != "c" {
		t.Errorf("items = %v, want document order with the failing entry skipped", items)
	}
	if len(reported) != 1 {
		t.Fatalf("onError fired %d times, want 1", len(reported))
	}
	var issue *erx.Issue
	if !errors.As(reported[0], &issue) {
		t.Fatalf("reported error = %v, want *erx.Issue", reported[0])
	}
	if issue.Code != erx.CodeEntryFailed {
		t.Errorf("issue code = %v, want entry-failed", issue.Code)
	}
	if issue.Path != "entry[1]" {
		t.Errorf("issue path = %q, want the offending entry index", issue.Path)
	}
}

func TestExtractBundleAbsentTotal(t *testing.T) {
	total, items, err := ExtractBundle(mustDecode(t, `{"resourceType": "Bundle"}`),
		func(resource any) (int, bool, error) { return 0, true, nil }, nil)
	if err != nil {
		t.Fatalf("ExtractBundle returned error: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Errorf("empty bundle must yield zero total and no items, got %d/%v", total, items)
	}
}

func TestExtractBundleExcludeWithoutError(t *testing.T) {
	bundle := mustDecode(t, `{
		"entry": [
			{"resource": {"keep": true}},
			{"resource": {"keep": false}},
			{"resource": {"keep": true}}
		]
	}`)
	_, items, err := ExtractBundle(bundle, func(resource any) (bool, bool, error) {
		keep, kerr := fhirjson.BoolAt(resource, "keep")
		if kerr != nil {
			return false, false, kerr
		}
		return keep, keep, nil
	}, func(any, error) {
		t.Error("onError must not fire for entries the extractor merely excludes")
	})
	if err != nil {
		t.Fatalf("ExtractBundle returned error: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("got %d items, want 2", len(items))
	}
}
