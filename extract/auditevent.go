package extract

import (
	"strings"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
	"github.com/gofhir/erx/temporal"
)

// ExtractAuditEvents walks a bundle of AuditEvent resources and hands
// each one to onAuditEvent. The description is the narrative text with
// markup stripped. The task id comes from the first entity reference
// and is nil for events that touch no prescription. Failed entries go
// to onError and are skipped.
func ExtractAuditEvents[R any](
	bundle any,
	onAuditEvent AuditEventFn[R],
	onError func(entry any, err error),
) (total int, events []R, err error) {
	return ExtractBundle(bundle, func(resource any) (R, bool, error) {
		var zero R
		resourceType, _ := fhirjson.OptStringAt(resource, "resourceType")
		if resourceType == nil || *resourceType != "AuditEvent" {
			return zero, false, nil
		}

		id, serr := fhirjson.StringAt(resource, "id")
		if serr != nil {
			return zero, false, erx.MalformedIssue("id", "audit event id is missing or not a string", serr)
		}

		var description *string
		if div, derr := fhirjson.OptStringAt(resource, "text.div"); derr == nil && div != nil {
			text := stripMarkup(*div)
			description = &text
		}

		rawRecorded, serr := fhirjson.StringAt(resource, "recorded")
		if serr != nil {
			return zero, false, erx.MalformedIssue("recorded", "recorded timestamp is missing or not a string", serr)
		}
		recorded, terr := temporal.Parse(rawRecorded)
		if terr != nil {
			return zero, false, erx.MalformedIssue("recorded", "recorded timestamp is not a FHIR temporal", terr)
		}

		var taskID *string
		if ref, rerr := fhirjson.OptStringAt(resource, "entity.what.reference"); rerr == nil && ref != nil {
			part := idPart(*ref)
			if part != "" {
				taskID = &part
			}
		}

		return onAuditEvent(id, taskID, description, recorded), true, nil
	}, onError)
}

// idPart returns the last path segment of a FHIR reference, e.g.
// "Task/160.000.000.000.000.01" yields the bare prescription id.
func idPart(reference string) string {
	if i := strings.LastIndexByte(reference, '/'); i >= 0 {
		return reference[i+1:]
	}
	return reference
}

// stripMarkup flattens a narrative div to its text content.
func stripMarkup(div string) string {
	var b strings.Builder
	depth := 0
	for _, r := range div {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
