package extract

import (
	"errors"
	"strings"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
)

// CommunicationProfileOf classifies a Communication resource as
// dispense request or reply. The legacy profiles and the workflow
// profiles 1.2 through 1.4 differ only in their URL; unknown profiles
// report false.
func CommunicationProfileOf(resource any) (erx.CommunicationProfile, bool) {
	profile, ok := profileOf(resource)
	if !ok {
		return "", false
	}
	switch {
	case profile.Is(profileGemCommDispReq), profile.Is(profileLegacyCommDispReq):
		return erx.CommunicationDispReq, true
	case profile.Is(profileGemCommReply), profile.Is(profileLegacyCommReply):
		return erx.CommunicationReply, true
	default:
		return "", false
	}
}

// ExtractCommunication reads a single Communication resource. For a
// dispense request the sender is the insured person and the recipient
// the pharmacy; a reply reverses the two. The payload is handed over as
// the raw contentString without parsing the JSON it may embed.
func ExtractCommunication[R any](resource any, onCommunication CommunicationFn[R]) (R, error) {
	var zero R
	profile, ok := CommunicationProfileOf(resource)
	if !ok {
		p, _ := profileOf(resource)
		return zero, erx.UnknownVariantIssue("meta.profile", "unsupported communication profile "+p.String())
	}
	id, err := fhirjson.StringAt(resource, "id")
	if err != nil {
		return zero, erx.MalformedIssue("id", "communication id is not a string", err)
	}
	taskID, err := communicationTaskID(resource)
	if err != nil {
		return zero, err
	}
	orderID, err := identifierValue(resource, systemOrderID)
	if err != nil {
		return zero, err
	}
	sentOn, err := optionalTemporal(resource, "sent")
	if err != nil {
		return zero, err
	}
	sender, err := fhirjson.StringAt(resource, "sender.identifier.value")
	if errors.Is(err, fhirjson.ErrAbsent) {
		sender, err = "", nil
	}
	if err != nil {
		return zero, erx.MalformedIssue("sender.identifier.value", "sender is not a string", err)
	}
	recipient, err := fhirjson.StringAt(resource, "recipient.identifier.value")
	if errors.Is(err, fhirjson.ErrAbsent) {
		recipient, err = "", nil
	}
	if err != nil {
		return zero, erx.MalformedIssue("recipient.identifier.value", "recipient is not a string", err)
	}
	payload, err := fhirjson.OptStringAt(resource, "payload.contentString")
	if err != nil {
		return zero, erx.MalformedIssue("payload.contentString", "payload is not a string", err)
	}
	return onCommunication(profile, taskID, id, orderID, sentOn, sender, recipient, payload), nil
}

// communicationTaskID splits the task id out of the basedOn reference,
// which has the form "Task/{id}" or "Task/{id}/$accept?ac={code}".
func communicationTaskID(resource any) (string, error) {
	ref, err := fhirjson.StringAt(resource, "basedOn.reference")
	if errors.Is(err, fhirjson.ErrAbsent) {
		return "", nil
	}
	if err != nil {
		return "", erx.MalformedIssue("basedOn.reference", "task reference is not a string", err)
	}
	parts := strings.Split(ref, "/")
	if len(parts) < 2 {
		return ref, nil
	}
	return parts[1], nil
}

// ExtractCommunications walks a Communication bundle. Entries with an
// unrecognized profile are skipped; entries that fail to extract go to
// onError and do not abort the rest. It returns the bundle's declared
// total and the extracted values in document order.
func ExtractCommunications[R any](
	bundle any,
	onCommunication CommunicationFn[R],
	onError func(entry any, err error),
) (total int, items []R, err error) {
	return ExtractBundle(bundle, func(resource any) (R, bool, error) {
		var zero R
		if _, ok := CommunicationProfileOf(resource); !ok {
			return zero, false, nil
		}
		r, err := ExtractCommunication(resource, onCommunication)
		if err != nil {
			return zero, false, err
		}
		return r, true, nil
	}, onError)
}
