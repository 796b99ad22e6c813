package extract

import (
	"errors"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
	"github.com/gofhir/erx/temporal"
)

// ExtractTask reads a workflow Task resource. Both the current gematik
// profiles (1.2 and later carried under GEM_ERP_PR_Task) and the legacy
// ErxTask shape are supported; they differ in identifier systems and
// extension URLs but funnel into the same continuation.
func ExtractTask[R any](resource any, onTask TaskFn[R]) (R, error) {
	var zero R
	profile, ok := profileOf(resource)
	if !ok {
		return zero, erx.RequiredIssue("meta.profile", "task declares no profile")
	}
	switch {
	case profile.Is(profileGemTask):
		return extractTaskFields(resource, onTask,
			systemPrescriptionID, systemAccessCode, extGemExpiryDate, extGemAcceptDate)
	case profile.Is(profileLegacyTask):
		return extractTaskFields(resource, onTask,
			systemLegacyPrescriptionID, systemLegacyAccessCode, extLegacyExpiryDate, extLegacyAcceptDate)
	default:
		return zero, erx.UnknownVariantIssue("meta.profile", "unsupported task profile "+profile.String())
	}
}

func extractTaskFields[R any](
	resource any,
	onTask TaskFn[R],
	prescriptionIDSystem, accessCodeSystem, expiryExt, acceptExt string,
) (R, error) {
	var zero R
	taskID, err := identifierValue(resource, prescriptionIDSystem)
	if err != nil {
		return zero, err
	}
	if taskID == nil {
		// Early servers carried the prescription id only as the
		// resource id.
		id, err := fhirjson.OptStringAt(resource, "id")
		if err != nil {
			return zero, erx.MalformedIssue("id", "task id is not a string", err)
		}
		if id == nil {
			return zero, erx.RequiredIssue("identifier", "task carries no prescription id")
		}
		taskID = id
	}
	accessCode, err := identifierValue(resource, accessCodeSystem)
	if err != nil {
		return zero, err
	}
	statusCode, err := fhirjson.StringAt(resource, "status")
	if err != nil {
		return zero, erx.MalformedIssue("status", "task status is not a string", err)
	}
	status, err := erx.ParseTaskStatus(statusCode)
	if err != nil {
		return zero, err
	}
	lastModified, err := optionalTemporal(resource, "lastModified")
	if err != nil {
		return zero, err
	}
	authoredOn, err := optionalTemporal(resource, "authoredOn")
	if err != nil {
		return zero, err
	}
	expiresOn, err := extensionDate(resource, expiryExt)
	if err != nil {
		return zero, err
	}
	acceptUntil, err := extensionDate(resource, acceptExt)
	if err != nil {
		return zero, err
	}

	// Only populated from workflow 1.3 onwards.
	var lastMedicationDispense *temporal.Value
	if ext, ok := extensionByURL(resource, extGemLastMedDispense); ok {
		raw, err := fhirjson.OptStringAt(ext, "valueInstant")
		if err != nil {
			return zero, erx.MalformedIssue("extension.valueInstant", "dispense timestamp is not a string", err)
		}
		if raw != nil {
			v, err := temporal.ParseInstant(*raw)
			if err != nil {
				return zero, erx.MalformedIssue("extension.valueInstant", "dispense timestamp is not an instant", err)
			}
			lastMedicationDispense = &v
		}
	}

	return onTask(*taskID, accessCode, lastModified, expiresOn, acceptUntil, authoredOn, status, lastMedicationDispense), nil
}

// ExtractTaskIDs walks a Task bundle and collects the prescription ids
// of all Task entries, along with the bundle's declared total. The
// total may differ from the number of entries on partial pages.
func ExtractTaskIDs(bundle any) (total int, ids []string, err error) {
	total, err = fhirjson.IntAt(bundle, "total")
	if errors.Is(err, fhirjson.ErrAbsent) {
		total, err = 0, nil
	}
	if err != nil {
		return 0, nil, erx.MalformedIssue("total", "bundle total is not an integer", err)
	}
	for resource := range fhirjson.FilterWith(
		fhirjson.FindAll(bundle, "entry.resource"),
		"resourceType",
		fhirjson.StringValue("Task"),
	) {
		id, err := identifierValue(resource, systemPrescriptionID, systemLegacyPrescriptionID)
		if err != nil {
			return 0, nil, err
		}
		if id == nil {
			raw, err := fhirjson.OptStringAt(resource, "id")
			if err != nil {
				return 0, nil, erx.MalformedIssue("id", "task id is not a string", err)
			}
			id = raw
		}
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return total, ids, nil
}

func optionalTemporal(node any, path string) (*temporal.Value, error) {
	raw, err := fhirjson.OptStringAt(node, path)
	if err != nil {
		return nil, erx.MalformedIssue(path, "timestamp is not a string", err)
	}
	if raw == nil {
		return nil, nil
	}
	v, err := temporal.Parse(*raw)
	if err != nil {
		return nil, erx.MalformedIssue(path, "value is not a FHIR temporal", err)
	}
	return &v, nil
}

func extensionDate(node any, url string) (*temporal.Value, error) {
	ext, ok := extensionByURL(node, url)
	if !ok {
		return nil, nil
	}
	raw, err := fhirjson.OptStringAt(ext, "valueDate")
	if err != nil {
		return nil, erx.MalformedIssue("extension.valueDate", "date is not a string", err)
	}
	if raw == nil {
		return nil, nil
	}
	v, err := temporal.ParseDate(*raw)
	if err != nil {
		return nil, erx.MalformedIssue("extension.valueDate", "value is not a FHIR date", err)
	}
	return &v, nil
}
