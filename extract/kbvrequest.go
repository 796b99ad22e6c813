package extract

import (
	"errors"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
	"github.com/gofhir/erx/temporal"
)

func extractMedicationRequest[Org, Pat, Prac, Ins, Med, MedReq, I, P, R, Q, A any](
	resource any,
	h KBVHandlers[Org, Pat, Prac, Ins, Med, MedReq, I, P, R, Q, A],
	version erx.KBVVersion,
) (MedReq, error) {
	var zero MedReq

	// authoredOn only entered the prescription profile with 1.1.0.
	var authoredOn *temporal.Value
	if version == erx.KBV110 {
		var err error
		authoredOn, err = optionalDate(resource, "authoredOn")
		if err != nil {
			return zero, err
		}
	}

	dateOfAccident, location, accidentType, err := accidentContext(resource)
	if err != nil {
		return zero, err
	}

	var emergencyFee *bool
	if ext, ok := extensionByURL(resource, extEmergencyServicesFee); ok {
		emergencyFee, err = fhirjson.OptBoolAt(ext, "valueBoolean")
		if err != nil {
			return zero, erx.MalformedIssue("extension.valueBoolean", "emergency fee is not a bool", err)
		}
	}

	substitutionAllowed, err := fhirjson.BoolAt(resource, "substitution.allowedBoolean")
	if errors.Is(err, fhirjson.ErrAbsent) {
		substitutionAllowed, err = false, nil
	}
	if err != nil {
		return zero, erx.MalformedIssue("substitution.allowedBoolean", "substitution flag is not a bool", err)
	}

	dosageInstruction, err := fhirjson.OptStringAt(resource, "dosageInstruction.text")
	if err != nil {
		return zero, erx.MalformedIssue("dosageInstruction.text", "dosage instruction is not a string", err)
	}

	quantity, err := fhirjson.IntAt(resource, "dispenseRequest.quantity.value")
	if errors.Is(err, fhirjson.ErrAbsent) {
		quantity, err = 0, nil
	}
	if err != nil {
		return zero, erx.MalformedIssue("dispenseRequest.quantity.value", "quantity is not an integer", err)
	}

	multiplePrescriptionInfo, err := extractMultiplePrescriptionInfo(resource, h, version)
	if err != nil {
		return zero, err
	}

	note, err := fhirjson.OptStringAt(resource, "note.text")
	if err != nil {
		return zero, erx.MalformedIssue("note.text", "note is not a string", err)
	}

	bvg := false
	if ext, ok := extensionByURL(resource, extBVG); ok {
		b, err := fhirjson.OptBoolAt(ext, "valueBoolean")
		if err != nil {
			return zero, erx.MalformedIssue("extension.valueBoolean", "BVG flag is not a bool", err)
		}
		if b != nil {
			bvg = *b
		}
	}

	additionalFee, err := extensionString(resource, extStatusCoPayment, "valueCoding.code")
	if err != nil {
		return zero, err
	}

	return h.MedicationRequest(
		authoredOn,
		dateOfAccident,
		location,
		accidentType,
		emergencyFee,
		substitutionAllowed,
		dosageInstruction,
		quantity,
		multiplePrescriptionInfo,
		note,
		bvg,
		additionalFee,
	), nil
}

// accidentContext reads the nested accident extension. All of it is
// optional; a prescription without accident context yields
// (nil, nil, AccidentNone).
func accidentContext(resource any) (*temporal.Value, *string, erx.AccidentType, error) {
	accident, ok := extensionByURL(resource, extAccident)
	if !ok {
		return nil, nil, erx.AccidentNone, nil
	}
	var dateOfAccident *temporal.Value
	if ext, found := extensionByURL(accident, "unfalltag"); found {
		raw, err := fhirjson.OptStringAt(ext, "valueDate")
		if err != nil {
			return nil, nil, "", erx.MalformedIssue("extension.valueDate", "accident date is not a string", err)
		}
		if raw != nil {
			v, err := temporal.ParseDate(*raw)
			if err != nil {
				return nil, nil, "", erx.MalformedIssue("extension.valueDate", "accident date is not a FHIR date", err)
			}
			dateOfAccident = &v
		}
	}
	var location *string
	if ext, found := extensionByURL(accident, "unfallbetrieb"); found {
		var err error
		location, err = fhirjson.OptStringAt(ext, "valueString")
		if err != nil {
			return nil, nil, "", erx.MalformedIssue("extension.valueString", "accident location is not a string", err)
		}
	}
	accidentType := erx.AccidentNone
	if ext, found := extensionByURL(accident, "unfallkennzeichen"); found {
		code, err := fhirjson.OptStringAt(ext, "valueCoding.code")
		if err != nil {
			return nil, nil, "", erx.MalformedIssue("extension.valueCoding.code", "accident kind is not a string", err)
		}
		if code != nil {
			accidentType = erx.ParseAccidentType(*code)
		}
	}
	return dateOfAccident, location, accidentType, nil
}

// extractMultiplePrescriptionInfo reads the Mehrfachverordnung
// extension. The continuation fires once even when the extension is
// absent; the indicator is then false. The period end date only exists
// from 1.1.0.
func extractMultiplePrescriptionInfo[Org, Pat, Prac, Ins, Med, MedReq, I, P, R, Q, A any](
	resource any,
	h KBVHandlers[Org, Pat, Prac, Ins, Med, MedReq, I, P, R, Q, A],
	version erx.KBVVersion,
) (P, error) {
	var zero P
	node, ok := extensionByURL(resource, extMultiplePrescription)
	if !ok {
		return h.MultiplePrescriptionInfo(false, nil, nil, nil), nil
	}

	indicator := false
	if ext, found := extensionByURL(node, "Kennzeichen"); found {
		b, err := fhirjson.OptBoolAt(ext, "valueBoolean")
		if err != nil {
			return zero, erx.MalformedIssue("extension.valueBoolean", "indicator is not a bool", err)
		}
		if b != nil {
			indicator = *b
		}
	}

	var numbering *R
	if ext, found := extensionByURL(node, "Nummerierung"); found {
		if ratioNode, hasRatio := fhirjson.Find(ext, "valueRatio"); hasRatio {
			r, err := ExtractRatio(ratioNode, h.Quantity, h.Ratio)
			if err != nil {
				return zero, err
			}
			numbering = &r
		}
	}

	var start, end *temporal.Value
	if ext, found := extensionByURL(node, "Zeitraum"); found {
		var err error
		start, err = optionalDate(ext, "valuePeriod.start")
		if err != nil {
			return zero, err
		}
		if version == erx.KBV110 {
			end, err = optionalDate(ext, "valuePeriod.end")
			if err != nil {
				return zero, err
			}
		}
	}

	return h.MultiplePrescriptionInfo(indicator, numbering, start, end), nil
}

func optionalDate(node any, path string) (*temporal.Value, error) {
	raw, err := fhirjson.OptStringAt(node, path)
	if err != nil {
		return nil, erx.MalformedIssue(path, "date is not a string", err)
	}
	if raw == nil {
		return nil, nil
	}
	v, err := temporal.ParseDate(*raw)
	if err != nil {
		return nil, erx.MalformedIssue(path, "value is not a FHIR date", err)
	}
	return &v, nil
}
