package extract

import (
	"errors"
	"strings"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
	"github.com/gofhir/erx/temporal"
)

// ExtractMedicationDispense reads a MedicationDispense resource whose
// medication is carried inline as the first contained resource, the
// shape servers used before workflow 1.4.
func ExtractMedicationDispense[D, M, I, R, Q any](
	resource any,
	quantityFn QuantityFn[Q],
	ratioFn RatioFn[R, Q],
	ingredientFn IngredientFn[I, R],
	onMedication MedicationFn[M, I, R],
	onDispense MedicationDispenseFn[D, M],
) (D, error) {
	var zero D
	contained, ok := fhirjson.Find(resource, "contained")
	if !ok {
		return zero, erx.RequiredIssue("contained", "dispense carries no contained medication")
	}
	medication, err := ExtractMedication(contained, quantityFn, ratioFn, ingredientFn, onMedication)
	if err != nil {
		return zero, err
	}
	return dispenseFields(resource, &medication, onDispense)
}

// ExtractMedicationDispenseWithMedication reads a dispense whose
// medication travels as a separate bundle entry, the workflow 1.4
// shape. Pair the two with ExtractMedicationDispensePairs first.
func ExtractMedicationDispenseWithMedication[D, M, I, R, Q any](
	dispense, medication any,
	quantityFn QuantityFn[Q],
	ratioFn RatioFn[R, Q],
	ingredientFn IngredientFn[I, R],
	onMedication MedicationFn[M, I, R],
	onDispense MedicationDispenseFn[D, M],
) (D, error) {
	var zero D
	med, err := ExtractMedication(medication, quantityFn, ratioFn, ingredientFn, onMedication)
	if err != nil {
		return zero, err
	}
	return dispenseFields(dispense, &med, onDispense)
}

func dispenseFields[D, M any](
	resource any,
	medication *M,
	onDispense MedicationDispenseFn[D, M],
) (D, error) {
	var zero D
	dispenseID, err := fhirjson.StringAt(resource, "id")
	if err != nil {
		return zero, erx.MalformedIssue("id", "dispense id is not a string", err)
	}
	patientIdentifier, err := fhirjson.StringAt(resource, "subject.identifier.value")
	if errors.Is(err, fhirjson.ErrAbsent) {
		patientIdentifier, err = "", nil
	}
	if err != nil {
		return zero, erx.MalformedIssue("subject.identifier.value", "patient identifier is not a string", err)
	}
	wasSubstituted, err := fhirjson.BoolAt(resource, "substitution.wasSubstituted")
	if errors.Is(err, fhirjson.ErrAbsent) {
		wasSubstituted, err = false, nil
	}
	if err != nil {
		return zero, erx.MalformedIssue("substitution.wasSubstituted", "substitution flag is not a bool", err)
	}
	dosageInstruction, err := fhirjson.OptStringAt(resource, "dosageInstruction.text")
	if err != nil {
		return zero, erx.MalformedIssue("dosageInstruction.text", "dosage instruction is not a string", err)
	}
	performer, err := fhirjson.StringAt(resource, "performer.actor.identifier.value")
	if errors.Is(err, fhirjson.ErrAbsent) {
		performer, err = "", nil
	}
	if err != nil {
		return zero, erx.MalformedIssue("performer.actor.identifier.value", "performer is not a string", err)
	}

	// Depending on the profile version this is a bare date or a full
	// instant; both land in the same temporal value.
	raw, err := fhirjson.StringAt(resource, "whenHandedOver")
	if err != nil {
		return zero, erx.MalformedIssue("whenHandedOver", "handed-over date is missing or not a string", err)
	}
	whenHandedOver, err := temporal.Parse(raw)
	if err != nil {
		return zero, erx.MalformedIssue("whenHandedOver", "handed-over date is not a FHIR temporal", err)
	}

	return onDispense(dispenseID, patientIdentifier, medication, wasSubstituted,
		dosageInstruction, performer, whenHandedOver), nil
}

// DispensePair is one MedicationDispense entry joined with the
// Medication entry its medicationReference points at.
type DispensePair struct {
	Dispense   any
	Medication any
}

// ExtractMedicationDispensePairs joins the MedicationDispense and
// Medication entries of a workflow 1.4 dispense bundle by their
// urn:uuid reference. Dispenses whose reference resolves to no
// medication entry are dropped.
func ExtractMedicationDispensePairs(bundle any) ([]DispensePair, error) {
	var dispenses []any
	medicationsByID := make(map[string]any)
	for resource := range fhirjson.FindAll(bundle, "entry.resource") {
		resourceType, err := fhirjson.StringAt(resource, "resourceType")
		if errors.Is(err, fhirjson.ErrAbsent) {
			continue
		}
		if err != nil {
			return nil, erx.MalformedIssue("resourceType", "resource type is not a string", err)
		}
		switch resourceType {
		case "MedicationDispense":
			dispenses = append(dispenses, resource)
		case "Medication":
			id, err := fhirjson.OptStringAt(resource, "id")
			if err != nil {
				return nil, erx.MalformedIssue("id", "medication id is not a string", err)
			}
			if id != nil {
				medicationsByID[*id] = resource
			}
		}
	}

	var pairs []DispensePair
	for _, dispense := range dispenses {
		ref, err := fhirjson.OptStringAt(dispense, "medicationReference.reference")
		if err != nil {
			return nil, erx.MalformedIssue("medicationReference.reference", "medication reference is not a string", err)
		}
		if ref == nil {
			continue
		}
		id := strings.TrimPrefix(*ref, "urn:uuid:")
		if medication, ok := medicationsByID[id]; ok {
			pairs = append(pairs, DispensePair{Dispense: dispense, Medication: medication})
		}
	}
	return pairs, nil
}
