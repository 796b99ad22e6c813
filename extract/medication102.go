package extract

import (
	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
)

func extractMedicationPZN102[M, I, R, Q any](
	resource any,
	quantityFn QuantityFn[Q],
	ratioFn RatioFn[R, Q],
	onMedication MedicationFn[M, I, R],
) (M, error) {
	var zero M
	text, err := medicationText(resource)
	if err != nil {
		return zero, err
	}
	category, err := medicationCategory102(resource)
	if err != nil {
		return zero, err
	}
	form, err := dosageFormCode(resource)
	if err != nil {
		return zero, err
	}
	amount, err := optionalRatio(resource, "amount", quantityFn, ratioFn)
	if err != nil {
		return zero, err
	}
	vaccine, err := vaccineFlag(resource, extVaccine)
	if err != nil {
		return zero, err
	}
	normSizeCode, err := extensionString(resource, extNormgroesse, "valueCode")
	if err != nil {
		return zero, err
	}
	identifier, err := ExtractIdentifierSet(resource)
	if err != nil {
		return zero, err
	}
	lotNumber, expirationDate, err := batchInfo(resource)
	if err != nil {
		return zero, err
	}
	return onMedication(text, category, form, amount, vaccine,
		nil, nil, normSizeCode, identifier, nil, nil, lotNumber, expirationDate), nil
}

func extractMedicationCompounding102[M, I, R, Q any](
	resource any,
	quantityFn QuantityFn[Q],
	ratioFn RatioFn[R, Q],
	ingredientFn IngredientFn[I, R],
	onMedication MedicationFn[M, I, R],
) (M, error) {
	var zero M
	text, err := medicationText(resource)
	if err != nil {
		return zero, err
	}
	category, err := medicationCategory102(resource)
	if err != nil {
		return zero, err
	}
	form, err := fhirjson.OptStringAt(resource, "form.text")
	if err != nil {
		return zero, erx.MalformedIssue("form.text", "form is not a string", err)
	}
	amount, err := optionalRatio(resource, "amount", quantityFn, ratioFn)
	if err != nil {
		return zero, err
	}
	vaccine, err := vaccineFlag(resource, extVaccine)
	if err != nil {
		return zero, err
	}
	manufacturing, err := extensionString(resource, extCompoundingInstr, "valueString")
	if err != nil {
		return zero, err
	}
	packaging, err := extensionString(resource, extPackaging, "valueString")
	if err != nil {
		return zero, err
	}
	identifier, err := ExtractIdentifierSet(resource)
	if err != nil {
		return zero, err
	}
	ingredients, err := medicationIngredients(resource, quantityFn, ratioFn, ingredientFn)
	if err != nil {
		return zero, err
	}
	lotNumber, expirationDate, err := batchInfo(resource)
	if err != nil {
		return zero, err
	}
	return onMedication(text, category, form, amount, vaccine,
		manufacturing, packaging, nil, identifier, nil, ingredients, lotNumber, expirationDate), nil
}

func extractMedicationIngredient102[M, I, R, Q any](
	resource any,
	quantityFn QuantityFn[Q],
	ratioFn RatioFn[R, Q],
	ingredientFn IngredientFn[I, R],
	onMedication MedicationFn[M, I, R],
) (M, error) {
	var zero M
	text, err := medicationText(resource)
	if err != nil {
		return zero, err
	}
	category, err := medicationCategory102(resource)
	if err != nil {
		return zero, err
	}
	form, err := fhirjson.OptStringAt(resource, "form.text")
	if err != nil {
		return zero, erx.MalformedIssue("form.text", "form is not a string", err)
	}
	amount, err := optionalRatio(resource, "amount", quantityFn, ratioFn)
	if err != nil {
		return zero, err
	}
	vaccine, err := vaccineFlag(resource, extVaccine)
	if err != nil {
		return zero, err
	}
	normSizeCode, err := extensionString(resource, extNormgroesse, "valueCode")
	if err != nil {
		return zero, err
	}
	ingredients, err := medicationIngredients(resource, quantityFn, ratioFn, ingredientFn)
	if err != nil {
		return zero, err
	}
	lotNumber, expirationDate, err := batchInfo(resource)
	if err != nil {
		return zero, err
	}
	return onMedication(text, category, form, amount, vaccine,
		nil, nil, normSizeCode, IdentifierSet{}, nil, ingredients, lotNumber, expirationDate), nil
}

// extractMedicationFreeText serves both profile generations; the
// free-text shape never changed between them.
func extractMedicationFreeText[M, I, R any](
	resource any,
	onMedication MedicationFn[M, I, R],
) (M, error) {
	var zero M
	text, err := medicationText(resource)
	if err != nil {
		return zero, err
	}
	category, err := medicationCategory102(resource)
	if err != nil {
		return zero, err
	}
	if category == erx.CategoryUnknown {
		c110, err := medicationCategory110(resource)
		if err != nil {
			return zero, err
		}
		category = c110
	}
	form, err := fhirjson.OptStringAt(resource, "form.text")
	if err != nil {
		return zero, erx.MalformedIssue("form.text", "form is not a string", err)
	}
	vaccine, err := vaccineFlag(resource, extVaccine)
	if err != nil {
		return zero, err
	}
	lotNumber, expirationDate, err := batchInfo(resource)
	if err != nil {
		return zero, err
	}
	return onMedication(text, category, form, nil, vaccine,
		nil, nil, nil, IdentifierSet{}, nil, nil, lotNumber, expirationDate), nil
}

// dosageFormCode reads the coded dosage form of a PZN medication.
func dosageFormCode(resource any) (*string, error) {
	coding, ok := fhirjson.First(fhirjson.FilterWith(
		fhirjson.FindAll(resource, "form.coding"),
		"system",
		fhirjson.StringValue(systemDosageForm),
	))
	if !ok {
		return nil, nil
	}
	code, err := fhirjson.OptStringAt(coding, "code")
	if err != nil {
		return nil, erx.MalformedIssue("form.coding.code", "dosage form code is not a string", err)
	}
	return code, nil
}
