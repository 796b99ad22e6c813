package extract

import (
	"errors"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
)

// ExtractEpaMedication reads a workflow 1.4 (EPA) Medication resource.
// A compounding resource carries its component medications as contained
// Medication resources; those surface through the nested parameter of
// the continuation, each with an empty nested list of its own.
func ExtractEpaMedication[M, I, R, Q any](
	resource any,
	quantityFn QuantityFn[Q],
	ratioFn RatioFn[R, Q],
	ingredientFn IngredientFn[I, R],
	onMedication MedicationFn[M, I, R],
) (M, error) {
	var zero M
	var nested []M
	for contained := range fhirjson.FilterWith(
		fhirjson.FindAll(resource, "contained"),
		"resourceType",
		fhirjson.StringValue("Medication"),
	) {
		m, err := extractEpaMedicationFields(contained, quantityFn, ratioFn, ingredientFn, onMedication, nil)
		if err != nil {
			return zero, err
		}
		nested = append(nested, m)
	}
	return extractEpaMedicationFields(resource, quantityFn, ratioFn, ingredientFn, onMedication, nested)
}

func extractEpaMedicationFields[M, I, R, Q any](
	resource any,
	quantityFn QuantityFn[Q],
	ratioFn RatioFn[R, Q],
	ingredientFn IngredientFn[I, R],
	onMedication MedicationFn[M, I, R],
	nested []M,
) (M, error) {
	var zero M
	text, err := medicationText(resource)
	if err != nil {
		return zero, err
	}
	if text == nil {
		text, err = fhirjson.OptStringAt(resource, "code.coding.code")
		if err != nil {
			return zero, erx.MalformedIssue("code.coding.code", "medication code is not a string", err)
		}
	}
	category, err := epaMedicationCategory(resource)
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
	vaccine, err := vaccineFlag(resource, extEpaVaccine)
	if err != nil {
		return zero, err
	}
	normSizeCode, err := extensionString(resource, extNormgroesse, "valueCode")
	if err != nil {
		return zero, err
	}
	manufacturing, err := extensionString(resource, extEpaManufacturing, "valueString")
	if err != nil {
		return zero, err
	}
	packaging, err := extensionString(resource, extEpaPackaging, "valueString")
	if err != nil {
		return zero, err
	}
	identifier, err := ExtractIdentifierSet(resource)
	if err != nil {
		return zero, err
	}

	// Ingredients pointing at a contained medication via itemReference
	// are already covered by the nested list.
	var ingredients []I
	for node := range fhirjson.FindAll(resource, "ingredient") {
		ref, err := fhirjson.OptStringAt(node, "itemReference.reference")
		if err != nil {
			return zero, erx.MalformedIssue("ingredient.itemReference", "item reference is not a string", err)
		}
		if ref != nil && *ref != "" {
			continue
		}
		ing, err := ExtractIngredient(node, quantityFn, ratioFn, ingredientFn)
		if err != nil {
			return zero, err
		}
		ingredients = append(ingredients, ing)
	}

	lotNumber, expirationDate, err := batchInfo(resource)
	if err != nil {
		return zero, err
	}
	return onMedication(text, category, form, amount, vaccine,
		manufacturing, packaging, normSizeCode, identifier, nested, ingredients, lotNumber, expirationDate), nil
}

func epaMedicationCategory(resource any) (erx.MedicationCategory, error) {
	ext, ok := extensionByURL(resource, extEpaDrugCategory)
	if !ok {
		return erx.CategoryUnknown, nil
	}
	code, err := fhirjson.StringAt(ext, "valueCoding.code")
	if errors.Is(err, fhirjson.ErrAbsent) {
		return erx.CategoryUnknown, nil
	}
	if err != nil {
		return "", erx.MalformedIssue("extension.valueCoding.code", "category code is not a string", err)
	}
	return categoryFromCode(code, false), nil
}
