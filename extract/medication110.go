package extract

import (
	"errors"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
)

// packagingAmount110 reads the total amount the way profile 1.1.0
// encodes it: the numerator value lives either directly on the
// numerator or, when it is not representable as a FHIR quantity, in the
// packaging-size extension. The denominator is fixed at 1.
func packagingAmount110[R, Q any](
	resource any,
	quantityFn QuantityFn[Q],
	ratioFn RatioFn[R, Q],
) (*R, error) {
	numerator, ok := fhirjson.Find(resource, "amount.numerator")
	if !ok {
		return nil, nil
	}
	value, err := fhirjson.PrimitiveAt(numerator, "value")
	if errors.Is(err, fhirjson.ErrAbsent) {
		value, err = "", nil
		if ext, found := extensionByURL(numerator, extPackagingSize); found {
			s, extErr := fhirjson.OptStringAt(ext, "valueString")
			if extErr != nil {
				return nil, erx.MalformedIssue("amount.numerator", "packaging size is not a string", extErr)
			}
			if s != nil {
				value = *s
			}
		}
	}
	if err != nil {
		return nil, erx.MalformedIssue("amount.numerator.value", "amount value is not a scalar", err)
	}
	unit, err := fhirjson.PrimitiveAt(numerator, "unit")
	if errors.Is(err, fhirjson.ErrAbsent) {
		unit, err = "", nil
	}
	if err != nil {
		return nil, erx.MalformedIssue("amount.numerator.unit", "amount unit is not a scalar", err)
	}
	num := quantityFn(value, unit)
	den := quantityFn("1", "")
	r := ratioFn(&num, &den)
	return &r, nil
}

func extractMedicationPZN110[M, I, R, Q any](
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
	category, err := medicationCategory110(resource)
	if err != nil {
		return zero, err
	}
	form, err := dosageFormCode(resource)
	if err != nil {
		return zero, err
	}
	amount, err := packagingAmount110(resource, quantityFn, ratioFn)
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

func extractMedicationCompounding110[M, I, R, Q any](
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
	category, err := medicationCategory110(resource)
	if err != nil {
		return zero, err
	}
	form, err := fhirjson.OptStringAt(resource, "form.text")
	if err != nil {
		return zero, erx.MalformedIssue("form.text", "form is not a string", err)
	}
	amount, err := packagingAmount110(resource, quantityFn, ratioFn)
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
	ingredients, err := medicationIngredients(resource, quantityFn, ratioFn, ingredientFn)
	if err != nil {
		return zero, err
	}
	lotNumber, expirationDate, err := batchInfo(resource)
	if err != nil {
		return zero, err
	}
	return onMedication(text, category, form, amount, vaccine,
		manufacturing, packaging, nil, IdentifierSet{}, nil, ingredients, lotNumber, expirationDate), nil
}

func extractMedicationIngredient110[M, I, R, Q any](
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
	category, err := medicationCategory110(resource)
	if err != nil {
		return zero, err
	}
	form, err := fhirjson.OptStringAt(resource, "form.text")
	if err != nil {
		return zero, erx.MalformedIssue("form.text", "form is not a string", err)
	}
	amount, err := packagingAmount110(resource, quantityFn, ratioFn)
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
