package extract

import (
	"errors"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
	"github.com/gofhir/erx/temporal"
)

// MedicationProfileOf classifies the KBV medication shape a resource
// declares. Unrecognized or missing profiles map to
// erx.MedicationUnknown.
func MedicationProfileOf(resource any) erx.MedicationProfile {
	profile, ok := profileOf(resource)
	if !ok {
		return erx.MedicationUnknown
	}
	switch {
	case profile.Is(profileMedicationPZN):
		return erx.MedicationPZN
	case profile.Is(profileMedicationCompounding):
		return erx.MedicationCompounding
	case profile.Is(profileMedicationIngredient):
		return erx.MedicationIngredient
	case profile.Is(profileMedicationFreeText):
		return erx.MedicationFreeText
	default:
		return erx.MedicationUnknown
	}
}

// ExtractMedication dispatches a Medication resource to the extractor
// matching its declared profile. An unrecognized or missing profile
// resolves to the defined unknown shape instead of failing, since
// malformed real-world prescriptions are expected.
func ExtractMedication[M, I, R, Q any](
	resource any,
	quantityFn QuantityFn[Q],
	ratioFn RatioFn[R, Q],
	ingredientFn IngredientFn[I, R],
	onMedication MedicationFn[M, I, R],
) (M, error) {
	profile, ok := profileOf(resource)
	if !ok {
		return unknownMedication(onMedication), nil
	}
	switch {
	case profile.Is(profileMedicationPZN, "1.0.2"):
		return extractMedicationPZN102(resource, quantityFn, ratioFn, onMedication)
	case profile.Is(profileMedicationPZN, "1.1.0"):
		return extractMedicationPZN110(resource, quantityFn, ratioFn, onMedication)
	case profile.Is(profileMedicationCompounding, "1.0.2"):
		return extractMedicationCompounding102(resource, quantityFn, ratioFn, ingredientFn, onMedication)
	case profile.Is(profileMedicationCompounding, "1.1.0"):
		return extractMedicationCompounding110(resource, quantityFn, ratioFn, ingredientFn, onMedication)
	case profile.Is(profileMedicationIngredient, "1.0.2"):
		return extractMedicationIngredient102(resource, quantityFn, ratioFn, ingredientFn, onMedication)
	case profile.Is(profileMedicationIngredient, "1.1.0"):
		return extractMedicationIngredient110(resource, quantityFn, ratioFn, ingredientFn, onMedication)
	case profile.Is(profileMedicationFreeText, "1.0.2"), profile.Is(profileMedicationFreeText, "1.1.0"):
		return extractMedicationFreeText(resource, onMedication)
	case profile.Is(profileGemMedication), profile.Is(profileEpaMedication):
		return ExtractEpaMedication(resource, quantityFn, ratioFn, ingredientFn, onMedication)
	default:
		return unknownMedication(onMedication), nil
	}
}

func unknownMedication[M, I, R any](onMedication MedicationFn[M, I, R]) M {
	return onMedication(nil, erx.CategoryUnknown, nil, nil, false, nil, nil, nil, IdentifierSet{}, nil, nil, nil, nil)
}

func categoryFromCode(code string, sonstiges bool) erx.MedicationCategory {
	switch code {
	case "00":
		return erx.CategoryArzneiUndVerbandmittel
	case "01":
		return erx.CategoryBTM
	case "02":
		return erx.CategoryAMVV
	case "03":
		if sonstiges {
			return erx.CategorySonstiges
		}
	}
	return erx.CategoryUnknown
}

// medicationCategory102 finds the category via the valueCoding system,
// the way profile 1.0.2 nests it.
func medicationCategory102(resource any) (erx.MedicationCategory, error) {
	ext, ok := fhirjson.First(fhirjson.FilterWith(
		fhirjson.FindAll(resource, "extension"),
		"valueCoding.system",
		fhirjson.StringValue(systemMedicationCategory),
	))
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

// medicationCategory110 finds the category via the extension url, the
// way profile 1.1.0 and later declare it.
func medicationCategory110(resource any) (erx.MedicationCategory, error) {
	ext, ok := extensionByURL(resource, extCategory)
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
	return categoryFromCode(code, true), nil
}

func medicationText(resource any) (*string, error) {
	text, err := fhirjson.OptStringAt(resource, "code.text")
	if err != nil {
		return nil, erx.MalformedIssue("code.text", "medication text is not a string", err)
	}
	return text, nil
}

func vaccineFlag(resource any, url string) (bool, error) {
	ext, ok := extensionByURL(resource, url)
	if !ok {
		return false, nil
	}
	vaccine, err := fhirjson.BoolAt(ext, "valueBoolean")
	if errors.Is(err, fhirjson.ErrAbsent) {
		return false, nil
	}
	if err != nil {
		return false, erx.MalformedIssue("extension.valueBoolean", "vaccine flag is not a bool", err)
	}
	return vaccine, nil
}

func extensionString(node any, url, path string) (*string, error) {
	ext, ok := extensionByURL(node, url)
	if !ok {
		return nil, nil
	}
	s, err := fhirjson.OptStringAt(ext, path)
	if err != nil {
		return nil, erx.MalformedIssue("extension."+path, "extension value is not a string", err)
	}
	return s, nil
}

func batchInfo(resource any) (lotNumber *string, expirationDate *temporal.Value, err error) {
	lotNumber, err = fhirjson.OptStringAt(resource, "batch.lotNumber")
	if err != nil {
		return nil, nil, erx.MalformedIssue("batch.lotNumber", "lot number is not a string", err)
	}
	raw, err := fhirjson.OptStringAt(resource, "batch.expirationDate")
	if err != nil {
		return nil, nil, erx.MalformedIssue("batch.expirationDate", "expiration date is not a string", err)
	}
	if raw != nil {
		v, err := temporal.Parse(*raw)
		if err != nil {
			return nil, nil, erx.MalformedIssue("batch.expirationDate", "expiration date is not a FHIR date", err)
		}
		expirationDate = &v
	}
	return lotNumber, expirationDate, nil
}

// optionalRatio extracts the ratio at path when present.
func optionalRatio[R, Q any](resource any, path string, quantityFn QuantityFn[Q], ratioFn RatioFn[R, Q]) (*R, error) {
	node, ok := fhirjson.Find(resource, path)
	if !ok {
		return nil, nil
	}
	r, err := ExtractRatio(node, quantityFn, ratioFn)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func medicationIngredients[I, R, Q any](
	resource any,
	quantityFn QuantityFn[Q],
	ratioFn RatioFn[R, Q],
	ingredientFn IngredientFn[I, R],
) ([]I, error) {
	var out []I
	for node := range fhirjson.FindAll(resource, "ingredient") {
		ing, err := ExtractIngredient(node, quantityFn, ratioFn, ingredientFn)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, nil
}
