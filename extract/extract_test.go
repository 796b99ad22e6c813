package extract

import (
	"testing"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
	"github.com/gofhir/erx/temporal"
)

func mustDecode(t *testing.T, src string) any {
	t.Helper()
	node, err := fhirjson.Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	return node
}

// Tuple continuations shared by the medication and bundle tests. They
// capture extractor output verbatim so assertions read off plain
// struct fields.

type quantity struct {
	value string
	unit  string
}

type ratio struct {
	numerator   *quantity
	denominator *quantity
}

type ingredient struct {
	text       string
	form       *string
	identifier IdentifierSet
	amount     *string
	strength   *ratio
}

type medication struct {
	text          *string
	category      erx.MedicationCategory
	form          *string
	amount        *ratio
	vaccine       bool
	manufacturing *string
	packaging     *string
	normSizeCode  *string
	identifier    IdentifierSet
	nested        []medication
	ingredients   []ingredient
	lotNumber     *string
	expiration    *temporal.Value
}

func quantityTuple(value, unit string) quantity {
	return quantity{value: value, unit: unit}
}

func ratioTuple(numerator, denominator *quantity) ratio {
	return ratio{numerator: numerator, denominator: denominator}
}

func ingredientTuple(text string, form *string, identifier IdentifierSet, amount *string, strength *ratio) ingredient {
	return ingredient{text: text, form: form, identifier: identifier, amount: amount, strength: strength}
}

func medicationTuple(
	text *string,
	category erx.MedicationCategory,
	form *string,
	amount *ratio,
	vaccine bool,
	manufacturingInstructions *string,
	packaging *string,
	normSizeCode *string,
	identifier IdentifierSet,
	nested []medication,
	ingredients []ingredient,
	lotNumber *string,
	expirationDate *temporal.Value,
) medication {
	return medication{
		text:          text,
		category:      category,
		form:          form,
		amount:        amount,
		vaccine:       vaccine,
		manufacturing: manufacturingInstructions,
		packaging:     packaging,
		normSizeCode:  normSizeCode,
		identifier:    identifier,
		nested:        nested,
		ingredients:   ingredients,
		lotNumber:     lotNumber,
		expiration:    expirationDate,
	}
}

func extractMedicationTuple(t *testing.T, resource any) medication {
	t.Helper()
	med, err := ExtractMedication(resource, quantityTuple, ratioTuple, ingredientTuple, medicationTuple)
	if err != nil {
		t.Fatalf("ExtractMedication returned error: %v", err)
	}
	return med
}

func strPtr(s string) *string { return &s }

func assertStr(t *testing.T, name string, got *string, want string) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want %q", name, want)
	}
	if *got != want {
		t.Errorf("%s = %q, want %q", name, *got, want)
	}
}
