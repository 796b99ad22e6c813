package extract

import (
	"errors"
	"strings"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
)

// profileOf reads and splits the first declared meta.profile of a
// resource.
func profileOf(resource any) (erx.Profile, bool) {
	s, ok := fhirjson.ProfileString(resource)
	if !ok {
		return erx.Profile{}, false
	}
	return erx.ParseProfile(s), true
}

// extensionByURL returns the first extension element carrying the given
// url, searching the node's direct extension list.
func extensionByURL(node any, url string) (any, bool) {
	return fhirjson.First(fhirjson.FilterWith(
		fhirjson.FindAll(node, "extension"),
		"url",
		fhirjson.StringValue(url),
	))
}

// identifierValue returns the value of the first identifier whose
// system matches one of the given systems.
func identifierValue(node any, systems ...string) (*string, error) {
	preds := make([]fhirjson.Predicate, len(systems))
	for i, s := range systems {
		preds[i] = fhirjson.StringValue(s)
	}
	id, ok := fhirjson.First(fhirjson.FilterWith(
		fhirjson.FindAll(node, "identifier"),
		"system",
		fhirjson.Or(preds...),
	))
	if !ok {
		return nil, nil
	}
	v, err := fhirjson.StringAt(id, "value")
	if err != nil {
		return nil, erx.MalformedIssue("identifier.value", "identifier value is not a string", err)
	}
	return &v, nil
}

// ExtractHumanName flattens the official name of a Patient or
// Practitioner into a single display string. It returns nil when the
// resource carries no official name.
func ExtractHumanName(node any) (*string, error) {
	name, ok := fhirjson.First(fhirjson.FilterWith(
		fhirjson.FindAll(node, "name"),
		"use",
		fhirjson.StringValue("official"),
	))
	if !ok {
		return nil, nil
	}
	var parts []string
	appendAll := func(path string) error {
		for el := range fhirjson.FindAll(name, path) {
			s, err := fhirjson.String(el)
			if err != nil {
				return erx.MalformedIssue("name."+path, "name part is not a string", err)
			}
			if s != "" {
				parts = append(parts, s)
			}
		}
		return nil
	}
	if err := appendAll("prefix"); err != nil {
		return nil, err
	}
	if err := appendAll("given"); err != nil {
		return nil, err
	}
	family, err := fhirjson.OptStringAt(name, "family")
	if err != nil {
		return nil, erx.MalformedIssue("name.family", "family is not a string", err)
	}
	if family != nil && *family != "" {
		parts = append(parts, *family)
	}
	if len(parts) == 0 {
		return nil, nil
	}
	joined := strings.TrimSpace(strings.Join(parts, " "))
	return &joined, nil
}

// ExtractAddress reads the first address of a resource and resolves the
// continuation with its components. All components are optional; an
// entirely absent address yields an empty-component call.
func ExtractAddress[A any](resource any, onAddress AddressFn[A]) (A, error) {
	var zero A
	var lines []string
	for el := range fhirjson.FindAll(resource, "address.line") {
		s, err := fhirjson.String(el)
		if err != nil {
			return zero, erx.MalformedIssue("address.line", "address line is not a string", err)
		}
		lines = append(lines, s)
	}
	addr, _ := fhirjson.Find(resource, "address")
	postalCode, err := fhirjson.OptStringAt(addr, "postalCode")
	if err != nil {
		return zero, erx.MalformedIssue("address.postalCode", "postal code is not a string", err)
	}
	city, err := fhirjson.OptStringAt(addr, "city")
	if err != nil {
		return zero, erx.MalformedIssue("address.city", "city is not a string", err)
	}
	return onAddress(lines, postalCode, city), nil
}

// ExtractQuantity reads a Quantity node. The value keeps its source
// text; absent value or unit resolve to the empty string.
func ExtractQuantity[Q any](node any, onQuantity QuantityFn[Q]) (Q, error) {
	var zero Q
	value, err := fhirjson.PrimitiveAt(node, "value")
	if err != nil && !errors.Is(err, fhirjson.ErrAbsent) {
		return zero, erx.MalformedIssue("quantity.value", "quantity value is not a scalar", err)
	}
	unit, err := fhirjson.PrimitiveAt(node, "unit")
	if err != nil && !errors.Is(err, fhirjson.ErrAbsent) {
		return zero, erx.MalformedIssue("quantity.unit", "quantity unit is not a scalar", err)
	}
	return onQuantity(value, unit), nil
}

// ExtractRatio reads a Ratio node, resolving numerator and denominator
// through the quantity continuation first. An absent side arrives as
// nil at the ratio continuation.
func ExtractRatio[R, Q any](node any, quantityFn QuantityFn[Q], onRatio RatioFn[R, Q]) (R, error) {
	var zero R
	var numerator, denominator *Q
	if num, ok := fhirjson.Find(node, "numerator"); ok {
		q, err := ExtractQuantity(num, quantityFn)
		if err != nil {
			return zero, err
		}
		numerator = &q
	}
	if den, ok := fhirjson.Find(node, "denominator"); ok {
		q, err := ExtractQuantity(den, quantityFn)
		if err != nil {
			return zero, err
		}
		denominator = &q
	}
	return onRatio(numerator, denominator), nil
}

// ExtractIdentifierSet collects the drug codes of a medication or
// ingredient node, looking at code.coding first and falling back to
// itemCodeableConcept.coding. Codings with unsupported systems are
// dropped.
func ExtractIdentifierSet(node any) (IdentifierSet, error) {
	codings := fhirjson.FindAll(node, "code.coding")
	if _, ok := fhirjson.First(codings); !ok {
		codings = fhirjson.FindAll(node, "itemCodeableConcept.coding")
	}
	var set IdentifierSet
	for coding := range codings {
		system, err := fhirjson.StringAt(coding, "system")
		if errors.Is(err, fhirjson.ErrAbsent) {
			continue
		}
		if err != nil {
			return IdentifierSet{}, erx.MalformedIssue("coding.system", "coding system is not a string", err)
		}
		code, err := fhirjson.OptStringAt(coding, "code")
		if err != nil {
			return IdentifierSet{}, erx.MalformedIssue("coding.code", "coding code is not a string", err)
		}
		if code == nil {
			continue
		}
		switch system {
		case systemPZN:
			set.PZN = code
		case systemATC:
			set.ATC = code
		case systemASK:
			set.ASK = code
		case systemSnomed:
			set.SNOMED = code
		}
	}
	return set, nil
}

// ExtractIngredient reads one ingredient entry of a medication.
// Strength resolution has two paths: the structured strength ratio is
// primary; when it carries no numerator, the free-text amount extension
// (e.g. "Ad 100 g") takes over. Exactly one of the two reaches the
// continuation non-nil, unless the source carries neither.
func ExtractIngredient[I, R, Q any](
	node any,
	quantityFn QuantityFn[Q],
	ratioFn RatioFn[R, Q],
	onIngredient IngredientFn[I, R],
) (I, error) {
	var zero I
	text, err := fhirjson.StringAt(node, "itemCodeableConcept.text")
	if errors.Is(err, fhirjson.ErrAbsent) {
		text, err = fhirjson.StringAt(node, "itemCodeableConcept.coding.display")
		if errors.Is(err, fhirjson.ErrAbsent) {
			text, err = "", nil
		}
	}
	if err != nil {
		return zero, erx.MalformedIssue("ingredient.itemCodeableConcept", "ingredient text is not a string", err)
	}

	identifier, err := ExtractIdentifierSet(node)
	if err != nil {
		return zero, err
	}

	var form *string
	if ext, ok := extensionByURL(node, extIngredientForm); ok {
		form, err = fhirjson.OptStringAt(ext, "valueString")
		if err != nil {
			return zero, erx.MalformedIssue("ingredient.form", "form extension is not a string", err)
		}
	}

	strengthNode, _ := fhirjson.Find(node, "strength")
	var amount *string
	var strength *R
	if _, hasNumerator := fhirjson.Find(strengthNode, "numerator"); hasNumerator {
		r, err := ExtractRatio(strengthNode, quantityFn, ratioFn)
		if err != nil {
			return zero, err
		}
		strength = &r
	} else if ext, ok := extensionByURL(strengthNode, extIngredientAmount); ok {
		amount, err = fhirjson.OptStringAt(ext, "valueString")
		if err != nil {
			return zero, erx.MalformedIssue("ingredient.amount", "amount extension is not a string", err)
		}
	}

	return onIngredient(text, form, identifier, amount, strength), nil
}
