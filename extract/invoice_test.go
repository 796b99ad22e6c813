package extract

import (
	"errors"
	"testing"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/temporal"
	"github.com/shopspring/decimal"
)

func TestSpecialPZNClassificationIsPure(t *testing.T) {
	special := map[string]SpecialPZN{
		"02567018": SpecialPZNEmergencyServiceFee,
		"02567001": SpecialPZNBTMFee,
		"06460688": SpecialPZNTPrescriptionFee,
		"09999637": SpecialPZNProvisioningCosts,
		"06461110": SpecialPZNDeliveryServiceCosts,
		"17717446": SpecialPZNSupplyShortageFee,
	}
	for code, want := range special {
		got, ok := ParseSpecialPZN(code)
		if !ok || got != want {
			t.Errorf("ParseSpecialPZN(%q) = %v/%v, want %v", code, got, ok, want)
		}
		item := ChargeableItem{Scheme: SchemeTA1, Code: code}
		if !item.IsSpecialPZN() {
			t.Errorf("IsSpecialPZN() = false for reserved code %q", code)
		}
		// Identical code, identical classification.
		again, _ := ParseSpecialPZN(code)
		if again != got {
			t.Errorf("classification of %q is not stable", code)
		}
	}
	for _, code := range []string{"06313728", "00000000", "", "2567018"} {
		if _, ok := ParseSpecialPZN(code); ok {
			t.Errorf("ParseSpecialPZN(%q) matched, want no match", code)
		}
		if (ChargeableItem{Scheme: SchemePZN, Code: code}).IsSpecialPZN() {
			t.Errorf("IsSpecialPZN() = true for ordinary code %q", code)
		}
	}
}

type pkvDispense struct {
	whenHandedOver temporal.Value
}

type invoice struct {
	totalAdditionalFee decimal.Decimal
	totalGross         decimal.Decimal
	currency           string
	items              []ChargeableItem
}

func invoiceBundleFixture(version string, lineItemExtra string) string {
	return `{
	"resourceType": "Bundle",
	"meta": {"profile": ["http://fhir.abda.de/eRezeptAbgabedaten/StructureDefinition/DAV-PKV-PR-ERP-AbgabedatenBundle|` + version + `"]},
	"identifier": {"system": "https://gematik.de/fhir/erp/NamingSystem/GEM_ERP_NS_PrescriptionId", "value": "200.000.001.205.915.01"},
	"timestamp": "2023-07-07T11:45:32+02:00",
	"entry": [
		{
			"resource": {
				"resourceType": "MedicationDispense",
				"meta": {"profile": ["http://fhir.abda.de/eRezeptAbgabedaten/StructureDefinition/DAV-PKV-PR-ERP-Abgabeinformationen|` + version + `"]},
				"whenHandedOver": "2023-07-07"
			}
		},
		{
			"resource": {
				"resourceType": "Organization",
				"meta": {"profile": ["http://fhir.abda.de/eRezeptAbgabedaten/StructureDefinition/DAV-PKV-PR-ERP-Apotheke|` + version + `"]},
				"name": "Adler-Apotheke",
				"telecom": [{"system": "phone", "value": "0404350870"}],
				"address": [{"line": ["Taunusstr. 89"], "postalCode": "63225", "city": "Langen"}]
			}
		},
		{
			"resource": {
				"resourceType": "Invoice",
				"meta": {"profile": ["http://fhir.abda.de/eRezeptAbgabedaten/StructureDefinition/DAV-PKV-PR-ERP-Abrechnungszeilen|` + version + `"]},
				"lineItem": [
					{
						"chargeItemCodeableConcept": {
							"coding": [{"system": "http://fhir.de/CodeSystem/ifa/pzn", "code": "03879429"}]
						},
						"priceComponent": [{
							"extension": [{
								"url": "http://fhir.abda.de/eRezeptAbgabedaten/StructureDefinition/DAV-EX-ERP-MwStSatz",
								"valueDecimal": 19.0
							}]` + lineItemExtra + `,
							"factor": 2,
							"amount": {"value": 48.98, "currency": "EUR"}
						}]
					},
					{
						"chargeItemCodeableConcept": {
							"coding": [{"system": "http://loinc.org", "code": "unmatched"}]
						},
						"priceComponent": [{"factor": 1, "amount": {"value": 1.00}}]
					}
				],
				"totalGross": {
					"extension": [{
						"url": "http://fhir.abda.de/eRezeptAbgabedaten/StructureDefinition/DAV-EX-ERP-Gesamtzuzahlung",
						"valueMoney": {"value": 10.0, "currency": "EUR"}
					}],
					"value": 48.98,
					"currency": "EUR"
				}
			}
		}
	]
}`
}

func TestExtractInvoiceBundle11(t *testing.T) {
	bundle := mustDecode(t, invoiceBundleFixture("1.1", ""))

	var gotTaskID string
	var gotTimestamp temporal.Value
	var gotPharmacy organization
	var gotInvoice invoice
	var gotDispense pkvDispense

	h := kbvTestHandlers()
	err := ExtractInvoiceBundle(bundle,
		func(whenHandedOver temporal.Value) pkvDispense { return pkvDispense{whenHandedOver} },
		h.Address,
		h.Organization,
		func(totalAdditionalFee, totalGross decimal.Decimal, currency string, items []ChargeableItem) invoice {
			return invoice{totalAdditionalFee, totalGross, currency, items}
		},
		func(taskID string, timestamp temporal.Value, pharmacy organization, inv invoice, disp pkvDispense) {
			gotTaskID, gotTimestamp, gotPharmacy, gotInvoice, gotDispense = taskID, timestamp, pharmacy, inv, disp
		},
	)
	if err != nil {
		t.Fatalf("ExtractInvoiceBundle returned error: %v", err)
	}

	if gotTaskID != "200.000.001.205.915.01" {
		t.Errorf("taskID = %q", gotTaskID)
	}
	if gotTimestamp.Precision != temporal.PrecisionInstant {
		t.Errorf("timestamp precision = %v, want instant", gotTimestamp.Precision)
	}
	assertStr(t, "pharmacy name", gotPharmacy.name, "Adler-Apotheke")
	assertStr(t, "pharmacy phone", gotPharmacy.phone, "0404350870")
	if gotDispense.whenHandedOver.Raw != "2023-07-07" {
		t.Errorf("whenHandedOver = %q", gotDispense.whenHandedOver.Raw)
	}

	if gotInvoice.currency != "EUR" {
		t.Errorf("currency = %q", gotInvoice.currency)
	}
	if !gotInvoice.totalGross.Equal(decimal.RequireFromString("48.98")) {
		t.Errorf("totalGross = %s", gotInvoice.totalGross)
	}
	if !gotInvoice.totalAdditionalFee.Equal(decimal.RequireFromString("10.0")) {
		t.Errorf("totalAdditionalFee = %s", gotInvoice.totalAdditionalFee)
	}

	// The line coded in an unsupported system is dropped.
	if len(gotInvoice.items) != 1 {
		t.Fatalf("got %d items, want 1", len(gotInvoice.items))
	}
	item := gotInvoice.items[0]
	if item.Scheme != SchemePZN || item.Code != "03879429" {
		t.Errorf("item = %+v", item)
	}
	if !item.Price.Value.Equal(decimal.RequireFromString("48.98")) {
		t.Errorf("price = %s", item.Price.Value)
	}
	if !item.Price.Tax.Equal(decimal.RequireFromString("19.0")) {
		t.Errorf("tax = %s", item.Price.Tax)
	}
	if !item.Factor.Equal(decimal.NewFromInt(2)) {
		t.Errorf("factor = %s", item.Factor)
	}
	if item.PartialQuantityDelivery || item.SpenderPZN != nil {
		t.Error("1.1 bundles carry no partial-quantity attributes")
	}
}

func TestExtractInvoiceBundle13PartialQuantity(t *testing.T) {
	src := invoiceBundleFixture("1.3", "")
	// Attach the partial-quantity attributes to the first line item.
	bundle := mustDecode(t, src)
	lineItem := bundle.(map[string]any)["entry"].([]any)[2].(map[string]any)["resource"].(map[string]any)["lineItem"].([]any)[0].(map[string]any)
	lineItem["extension"] = []any{
		map[string]any{
			"url": "http://fhir.abda.de/eRezeptAbgabedaten/StructureDefinition/DAV-EX-ERP-Zusatzattribute",
			"extension": []any{
				map[string]any{
					"url": "Teilmengenabgabe",
					"extension": []any{
						map[string]any{"url": "Schluessel", "valueBoolean": true},
						map[string]any{"url": "Spender-PZN", "valueCodeableConcept": map[string]any{
							"coding": []any{map[string]any{"system": "http://fhir.de/CodeSystem/ifa/pzn", "code": "05454378"}},
						}},
					},
				},
			},
		},
	}

	var gotInvoice invoice
	h := kbvTestHandlers()
	err := ExtractInvoiceBundle(bundle,
		func(whenHandedOver temporal.Value) pkvDispense { return pkvDispense{whenHandedOver} },
		h.Address,
		h.Organization,
		func(totalAdditionalFee, totalGross decimal.Decimal, currency string, items []ChargeableItem) invoice {
			return invoice{totalAdditionalFee, totalGross, currency, items}
		},
		func(taskID string, timestamp temporal.Value, pharmacy organization, inv invoice, disp pkvDispense) {
			gotInvoice = inv
		},
	)
	if err != nil {
		t.Fatalf("ExtractInvoiceBundle returned error: %v", err)
	}
	if len(gotInvoice.items) != 1 {
		t.Fatalf("got %d items, want 1", len(gotInvoice.items))
	}
	item := gotInvoice.items[0]
	if !item.PartialQuantityDelivery {
		t.Error("PartialQuantityDelivery = false, want true")
	}
	assertStr(t, "SpenderPZN", item.SpenderPZN, "05454378")
}

func TestExtractInvoiceBundleUnknownVersion(t *testing.T) {
	bundle := mustDecode(t, `{
		"resourceType": "Bundle",
		"meta": {"profile": ["http://fhir.abda.de/eRezeptAbgabedaten/StructureDefinition/DAV-PKV-PR-ERP-AbgabedatenBundle|7.7"]}
	}`)
	h := kbvTestHandlers()
	err := ExtractInvoiceBundle(bundle,
		func(whenHandedOver temporal.Value) pkvDispense { return pkvDispense{whenHandedOver} },
		h.Address, h.Organization,
		func(totalAdditionalFee, totalGross decimal.Decimal, currency string, items []ChargeableItem) invoice {
			return invoice{}
		},
		func(string, temporal.Value, organization, invoice, pkvDispense) {
			t.Error("save must not fire for an unsupported version")
		},
	)
	var issue *erx.Issue
	if !errors.As(err, &issue) {
		t.Fatalf("err = %v, want *erx.Issue", err)
	}
	if issue.Code != erx.CodeUnknownVariant {
		t.Errorf("issue code = %v, want unknown-variant", issue.Code)
	}
}

func TestExtractInvoiceKBVAndErpPrBundle(t *testing.T) {
	bundle := mustDecode(t, `{
		"resourceType": "Bundle",
		"entry": [
			{"resource": {
				"resourceType": "Bundle",
				"meta": {"profile": ["http://fhir.abda.de/eRezeptAbgabedaten/StructureDefinition/DAV-PKV-PR-ERP-AbgabedatenBundle|1.1"]},
				"identifier": {"system": "https://gematik.de/fhir/erp/NamingSystem/GEM_ERP_NS_PrescriptionId", "value": "200.000.001.205.915.01"}
			}},
			{"resource": {
				"resourceType": "Bundle",
				"meta": {"profile": ["https://fhir.kbv.de/StructureDefinition/KBV_PR_ERP_Bundle|1.1.0"]}
			}},
			{"resource": {
				"resourceType": "Bundle",
				"meta": {"profile": ["https://gematik.de/fhir/erp/StructureDefinition/GEM_ERP_PR_Bundle|1.2"]},
				"signature": {"data": "dGVzdC1zaWduYXR1cmU="}
			}}
		]
	}`)

	called := false
	err := ExtractInvoiceKBVAndErpPrBundle(bundle, func(taskID string, invoiceBundle, kbvBundle, receiptBundle any) error {
		called = true
		if taskID != "200.000.001.205.915.01" {
			t.Errorf("taskID = %q", taskID)
		}
		if invoiceBundle == nil || kbvBundle == nil || receiptBundle == nil {
			t.Error("all three sub-bundles must be populated")
		}
		data, err := ExtractSignature(receiptBundle)
		if err != nil {
			t.Fatalf("ExtractSignature returned error: %v", err)
		}
		if string(data) != "test-signature" {
			t.Errorf("signature bytes = %q", data)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ExtractInvoiceKBVAndErpPrBundle returned error: %v", err)
	}
	if !called {
		t.Fatal("process was not invoked")
	}
}

func TestExtractTaskIDsFromChargeItemBundle(t *testing.T) {
	bundle := mustDecode(t, `{
		"resourceType": "Bundle",
		"entry": [
			{"resource": {
				"resourceType": "ChargeItem",
				"meta": {"profile": ["https://gematik.de/fhir/erpchrg/StructureDefinition/GEM_ERPCHRG_PR_ChargeItem|1.0"]},
				"identifier": [{"system": "https://gematik.de/fhir/erp/NamingSystem/GEM_ERP_NS_PrescriptionId", "value": "200.086.824.605.539.20"}]
			}},
			{"resource": {"resourceType": "OperationOutcome"}}
		]
	}`)
	total, ids, err := ExtractTaskIDsFromChargeItemBundle(bundle)
	if err != nil {
		t.Fatalf("ExtractTaskIDsFromChargeItemBundle returned error: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want the entry count", total)
	}
	if len(ids) != 1 || ids[0] != "200.086.824.605.539.20" {
		t.Errorf("ids = %v", ids)
	}
}
