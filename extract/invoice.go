package extract

import (
	"errors"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
	"github.com/gofhir/erx/logger"
	"github.com/gofhir/erx/temporal"
	"github.com/shopspring/decimal"
)

// ChargeScheme names the coding system a chargeable item's code comes
// from.
type ChargeScheme string

const (
	// SchemePZN is a product code from the IFA Pharmazentralnummer system.
	SchemePZN ChargeScheme = "PZN"
	// SchemeTA1 is a billing-position code from the ABDA TA1 system.
	SchemeTA1 ChargeScheme = "TA1"
	// SchemeHMNR is a Hilfsmittelnummer code.
	SchemeHMNR ChargeScheme = "HMNR"
)

// PriceComponent is the gross price of one invoice line with its VAT
// rate in percent.
type PriceComponent struct {
	Value decimal.Decimal
	Tax   decimal.Decimal
}

// ChargeableItem is one billed line of a PKV invoice.
// PartialQuantityDelivery and SpenderPZN only appear from bundle
// version 1.3 onwards.
type ChargeableItem struct {
	Scheme                  ChargeScheme
	Code                    string
	Factor                  decimal.Decimal
	Price                   PriceComponent
	PartialQuantityDelivery bool
	SpenderPZN              *string
}

// IsSpecialPZN reports whether the item's code is one of the reserved
// fee codes instead of a real product.
func (c ChargeableItem) IsSpecialPZN() bool {
	_, ok := ParseSpecialPZN(c.Code)
	return ok
}

// SpecialPZN is a reserved code in the PZN range that bills a fee
// rather than a product.
type SpecialPZN string

const (
	SpecialPZNEmergencyServiceFee  SpecialPZN = "EmergencyServiceFee"
	SpecialPZNBTMFee               SpecialPZN = "BTMFee"
	SpecialPZNTPrescriptionFee     SpecialPZN = "TPrescriptionFee"
	SpecialPZNProvisioningCosts    SpecialPZN = "ProvisioningCosts"
	SpecialPZNDeliveryServiceCosts SpecialPZN = "DeliveryServiceCosts"
	SpecialPZNSupplyShortageFee    SpecialPZN = "SupplyShortageFee"
)

var specialPZNByCode = map[string]SpecialPZN{
	"02567018": SpecialPZNEmergencyServiceFee,
	"02567001": SpecialPZNBTMFee,
	"06460688": SpecialPZNTPrescriptionFee,
	"09999637": SpecialPZNProvisioningCosts,
	"06461110": SpecialPZNDeliveryServiceCosts,
	"17717446": SpecialPZNSupplyShortageFee,
}

// ParseSpecialPZN classifies a reserved fee code. The classification is
// a pure function of the code value.
func ParseSpecialPZN(code string) (SpecialPZN, bool) {
	s, ok := specialPZNByCode[code]
	return s, ok
}

// InvoiceFn builds the caller's invoice value from the totals and the
// billed lines of an Abrechnungszeilen resource.
type InvoiceFn[R any] func(totalAdditionalFee, totalGross decimal.Decimal, currency string, items []ChargeableItem) R

var invoiceBundleVersions = []string{"1.1", "1.3", "1.4"}

// ExtractInvoiceBundle walks a DAV PKV dispense-data bundle and hands
// the task id, bundle timestamp, pharmacy, invoice and dispense
// information to save in one call.
func ExtractInvoiceBundle[D, Pharm, A, Inv any](
	bundle any,
	processDispense PkvDispenseFn[D],
	processPharmacyAddress AddressFn[A],
	processPharmacy OrganizationFn[Pharm, A],
	processInvoice InvoiceFn[Inv],
	save func(taskID string, timestamp temporal.Value, pharmacy Pharm, invoice Inv, dispense D),
) error {
	profile, ok := profileOf(bundle)
	if !ok {
		return erx.RequiredIssue("meta.profile", "bundle declares no profile")
	}
	for _, version := range invoiceBundleVersions {
		if profile.Is(profileDavInvoiceBundle, version) {
			return extractInvoiceBundleVersion(bundle, version,
				processDispense, processPharmacyAddress, processPharmacy, processInvoice, save)
		}
	}
	return erx.UnknownVariantIssue("meta.profile", "unsupported invoice bundle profile "+profile.String())
}

func extractInvoiceBundleVersion[D, Pharm, A, Inv any](
	bundle any,
	version string,
	processDispense PkvDispenseFn[D],
	processPharmacyAddress AddressFn[A],
	processPharmacy OrganizationFn[Pharm, A],
	processInvoice InvoiceFn[Inv],
	save func(taskID string, timestamp temporal.Value, pharmacy Pharm, invoice Inv, dispense D),
) error {
	taskID, err := identifierValue(bundle, systemPrescriptionID)
	if err != nil {
		return err
	}
	if taskID == nil {
		return erx.RequiredIssue("identifier", "invoice bundle carries no prescription id")
	}
	rawTimestamp, err := fhirjson.StringAt(bundle, "timestamp")
	if err != nil {
		return erx.MalformedIssue("timestamp", "bundle timestamp is missing or not a string", err)
	}
	timestamp, err := temporal.ParseInstant(rawTimestamp)
	if err != nil {
		return erx.MalformedIssue("timestamp", "bundle timestamp is not an instant", err)
	}

	var (
		dispense *D
		pharmacy *Pharm
		invoice  *Inv
	)
	for resource := range fhirjson.FindAll(bundle, "entry.resource") {
		profile, ok := profileOf(resource)
		if !ok {
			continue
		}
		switch {
		case profile.Is(profileDavDispenseInformation, version):
			d, err := extractPkvDispense(resource, processDispense)
			if err != nil {
				return err
			}
			dispense = &d
		case profile.Is(profileDavPharmacy, version):
			p, err := extractOrganization(resource, processPharmacy, processPharmacyAddress)
			if err != nil {
				return err
			}
			pharmacy = &p
		case profile.Is(profileDavInvoiceLines, version):
			inv, err := extractInvoice(resource, version, processInvoice)
			if err != nil {
				return err
			}
			invoice = &inv
		}
	}

	switch {
	case pharmacy == nil:
		return erx.RequiredIssue("entry", "invoice bundle carries no pharmacy")
	case invoice == nil:
		return erx.RequiredIssue("entry", "invoice bundle carries no invoice")
	case dispense == nil:
		return erx.RequiredIssue("entry", "invoice bundle carries no dispense information")
	}

	save(*taskID, timestamp, *pharmacy, *invoice, *dispense)
	return nil
}

func extractPkvDispense[D any](resource any, processDispense PkvDispenseFn[D]) (D, error) {
	var zero D
	raw, err := fhirjson.StringAt(resource, "whenHandedOver")
	if err != nil {
		return zero, erx.MalformedIssue("whenHandedOver", "handed-over date is missing or not a string", err)
	}
	whenHandedOver, err := temporal.Parse(raw)
	if err != nil {
		return zero, erx.MalformedIssue("whenHandedOver", "handed-over date is not a FHIR temporal", err)
	}
	return processDispense(whenHandedOver), nil
}

func extractInvoice[Inv any](resource any, version string, processInvoice InvoiceFn[Inv]) (Inv, error) {
	var zero Inv
	currency, err := fhirjson.StringAt(resource, "totalGross.currency")
	if err != nil {
		return zero, erx.MalformedIssue("totalGross.currency", "currency is missing or not a string", err)
	}
	totalGross, err := fhirjson.DecimalAt(resource, "totalGross.value")
	if err != nil {
		return zero, erx.MalformedIssue("totalGross.value", "gross total is not a decimal", err)
	}

	totalAdditionalFee := decimal.Zero
	if ext, ok := fhirjson.First(fhirjson.FilterWith(
		fhirjson.FindAll(resource, "totalGross.extension"),
		"url",
		fhirjson.StringValue(extDavTotalCoPayment),
	)); ok {
		totalAdditionalFee, err = fhirjson.DecimalAt(ext, "valueMoney.value")
		if errors.Is(err, fhirjson.ErrAbsent) {
			totalAdditionalFee, err = decimal.Zero, nil
		}
		if err != nil {
			return zero, erx.MalformedIssue("totalGross.extension.valueMoney.value", "co-payment total is not a decimal", err)
		}
	}

	withAttributes := version != "1.1"
	var items []ChargeableItem
	for lineItem := range fhirjson.FindAll(resource, "lineItem") {
		item, ok, err := extractChargeableItem(lineItem, withAttributes)
		if err != nil {
			return zero, err
		}
		if ok {
			items = append(items, item)
		}
	}

	return processInvoice(totalAdditionalFee, totalGross, currency, items), nil
}

func extractChargeableItem(lineItem any, withAttributes bool) (ChargeableItem, bool, error) {
	coding, ok := fhirjson.First(fhirjson.FilterWith(
		fhirjson.FindAll(lineItem, "chargeItemCodeableConcept.coding"),
		"system",
		fhirjson.Or(
			fhirjson.StringValue(systemPZN),
			fhirjson.StringValue(systemTA1),
			fhirjson.StringValue(systemHMNR),
		),
	))
	if !ok {
		logger.Debug("invoice line item without PZN/TA1/HMNR coding dropped")
		return ChargeableItem{}, false, nil
	}
	system, err := fhirjson.StringAt(coding, "system")
	if err != nil {
		return ChargeableItem{}, false, erx.MalformedIssue("coding.system", "coding system is not a string", err)
	}
	code, err := fhirjson.StringAt(coding, "code")
	if err != nil {
		return ChargeableItem{}, false, erx.MalformedIssue("coding.code", "coding code is missing or not a string", err)
	}
	var scheme ChargeScheme
	switch system {
	case systemPZN:
		scheme = SchemePZN
	case systemTA1:
		scheme = SchemeTA1
	case systemHMNR:
		scheme = SchemeHMNR
	}

	value, err := fhirjson.DecimalAt(lineItem, "priceComponent.amount.value")
	if err != nil {
		return ChargeableItem{}, false, erx.MalformedIssue("priceComponent.amount.value", "line price is not a decimal", err)
	}
	factor, err := fhirjson.DecimalAt(lineItem, "priceComponent.factor")
	if errors.Is(err, fhirjson.ErrAbsent) {
		factor, err = decimal.Zero, nil
	}
	if err != nil {
		return ChargeableItem{}, false, erx.MalformedIssue("priceComponent.factor", "line factor is not a decimal", err)
	}

	tax := decimal.Zero
	if ext, found := fhirjson.First(fhirjson.FilterWith(
		fhirjson.FindAll(lineItem, "priceComponent.extension"),
		"url",
		fhirjson.StringValue(extDavVATRate),
	)); found {
		tax, err = fhirjson.DecimalAt(ext, "valueDecimal")
		if errors.Is(err, fhirjson.ErrAbsent) {
			tax, err = decimal.Zero, nil
		}
		if err != nil {
			return ChargeableItem{}, false, erx.MalformedIssue("priceComponent.extension.valueDecimal", "VAT rate is not a decimal", err)
		}
	}

	item := ChargeableItem{
		Scheme: scheme,
		Code:   code,
		Factor: factor,
		Price:  PriceComponent{Value: value, Tax: tax},
	}
	if withAttributes {
		if err := lineItemAttributes(lineItem, &item); err != nil {
			return ChargeableItem{}, false, err
		}
	}
	return item, true, nil
}

// lineItemAttributes reads the Zusatzattribute extension introduced
// with bundle version 1.3: the partial-quantity-delivery flag and the
// PZN of the donating package.
func lineItemAttributes(lineItem any, item *ChargeableItem) error {
	attrs, ok := extensionByURL(lineItem, extDavZusatzattribute)
	if !ok {
		return nil
	}
	group, ok := extensionByURL(attrs, "Teilmengenabgabe")
	if !ok {
		return nil
	}
	if ext, found := extensionByURL(group, "Schluessel"); found {
		flag, err := fhirjson.OptBoolAt(ext, "valueBoolean")
		if err != nil {
			return erx.MalformedIssue("extension.valueBoolean", "partial-quantity flag is not a bool", err)
		}
		if flag != nil {
			item.PartialQuantityDelivery = *flag
		}
	}
	if ext, found := extensionByURL(group, "Spender-PZN"); found {
		code, err := fhirjson.OptStringAt(ext, "valueCodeableConcept.coding.code")
		if err != nil {
			return erx.MalformedIssue("extension.valueCodeableConcept", "spender PZN is not a string", err)
		}
		item.SpenderPZN = code
	}
	return nil
}

// ExtractInvoiceKBVAndErpPrBundle splits a charge-item envelope into
// its three sub-bundles: the DAV invoice bundle, the KBV prescription
// bundle and the signed receipt bundle. process receives the task id of
// the invoice bundle along with the three raw bundle nodes.
func ExtractInvoiceKBVAndErpPrBundle(
	bundle any,
	process func(taskID string, invoiceBundle, kbvBundle, receiptBundle any) error,
) error {
	var taskID string
	var invoiceBundle, kbvBundle, receiptBundle any
	for resource := range fhirjson.FindAll(bundle, "entry.resource") {
		profile, ok := profileOf(resource)
		if !ok {
			continue
		}
		switch {
		case profile.Is(profileDavInvoiceBundle):
			id, err := identifierValue(resource, systemPrescriptionID)
			if err != nil {
				return err
			}
			if id != nil {
				taskID = *id
			}
			invoiceBundle = resource
		case profile.Is(profileKBVBundle):
			kbvBundle = resource
		case profile.Is(profileGemBundle):
			receiptBundle = resource
		}
	}
	switch {
	case invoiceBundle == nil:
		return erx.RequiredIssue("entry", "envelope carries no invoice bundle")
	case kbvBundle == nil:
		return erx.RequiredIssue("entry", "envelope carries no prescription bundle")
	case receiptBundle == nil:
		return erx.RequiredIssue("entry", "envelope carries no receipt bundle")
	}
	return process(taskID, invoiceBundle, kbvBundle, receiptBundle)
}

// ExtractTaskIDsFromChargeItemBundle collects the prescription ids of
// all ChargeItem entries along with the number of entries on the page.
func ExtractTaskIDsFromChargeItemBundle(bundle any) (total int, ids []string, err error) {
	if obj, ok := bundle.(map[string]any); ok {
		if arr, ok := obj["entry"].([]any); ok {
			total = len(arr)
		}
	}
	for resource := range fhirjson.FindAll(bundle, "entry.resource") {
		profile, ok := profileOf(resource)
		if !ok || !profile.Is(profileChargeItem) {
			continue
		}
		id, err := identifierValue(resource, systemPrescriptionID)
		if err != nil {
			return 0, nil, err
		}
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return total, ids, nil
}
