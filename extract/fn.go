package extract

import (
	"github.com/gofhir/erx"
	"github.com/gofhir/erx/temporal"
)

// QuantityFn builds the caller's quantity value. The value keeps its
// source text so no decimal precision is lost before domain conversion.
type QuantityFn[Q any] func(value, unit string) Q

// RatioFn builds the caller's ratio value. Either side may be nil when
// the source carries no numerator or denominator.
type RatioFn[R, Q any] func(numerator, denominator *Q) R

// AddressFn builds the caller's address value. lines preserves document
// order; absent components are nil.
type AddressFn[A any] func(lines []string, postalCode, city *string) A

// IdentifierSet holds the drug codes present on a medication or
// ingredient. Only codes carried by the source are populated; unknown
// coding systems are dropped.
type IdentifierSet struct {
	PZN    *string
	ATC    *string
	ASK    *string
	SNOMED *string
}

// IsEmpty reports whether no code is populated.
func (s IdentifierSet) IsEmpty() bool {
	return s.PZN == nil && s.ATC == nil && s.ASK == nil && s.SNOMED == nil
}

// IngredientFn builds the caller's ingredient value. amount is the
// free-text fallback (e.g. "Ad 100 g") used when no structured strength
// ratio is available.
type IngredientFn[I, R any] func(text string, form *string, identifier IdentifierSet, amount *string, strength *R) I

// MedicationFn builds the caller's medication value. It is shared by
// all KBV medication shapes and the EPA shape; fields a shape does not
// carry arrive as nil or empty. nested holds the contained medications
// of an EPA compounding ("Rezeptur") resource.
type MedicationFn[M, I, R any] func(
	text *string,
	category erx.MedicationCategory,
	form *string,
	amount *R,
	vaccine bool,
	manufacturingInstructions *string,
	packaging *string,
	normSizeCode *string,
	identifier IdentifierSet,
	nested []M,
	ingredients []I,
	lotNumber *string,
	expirationDate *temporal.Value,
) M

// MultiplePrescriptionInfoFn builds the caller's value for the KBV
// multiple-prescription extension. numbering is nil unless the
// prescription is part of a series; end is only populated from profile
// 1.1.0 onwards.
type MultiplePrescriptionInfoFn[P, R any] func(indicator bool, numbering *R, start, end *temporal.Value) P

// MedicationRequestFn builds the caller's medication-request value.
// authoredOn is nil for profile 1.0.2, which does not carry it.
type MedicationRequestFn[R, P any] func(
	authoredOn *temporal.Value,
	dateOfAccident *temporal.Value,
	location *string,
	accidentType erx.AccidentType,
	emergencyFee *bool,
	substitutionAllowed bool,
	dosageInstruction *string,
	quantity int,
	multiplePrescriptionInfo P,
	note *string,
	bvg bool,
	additionalFee *string,
) R

// OrganizationFn builds the caller's organization value. It serves both
// the prescribing practice (uniqueIdentifier = BSNR) and the dispensing
// pharmacy of an invoice bundle (uniqueIdentifier = IKNR).
type OrganizationFn[R, A any] func(name *string, address A, uniqueIdentifier, phone, mail *string) R

// PatientFn builds the caller's patient value. birthDate may carry a
// reduced precision (year or year-month) for incomplete birth dates.
type PatientFn[R, A any] func(name *string, address A, birthDate *temporal.Value, insuranceIdentifier *string) R

// PractitionerFn builds the caller's practitioner value.
// practitionerIdentifier is the LANR.
type PractitionerFn[R any] func(name, qualification, practitionerIdentifier *string) R

// InsuranceInformationFn builds the caller's coverage value.
type InsuranceInformationFn[R any] func(name, statusCode *string) R

// MedicationDispenseFn builds the caller's dispense value.
// whenHandedOver may be a bare date or a full instant depending on the
// profile version.
type MedicationDispenseFn[R, M any] func(
	dispenseID string,
	patientIdentifier string,
	medication *M,
	wasSubstituted bool,
	dosageInstruction *string,
	performer string,
	whenHandedOver temporal.Value,
) R

// TaskFn builds the caller's task value. lastMedicationDispense is only
// populated from workflow profile 1.3 onwards.
type TaskFn[R any] func(
	taskID string,
	accessCode *string,
	lastModified *temporal.Value,
	expiresOn *temporal.Value,
	acceptUntil *temporal.Value,
	authoredOn *temporal.Value,
	status erx.TaskStatus,
	lastMedicationDispense *temporal.Value,
) R

// CommunicationFn builds the caller's communication value. payload is
// the raw contentString; embedded JSON inside it is not parsed here.
type CommunicationFn[R any] func(
	profile erx.CommunicationProfile,
	taskID string,
	communicationID string,
	orderID *string,
	sentOn *temporal.Value,
	sender string,
	recipient string,
	payload *string,
) R

// AuditEventFn builds the caller's audit-event value. taskID is nil
// when the event references no prescription.
type AuditEventFn[R any] func(id string, taskID *string, description *string, timestamp temporal.Value) R

// PkvDispenseFn builds the caller's value for the dispense information
// of a PKV invoice bundle.
type PkvDispenseFn[R any] func(whenHandedOver temporal.Value) R
