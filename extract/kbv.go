package extract

import (
	"errors"
	"strings"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
	"github.com/gofhir/erx/temporal"
)

// KBVHandlers bundles the continuations a KBV prescription bundle
// extraction needs, one per entity the bundle carries.
type KBVHandlers[Org, Pat, Prac, Ins, Med, MedReq, I, P, R, Q, A any] struct {
	Quantity                 QuantityFn[Q]
	Ratio                    RatioFn[R, Q]
	Address                  AddressFn[A]
	Organization             OrganizationFn[Org, A]
	Patient                  PatientFn[Pat, A]
	Practitioner             PractitionerFn[Prac]
	Insurance                InsuranceInformationFn[Ins]
	Ingredient               IngredientFn[I, R]
	Medication               MedicationFn[Med, I, R]
	MultiplePrescriptionInfo MultiplePrescriptionInfoFn[P, R]
	MedicationRequest        MedicationRequestFn[MedReq, P]
}

// ExtractKBVBundle walks a KBV prescription bundle, dispatching on the
// bundle's declared profile generation, and hands the six extracted
// entities to save in one call. savePVSIdentifier receives the
// Pruefnummer of the prescribing software before the walk; it is nil
// when the bundle carries none.
func ExtractKBVBundle[Org, Pat, Prac, Ins, Med, MedReq, I, P, R, Q, A any](
	bundle any,
	h KBVHandlers[Org, Pat, Prac, Ins, Med, MedReq, I, P, R, Q, A],
	savePVSIdentifier func(pvsID *string),
	save func(organization Org, patient Pat, practitioner Prac, insurance Ins, medication Med, medicationRequest MedReq),
) error {
	profile, ok := profileOf(bundle)
	if !ok {
		return erx.RequiredIssue("meta.profile", "bundle declares no profile")
	}
	switch {
	case profile.Is(profileKBVBundle, erx.KBV102.String()):
		return extractKBVBundleGeneration(bundle, h, savePVSIdentifier, save, erx.KBV102)
	case profile.Is(profileKBVBundle, erx.KBV110.String()):
		return extractKBVBundleGeneration(bundle, h, savePVSIdentifier, save, erx.KBV110)
	default:
		return erx.UnknownVariantIssue("meta.profile", "unsupported bundle profile "+profile.String())
	}
}

// ExtractKBVBundle102 extracts a 1.0.2 prescription bundle without
// consulting its declared profile.
func ExtractKBVBundle102[Org, Pat, Prac, Ins, Med, MedReq, I, P, R, Q, A any](
	bundle any,
	h KBVHandlers[Org, Pat, Prac, Ins, Med, MedReq, I, P, R, Q, A],
	savePVSIdentifier func(pvsID *string),
	save func(organization Org, patient Pat, practitioner Prac, insurance Ins, medication Med, medicationRequest MedReq),
) error {
	return extractKBVBundleGeneration(bundle, h, savePVSIdentifier, save, erx.KBV102)
}

// ExtractKBVBundle110 extracts a 1.1.0 prescription bundle without
// consulting its declared profile.
func ExtractKBVBundle110[Org, Pat, Prac, Ins, Med, MedReq, I, P, R, Q, A any](
	bundle any,
	h KBVHandlers[Org, Pat, Prac, Ins, Med, MedReq, I, P, R, Q, A],
	savePVSIdentifier func(pvsID *string),
	save func(organization Org, patient Pat, practitioner Prac, insurance Ins, medication Med, medicationRequest MedReq),
) error {
	return extractKBVBundleGeneration(bundle, h, savePVSIdentifier, save, erx.KBV110)
}

func extractKBVBundleGeneration[Org, Pat, Prac, Ins, Med, MedReq, I, P, R, Q, A any](
	bundle any,
	h KBVHandlers[Org, Pat, Prac, Ins, Med, MedReq, I, P, R, Q, A],
	savePVSIdentifier func(pvsID *string),
	save func(organization Org, patient Pat, practitioner Prac, insurance Ins, medication Med, medicationRequest MedReq),
	version erx.KBVVersion,
) error {
	pvsID, err := pvsIdentifier(bundle)
	if err != nil {
		return err
	}
	savePVSIdentifier(pvsID)

	// From 1.1.0 the bundle may carry several practitioners; the
	// composition's author reference picks the responsible one.
	practitionerID := ""
	if version == erx.KBV110 {
		practitionerID = authorPractitionerID(bundle)
	}

	medicalVersion := version.MedicalDataVersion()

	var (
		organization      *Org
		patient           *Pat
		practitioner      *Prac
		insurance         *Ins
		medication        *Med
		medicationRequest *MedReq
	)

	for resource := range fhirjson.FindAll(bundle, "entry.resource") {
		profile, ok := profileOf(resource)
		if !ok {
			continue
		}
		switch {
		case profile.Is(profileKBVOrganization, medicalVersion):
			org, err := extractOrganization(resource, h.Organization, h.Address)
			if err != nil {
				return err
			}
			organization = &org
		case profile.Is(profileKBVPatient, medicalVersion):
			var pat Pat
			if version == erx.KBV102 {
				pat, err = extractPatient102(resource, h.Patient, h.Address)
			} else {
				pat, err = extractPatient110(resource, h.Patient, h.Address)
			}
			if err != nil {
				return err
			}
			patient = &pat
		case profile.Is(profileKBVPractitioner, medicalVersion):
			if version == erx.KBV110 && !matchesPractitionerID(resource, practitionerID) {
				continue
			}
			prac, err := extractPractitioner(resource, h.Practitioner)
			if err != nil {
				return err
			}
			practitioner = &prac
		case profile.Is(profileKBVCoverage, medicalVersion):
			ins, err := extractInsuranceInformation(resource, h.Insurance)
			if err != nil {
				return err
			}
			insurance = &ins
		case profile.Is(profileKBVPrescription, version.String()):
			req, err := extractMedicationRequest(resource, h, version)
			if err != nil {
				return err
			}
			medicationRequest = &req
		case isMedicationProfile(profile, version.String()):
			med, err := ExtractMedication(resource, h.Quantity, h.Ratio, h.Ingredient, h.Medication)
			if err != nil {
				return err
			}
			medication = &med
		}
	}

	switch {
	case organization == nil:
		return erx.RequiredIssue("entry", "bundle carries no organization")
	case patient == nil:
		return erx.RequiredIssue("entry", "bundle carries no patient")
	case practitioner == nil:
		return erx.RequiredIssue("entry", "bundle carries no practitioner")
	case insurance == nil:
		return erx.RequiredIssue("entry", "bundle carries no coverage")
	case medication == nil:
		return erx.RequiredIssue("entry", "bundle carries no medication")
	case medicationRequest == nil:
		return erx.RequiredIssue("entry", "bundle carries no medication request")
	}

	save(*organization, *patient, *practitioner, *insurance, *medication, *medicationRequest)
	return nil
}

func isMedicationProfile(profile erx.Profile, version string) bool {
	return profile.Is(profileMedicationPZN, version) ||
		profile.Is(profileMedicationCompounding, version) ||
		profile.Is(profileMedicationIngredient, version) ||
		profile.Is(profileMedicationFreeText, version)
}

func pvsIdentifier(bundle any) (*string, error) {
	id, ok := fhirjson.First(fhirjson.FilterWith(
		fhirjson.FindAll(bundle, "entry.resource.author.identifier"),
		"system",
		fhirjson.StringValue(systemPruefnummer),
	))
	if !ok {
		return nil, nil
	}
	v, err := fhirjson.StringAt(id, "value")
	if err != nil {
		return nil, erx.MalformedIssue("author.identifier.value", "Pruefnummer is not a string", err)
	}
	return &v, nil
}

func authorPractitionerID(bundle any) string {
	author, ok := fhirjson.First(fhirjson.FilterWith(
		fhirjson.FindAll(bundle, "entry.resource.author"),
		"type",
		fhirjson.StringValue("Practitioner"),
	))
	if !ok {
		return ""
	}
	ref, err := fhirjson.StringAt(author, "reference")
	if err != nil {
		return ""
	}
	parts := strings.Split(ref, "/")
	return strings.TrimPrefix(parts[len(parts)-1], "urn:uuid:")
}

func matchesPractitionerID(resource any, practitionerID string) bool {
	id, err := fhirjson.StringAt(resource, "id")
	if err != nil {
		return practitionerID == ""
	}
	return strings.TrimPrefix(id, "urn:uuid:") == practitionerID
}

func extractOrganization[Org, A any](
	resource any,
	onOrganization OrganizationFn[Org, A],
	onAddress AddressFn[A],
) (Org, error) {
	var zero Org
	name, err := fhirjson.OptStringAt(resource, "name")
	if err != nil {
		return zero, erx.MalformedIssue("name", "organization name is not a string", err)
	}
	var phone, mail *string
	for telecom := range fhirjson.FindAll(resource, "telecom") {
		system, err := fhirjson.StringAt(telecom, "system")
		if errors.Is(err, fhirjson.ErrAbsent) {
			continue
		}
		if err != nil {
			return zero, erx.MalformedIssue("telecom.system", "telecom system is not a string", err)
		}
		value, err := fhirjson.OptStringAt(telecom, "value")
		if err != nil {
			return zero, erx.MalformedIssue("telecom.value", "telecom value is not a string", err)
		}
		switch system {
		case "phone":
			phone = value
		case "email":
			mail = value
		}
	}
	uniqueIdentifier, err := identifierValue(resource, systemBSNR)
	if err != nil {
		return zero, err
	}
	address, err := ExtractAddress(resource, onAddress)
	if err != nil {
		return zero, err
	}
	return onOrganization(name, address, uniqueIdentifier, phone, mail), nil
}

func extractPatient102[Pat, A any](
	resource any,
	onPatient PatientFn[Pat, A],
	onAddress AddressFn[A],
) (Pat, error) {
	var zero Pat
	name, err := ExtractHumanName(resource)
	if err != nil {
		return zero, err
	}
	birthDate, err := patientBirthDate(resource)
	if err != nil {
		return zero, err
	}
	kvnr, err := identifierValue(resource, systemKVNRGKV)
	if err != nil {
		return zero, err
	}
	address, err := ExtractAddress(resource, onAddress)
	if err != nil {
		return zero, err
	}
	return onPatient(name, address, birthDate, kvnr), nil
}

// extractPatient110 reads the flattened 1.1.0 identifier: the coding of
// the identifier type decides whether the KVNR is GKV or PKV.
func extractPatient110[Pat, A any](
	resource any,
	onPatient PatientFn[Pat, A],
	onAddress AddressFn[A],
) (Pat, error) {
	var zero Pat
	name, err := ExtractHumanName(resource)
	if err != nil {
		return zero, err
	}
	birthDate, err := patientBirthDate(resource)
	if err != nil {
		return zero, err
	}
	kvnrSystem := systemKVNRGKVSID
	coding, ok := fhirjson.First(fhirjson.FilterWith(
		fhirjson.FindAll(resource, "identifier.type.coding"),
		"system",
		fhirjson.StringValue(systemIdentifierDE),
	))
	if ok {
		code, err := fhirjson.OptStringAt(coding, "code")
		if err != nil {
			return zero, erx.MalformedIssue("identifier.type.coding.code", "identifier type is not a string", err)
		}
		if code != nil && *code == "PKV" {
			kvnrSystem = systemKVNRPKVSID
		}
	}
	kvnr, err := identifierValue(resource, kvnrSystem)
	if err != nil {
		return zero, err
	}
	address, err := ExtractAddress(resource, onAddress)
	if err != nil {
		return zero, err
	}
	return onPatient(name, address, birthDate, kvnr), nil
}

// patientBirthDate tolerates incomplete birth dates; year-only and
// year-month values keep their reduced precision.
func patientBirthDate(resource any) (*temporal.Value, error) {
	raw, err := fhirjson.OptStringAt(resource, "birthDate")
	if err != nil {
		return nil, erx.MalformedIssue("birthDate", "birth date is not a string", err)
	}
	if raw == nil {
		return nil, nil
	}
	v, err := temporal.Parse(*raw)
	if err != nil {
		return nil, erx.MalformedIssue("birthDate", "birth date is not a FHIR date", err)
	}
	return &v, nil
}

func extractPractitioner[Prac any](
	resource any,
	onPractitioner PractitionerFn[Prac],
) (Prac, error) {
	var zero Prac
	name, err := ExtractHumanName(resource)
	if err != nil {
		return zero, err
	}
	var qualification *string
	for q := range fhirjson.FindAll(resource, "qualification") {
		text, err := fhirjson.OptStringAt(q, "code.text")
		if err != nil {
			return zero, erx.MalformedIssue("qualification.code.text", "qualification is not a string", err)
		}
		if text != nil {
			qualification = text
			break
		}
	}
	lanr, err := identifierValue(resource, systemLANR)
	if err != nil {
		return zero, err
	}
	return onPractitioner(name, qualification, lanr), nil
}

func extractInsuranceInformation[Ins any](
	resource any,
	onInsurance InsuranceInformationFn[Ins],
) (Ins, error) {
	var zero Ins
	name, err := fhirjson.OptStringAt(resource, "payor.display")
	if err != nil {
		return zero, erx.MalformedIssue("payor.display", "payor display is not a string", err)
	}
	var statusCode *string
	ext, ok := fhirjson.First(fhirjson.FilterWith(
		fhirjson.FindAll(resource, "extension"),
		"valueCoding.system",
		fhirjson.StringValue(systemVersichertenstatus),
	))
	if ok {
		statusCode, err = fhirjson.OptStringAt(ext, "valueCoding.code")
		if err != nil {
			return zero, erx.MalformedIssue("extension.valueCoding.code", "insurance status is not a string", err)
		}
	}
	return onInsurance(name, statusCode), nil
}
