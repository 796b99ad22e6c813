package extract

// Profile URLs the resource extractors dispatch on.
const (
	profileKBVBundle             = "https://fhir.kbv.de/StructureDefinition/KBV_PR_ERP_Bundle"
	profileKBVPrescription       = "https://fhir.kbv.de/StructureDefinition/KBV_PR_ERP_Prescription"
	profileKBVOrganization       = "https://fhir.kbv.de/StructureDefinition/KBV_PR_FOR_Organization"
	profileKBVPatient            = "https://fhir.kbv.de/StructureDefinition/KBV_PR_FOR_Patient"
	profileKBVPractitioner       = "https://fhir.kbv.de/StructureDefinition/KBV_PR_FOR_Practitioner"
	profileKBVCoverage           = "https://fhir.kbv.de/StructureDefinition/KBV_PR_FOR_Coverage"
	profileMedicationPZN         = "https://fhir.kbv.de/StructureDefinition/KBV_PR_ERP_Medication_PZN"
	profileMedicationCompounding = "https://fhir.kbv.de/StructureDefinition/KBV_PR_ERP_Medication_Compounding"
	profileMedicationIngredient  = "https://fhir.kbv.de/StructureDefinition/KBV_PR_ERP_Medication_Ingredient"
	profileMedicationFreeText    = "https://fhir.kbv.de/StructureDefinition/KBV_PR_ERP_Medication_FreeText"

	profileGemTask           = "https://gematik.de/fhir/erp/StructureDefinition/GEM_ERP_PR_Task"
	profileGemBundle         = "https://gematik.de/fhir/erp/StructureDefinition/GEM_ERP_PR_Bundle"
	profileGemMedication     = "https://gematik.de/fhir/erp/StructureDefinition/GEM_ERP_PR_Medication"
	profileGemCommDispReq    = "https://gematik.de/fhir/erp/StructureDefinition/GEM_ERP_PR_Communication_DispReq"
	profileGemCommReply      = "https://gematik.de/fhir/erp/StructureDefinition/GEM_ERP_PR_Communication_Reply"
	profileLegacyTask        = "https://gematik.de/fhir/StructureDefinition/ErxTask"
	profileLegacyCommDispReq = "https://gematik.de/fhir/StructureDefinition/ErxCommunicationDispReq"
	profileLegacyCommReply   = "https://gematik.de/fhir/StructureDefinition/ErxCommunicationReply"
	profileEpaMedication     = "https://gematik.de/fhir/epa-medication/StructureDefinition/epa-medication-pharmaceutical-product"
	profileChargeItem        = "https://gematik.de/fhir/erpchrg/StructureDefinition/GEM_ERPCHRG_PR_ChargeItem"

	profileDavInvoiceBundle       = "http://fhir.abda.de/eRezeptAbgabedaten/StructureDefinition/DAV-PKV-PR-ERP-AbgabedatenBundle"
	profileDavDispenseInformation = "http://fhir.abda.de/eRezeptAbgabedaten/StructureDefinition/DAV-PKV-PR-ERP-Abgabeinformationen"
	profileDavPharmacy            = "http://fhir.abda.de/eRezeptAbgabedaten/StructureDefinition/DAV-PKV-PR-ERP-Apotheke"
	profileDavInvoiceLines        = "http://fhir.abda.de/eRezeptAbgabedaten/StructureDefinition/DAV-PKV-PR-ERP-Abrechnungszeilen"
)

// Identifier system URLs.
const (
	systemPrescriptionID       = "https://gematik.de/fhir/erp/NamingSystem/GEM_ERP_NS_PrescriptionId"
	systemAccessCode           = "https://gematik.de/fhir/erp/NamingSystem/GEM_ERP_NS_AccessCode"
	systemLegacyPrescriptionID = "https://gematik.de/fhir/NamingSystem/PrescriptionID"
	systemLegacyAccessCode     = "https://gematik.de/fhir/NamingSystem/AccessCode"
	systemOrderID              = "https://gematik.de/fhir/NamingSystem/OrderID"
	systemTelematikID          = "https://gematik.de/fhir/NamingSystem/TelematikID"
	systemTelematikSID         = "https://gematik.de/fhir/sid/telematik-id"

	systemPZN    = "http://fhir.de/CodeSystem/ifa/pzn"
	systemATC    = "http://fhir.de/CodeSystem/bfarm/atc"
	systemASK    = "http://fhir.de/CodeSystem/ask"
	systemSnomed = "http://snomed.info/sct"
	systemTA1    = "http://TA1.abda.de"
	systemHMNR   = "http://fhir.de/sid/gkv/hmnr"

	systemKVNRGKV            = "http://fhir.de/NamingSystem/gkv/kvid-10"
	systemKVNRGKVSID         = "http://fhir.de/sid/gkv/kvid-10"
	systemKVNRPKVSID         = "http://fhir.de/sid/pkv/kvid-10"
	systemIdentifierDE       = "http://fhir.de/CodeSystem/identifier-type-de-basis"
	systemBSNR               = "https://fhir.kbv.de/NamingSystem/KBV_NS_Base_BSNR"
	systemLANR               = "https://fhir.kbv.de/NamingSystem/KBV_NS_Base_ANR"
	systemPruefnummer        = "https://fhir.kbv.de/NamingSystem/KBV_NS_FOR_Pruefnummer"
	systemDosageForm         = "https://fhir.kbv.de/CodeSystem/KBV_CS_SFHIR_KBV_DARREICHUNGSFORM"
	systemVersichertenstatus = "https://fhir.kbv.de/CodeSystem/KBV_CS_SFHIR_KBV_VERSICHERTENSTATUS"
	systemMedicationCategory = "https://fhir.kbv.de/CodeSystem/KBV_CS_ERP_Medication_Category"
)

// Extension URLs.
const (
	extAccident             = "https://fhir.kbv.de/StructureDefinition/KBV_EX_ERP_Accident"
	extEmergencyServicesFee = "https://fhir.kbv.de/StructureDefinition/KBV_EX_ERP_EmergencyServicesFee"
	extMultiplePrescription = "https://fhir.kbv.de/StructureDefinition/KBV_EX_ERP_Multiple_Prescription"
	extBVG                  = "https://fhir.kbv.de/StructureDefinition/KBV_EX_ERP_BVG"
	extStatusCoPayment      = "https://fhir.kbv.de/StructureDefinition/KBV_EX_ERP_StatusCoPayment"
	extVaccine              = "https://fhir.kbv.de/StructureDefinition/KBV_EX_ERP_Medication_Vaccine"
	extCategory             = "https://fhir.kbv.de/StructureDefinition/KBV_EX_ERP_Medication_Category"
	extCompoundingInstr     = "https://fhir.kbv.de/StructureDefinition/KBV_EX_ERP_Medication_CompoundingInstruction"
	extPackaging            = "https://fhir.kbv.de/StructureDefinition/KBV_EX_ERP_Medication_Packaging"
	extPackagingSize        = "https://fhir.kbv.de/StructureDefinition/KBV_EX_ERP_Medication_PackagingSize"
	extIngredientAmount     = "https://fhir.kbv.de/StructureDefinition/KBV_EX_ERP_Medication_Ingredient_Amount"
	extIngredientForm       = "https://fhir.kbv.de/StructureDefinition/KBV_EX_ERP_Medication_Ingredient_Form"
	extNormgroesse          = "http://fhir.de/StructureDefinition/normgroesse"

	extGemExpiryDate      = "https://gematik.de/fhir/erp/StructureDefinition/GEM_ERP_EX_ExpiryDate"
	extGemAcceptDate      = "https://gematik.de/fhir/erp/StructureDefinition/GEM_ERP_EX_AcceptDate"
	extGemLastMedDispense = "https://gematik.de/fhir/erp/StructureDefinition/GEM_ERP_EX_LastMedicationDispense"
	extLegacyExpiryDate   = "https://gematik.de/fhir/StructureDefinition/ExpiryDate"
	extLegacyAcceptDate   = "https://gematik.de/fhir/StructureDefinition/AcceptDate"

	extEpaDrugCategory  = "https://gematik.de/fhir/epa-medication/StructureDefinition/drug-category-extension"
	extEpaVaccine       = "https://gematik.de/fhir/epa-medication/StructureDefinition/medication-id-vaccine-extension"
	extEpaManufacturing = "https://gematik.de/fhir/epa-medication/StructureDefinition/medication-manufacturing-instructions-extension"
	extEpaPackaging     = "https://gematik.de/fhir/epa-medication/StructureDefinition/medication-formulation-packaging-extension"

	extDavTotalCoPayment  = "http://fhir.abda.de/eRezeptAbgabedaten/StructureDefinition/DAV-EX-ERP-Gesamtzuzahlung"
	extDavVATRate         = "http://fhir.abda.de/eRezeptAbgabedaten/StructureDefinition/DAV-EX-ERP-MwStSatz"
	extDavZusatzattribute = "http://fhir.abda.de/eRezeptAbgabedaten/StructureDefinition/DAV-EX-ERP-Zusatzattribute"
)
