package erx

// WorkflowVersion represents a gematik E-Rezept workflow profile
// generation.
type WorkflowVersion string

// Supported workflow generations.
const (
	// Workflow111 is the legacy 1.1.1 generation with
	// gematik.de/fhir/StructureDefinition profiles.
	Workflow111 WorkflowVersion = "1.1.1"
	// Workflow12 is the 1.2 generation (GEM_ERP_PR_* profiles).
	Workflow12 WorkflowVersion = "1.2"
	// Workflow13 is the 1.3 generation, adding lastMedicationDispense.
	Workflow13 WorkflowVersion = "1.3"
	// Workflow14 is the 1.4 generation with dispense/medication bundle pairs.
	Workflow14 WorkflowVersion = "1.4"
)

// String returns the version string.
func (v WorkflowVersion) String() string {
	return string(v)
}

// IsValid returns true if this is a supported workflow generation.
func (v WorkflowVersion) IsValid() bool {
	switch v {
	case Workflow111, Workflow12, Workflow13, Workflow14:
		return true
	default:
		return false
	}
}

// KBVVersion represents a KBV prescription-bundle profile generation.
type KBVVersion string

// Supported KBV generations.
const (
	// KBV102 is generation 1.0.2 of the KBV_PR_ERP profiles.
	KBV102 KBVVersion = "1.0.2"
	// KBV110 is generation 1.1.0.
	KBV110 KBVVersion = "1.1.0"
)

// String returns the version string.
func (v KBVVersion) String() string {
	return string(v)
}

// IsValid returns true if this is a supported KBV generation.
func (v KBVVersion) IsValid() bool {
	switch v {
	case KBV102, KBV110:
		return true
	default:
		return false
	}
}

// MedicalDataVersion returns the KBV FOR profile version paired with
// this prescription generation. Organization, Patient, Practitioner and
// Coverage entries of a 1.0.2 bundle declare FOR 1.0.3 profiles; 1.1.0
// bundles declare FOR 1.1.0.
func (v KBVVersion) MedicalDataVersion() string {
	if v == KBV102 {
		return "1.0.3"
	}
	return string(v)
}
