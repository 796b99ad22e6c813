package erx

import "strconv"

// MedicationCategory represents the legal category of a prescribed
// medication.
type MedicationCategory string

const (
	// CategoryArzneiUndVerbandmittel covers regular drugs and dressings (code "00").
	CategoryArzneiUndVerbandmittel MedicationCategory = "ARZNEI_UND_VERBAND_MITTEL"
	// CategoryBTM covers narcotics under the BtMG (code "01").
	CategoryBTM MedicationCategory = "BTM"
	// CategoryAMVV covers drugs under the AMVV prescription regulation (code "02").
	CategoryAMVV MedicationCategory = "AMVV"
	// CategorySonstiges covers other products (code "03", profile 1.1.0 onwards).
	CategorySonstiges MedicationCategory = "SONSTIGES"
	// CategoryUnknown is the safe default for absent or unrecognized codes.
	CategoryUnknown MedicationCategory = "UNKNOWN"
)

// MedicationProfile identifies which of the four KBV medication shapes a
// resource declares.
type MedicationProfile string

const (
	// MedicationPZN is a finished product identified by its PZN.
	MedicationPZN MedicationProfile = "PZN"
	// MedicationCompounding is a pharmacy-compounded preparation.
	MedicationCompounding MedicationProfile = "COMPOUNDING"
	// MedicationIngredient is prescribed by active ingredient.
	MedicationIngredient MedicationProfile = "INGREDIENT"
	// MedicationFreeText carries only a free-text description.
	MedicationFreeText MedicationProfile = "FREETEXT"
	// MedicationUnknown is the safe default for an unrecognized or
	// missing medication profile.
	MedicationUnknown MedicationProfile = "UNKNOWN"
)

// TaskStatus is the closed set of e-prescription task states.
type TaskStatus string

const (
	TaskStatusReady      TaskStatus = "Ready"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusDraft      TaskStatus = "Draft"
	TaskStatusRequested  TaskStatus = "Requested"
	TaskStatusReceived   TaskStatus = "Received"
	TaskStatusAccepted   TaskStatus = "Accepted"
	TaskStatusRejected   TaskStatus = "Rejected"
	TaskStatusCanceled   TaskStatus = "Canceled"
	TaskStatusOnHold     TaskStatus = "OnHold"
	TaskStatusFailed     TaskStatus = "Failed"
)

var taskStatusByCode = map[string]TaskStatus{
	"ready":            TaskStatusReady,
	"in-progress":      TaskStatusInProgress,
	"completed":        TaskStatusCompleted,
	"draft":            TaskStatusDraft,
	"requested":        TaskStatusRequested,
	"received":         TaskStatusReceived,
	"accepted":         TaskStatusAccepted,
	"rejected":         TaskStatusRejected,
	"cancelled":        TaskStatusCanceled,
	"on-hold":          TaskStatusOnHold,
	"failed":           TaskStatusFailed,
	"entered-in-error": TaskStatusFailed,
}

// ParseTaskStatus maps a FHIR Task.status code to its TaskStatus. There
// is no safe domain default for an unrecognized status, so it is
// surfaced as an unknown-variant Issue instead of being coerced.
func ParseTaskStatus(code string) (TaskStatus, error) {
	if s, ok := taskStatusByCode[code]; ok {
		return s, nil
	}
	return "", UnknownVariantIssue("status", "unrecognized task status "+strconv.Quote(code))
}

// CommunicationProfile distinguishes the two communication directions
// the engine extracts.
type CommunicationProfile string

const (
	// CommunicationDispReq is a dispense request sent to a pharmacy.
	CommunicationDispReq CommunicationProfile = "ErxCommunicationDispReq"
	// CommunicationReply is a pharmacy's reply.
	CommunicationReply CommunicationProfile = "ErxCommunicationReply"
)

// AccidentType is the accident context of a medication request.
type AccidentType string

const (
	// AccidentUnfall is a general accident (code "1").
	AccidentUnfall AccidentType = "Unfall"
	// AccidentArbeitsunfall is a workplace accident (code "2").
	AccidentArbeitsunfall AccidentType = "Arbeitsunfall"
	// AccidentBerufskrankheit is an occupational disease (code "4").
	AccidentBerufskrankheit AccidentType = "Berufskrankheit"
	// AccidentNone means no accident context was given.
	AccidentNone AccidentType = "None"
)

// ParseAccidentType maps an accident kennzeichen code, defaulting to
// AccidentNone for absent or unrecognized codes.
func ParseAccidentType(code string) AccidentType {
	switch code {
	case "1":
		return AccidentUnfall
	case "2":
		return AccidentArbeitsunfall
	case "4":
		return AccidentBerufskrankheit
	default:
		return AccidentNone
	}
}
