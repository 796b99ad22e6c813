// Package compose builds the outgoing FHIR resources of the
// prescription workflow. Extraction's mirror operation: where the
// extract package turns JSON trees into caller values, compose turns
// caller values into JSON trees ready for serialization.
//
// The only write path of the workflow is the dispense-request
// Communication a patient sends to a pharmacy. Its payload string
// crosses a network boundary to a server that may match it at the
// string level, so the serialization is canonical: fixed field order,
// byte-for-byte stable for equal inputs.
package compose

import (
	"encoding/json"

	"github.com/google/uuid"
)

const (
	profileDispenseRequest = "https://gematik.de/fhir/erp/StructureDefinition/GEM_ERP_PR_Communication_DispReq|1.2"
	systemOrderID          = "https://gematik.de/fhir/NamingSystem/OrderID"
	systemTelematikID      = "https://gematik.de/fhir/NamingSystem/TelematikID"
)

// DispensePayload is the order detail placed into the communication's
// payload contentString. Field order of the serialized form is part of
// the wire contract and must not change.
type DispensePayload struct {
	Version           string   `json:"version"`
	SupplyOptionsType string   `json:"supplyOptionsType"`
	Name              string   `json:"name"`
	Address           []string `json:"address"`
	Hint              string   `json:"hint"`
	Phone             string   `json:"phone"`
}

// Supply option types a dispense request can ask for.
const (
	SupplyOnPremise = "onPremise"
	SupplyDelivery  = "delivery"
	SupplyShipment  = "shipment"
)

// NewOrderID returns a fresh random order id for a dispense request.
func NewOrderID() string {
	return uuid.NewString()
}

// DispenseRequest describes the Communication resource that asks a
// pharmacy to dispense a prescription.
type DispenseRequest struct {
	OrderID      string
	TaskID       string
	AccessCode   string
	RecipientTID string
	Payload      DispensePayload
}

// Build turns the request into a generic JSON tree in the same shape
// the extract package consumes. The basedOn reference carries the task
// id and access code verbatim, without any URL escaping.
func (r DispenseRequest) Build() (map[string]any, error) {
	content, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"resourceType": "Communication",
		"meta": map[string]any{
			"profile": []any{profileDispenseRequest},
		},
		"identifier": []any{
			map[string]any{
				"system": systemOrderID,
				"value":  r.OrderID,
			},
		},
		"status": "unknown",
		"basedOn": []any{
			map[string]any{
				"reference": "Task/" + r.TaskID + "/$accept?ac=" + r.AccessCode,
			},
		},
		"recipient": []any{
			map[string]any{
				"identifier": map[string]any{
					"system": systemTelematikID,
					"value":  r.RecipientTID,
				},
			},
		},
		"payload": []any{
			map[string]any{
				"contentString": string(content),
			},
		},
	}, nil
}

// MarshalJSON serializes the built resource.
func (r DispenseRequest) MarshalJSON() ([]byte, error) {
	tree, err := r.Build()
	if err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}
