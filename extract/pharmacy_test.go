package extract

import (
	"testing"
	"time"
)

const pharmacyBundle = `{
	"resourceType": "Bundle",
	"id": "f0c2f114-39a0-445c-9fbd-124f695bd369",
	"total": 4,
	"entry": [
		{
			"resource": {
				"resourceType": "Location",
				"id": "ngiyAgfjybMSYbZDJEGDbsEert",
				"name": "Heide-Apotheke",
				"identifier": [{"system": "https://gematik.de/fhir/NamingSystem/TelematikID", "value": "3-05.2.1007600000.080"}],
				"type": [{"coding": [{"code": "OUTPHARM"}]}, {"coding": [{"code": "MOBL"}]}],
				"position": {"latitude": 9.657947, "longitude": 52.334252},
				"address": [{"line": ["Schuetzenstr. 10"], "postalCode": "31535", "city": "Neustadt"}],
				"telecom": [
					{"system": "phone", "value": "05032/965290"},
					{"system": "email", "value": "info@heide-apotheke-neustadt.de"},
					{"system": "url", "value": "http://www.heide-apotheke-neustadt.de"}
				],
				"hoursOfOperation": [
					{"daysOfWeek": ["mon", "tue"], "openingTime": "08:00:00", "closingTime": "18:30:00"},
					{"daysOfWeek": ["mon"], "openingTime": "19:00:00", "closingTime": "20:00:00"}
				],
				"contained": [
					{
						"resourceType": "HealthcareService",
						"type": [{"coding": [{"code": "498"}]}],
						"availableTime": [
							{"daysOfWeek": ["mon", "fri"], "availableStartTime": "09:00:00", "availableEndTime": "16:00:00"}
						]
					},
					{
						"resourceType": "Endpoint",
						"connectionType": {"code": "erp-pickup"},
						"address": "https://pickup.heide-apotheke-neustadt.de"
					},
					{
						"resourceType": "Endpoint",
						"connectionType": {"code": "erp-onlineService"},
						"address": "https://shop.heide-apotheke-neustadt.de"
					}
				]
			}
		},
		{
			"resource": {
				"resourceType": "Location",
				"id": "placeholder",
				"name": "-"
			}
		},
		{
			"resource": {
				"resourceType": "Location",
				"id": "no-telematik-id",
				"name": "Kaputte Apotheke",
				"address": [{"line": [], "postalCode": "12345", "city": "Nirgendwo"}]
			}
		},
		{
			"resource": {
				"resourceType": "Location",
				"id": "plain",
				"name": "Dorf-Apotheke",
				"identifier": [{"system": "https://gematik.de/fhir/sid/telematik-id", "value": "3-06.2.2345678.090"}],
				"telecom": [{"system": "url", "value": "not a url"}],
				"address": [{"line": ["Hauptstr. 1"], "postalCode": "21423", "city": "Winsen"}]
			}
		}
	]
}`

func TestExtractPharmacyServices(t *testing.T) {
	var failed []error
	bundleID, total, pharmacies, err := ExtractPharmacyServices(mustDecode(t, pharmacyBundle), func(entry any, err error) {
		failed = append(failed, err)
	})
	if err != nil {
		t.Fatalf("ExtractPharmacyServices returned error: %v", err)
	}
	if bundleID != "f0c2f114-39a0-445c-9fbd-124f695bd369" {
		t.Errorf("bundleID = %q", bundleID)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	// The placeholder row is filtered before extraction; the entry
	// without a Telematik-ID fails and is reported.
	if len(failed) != 1 {
		t.Fatalf("onError fired %d times, want 1", len(failed))
	}
	if len(pharmacies) != 2 {
		t.Fatalf("got %d pharmacies, want 2", len(pharmacies))
	}

	p := pharmacies[0]
	if p.ID != "ngiyAgfjybMSYbZDJEGDbsEert" || p.Name != "Heide-Apotheke" {
		t.Errorf("pharmacy = %q/%q", p.ID, p.Name)
	}
	if p.TelematikID != "3-05.2.1007600000.080" {
		t.Errorf("telematikID = %q", p.TelematikID)
	}
	if p.Position == nil || p.Position.Latitude != 9.657947 {
		t.Errorf("position = %+v", p.Position)
	}
	if p.Address.City != "Neustadt" || p.Address.PostalCode != "31535" {
		t.Errorf("address = %+v", p.Address)
	}
	if p.Contacts.Phone != "05032/965290" || p.Contacts.Mail != "info@heide-apotheke-neustadt.de" {
		t.Errorf("contacts = %+v", p.Contacts)
	}
	if p.Contacts.URL != "http://www.heide-apotheke-neustadt.de" {
		t.Errorf("url = %q", p.Contacts.URL)
	}
	if p.Contacts.PickupURL != "https://pickup.heide-apotheke-neustadt.de" {
		t.Errorf("pickup url = %q", p.Contacts.PickupURL)
	}
	if p.Contacts.OnlineServiceURL != "https://shop.heide-apotheke-neustadt.de" {
		t.Errorf("online service url = %q", p.Contacts.OnlineServiceURL)
	}
	if p.Contacts.DeliveryURL != "" {
		t.Errorf("delivery url = %q, want empty without a delivery endpoint", p.Contacts.DeliveryURL)
	}

	wantSpecialties := map[PharmacySpecialty]bool{
		SpecialtyDelivery: true,
		SpecialtyPickup:   true,
		SpecialtyShipment: true,
	}
	if len(p.Specialties) != 3 {
		t.Fatalf("specialties = %v", p.Specialties)
	}
	for _, s := range p.Specialties {
		if !wantSpecialties[s] {
			t.Errorf("unexpected specialty %v", s)
		}
	}

	// Two Monday slots from two hoursOfOperation elements.
	monday := p.HoursOfOperation[time.Monday]
	if len(monday) != 2 {
		t.Fatalf("monday slots = %v", monday)
	}
	if monday[0].Opening == nil || monday[0].Opening.Raw != "08:00:00" {
		t.Errorf("first monday opening = %+v", monday[0].Opening)
	}
	if monday[1].Closing == nil || monday[1].Closing.Raw != "20:00:00" {
		t.Errorf("second monday closing = %+v", monday[1].Closing)
	}
	if len(p.HoursOfOperation[time.Tuesday]) != 1 {
		t.Errorf("tuesday slots = %v", p.HoursOfOperation[time.Tuesday])
	}

	// Fulfillment-capacity hours come from the contained delivery
	// service's availableTime.
	friday := p.AvailableTime[time.Friday]
	if len(friday) != 1 || friday[0].Opening.Raw != "09:00:00" || friday[0].Closing.Raw != "16:00:00" {
		t.Errorf("available time friday = %v", friday)
	}

	// A malformed telecom URL is sanitized to the empty string.
	if pharmacies[1].Contacts.URL != "" {
		t.Errorf("sanitized url = %q, want empty", pharmacies[1].Contacts.URL)
	}
	if pharmacies[1].Name != "Dorf-Apotheke" {
		t.Errorf("second pharmacy = %q", pharmacies[1].Name)
	}
	if len(pharmacies[1].AvailableTime) != 0 {
		t.Error("pharmacy without a delivery service must have empty available time")
	}
}

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://example.com", "http://example.com"},
		{"https://example.com/path", "https://example.com/path"},
		{"ftp://example.com", ""},
		{"example.com", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeURL(tt.in); got != tt.want {
			t.Errorf("sanitizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractBinary(t *testing.T) {
	direct := mustDecode(t, `{"resourceType": "Binary", "contentType": "application/pkcs7-mime", "data": "cGF5bG9hZA=="}`)
	data, err := ExtractBinary(direct)
	if err != nil {
		t.Fatalf("ExtractBinary returned error: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("data = %q", data)
	}

	bundled := mustDecode(t, `{
		"resourceType": "Bundle",
		"entry": [
			{"resource": {"resourceType": "Composition"}},
			{"resource": {"resourceType": "Binary", "data": "cGF5bG9hZA=="}}
		]
	}`)
	data, err = ExtractBinary(bundled)
	if err != nil {
		t.Fatalf("ExtractBinary returned error: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("bundled data = %q", data)
	}

	empty := mustDecode(t, `{"resourceType": "Bundle", "entry": []}`)
	data, err = ExtractBinary(empty)
	if err != nil || data != nil {
		t.Errorf("absent binary = %q, %v; want nil, nil", data, err)
	}

	broken := mustDecode(t, `{"resourceType": "Binary", "data": "%%%"}`)
	if _, err := ExtractBinary(broken); err == nil {
		t.Error("undecodable base64 must fail")
	}
}

func TestExtractBinaryCertificates(t *testing.T) {
	bundle := mustDecode(t, `{
		"resourceType": "Bundle",
		"entry": [
			{"resource": {"resourceType": "Binary", "contentType": "application/pkix-cert", "data": "Q0VSVDE="}},
			{"resource": {"resourceType": "Binary", "contentType": "application/pkix-cert", "data": "Q0VSVDI="}}
		]
	}`)
	certs, err := ExtractBinaryCertificatesAsBase64(bundle)
	if err != nil {
		t.Fatalf("ExtractBinaryCertificatesAsBase64 returned error: %v", err)
	}
	if len(certs) != 2 || certs[0] != "Q0VSVDE=" || certs[1] != "Q0VSVDI=" {
		t.Errorf("certs = %v", certs)
	}

	wrong := mustDecode(t, `{
		"entry": [{"resource": {"resourceType": "Binary", "contentType": "text/plain", "data": "eA=="}}]
	}`)
	if _, err := ExtractBinaryCertificatesAsBase64(wrong); err == nil {
		t.Error("unexpected content type must fail")
	}
}
