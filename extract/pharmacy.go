package extract

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
	"github.com/gofhir/erx/logger"
	"github.com/gofhir/erx/temporal"
)

// PharmacySpecialty classifies how a pharmacy hands out medication.
type PharmacySpecialty string

const (
	SpecialtyPickup   PharmacySpecialty = "Pickup"
	SpecialtyDelivery PharmacySpecialty = "Delivery"
	SpecialtyShipment PharmacySpecialty = "Shipment"
)

// OpeningTime is one open interval of a day. Either bound may be
// absent.
type OpeningTime struct {
	Opening *temporal.Value
	Closing *temporal.Value
}

// OpeningHours maps a weekday to its open intervals.
type OpeningHours map[time.Weekday][]OpeningTime

// Position is a WGS84 coordinate of a pharmacy location.
type Position struct {
	Latitude  float64
	Longitude float64
}

// PharmacyAddress is the visiting address of a pharmacy.
type PharmacyAddress struct {
	Lines      []string
	PostalCode string
	City       string
}

// ContactInformation carries the telecom endpoints of a pharmacy.
// Absent endpoints are empty strings. The three service URLs come from
// contained Endpoint resources and are only present for pharmacies
// enrolled in direct redemption.
type ContactInformation struct {
	Phone            string
	Mail             string
	URL              string
	PickupURL        string
	DeliveryURL      string
	OnlineServiceURL string
}

// Pharmacy is one directory entry of the pharmacy search.
type Pharmacy struct {
	ID               string
	Name             string
	TelematikID      string
	Position         *Position
	Address          PharmacyAddress
	Contacts         ContactInformation
	HoursOfOperation OpeningHours
	AvailableTime    OpeningHours
	Specialties      []PharmacySpecialty
}

// ExtractPharmacyServices walks a directory search bundle into
// pharmacy entries. Entries named "-" are placeholder rows and skipped.
// An entry that fails to extract is reported to onError and dropped,
// the walk continues.
func ExtractPharmacyServices(
	bundle any,
	onError func(entry any, err error),
) (bundleID string, total int, pharmacies []Pharmacy, err error) {
	bundleID, err = fhirjson.StringAt(bundle, "id")
	if err != nil {
		return "", 0, nil, erx.MalformedIssue("id", "bundle id is missing or not a string", err)
	}
	total, err = fhirjson.IntAt(bundle, "total")
	if err != nil {
		return "", 0, nil, erx.MalformedIssue("total", "bundle total is not a number", err)
	}

	resources := fhirjson.FilterWith(
		fhirjson.FindAll(bundle, "entry.resource"),
		"name",
		fhirjson.Not(fhirjson.StringValue("-")),
	)
	for resource := range resources {
		pharmacy, perr := extractPharmacy(resource)
		if perr != nil {
			if onError != nil {
				onError(resource, perr)
			}
			continue
		}
		pharmacies = append(pharmacies, pharmacy)
	}
	return bundleID, total, pharmacies, nil
}

func extractPharmacy(resource any) (Pharmacy, error) {
	var p Pharmacy
	var err error

	p.ID, err = fhirjson.StringAt(resource, "id")
	if err != nil {
		return p, erx.MalformedIssue("id", "location id is missing or not a string", err)
	}
	p.Name, err = fhirjson.StringAt(resource, "name")
	if err != nil {
		return p, erx.MalformedIssue("name", "location name is missing or not a string", err)
	}

	telematikID, err := identifierValue(resource, systemTelematikID, systemTelematikSID)
	if err != nil {
		return p, err
	}
	if telematikID == nil {
		return p, erx.RequiredIssue("identifier", "location carries no Telematik-ID")
	}
	p.TelematikID = *telematikID

	// A contained healthcare service coded 498 marks a delivery
	// pharmacy and overrides the opening hours with its available time.
	if service, ok := fhirjson.First(fhirjson.FilterWith(
		fhirjson.FindAll(resource, "contained"),
		"type.coding.code",
		fhirjson.StringValue("498"),
	)); ok {
		p.Specialties = append(p.Specialties, SpecialtyDelivery)
		p.AvailableTime, err = openingHours(service, "availableTime", "availableStartTime", "availableEndTime")
		if err != nil {
			return p, err
		}
	}
	if p.AvailableTime == nil {
		p.AvailableTime = OpeningHours{}
	}

	for coding := range fhirjson.FindAll(resource, "type.coding.code") {
		code, _ := coding.(string)
		switch code {
		case "MOBL":
			p.Specialties = append(p.Specialties, SpecialtyShipment)
		case "OUTPHARM":
			p.Specialties = append(p.Specialties, SpecialtyPickup)
		}
	}

	if pos, ok := fhirjson.Find(resource, "position"); ok {
		lat, err := fhirjson.DecimalAt(pos, "latitude")
		if err != nil {
			return p, erx.MalformedIssue("position.latitude", "latitude is not a number", err)
		}
		lon, err := fhirjson.DecimalAt(pos, "longitude")
		if err != nil {
			return p, erx.MalformedIssue("position.longitude", "longitude is not a number", err)
		}
		p.Position = &Position{Latitude: lat.InexactFloat64(), Longitude: lon.InexactFloat64()}
	}

	address, ok := fhirjson.Find(resource, "address")
	if !ok {
		return p, erx.RequiredIssue("address", "location carries no address")
	}
	for line := range fhirjson.FindAll(address, "line") {
		if s, isStr := line.(string); isStr {
			p.Address.Lines = append(p.Address.Lines, s)
		}
	}
	p.Address.PostalCode, err = fhirjson.StringAt(address, "postalCode")
	if err != nil {
		return p, erx.MalformedIssue("address.postalCode", "postal code is missing or not a string", err)
	}
	p.Address.City, err = fhirjson.StringAt(address, "city")
	if err != nil {
		return p, erx.MalformedIssue("address.city", "city is missing or not a string", err)
	}

	p.Contacts = contacts(resource)

	p.HoursOfOperation, err = openingHours(resource, "hoursOfOperation", "openingTime", "closingTime")
	if err != nil {
		return p, err
	}

	return p, nil
}

func contacts(resource any) ContactInformation {
	var c ContactInformation
	for telecom := range fhirjson.FindAll(resource, "telecom") {
		system, err := fhirjson.StringAt(telecom, "system")
		if err != nil {
			continue
		}
		value, _ := fhirjson.OptStringAt(telecom, "value")
		if value == nil {
			empty := ""
			value = &empty
		}
		switch system {
		case "phone":
			c.Phone = *value
		case "email":
			c.Mail = *value
		case "url":
			c.URL = sanitizeURL(*value)
		}
	}
	for endpoint := range fhirjson.FilterWith(
		fhirjson.FindAll(resource, "contained"),
		"resourceType",
		fhirjson.StringValue("Endpoint"),
	) {
		code, err := fhirjson.StringAt(endpoint, "connectionType.code")
		if err != nil {
			continue
		}
		address, _ := fhirjson.OptStringAt(endpoint, "address")
		if address == nil {
			continue
		}
		switch code {
		case "erp-pickup":
			c.PickupURL = sanitizeURL(*address)
		case "erp-delivery":
			c.DeliveryURL = sanitizeURL(*address)
		case "erp-onlineService":
			c.OnlineServiceURL = sanitizeURL(*address)
		}
	}
	return c
}

// sanitizeURL keeps only well-formed http(s) URLs and maps everything
// else to the empty string.
func sanitizeURL(raw string) string {
	if !strings.HasPrefix(raw, "http") {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		logger.Warn("dropping malformed pharmacy url %q: %v", raw, err)
		return ""
	}
	return u.String()
}

func openingHours(node any, path, startAlias, endAlias string) (OpeningHours, error) {
	hours := OpeningHours{}
	for slot := range fhirjson.FindAll(node, path) {
		opening, err := slotTime(slot, startAlias)
		if err != nil {
			return nil, err
		}
		closing, err := slotTime(slot, endAlias)
		if err != nil {
			return nil, err
		}
		interval := OpeningTime{Opening: opening, Closing: closing}
		for day := range fhirjson.FindAll(slot, "daysOfWeek") {
			code, _ := day.(string)
			weekday, ok := weekdayFromCode(code)
			if !ok {
				return nil, erx.UnknownVariantIssue(path+".daysOfWeek", "unrecognized day code "+code)
			}
			hours[weekday] = append(hours[weekday], interval)
		}
	}
	return hours, nil
}

func slotTime(slot any, alias string) (*temporal.Value, error) {
	raw, err := fhirjson.OptStringAt(slot, alias)
	if err != nil {
		return nil, erx.MalformedIssue(alias, "opening time is not a string", err)
	}
	if raw == nil {
		return nil, nil
	}
	v, err := temporal.Parse(*raw)
	if err != nil {
		return nil, erx.MalformedIssue(alias, "opening time is not a FHIR time", err)
	}
	return &v, nil
}

func weekdayFromCode(code string) (time.Weekday, bool) {
	switch code {
	case "mon":
		return time.Monday, true
	case "tue":
		return time.Tuesday, true
	case "wed":
		return time.Wednesday, true
	case "thu":
		return time.Thursday, true
	case "fri":
		return time.Friday, true
	case "sat":
		return time.Saturday, true
	case "sun":
		return time.Sunday, true
	}
	return 0, false
}
