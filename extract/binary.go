package extract

import (
	"encoding/base64"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
)

// ExtractBinary locates a Binary resource, either passed directly or
// inside a bundle's entries, and decodes its base64 data. It returns
// nil when no Binary is present.
func ExtractBinary(node any) ([]byte, error) {
	binary, ok := findBinary(node)
	if !ok {
		return nil, nil
	}
	encoded, err := fhirjson.StringAt(binary, "data")
	if err != nil {
		return nil, erx.MalformedIssue("data", "binary data is missing or not a string", err)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, erx.MalformedIssue("data", "binary data is not base64", err)
	}
	return data, nil
}

func findBinary(node any) (any, bool) {
	if resourceType, _ := fhirjson.OptStringAt(node, "resourceType"); resourceType != nil && *resourceType == "Binary" {
		return node, true
	}
	return fhirjson.First(fhirjson.FilterWith(
		fhirjson.FindAll(node, "entry.resource"),
		"resourceType",
		fhirjson.StringValue("Binary"),
	))
}

// ExtractSignature decodes the base64 signature payload of a signed
// receipt bundle. The CAdES content is opaque to this layer. It
// returns nil when the bundle carries no signature.
func ExtractSignature(receiptBundle any) ([]byte, error) {
	encoded, err := fhirjson.OptStringAt(receiptBundle, "signature.data")
	if err != nil {
		return nil, erx.MalformedIssue("signature.data", "signature data is not a string", err)
	}
	if encoded == nil {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(*encoded)
	if err != nil {
		return nil, erx.MalformedIssue("signature.data", "signature data is not base64", err)
	}
	return data, nil
}

// ExtractBinaryCertificatesAsBase64 collects the data of every Binary
// entry in a certificate bundle. Every entry must carry the
// application/pkix-cert content type.
func ExtractBinaryCertificatesAsBase64(bundle any) ([]string, error) {
	var certs []string
	for resource := range fhirjson.FindAll(bundle, "entry.resource") {
		contentType, err := fhirjson.StringAt(resource, "contentType")
		if err != nil {
			return nil, erx.MalformedIssue("contentType", "binary content type is missing or not a string", err)
		}
		if contentType != "application/pkix-cert" {
			return nil, erx.MalformedIssue("contentType", "unexpected binary content type "+contentType, nil)
		}
		data, err := fhirjson.StringAt(resource, "data")
		if err != nil {
			return nil, erx.MalformedIssue("data", "binary data is missing or not a string", err)
		}
		certs = append(certs, data)
	}
	return certs, nil
}
