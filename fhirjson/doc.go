// Package fhirjson navigates untyped FHIR JSON trees.
//
// A tree consists of map[string]any, []any, string, bool, Number and
// nil, as produced by Decode. Trees built by encoding/json (with or
// without UseNumber) are accepted as well; the scalar readers
// understand json.Number and float64 leaves.
//
// Navigation follows FHIR's repetition rules: Find descends a
// dot-qualified path and implicitly selects the first element of any
// array it meets, while FindAll fans out over every array element and
// yields all matches lazily in document order. FilterWith narrows a
// sequence by a predicate on a sub-path, which is how contained
// resources are picked by resourceType and extensions by url.
//
// Scalar readers distinguish a missing field (ErrAbsent) from a field
// present with the wrong shape (ErrMalformed); callers rely on that
// split to default the former and surface the latter.
package fhirjson
