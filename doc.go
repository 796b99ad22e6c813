// Package erx provides extraction of domain values from German
// e-prescription (E-Rezept) FHIR documents.
//
// The wire format is versioned and drifting: the same logical resource
// appears in several incompatible JSON shapes across profile versions
// (1.0.2, 1.1.0, 1.2, 1.3, 1.4). The extractors in this module are pure
// functions over an already-parsed JSON tree (map[string]any, []any,
// string, bool, fhirjson.Number, nil) that normalize every supported
// shape into a single continuation signature per resource, so callers
// write exactly one handler regardless of which profile version
// produced the document.
//
// # Quick Start
//
//	import (
//	    "github.com/gofhir/erx/extract"
//	    "github.com/gofhir/erx/fhirjson"
//	)
//
//	tree, err := fhirjson.Decode(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	total, tasks, err := extract.ExtractTaskIDs(tree)
//
// # Packages
//
//   - fhirjson: navigation over untyped JSON trees plus a decoder that
//     preserves numeric literals as text
//   - temporal: one abstraction over the FHIR date/time precisions
//   - extract: primitive and profile-versioned resource extractors,
//     bundle aggregators, binary extraction
//   - compose: the one write path, the dispense-request Communication
//
// # Design
//
// Extractors are continuation-oriented: they define no mandatory result
// types of their own. Each extractor's result type is supplied by the
// caller as the return type of continuation functions, so the same
// extractor serves tests, persistence mappers, and view-model builders
// without duplicating parse logic. Extraction is deterministic and
// side-effect free; every call is independently safe to invoke
// concurrently on independent input trees.
//
// Failure semantics distinguish three cases: an absent optional field
// resolves to a documented default, a present-but-malformed field is
// surfaced as an *Issue to the immediate caller, and a per-entry
// failure inside a bundle is reported through an error callback while
// aggregation continues with the remaining entries.
package erx
