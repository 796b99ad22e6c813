// Package extract turns decoded FHIR JSON trees of the German
// e-prescription ecosystem into caller-defined domain values.
//
// Every extractor follows the same continuation-passing contract: the
// caller supplies functions that receive the extracted fields and build
// whatever result type the caller needs. The extractor guarantees the
// shape of those fields, invokes each continuation exactly once per
// logical entity present in the source, and returns whatever the
// continuation returned. Absent optional fields arrive as nil or the
// documented default; malformed fields abort the extraction with an
// *erx.Issue instead of reaching the continuation.
//
// Resource extractors dispatch on the declared meta.profile once, then
// funnel every supported profile version into the same continuation
// signature, so callers stay version-agnostic.
package extract
