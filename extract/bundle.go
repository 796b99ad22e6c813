package extract

import (
	"errors"

	"github.com/gofhir/erx"
	"github.com/gofhir/erx/fhirjson"
	"github.com/gofhir/erx/logger"
)

// ExtractBundle walks a FHIR bundle envelope. extractEntry receives
// each entry's resource in document order and reports whether the entry
// contributes a value. A failing entry is reported to onError with the
// entry node and an *erx.Issue carrying its index, then skipped; the
// remaining entries still extract. onError may be nil.
//
// The returned total is the bundle's declared total count, which on
// partial pages legitimately differs from the number of entries.
func ExtractBundle[R any](
	bundle any,
	extractEntry func(resource any) (R, bool, error),
	onError func(entry any, err error),
) (total int, items []R, err error) {
	total, err = fhirjson.IntAt(bundle, "total")
	if errors.Is(err, fhirjson.ErrAbsent) {
		total, err = 0, nil
	}
	if err != nil {
		return 0, nil, erx.MalformedIssue("total", "bundle total is not an integer", err)
	}

	index := 0
	for entry := range fhirjson.FindAll(bundle, "entry") {
		resource, ok := fhirjson.Find(entry, "resource")
		if !ok {
			index++
			continue
		}
		value, include, entryErr := extractEntry(resource)
		if entryErr != nil {
			logger.Warn("bundle entry %d skipped: %v", index, entryErr)
			if onError != nil {
				onError(entry, erx.EntryIssue(index, entryErr))
			}
			index++
			continue
		}
		if include {
			items = append(items, value)
		}
		index++
	}
	return total, items, nil
}
