package record

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the records whose Student field contains query, ignoring
// case. The input set is not modified. Callers must reject an empty query
// before calling Filter; an empty query here matches every record.
func Filter(set Set, query string) Set {
	fold := cases.Fold()
	needle := fold.String(query)

	out := Set{Headers: set.Headers, Records: make([]Record, 0)}
	for _, r := range set.Records {
		if strings.Contains(fold.String(r.Student), needle) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}
