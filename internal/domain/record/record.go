// Package record models the remediation-exam rows read from the worksheet
// and the pure operations over them: decoding, filtering and counting.
package record

import (
	"fmt"
	"strings"
)

// Header names of the worksheet columns the service reads. They must match
// the sheet's first row exactly.
const (
	HeaderStudent   = "Estudiante"
	HeaderSubject   = "Materia"
	HeaderRecovered = "Recupero?"
)

// Recovery is the value of the "Recupero?" column.
type Recovery string

// Sentinel values of the "Recupero?" column. Anything else is kept verbatim
// and counts as neither.
const (
	RecoveryYes Recovery = "Si"
	RecoveryNo  Recovery = "No"
)

// Record is one subject-attempt row for a student.
type Record struct {
	Student   string   `json:"student"`
	Subject   string   `json:"subject,omitempty"`
	Recovered Recovery `json:"recovered"`
	// Values holds every cell of the row aligned with Set.Headers.
	Values []string `json:"values"`
}

// Set is an ordered sequence of records sharing one header row.
type Set struct {
	Headers []string `json:"headers"`
	Records []Record `json:"records"`
}

// Len returns the number of records.
func (s Set) Len() int { return len(s.Records) }

// Empty reports whether the set has no records.
func (s Set) Empty() bool { return len(s.Records) == 0 }

// Field returns the value of the named column for r, or "" when the set has
// no such header.
func (s Set) Field(r Record, header string) string {
	for i, h := range s.Headers {
		if h == header && i < len(r.Values) {
			return r.Values[i]
		}
	}
	return ""
}

// columns maps the headers the service reads to their index in a row.
type columns struct {
	student   int
	subject   int
	recovered int
}

func resolveColumns(headers []string) (columns, error) {
	cols := columns{student: -1, subject: -1, recovered: -1}
	for i, h := range headers {
		switch strings.TrimSpace(h) {
		case HeaderStudent:
			if cols.student < 0 {
				cols.student = i
			}
		case HeaderSubject:
			if cols.subject < 0 {
				cols.subject = i
			}
		case HeaderRecovered:
			if cols.recovered < 0 {
				cols.recovered = i
			}
		}
	}

	var missing []string
	if cols.student < 0 {
		missing = append(missing, HeaderStudent)
	}
	if cols.recovered < 0 {
		missing = append(missing, HeaderRecovered)
	}
	if len(missing) > 0 {
		return cols, &SchemaError{Missing: missing, Headers: headers}
	}
	return cols, nil
}

// FromRows decodes raw worksheet rows. The first row is the header row;
// shorter rows are padded to the header width and rows with no content are
// skipped. It fails with a *SchemaError when a required header is absent.
func FromRows(rows [][]string) (Set, error) {
	if len(rows) == 0 {
		return Set{}, &SchemaError{Missing: []string{HeaderStudent, HeaderRecovered}}
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	cols, err := resolveColumns(headers)
	if err != nil {
		return Set{}, err
	}

	set := Set{Headers: headers, Records: make([]Record, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		values := make([]string, len(headers))
		copy(values, row)

		rec := Record{
			Student:   values[cols.student],
			Recovered: Recovery(values[cols.recovered]),
			Values:    values,
		}
		if cols.subject >= 0 {
			rec.Subject = values[cols.subject]
		}
		set.Records = append(set.Records, rec)
	}
	return set, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// String renders the record as "Header: value" pairs in header order; it is
// the text form embedded in the narrative prompt.
func (s Set) String() string {
	var b strings.Builder
	for i, r := range s.Records {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		for j, h := range s.Headers {
			if j > 0 {
				b.WriteString("; ")
			}
			v := ""
			if j < len(r.Values) {
				v = r.Values[j]
			}
			fmt.Fprintf(&b, "%s: %s", h, v)
		}
	}
	return b.String()
}
