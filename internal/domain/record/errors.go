package record

import (
	"errors"
	"strings"
)

// ErrSchemaMismatch is matched (errors.Is) by every *SchemaError.
var ErrSchemaMismatch = errors.New("worksheet schema mismatch")

// SchemaError reports required headers missing from the worksheet.
type SchemaError struct {
	Missing []string
	Headers []string
}

func (e *SchemaError) Error() string {
	return ErrSchemaMismatch.Error() + ": missing header(s) " + strings.Join(quote(e.Missing), ", ")
}

// Is makes errors.Is(err, ErrSchemaMismatch) hold.
func (e *SchemaError) Is(target error) bool { return target == ErrSchemaMismatch }

func quote(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = `"` + s + `"`
	}
	return out
}
