package service

import (
	"errors"

	"github.com/okian/recupero/internal/domain/narrative"
	"github.com/okian/recupero/internal/domain/record"
)

// Kind classifies why an analysis failed.
type Kind string

// Failure kinds.
const (
	KindConnection Kind = "connection"
	KindFetch      Kind = "fetch"
	KindSchema     Kind = "schema"
	KindGeneration Kind = "generation"
)

// Sentinel errors for the data-source stages.
var (
	ErrConnection = errors.New("data source connection failed")
	ErrFetch      = errors.New("data source fetch failed")
)

// Failure is the typed error attached to an Analysis.
type Failure struct {
	Kind Kind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return string(f.Kind) + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }

// Is matches the sentinel of the failure's kind.
func (f *Failure) Is(target error) bool {
	switch f.Kind {
	case KindConnection:
		return target == ErrConnection
	case KindFetch:
		return target == ErrFetch
	case KindSchema:
		return target == ErrFetch || target == record.ErrSchemaMismatch
	case KindGeneration:
		return target == narrative.ErrGeneration
	}
	return false
}

func fetchFailure(err error) *Failure {
	if errors.Is(err, record.ErrSchemaMismatch) {
		return &Failure{Kind: KindSchema, Err: err}
	}
	return &Failure{Kind: KindFetch, Err: err}
}
