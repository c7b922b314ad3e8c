package narrative

import "errors"

// ErrGeneration reports that no report could be produced. Every error
// returned by Generator.Generate matches it with errors.Is.
var ErrGeneration = errors.New("narrative generation failed")

// GenerationError carries the step that failed.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return "generate narrative: " + e.Op
	}
	return "generate narrative: " + e.Op + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is matches ErrGeneration.
func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }
