package pipeline

import (
	"errors"
	"fmt"
)

// ErrorKind classifies stage failures. Parsing and formatting problems are
// absorbed inside the report package and never surface here; the kinds below
// cover what can still go wrong around them.
type ErrorKind string

const (
	KindInputMalformed      ErrorKind = "input_malformed"
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	KindConfigMissing       ErrorKind = "config_missing"
	KindPartialBatchFailure ErrorKind = "partial_batch_failure"
)

type Error struct {
	Kind  ErrorKind
	Stage string
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, stage string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Err: err}
}

// KindOf extracts the classification from a stage error, defaulting to
// upstream-unavailable for untyped failures.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUpstreamUnavailable
}
