package fields

import (
	"errors"
	"fmt"
)

// TemplateError means the template does not contain a location a field
// needs. It is a defect of the template, not of the record.
type TemplateError struct {
	Field string
	Path  string
	Err   error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template: field %s: %s: %v", e.Field, e.Path, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// RecordError means a record lacks a required field. Raw carries the
// original record bytes once the error passed the place that read them, see
// WithRaw.
type RecordError struct {
	ID    string
	Field string
	Raw   []byte
}

func (e *RecordError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("record: missing required field %s", e.Field)
	}
	return fmt.Sprintf("record %s: missing required field %s", e.ID, e.Field)
}

// WithRaw attaches the original record bytes to a RecordError in err's
// chain and returns err. Other errors pass unchanged.
func WithRaw(err error, raw []byte) error {
	var re *RecordError
	if errors.As(err, &re) && re.Raw == nil {
		re.Raw = raw
	}
	return err
}

// WriteError wraps a failure while writing a value that is not caused by a
// missing template location, e.g. a malformed group value.
type WriteError struct {
	Field string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsTemplateError reports whether err is caused by a defective template.
// Such errors affect every record, batches should stop.
func IsTemplateError(err error) bool {
	var te *TemplateError
	return errors.As(err, &te)
}
