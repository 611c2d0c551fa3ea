package apierrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrSchemaConflict indicates incompatible type or flag information for one field.
	ErrSchemaConflict = errors.New("schema conflict")

	// ErrDuplicateConflictingDescription indicates two different descriptions for one field.
	ErrDuplicateConflictingDescription = errors.New("duplicate conflicting description")

	// ErrDanglingDescriptor indicates a descriptor path with no matching location.
	ErrDanglingDescriptor = errors.New("dangling descriptor")

	// ErrMissingOperationBody marks the non-fatal case of a body-carrying
	// operation documented without any request body.
	ErrMissingOperationBody = errors.New("missing operation body")

	// ErrParse indicates a record could not be decoded.
	ErrParse = errors.New("parse error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// location renders the "operation field" prefix shared by the aggregation errors.
func location(operationID, field string) string {
	var msg string
	if operationID != "" {
		msg += " in " + operationID
	}
	if field != "" {
		msg += " at " + field
	}
	return msg
}

// SchemaConflictError reports that two sources disagree about a field.
// Sources are records, descriptors or the example payload itself.
type SchemaConflictError struct {
	// OperationID is the operation being aggregated (empty during standalone inference)
	OperationID string
	// Field is the descriptor path or parameter name
	Field string
	// Message describes the disagreement
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SchemaConflictError) Error() string {
	msg := "schema conflict" + location(e.OperationID, e.Field)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SchemaConflictError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SchemaConflictError) Is(target error) bool {
	return target == ErrSchemaConflict
}

// DescriptionConflictError reports two non-empty, non-identical descriptions
// for the same parameter, header or field.
type DescriptionConflictError struct {
	OperationID string
	Field       string
	// First is the description that was seen first and kept
	First string
	// Second is the conflicting description
	Second string
}

// Error returns a human-readable error message.
func (e *DescriptionConflictError) Error() string {
	return fmt.Sprintf("duplicate conflicting description%s: %q vs %q",
		location(e.OperationID, e.Field), e.First, e.Second)
}

// Is reports whether target matches this error type.
func (e *DescriptionConflictError) Is(target error) bool {
	return target == ErrDuplicateConflictingDescription
}

// DanglingDescriptorError reports a field descriptor whose path does not
// resolve inside the canonical example.
type DanglingDescriptorError struct {
	OperationID string
	Field       string
	// Segment is the path segment that failed to resolve, if known
	Segment string
}

// Error returns a human-readable error message.
func (e *DanglingDescriptorError) Error() string {
	msg := "dangling descriptor" + location(e.OperationID, e.Field)
	if e.Segment != "" {
		msg += ": no location for " + e.Segment
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *DanglingDescriptorError) Is(target error) bool {
	return target == ErrDanglingDescriptor
}

// ParseError represents a failure to decode an interaction record.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// WithOperation returns err with OperationID filled in on every aggregation
// error that does not yet carry one. Other errors are returned unchanged.
func WithOperation(err error, operationID string) error {
	switch e := err.(type) { //nolint:errorlint // only direct values are rewritten
	case *SchemaConflictError:
		if e.OperationID == "" {
			c := *e
			c.OperationID = operationID
			return &c
		}
	case *DescriptionConflictError:
		if e.OperationID == "" {
			c := *e
			c.OperationID = operationID
			return &c
		}
	case *DanglingDescriptorError:
		if e.OperationID == "" {
			c := *e
			c.OperationID = operationID
			return &c
		}
	case interface{ Unwrap() []error }:
		errs := e.Unwrap()
		out := make([]error, len(errs))
		for i, inner := range errs {
			out[i] = WithOperation(inner, operationID)
		}
		return errors.Join(out...)
	}
	return err
}
