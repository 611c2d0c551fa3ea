package aggregator

import (
	"fmt"

	"github.com/erraggy/restspec/apierrors"
	"github.com/erraggy/restspec/internal/severity"
)

// WarningCategory identifies the type of warning.
type WarningCategory string

const (
	// WarnMissingOperationBody indicates a body-carrying operation that no
	// record documented a request body for.
	WarnMissingOperationBody WarningCategory = "missing_operation_body"
	// WarnUndeclaredSecurityScheme indicates a record referenced a scheme
	// that was not configured; a header API key was declared for it.
	WarnUndeclaredSecurityScheme WarningCategory = "undeclared_security_scheme"
	// WarnMissingPathParameter indicates a path template placeholder no
	// record documented.
	WarnMissingPathParameter WarningCategory = "missing_path_parameter"
)

// Severity levels re-exported for callers filtering warnings.
const (
	SeverityInfo    = severity.SeverityInfo
	SeverityWarning = severity.SeverityWarning
)

// Warning is a non-fatal problem found while aggregating.
type Warning struct {
	Category    WarningCategory
	OperationID string
	// Field is the parameter, scheme or descriptor path concerned, if any.
	Field    string
	Message  string
	Severity severity.Severity
	// Err is the matching sentinel error, for errors.Is checks.
	Err     error
	Context map[string]any
}

// String returns a formatted warning message.
func (w *Warning) String() string {
	return w.Message
}

// NewMissingOperationBodyWarning creates a warning for an operation whose
// method carries a body but for which no record documented one.
func NewMissingOperationBodyWarning(operationID, method string) *Warning {
	return &Warning{
		Category:    WarnMissingOperationBody,
		OperationID: operationID,
		Message:     fmt.Sprintf("%s: %s operation has parameters but no documented request body; emitting an empty body", operationID, method),
		Severity:    severity.SeverityWarning,
		Err:         apierrors.ErrMissingOperationBody,
		Context:     map[string]any{"method": method},
	}
}

// NewUndeclaredSecuritySchemeWarning creates a warning for a security
// scheme no configuration declared.
func NewUndeclaredSecuritySchemeWarning(operationID, scheme string) *Warning {
	return &Warning{
		Category:    WarnUndeclaredSecurityScheme,
		OperationID: operationID,
		Field:       scheme,
		Message:     fmt.Sprintf("%s: security scheme %q is not declared; assuming an API key header", operationID, scheme),
		Severity:    severity.SeverityWarning,
	}
}

// NewMissingPathParameterWarning creates a notice for a template
// placeholder added without documentation.
func NewMissingPathParameterWarning(operationID, name string) *Warning {
	return &Warning{
		Category:    WarnMissingPathParameter,
		OperationID: operationID,
		Field:       name,
		Message:     fmt.Sprintf("%s: path parameter %q is not documented", operationID, name),
		Severity:    severity.SeverityInfo,
	}
}
