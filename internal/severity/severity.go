// Package severity provides severity levels for diagnostics reported by the
// aggregator and the generation pipeline.
//
// Levels are ordered from least to most severe: Info < Warning < Error.
package severity

// Severity indicates how much attention a diagnostic needs.
type Severity int

const (
	// SeverityInfo is a notice about a choice made on the caller's behalf.
	SeverityInfo Severity = iota

	// SeverityWarning is a degraded result that still produced output.
	SeverityWarning

	// SeverityError is a problem that prevented output.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// AtLeast reports whether s is as severe as level or more.
func (s Severity) AtLeast(level Severity) bool {
	return s >= level
}
