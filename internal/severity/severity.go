// Package severity provides severity level constants for issues reported
// while preparing and running a code generation pass.
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

// Severity indicates the severity level of a generation issue.
type Severity int

const (
	// SeverityError indicates a condition that fails the run.
	SeverityError Severity = iota

	// SeverityWarning indicates a non-fatal condition where generation continued
	// with a fallback (for example a defaulted base package).
	SeverityWarning

	// SeverityInfo indicates informational messages about generation choices.
	SeverityInfo

	// SeverityCritical indicates output that could not be produced at all.
	SeverityCritical
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
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
