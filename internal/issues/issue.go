// Package issues provides the issue type reported by a generation run.
package issues

import (
	"fmt"

	"github.com/markkovari/rmf-codegen/internal/severity"
)

// Issue represents a single non-fatal problem noticed during generation.
type Issue struct {
	// Node identifies the model node the issue relates to (e.g., "type:Pet"); empty for run-level issues
	Node string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Field is the configuration key or model field involved (optional)
	Field string
	// Value is the problematic value (optional)
	Value any
	// Context provides additional information about the issue (optional)
	Context string
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	subject := i.Node
	if subject == "" {
		subject = i.Field
	}
	if subject == "" {
		subject = "run"
	}

	result := fmt.Sprintf("%s %s: %s", symbol, subject, i.Message)
	if i.Context != "" {
		result += fmt.Sprintf("\n    Context: %s", i.Context)
	}
	return result
}

// Warning builds a warning-level issue for the given field.
func Warning(field, message string, value any) Issue {
	return Issue{Field: field, Message: message, Severity: severity.SeverityWarning, Value: value}
}

// Info builds an info-level issue.
func Info(node, message string) Issue {
	return Issue{Node: node, Message: message, Severity: severity.SeverityInfo}
}
