package issues

import (
	"testing"

	"github.com/markkovari/rmf-codegen/internal/severity"
	"github.com/stretchr/testify/assert"
)

func TestIssueString(t *testing.T) {
	tests := []struct {
		name        string
		issue       Issue
		contains    []string
		notContains []string
	}{
		{
			name:        "error severity with node",
			issue:       Issue{Node: "type:Pet", Message: "cannot render", Severity: severity.SeverityError},
			contains:    []string{"✗", "type:Pet", "cannot render"},
			notContains: []string{"Context:"},
		},
		{
			name:     "warning falls back to field",
			issue:    Warning("base_package", "using default io/vrap/rmf", nil),
			contains: []string{"⚠", "base_package", "using default"},
		},
		{
			name:     "info without subject",
			issue:    Issue{Message: "nothing to do", Severity: severity.SeverityInfo},
			contains: []string{"ℹ", "run: nothing to do"},
		},
		{
			name:     "context is appended",
			issue:    Issue{Node: "resource:/pets", Message: "renamed", Severity: severity.SeverityInfo, Context: "resourceName annotation"},
			contains: []string{"Context: resourceName annotation"},
		},
		{
			name:     "unknown severity",
			issue:    Issue{Message: "odd", Severity: severity.Severity(42)},
			contains: []string{"?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.issue.String()
			for _, c := range tt.contains {
				assert.Contains(t, s, c)
			}
			for _, c := range tt.notContains {
				assert.NotContains(t, s, c)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	i := Info("method:GET /pets", "skipped")
	assert.Equal(t, severity.SeverityInfo, i.Severity)
	assert.Equal(t, "method:GET /pets", i.Node)
}
