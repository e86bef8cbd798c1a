package rmfcodegen

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestVersion verifies that Version() returns the version variable.
// In development, it defaults to "dev".
func TestVersion(t *testing.T) {
	result := Version()
	assert.NotEmpty(t, result)
	assert.True(t,
		result == "dev" || strings.HasPrefix(result, "v"),
		"Version() should be 'dev' or start with 'v', got: %s", result)
}

func TestCommit(t *testing.T) {
	assert.NotEmpty(t, Commit())
}

func TestGoVersion(t *testing.T) {
	assert.Equal(t, runtime.Version(), GoVersion())
}

// TestUserAgent verifies the User-Agent format "rmf-codegen/{version}".
func TestUserAgent(t *testing.T) {
	result := UserAgent()
	assert.Equal(t, "rmf-codegen/"+Version(), result)
	assert.NotContains(t, result, " ")
	assert.NotContains(t, result, "\n")
}

func TestGeneratedBy(t *testing.T) {
	result := GeneratedBy()
	assert.Contains(t, result, Version())
	assert.Contains(t, result, "DO NOT EDIT")
	assert.NotContains(t, result, "\n", "header marker must fit on one comment line")
}
