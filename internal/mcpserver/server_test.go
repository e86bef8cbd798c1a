package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, paginate(items, 0, 2))
	assert.Equal(t, []int{4, 5}, paginate(items, 3, 10))
	assert.Nil(t, paginate(items, 5, 1))
	assert.Nil(t, paginate(items, -1, 1))
	assert.Equal(t, items, paginate(items, 0, 0), "zero limit uses the default")
}

func TestSanitizeError(t *testing.T) {
	assert.Equal(t, "open <path>: no such file", sanitizeError(errors.New("open /home/me/api.yaml: no such file")))
	assert.Empty(t, sanitizeError(nil))
}

func TestGroupAndSort(t *testing.T) {
	groups := groupAndSort([]string{"b", "a", "b", "c", "a", "b"}, func(s string) string { return s })
	assert.Equal(t, []groupCount{{"b", 3}, {"a", 2}, {"c", 1}}, groups)
}

func TestValidateChoice(t *testing.T) {
	assert.NoError(t, validateChoice("kind", "", typeKinds))
	assert.NoError(t, validateChoice("kind", "ENUM", typeKinds))
	assert.Error(t, validateChoice("kind", "table", typeKinds))
}

func TestAPICache(t *testing.T) {
	apiCache.reset()
	t.Cleanup(apiCache.reset)

	dir := t.TempDir()
	file := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(file, []byte(inlineAPI), 0o600))

	a, err := apiInput{File: file}.load()
	require.NoError(t, err)
	b, err := apiInput{File: file}.load()
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, apiCache.size())

	_, err = apiInput{Content: inlineAPI}.load()
	require.NoError(t, err)
	assert.Equal(t, 2, apiCache.size())

	// a new mtime is a new key
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(file, later, later))
	c, err := apiInput{File: file}.load()
	require.NoError(t, err)
	assert.NotSame(t, a, c)
}

func TestAPICacheEviction(t *testing.T) {
	c := &apiCacheStore{entries: make(map[string]*cacheEntry), maxSize: 2}
	c.putWithTTL("a", nil, time.Minute)
	c.putWithTTL("b", nil, time.Minute)
	c.putWithTTL("c", nil, time.Minute)
	assert.Equal(t, 2, c.size())

	c.putWithTTL("expired", nil, -time.Second)
	c.sweep()
	assert.Equal(t, 1, c.size())
}

// startTestSession creates an in-process MCP server/client pair and returns
// the connected client session. The server is shut down when the test ends.
func startTestSession(t *testing.T) *mcp.ClientSession {
	t.Helper()

	server := newServer()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-done
	})
	return session
}

func TestIntegrationListTools(t *testing.T) {
	session := startTestSession(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)
	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"generate", "list_types", "list_resources"}, names)
}

func TestIntegrationCallListTypes(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "list_types",
		Arguments: map[string]any{
			"api": map[string]any{"content": inlineAPI},
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	out := unmarshalStructured(t, result)
	assert.EqualValues(t, 1, out["total"])
	typesOut, ok := out["types"].([]any)
	require.True(t, ok)
	require.Len(t, typesOut, 1)
	assert.Equal(t, "Item", typesOut[0].(map[string]any)["name"])
}

// unmarshalStructured extracts the structured output from a CallToolResult.
// It first checks StructuredContent, then falls back to parsing the first TextContent.
func unmarshalStructured(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	require.NotEmpty(t, result.Content, "expected at least one content item")
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &m), "failed to parse text content as JSON")
	return m
}
