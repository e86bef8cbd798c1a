// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes rmf-codegen capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	rmfcodegen "github.com/markkovari/rmf-codegen"
	"github.com/markkovari/rmf-codegen/generator"
	"github.com/markkovari/rmf-codegen/plugins"
)

const serverInstructions = `rmf-codegen MCP server: inspects API descriptions and generates SDK code from them.

Every tool takes an api object with exactly one of file (path on disk) or content (inline YAML).
Start with list_types and list_resources to see how model types and resources map to generated classes,
then run generate with dry_run=true to preview the file set before writing.

Configuration: defaults are configurable via RMFCODEGEN_MCP_* environment variables set in your MCP client config.
- RMFCODEGEN_MCP_CACHE_ENABLED (default: true): cache loaded descriptions per session
- RMFCODEGEN_MCP_CACHE_FILE_TTL (default: 15m): cache TTL for file inputs (keyed by path and mtime)
- RMFCODEGEN_MCP_LIST_LIMIT (default: 100): default result limit for list tools
- RMFCODEGEN_GO_MODULE: module path prefixed to generated Go imports`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		apiCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}
	return newServer().Run(ctx, &mcp.StdioTransport{})
}

func newServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "rmf-codegen", Version: rmfcodegen.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Generate SDK code from an API description with one or more language plugins (go, typescript). Generation is all-or-nothing: a producer failure or two producers writing the same path fails the run and nothing is written. Set output_dir to write files; without it, or with dry_run=true, the tool only reports the file set. Use include_content to return file bodies inline (small APIs only).",
	}, handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_types",
		Description: "List the declared types of an API description with the descriptor each resolves to (object, enum, scalar, datetime) and its output package. Filter by kind (object, union, enum, pattern, scalar) or name substring. Deprecated types are excluded as they are not generated. Use group_by=kind or group_by=package for distribution counts.",
	}, handleListTypes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_resources",
		Description: "List the resources of an API description grouped into request builder collections, with each method's generated request name. Filter by path prefix or HTTP method.",
	}, handleListResources)
}

// registry returns the plugins the tools can run.
func registry() *generator.Registry {
	return plugins.NewRegistry(plugins.Options{GoModule: cfg.GoModule})
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ListLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// groupCount represents a single group in group_by results.
type groupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// groupAndSort groups items by key, sorts by count descending (ties
// broken alphabetically by key), and returns the sorted groups.
func groupAndSort[T any](items []T, keyFn func(T) string) []groupCount {
	counts := make(map[string]int)
	for _, item := range items {
		counts[keyFn(item)]++
	}
	groups := make([]groupCount, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, groupCount{Key: key, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// validateChoice checks that value is empty or one of allowed.
func validateChoice(name, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("invalid %s value %q; valid values: %s", name, value, strings.Join(allowed, ", "))
}
