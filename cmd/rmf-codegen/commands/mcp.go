package commands

import (
	"github.com/spf13/cobra"

	"github.com/markkovari/rmf-codegen/internal/mcpserver"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve generation tools over the Model Context Protocol on stdio",
		Long: `Mcp starts an MCP server on stdin/stdout exposing the generate,
list_types and list_resources tools.

The server is configured through RMFCODEGEN_MCP_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.logger.Debug("starting MCP server")
			return mcpserver.Run(cmd.Context())
		},
	}
}
