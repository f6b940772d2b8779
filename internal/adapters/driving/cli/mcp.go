package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsync/internal/adapters/driving/mcp"
	"github.com/custodia-labs/docsync/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server exposing the document tools.

By default, the server communicates over stdio using JSON-RPC. Use --port to
serve streamable HTTP instead, for example to test with MCP Inspector.

The document tools are only registered when app credentials are configured;
without them the server starts with no tools.

Examples:
  # Stdio mode (default)
  docsync mcp serve

  # HTTP mode
  docsync mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "docsync": {
        "command": "/path/to/docsync",
        "args": ["mcp", "serve"],
        "env": {"DOCSYNC_APP_ID": "cli_xxx", "DOCSYNC_APP_SECRET": "..."}
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	if err := loadConfig(); err != nil {
		return err
	}

	ports := &mcp.Ports{Config: larkConfig}
	if ok, reason := larkConfig.DocToolsCapability(); ok {
		if ports.Documents, err = documents(cmd.Context()); err != nil {
			return err
		}
	} else {
		logger.Warn("Document tools disabled: %s", reason)
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
