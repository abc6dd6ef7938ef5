package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fusionqa/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes two tools:
  ask       - cited answer for a question, optionally in another language
  retrieve  - the fused, numbered context records for a question

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default, for desktop assistants)
  fusionqa mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  fusionqa mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "fusionqa": {
        "command": "/path/to/fusionqa",
        "args": ["mcp", "serve"]
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

	if err := ensureServices(cmd, NeedAnswer); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Ask:       askService,
		Retrieval: retrievalService,
		Settings:  settingsService,
		Budget:    configuredBudget,
	})
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
