package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/reverie/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Reverie MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes the dream journal,
search, statistics, insights and the analysis report as MCP tools via STDIO.

The journal is opened from the configured store. If --path is not provided, a
system-specific default location will be used:
- Windows: %USERPROFILE%\AppData\Roaming\reverie\dreams.json
- macOS: ~/Library/Application Support/reverie/dreams.json
- Linux: ~/.local/share/reverie/dreams.json

Example:
  reverie mcp
  reverie mcp --store sqlite --path reverie.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		j, closer, storeName, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}

		srv := mcp.NewDreamsMCPServer(j, logger, closer)
		defer srv.Close()

		fmt.Fprintf(os.Stderr, "Reverie MCP server running on stdio (store: %s, dreams: %d)...\n", storeName, j.Len())
		if err := srv.Start(); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}
