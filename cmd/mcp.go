package cmd

import (
	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the gitpick MCP server",
	Long:  `Launch an MCP server over stdio that lets agents gather candidates and run actions via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, newRegistry(), contract.NewLocalGitClient(), journalStore())
	},
}
