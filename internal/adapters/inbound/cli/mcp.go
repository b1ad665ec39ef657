package cli

import (
	mcpadapter "github.com/rsjslint/rsjslint/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the rsjslint MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var (
		projectPath string
		configPath  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start rsjslint MCP server (stdio)",
		Long:  "Start the rsjslint MCP server using stdio transport. Coding assistants can run the check, check single files and list rules.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectPath == "" {
				projectPath = "."
			}
			// stdout carries the protocol; logs stay on stderr.
			svc, err := newLintService(configPath, newLogger(cmd.ErrOrStderr(), false))
			if err != nil {
				return invalid(err)
			}
			s := mcpadapter.NewRSJSLintMCPServer(projectPath, svc, version)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")
	cmd.Flags().StringVar(&configPath, "config", "", "Config file (default <path>/.rsjslint.yaml)")

	return cmd
}
