package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/rsjslint/rsjslint/internal/application"
)

// NewRSJSLintMCPServer creates an MCP server with the rsjslint tools and
// resources registered. projectPath is the root of the project to check.
func NewRSJSLintMCPServer(projectPath string, svc *application.LintService, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"rsjslint",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath, svc)
	registerResources(s, projectPath, svc)

	return s
}
