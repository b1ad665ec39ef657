package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rsjslint/rsjslint/internal/application"
)

const (
	reportURI = "rsjslint://report"
	rulesURI  = "rsjslint://rules"
)

// registerResources registers the rsjslint MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string, svc *application.LintService) {
	s.AddResource(
		mcplib.NewResource(
			reportURI,
			"Report",
			mcplib.WithResourceDescription("Current conformance report for the project"),
			mcplib.WithMIMEType("application/json"),
		),
		handleReportResource(projectPath, svc),
	)

	s.AddResource(
		mcplib.NewResource(
			rulesURI,
			"Rules",
			mcplib.WithResourceDescription("Registered rules, including custom rules from the project config"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRulesResource(projectPath, svc),
	)
}

func handleReportResource(projectPath string, svc *application.LintService) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, err := svc.LoadConfig(projectPath)
		if err != nil {
			return nil, err
		}
		report, err := svc.Lint(ctx, application.LintRequest{Root: projectPath, Config: cfg})
		if err != nil {
			return nil, fmt.Errorf("check failed: %w", err)
		}
		return jsonResource(reportURI, withViolations(report))
	}
}

func handleRulesResource(projectPath string, svc *application.LintService) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, err := svc.LoadConfig(projectPath)
		if err != nil {
			return nil, err
		}
		registry, err := svc.Registry(cfg)
		if err != nil {
			return nil, err
		}
		return jsonResource(rulesURI, registry.All())
	}
}

func jsonResource(uri string, v interface{}) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
