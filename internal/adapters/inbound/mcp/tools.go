package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rsjslint/rsjslint/internal/application"
	"github.com/rsjslint/rsjslint/internal/domain"
)

// registerTools registers the rsjslint MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string, svc *application.LintService) {
	s.AddTool(
		mcplib.NewTool("rsjslint_check",
			mcplib.WithDescription("Checks the project against the rsjs conventions and returns the sorted report as JSON"),
			mcplib.WithString("threshold", mcplib.Description("Lowest severity that fails the check: error, warning or info (default from config)")),
			mcplib.WithBoolean("changed", mcplib.Description("Report only files changed in the git worktree")),
		),
		handleCheck(projectPath, svc),
	)

	s.AddTool(
		mcplib.NewTool("rsjslint_check_file",
			mcplib.WithDescription("Returns the violations found in a single file. The whole project is scanned since rules relate files to each other."),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the file, relative to the project root"),
			),
		),
		handleCheckFile(projectPath, svc),
	)

	s.AddTool(
		mcplib.NewTool("rsjslint_list_rules",
			mcplib.WithDescription("Lists the registered rules with id, version, default severity and description"),
		),
		handleListRules(projectPath, svc),
	)
}

// checkResult is the payload of rsjslint_check.
type checkResult struct {
	*domain.Report
	Failed bool `json:"failed"`
}

func handleCheck(projectPath string, svc *application.LintService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		cfg, err := svc.LoadConfig(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if threshold := request.GetString("threshold", ""); threshold != "" {
			sev, err := domain.ParseThreshold(threshold)
			if err != nil {
				return errorResult(err.Error()), nil
			}
			cfg.Threshold = sev
		}

		report, err := svc.Lint(ctx, application.LintRequest{
			Root:        projectPath,
			Config:      cfg,
			ChangedOnly: request.GetBool("changed", false),
		})
		if err != nil {
			return errorResult(fmt.Sprintf("check failed: %v", err)), nil
		}
		return jsonResult(checkResult{Report: withViolations(report), Failed: report.Failed()})
	}
}

func handleCheckFile(projectPath string, svc *application.LintService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		rel, err := relativeFile(projectPath, file)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		cfg, err := svc.LoadConfig(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		report, err := svc.Lint(ctx, application.LintRequest{Root: projectPath, Config: cfg, Files: []string{rel}})
		if err != nil {
			return errorResult(fmt.Sprintf("check failed: %v", err)), nil
		}
		return jsonResult(withViolations(report).Violations)
	}
}

func handleListRules(projectPath string, svc *application.LintService) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		cfg, err := svc.LoadConfig(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		registry, err := svc.Registry(cfg)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(registry.All())
	}
}

// relativeFile normalizes file to a slash-separated path relative to the
// project root. Paths outside the project are rejected.
func relativeFile(projectPath, file string) (string, error) {
	if filepath.IsAbs(file) {
		root, err := filepath.Abs(projectPath)
		if err != nil {
			return "", err
		}
		if file, err = filepath.Rel(root, file); err != nil {
			return "", err
		}
	}
	rel := path.Clean(filepath.ToSlash(file))
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("file %q is outside the project", file)
	}
	return strings.TrimPrefix(rel, "./"), nil
}

// withViolations returns report with a non-nil violations slice so it
// encodes as [].
func withViolations(report *domain.Report) *domain.Report {
	if report.Violations == nil {
		report.Violations = []domain.Violation{}
	}
	return report
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
