package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	mcpadapter "github.com/rsjslint/rsjslint/internal/adapters/inbound/mcp"
	"github.com/rsjslint/rsjslint/internal/adapters/outbound/celrule"
	"github.com/rsjslint/rsjslint/internal/adapters/outbound/config"
	"github.com/rsjslint/rsjslint/internal/adapters/outbound/markup"
	"github.com/rsjslint/rsjslint/internal/adapters/outbound/scanner"
	"github.com/rsjslint/rsjslint/internal/adapters/outbound/script"
	"github.com/rsjslint/rsjslint/internal/adapters/outbound/stylesheet"
	"github.com/rsjslint/rsjslint/internal/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const violatingDir = "../../../../testdata/projects/violating"

func newServer(t *testing.T, root string) *server.MCPServer {
	t.Helper()
	compiler, err := celrule.New()
	require.NoError(t, err)
	svc := application.NewLintService(
		scanner.New(),
		application.Extractors{Markup: markup.New(), Script: script.New(), Stylesheet: stylesheet.New()},
		compiler,
		config.New(),
	)
	return mcpadapter.NewRSJSLintMCPServer(root, svc, "test")
}

func call(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcplib.CallToolResult {
	t.Helper()
	tool, ok := s.ListTools()[name]
	require.True(t, ok, "tool %q should be registered", name)

	var req mcplib.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	return res
}

func text(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	tc, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestNewRSJSLintMCPServer(t *testing.T) {
	s := newServer(t, ".")
	require.NotNil(t, s)
}

func TestMCPServerHasTools(t *testing.T) {
	s := newServer(t, ".")

	tools := s.ListTools()
	require.NotNil(t, tools)

	expectedTools := []string{
		"rsjslint_check",
		"rsjslint_check_file",
		"rsjslint_list_rules",
	}

	for _, name := range expectedTools {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}

	assert.Len(t, tools, len(expectedTools), "should have exactly %d tools", len(expectedTools))
}

func TestCheckTool(t *testing.T) {
	res := call(t, newServer(t, violatingDir), "rsjslint_check", nil)
	require.False(t, res.IsError, text(t, res))

	var out struct {
		Violations []map[string]any `json:"violations"`
		Failed     bool             `json:"failed"`
		Threshold  string           `json:"threshold"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	assert.Len(t, out.Violations, 9)
	assert.True(t, out.Failed)
	assert.Equal(t, "error", out.Threshold)
}

func TestCheckTool_InvalidThreshold(t *testing.T) {
	res := call(t, newServer(t, violatingDir), "rsjslint_check", map[string]any{"threshold": "fatal"})
	assert.True(t, res.IsError)
}

func TestCheckFileTool(t *testing.T) {
	res := call(t, newServer(t, violatingDir), "rsjslint_check_file",
		map[string]any{"file": "./app/views/index.html"})
	require.False(t, res.IsError, text(t, res))

	var violations []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &violations))
	require.Len(t, violations, 2)
	for _, v := range violations {
		assert.Equal(t, "no-inline-script", v["rule"])
	}
}

func TestCheckFileTool_CleanFileIsEmptyArray(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<p>hi</p>\n"), 0644))

	res := call(t, newServer(t, root), "rsjslint_check_file", map[string]any{"file": "index.html"})
	require.False(t, res.IsError, text(t, res))
	assert.Equal(t, "[]", text(t, res))
}

func TestCheckFileTool_Errors(t *testing.T) {
	s := newServer(t, violatingDir)

	assert.True(t, call(t, s, "rsjslint_check_file", nil).IsError)
	assert.True(t, call(t, s, "rsjslint_check_file", map[string]any{"file": "../outside.js"}).IsError)
}

func TestListRulesTool(t *testing.T) {
	res := call(t, newServer(t, "."), "rsjslint_list_rules", nil)
	require.False(t, res.IsError, text(t, res))

	var rules []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &rules))
	require.Len(t, rules, 7)
	assert.Equal(t, "behavior-file-naming", rules[0]["id"])
	assert.Equal(t, "vendor-separation", rules[6]["id"])
}
