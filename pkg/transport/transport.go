// Package transport adapts the Tool Dispatcher onto the Tool Transport
// capability (§6.3) via github.com/mark3labs/mcp-go, the JSON-RPC tool
// protocol framing this module consumes but does not define.
package transport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mediar-ai/deskflow/pkg/dispatch"
	"github.com/mediar-ai/deskflow/pkg/telemetry"
)

// MCPTransport mirrors the teacher's transport seam: callers register
// tools against this narrow interface rather than the concrete server, so
// tests can substitute a recording fake.
type MCPTransport interface {
	Start(ctx context.Context) error
	RegisterTool(tool mcp.Tool, handler server.ToolHandlerFunc) error
	IsInitialized() bool
}

// StdioTransport runs the MCP server over stdio, matching how the pack's
// reference MCP server wires mark3labs/mcp-go.
type StdioTransport struct {
	mcpServer     *server.MCPServer
	serverName    string
	version       string
	isInitialized bool
}

// NewStdioTransport constructs a StdioTransport for serverName/version.
func NewStdioTransport(serverName, version string) *StdioTransport {
	return &StdioTransport{serverName: serverName, version: version}
}

// Initialize builds the underlying mcp-go server with the capability set
// this module actually exercises: tools only, no prompts/resources.
func (t *StdioTransport) Initialize() error {
	if t.isInitialized {
		return nil
	}
	telemetry.Infof("transport: initialising MCP stdio server %s %s", t.serverName, t.version)
	t.mcpServer = server.NewMCPServer(
		t.serverName,
		t.version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)
	if t.mcpServer == nil {
		return fmt.Errorf("failed to create MCP server")
	}
	t.isInitialized = true
	return nil
}

// Start serves the MCP protocol over stdio until the process exits.
func (t *StdioTransport) Start(ctx context.Context) error {
	if !t.isInitialized {
		if err := t.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize transport: %w", err)
		}
	}
	telemetry.Infof("transport: starting MCP stdio server")
	return server.ServeStdio(t.mcpServer)
}

// RegisterTool installs tool against the MCP server, initialising lazily.
func (t *StdioTransport) RegisterTool(tool mcp.Tool, handler server.ToolHandlerFunc) error {
	if !t.isInitialized {
		if err := t.Initialize(); err != nil {
			return fmt.Errorf("transport not initialized: %w", err)
		}
	}
	t.mcpServer.AddTool(tool, handler)
	telemetry.Debugf("transport: registered tool %s", tool.Name)
	return nil
}

// IsInitialized reports whether Initialize has run.
func (t *StdioTransport) IsInitialized() bool { return t.isInitialized }

// Descriptor declares one dispatcher tool's MCP-visible name, description,
// and JSON-schema input shape.
type Descriptor struct {
	Name        string
	Description string
	Properties  map[string]interface{}
	Required    []string
}

// ToolSchema builds the mcp.ToolInputSchema for d.
func (d Descriptor) ToolSchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{Type: "object", Properties: d.Properties, Required: d.Required}
}

// RegisterDispatcherTools registers one mcp.Tool per descriptor, routing
// each call through dispatcher.Dispatch with the uniform envelope (§4.2).
// A numeric "process" argument, when present, is passed to the dispatcher
// as the target process id for window management.
func RegisterDispatcherTools(t MCPTransport, dispatcher *dispatch.Dispatcher, descriptors []Descriptor) error {
	for _, desc := range descriptors {
		tool := mcp.Tool{Name: desc.Name, Description: desc.Description, InputSchema: desc.ToolSchema()}
		name := desc.Name
		handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			arguments := req.GetArguments()
			processID := 0
			if raw, ok := arguments["process"]; ok {
				if f, ok := raw.(float64); ok {
					processID = int(f)
				}
			}
			result, err := dispatcher.Dispatch(ctx, name, dispatch.Args(arguments), dispatch.StepContext{}, processID)
			if err != nil {
				return nil, err
			}
			return toCallToolResult(result), nil
		}
		if err := t.RegisterTool(tool, handler); err != nil {
			return err
		}
	}
	return nil
}

func toCallToolResult(result dispatch.Result) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(result.Content)+1)
	for _, c := range result.Content {
		switch c.Kind {
		case "image":
			text := c.Text
			if len(c.Data) > 0 {
				text = "data:" + c.MimeType + ";base64," + base64.StdEncoding.EncodeToString(c.Data)
			}
			content = append(content, mcp.TextContent{Type: "text", Text: text})
		default:
			content = append(content, mcp.TextContent{Type: "text", Text: c.Text})
		}
	}
	if len(result.Extra) > 0 {
		if raw, err := json.Marshal(result.Extra); err == nil {
			content = append(content, mcp.TextContent{Type: "text", Text: string(raw)})
		}
	}
	return &mcp.CallToolResult{Content: content}
}
