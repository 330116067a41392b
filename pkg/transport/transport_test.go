package transport

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/dispatch"
	"github.com/mediar-ai/deskflow/pkg/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	tools    map[string]mcp.Tool
	handlers map[string]server.ToolHandlerFunc
}

func newRecordingTransport() *recordingTransport {
	return &recordingTransport{tools: map[string]mcp.Tool{}, handlers: map[string]server.ToolHandlerFunc{}}
}

func (r *recordingTransport) Start(ctx context.Context) error { return nil }
func (r *recordingTransport) RegisterTool(tool mcp.Tool, handler server.ToolHandlerFunc) error {
	r.tools[tool.Name] = tool
	r.handlers[tool.Name] = handler
	return nil
}
func (r *recordingTransport) IsInitialized() bool { return true }

func TestRegisterDispatcherToolsWiresEveryDescriptor(t *testing.T) {
	d := dispatch.New(desktop.NoopPlatform{}, window.New(desktop.NoopPlatform{}), window.DefaultOptions())
	d.Register("delay", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		return dispatch.Result{Status: "success", Content: []dispatch.Content{dispatch.TextContent("ok")}}, nil
	})
	rt := newRecordingTransport()
	require.NoError(t, RegisterDispatcherTools(rt, d, DefaultCatalogue()))
	assert.Contains(t, rt.tools, "delay")
	assert.Contains(t, rt.tools, "click")
	assert.Len(t, rt.tools, len(DefaultCatalogue()))
}

func TestDispatcherToolHandlerInvokesRegisteredTool(t *testing.T) {
	d := dispatch.New(desktop.NoopPlatform{}, window.New(desktop.NoopPlatform{}), window.DefaultOptions())
	d.Register("delay", func(ctx context.Context, args dispatch.Args, step dispatch.StepContext) (dispatch.Result, error) {
		return dispatch.Result{Status: "success", Content: []dispatch.Content{dispatch.TextContent("done")}}, nil
	})
	rt := newRecordingTransport()
	require.NoError(t, RegisterDispatcherTools(rt, d, []Descriptor{{Name: "delay", Description: "pause"}}))

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "delay",
			Arguments: map[string]interface{}{"duration_ms": float64(1)},
		},
	}
	result, err := rt.handlers["delay"](context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "done", text.Text)
}
