package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, s *Server, tool string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Name = tool
	req.Params.Arguments = args
	res, err := s.handle(tool)(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestSolveTool(t *testing.T) {
	s := NewServer(nil)
	res := call(t, s, "solve", map[string]interface{}{"equation": "3x + 1 = 7"})
	assert.False(t, res.IsError)

	var body struct {
		String string `json:"string"`
		LaTeX  string `json:"latex"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &body))
	assert.Equal(t, "x = 2", body.String)
	assert.Equal(t, "$$x = 2$$", body.LaTeX)
}

func TestSolveTool_Spanish(t *testing.T) {
	s := NewServer(nil)
	res := call(t, s, "solve", map[string]interface{}{"equation": "2x = 2x", "lang": "es"})
	assert.Contains(t, text(t, res), "Infinitas soluciones")
}

func TestEvaluateTool(t *testing.T) {
	s := NewServer(nil)
	res := call(t, s, "evaluate", map[string]interface{}{"equation": "3x = 2", "value": "x = 2/3"})
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), `"correct":true`)
}

func TestToolErrorsAreResults(t *testing.T) {
	s := NewServer(nil)
	res := call(t, s, "normalize", map[string]interface{}{"equation": "2x + 4"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "no '=' sign")

	res = call(t, s, "classify", nil)
	assert.True(t, res.IsError)
	assert.Equal(t, "missing param: equation", text(t, res))
}

func TestToolsList(t *testing.T) {
	s := NewServer(nil)
	msg := s.mcpServer.HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	b, err := json.Marshal(msg)
	require.NoError(t, err)
	for _, name := range []string{"normalize", "classify", "solve", "evaluate"} {
		assert.Contains(t, string(b), `"name":"`+name+`"`)
	}
}
