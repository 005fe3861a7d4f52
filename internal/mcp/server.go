// Package mcp exposes the gosolve tools over the Model Context Protocol so
// agents can normalize, classify and solve equations as tool calls.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	gosolve "github.com/njchilds90/gosolve"
)

const schemaURI = "gosolve://tools"

// Server wraps the tool dispatcher as an MCP server.
type Server struct {
	mcpServer *server.MCPServer
	logger    *zap.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		mcpServer: server.NewMCPServer("gosolve-mcp", gosolve.Version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
		logger: logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sse.SSEHandler())
	mux.Handle("/message", sse.MessageHandler())
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP server listening (SSE)", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) registerTools() {
	equation := mcp.WithString("equation", mcp.Required(),
		mcp.Description(`Equation text, plain or LaTeX, e.g. "3(x - 1) = x + 5" or "\frac{x}{2} = 3"`))
	unknown := mcp.WithString("unknown", mcp.Description("Letter to solve for (default x)"))

	s.mcpServer.AddTool(mcp.NewTool("normalize",
		mcp.WithDescription("Turn free-form equation text into a canonical equation"),
		equation, unknown,
	), s.handle("normalize"))

	s.mcpServer.AddTool(mcp.NewTool("classify",
		mcp.WithDescription("Report grouping, fractions and unknown occurrences, and suggest a teaching model"),
		equation, unknown,
	), s.handle("classify"))

	s.mcpServer.AddTool(mcp.NewTool("solve",
		mcp.WithDescription("Solve a first-degree equation step by step"),
		equation, unknown,
		mcp.WithString("lang", mcp.Description("Language of the step descriptions"), mcp.Enum("en", "es")),
	), s.handle("solve"))

	s.mcpServer.AddTool(mcp.NewTool("evaluate",
		mcp.WithDescription(`Check whether a value such as "3/2" or "x = 4" satisfies the equation`),
		equation, unknown,
		mcp.WithString("value", mcp.Required(), mcp.Description("Candidate answer")),
	), s.handle("evaluate"))
}

// handle routes an MCP call through the same dispatcher the HTTP tool
// endpoint uses. Tool failures are reported in the result, not as
// protocol errors.
func (s *Server) handle(tool string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp := gosolve.HandleToolCall(gosolve.ToolRequest{
			Tool:   tool,
			Params: request.GetArguments(),
		})
		if resp.Error != "" {
			s.logger.Debug("tool call failed", zap.String("tool", tool), zap.String("error", resp.Error))
			return mcp.NewToolResultError(resp.Error), nil
		}
		b, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to encode result: %w", err)
		}
		return mcp.NewToolResultText(string(b)), nil
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(schemaURI, "Tool schema",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      schemaURI,
				MIMEType: "application/json",
				Text:     gosolve.ToolSpec(),
			},
		}, nil
	})
}
