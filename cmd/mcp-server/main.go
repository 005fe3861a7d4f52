// cmd/mcp-server/main.go: standalone tool server for gosolve
//
// Exposes the gosolve tools to AI agent frameworks, either as MCP (stdio or
// SSE) or as the plain HTTP tool endpoint.
//
// Usage:
//
//	go run ./cmd/mcp-server                      # MCP over stdio
//	go run ./cmd/mcp-server -transport sse -port 8080
//	go run ./cmd/mcp-server -transport http -port 8080
//
// HTTP transport endpoints:
//
//	POST /tool    execute a tool call
//	GET  /schema  tool schema for agent registration
//	GET  /health  health check
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/njchilds90/gosolve/internal/cache"
	"github.com/njchilds90/gosolve/internal/config"
	"github.com/njchilds90/gosolve/internal/logging"
	"github.com/njchilds90/gosolve/internal/mcp"
	"github.com/njchilds90/gosolve/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run parses args and serves until ctx is cancelled. Every deferred
// cleanup runs before it returns.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mcp-server", flag.ContinueOnError)
	transport := fs.String("transport", "stdio", "Transport: stdio, sse or http")
	port := fs.Int("port", 8080, "Port to listen on (sse and http)")
	configPath := fs.String("config", "", "Path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	switch *transport {
	case "stdio":
		// Logs go to stderr so they never corrupt JSON-RPC on stdout.
		logger.Info("starting gosolve MCP server (stdio)")
		return mcp.NewServer(logger).ServeStdio()
	case "sse":
		return mcp.NewServer(logger).ServeSSE(ctx, *port)
	case "http":
	default:
		return fmt.Errorf("unknown transport %q (want stdio, sse or http)", *transport)
	}

	// Agents repeat the same tool calls; the in-process cache is enough here.
	c := cache.NewMemory(cfg.GetCacheTTL(), cfg.Cache.MaxEntries)
	defer c.Close()

	srv := server.New(server.Options{
		Logger:         logger,
		Cache:          c,
		Unknown:        cfg.Solver.Unknown,
		Language:       cfg.LanguageTag(),
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("gosolve tool server",
		zap.String("addr", addr),
		zap.Strings("endpoints", []string{"POST /tool", "GET /schema", "GET /health"}),
	)
	return srv.ListenAndServe(ctx, addr, cfg.GetReadTimeout(), cfg.GetWriteTimeout())
}
