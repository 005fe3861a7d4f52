package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/gosolve/internal/cache"
	"github.com/njchilds90/gosolve/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Serves normalize, classify, solve and check as JSON endpoints under /v1,
plus the tool-call endpoint, /health and Prometheus metrics on /metrics.
Solve results are cached in Redis when cache.redis_addr is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				a.cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := cache.FromConfig(ctx, a.cfg)
			if err != nil {
				return fmt.Errorf("failed to connect to redis: %w", err)
			}
			defer c.Close()
			if a.cfg.Cache.RedisAddr != "" {
				c = cache.NewBreaker(c, 5, 30*time.Second, a.logger)
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			srv := server.New(server.Options{
				Logger:         a.logger,
				Cache:          c,
				Registry:       reg,
				Unknown:        a.unknown(),
				Language:       a.language(),
				MaxBodyBytes:   a.cfg.Server.MaxBodyBytes,
				AllowedOrigins: a.cfg.Server.AllowedOrigins,
			})
			a.logger.Info("starting gosolve",
				zap.String("addr", a.cfg.Server.Addr),
				zap.Bool("redis", a.cfg.Cache.RedisAddr != ""),
			)
			return srv.ListenAndServe(ctx, a.cfg.Server.Addr, a.cfg.GetReadTimeout(), a.cfg.GetWriteTimeout())
		},
	}
	cmd.Flags().StringP("addr", "a", "", "Address to listen on (overrides config)")
	return cmd
}
