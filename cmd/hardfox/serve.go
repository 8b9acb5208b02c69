package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/hardfox-dev/hardfox/pkg/middleware"
	"github.com/hardfox-dev/hardfox/pkg/server"
	"github.com/hardfox-dev/hardfox/pkg/session"
	"github.com/hardfox-dev/hardfox/pkg/widget"
)

func serveCmd(c *cli) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the settings panel over HTTP",
		Long: `Serve the settings panel to remote clients.

Routes:
  GET  /api/tree    the current panel as JSON
  POST /api/events  apply a JSON event, answer with its patches
  GET  /ws          binary patch stream
  GET  /metrics     Prometheus metrics

Examples:
  hardfox serve
  hardfox serve --port=9000
  hardfox serve --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				c.cfg.Server.Port = port
			}
			if host != "" {
				c.cfg.Server.Host = host
			}
			if err := c.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := c.newServer(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			success(out, "Serving on http://%s", c.cfg.Address())
			if c.cfg.MetricsEnabled() {
				info(out, "Metrics at %s", c.cfg.Server.MetricsPath)
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from hardfox.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from hardfox.json)")

	return cmd
}

// newServer builds the served session with its middleware stack and
// renders the first panel. The session keeps an in-memory mirror of the
// widgets every client holds.
func (c *cli) newServer(ctx context.Context) (*server.Server, error) {
	vm, err := c.viewModel()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sess := session.New(vm, widget.NewMemory(),
		session.WithLogger(c.logger),
		session.WithMiddleware(
			middleware.Logging(c.logger),
			middleware.Prometheus(
				middleware.WithNamespace(c.cfg.Metrics.Namespace),
				middleware.WithRegistry(reg),
			),
			middleware.OpenTelemetry(),
		),
	)
	if _, err := sess.Render(ctx, session.TriggerInitial); err != nil {
		return nil, err
	}

	srv := server.New(sess, &server.ServerConfig{
		Address:        c.cfg.Address(),
		MetricsPath:    c.cfg.Server.MetricsPath,
		DisableMetrics: !c.cfg.MetricsEnabled(),
		Gatherer:       reg,
	})
	srv.SetLogger(c.logger.With("component", "server"))
	return srv, nil
}
