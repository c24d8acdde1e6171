package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rauzy/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Rauzy operations over HTTP",
		Long: `Start an HTTP server exposing induce, diagram, cover, cylinders and speed
as JSON endpoints under /v1, plus the class catalog when a Mongo URI is
configured. The server uses the configured cache backend and shuts down
gracefully on interrupt.

Examples:
  rauzy serve
  rauzy serve --addr :9090 --cache redis
  curl -d '{"perm": "a b c d / d c b a"}' localhost:8080/v1/cover`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("request-timeout") {
				cfg.RequestTimeout = timeout
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv := server.New(server.Config{
				Addr:           cfg.Addr,
				Runner:         runner,
				Logger:         c.Logger,
				RequestTimeout: cfg.RequestTimeout,
			})
			printInfo("Listening on %s", StyleHighlight.Render("http://"+cfg.Addr))
			printDetail("cache: %s", c.Config.Cache.Backend)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&timeout, "request-timeout", server.DefaultRequestTimeout, "per-request deadline")

	return cmd
}
