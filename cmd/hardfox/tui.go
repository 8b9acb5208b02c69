package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hardfox-dev/hardfox/internal/tui"
	"github.com/hardfox-dev/hardfox/pkg/middleware"
	"github.com/hardfox-dev/hardfox/pkg/session"
)

func tuiCmd(c *cli) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the settings panel in the terminal",
		Long: `Open the interactive settings panel.

The panel takes over the terminal, so logs are discarded unless
--log-file is given.

Examples:
  hardfox tui
  hardfox tui --log-file=hardfox.log --log-level=debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, err := c.viewModel()
			if err != nil {
				return err
			}

			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.cfg.LogLevel()}))

			return tui.Run(cmd.Context(), vm,
				session.WithLogger(logger),
				session.WithMiddleware(middleware.Logging(logger)),
			)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Append logs to this file")

	return cmd
}
