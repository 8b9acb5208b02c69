package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hardfox-dev/hardfox/internal/config"
	"github.com/hardfox-dev/hardfox/internal/errors"
	"github.com/hardfox-dev/hardfox/pkg/setting"
	"github.com/hardfox-dev/hardfox/pkg/view"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦ ╦┌─┐┬─┐┌┬┐┌─┐┌─┐─┐ ┬
  ╠═╣├─┤├┬┘ ││├┤ │ │┌┴┬┘
  ╩ ╩┴ ┴┴└──┴┘└  └─┘┴ └─
`

// cli holds the state shared by every command.
type cli struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if os.Getenv("NO_COLOR") != "" {
		errors.DisableColors()
	}
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "hardfox",
		Short: "Browser privacy settings panel",
		Long: `hardfox edits a catalog of browser privacy preferences.

The settings panel is rebuilt on every change and reconciled against
the widgets already on screen, so only rows that changed are touched.
It can be shown in the terminal or served to remote clients:

  • tui      interactive terminal panel
  • serve    HTTP API and websocket patch stream
  • diff     reconcile two tree files
  • catalog  list settings and their pref lines`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to hardfox.json (default: search from the working directory)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn or error (default from hardfox.json)")

	rootCmd.AddCommand(
		tuiCmd(c),
		serveCmd(c),
		diffCmd(c),
		catalogCmd(c),
		versionCmd(),
	)
	return rootCmd
}

// setup loads the configuration and installs the logger. A missing
// hardfox.json is not an error when no --config was given.
func (c *cli) setup(logOut io.Writer) error {
	var err error
	if c.configPath != "" {
		c.cfg, err = config.LoadFile(c.configPath)
	} else {
		c.cfg, err = config.LoadFromWorkingDir()
		if errors.HasCode(err, "E141") {
			c.cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return err
	}

	if c.logLevel != "" {
		c.cfg.Log.Level = c.logLevel
	}
	level, err := config.ParseLevel(c.cfg.Log.Level)
	if err != nil {
		return err
	}

	c.logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(c.logger)
	return nil
}

// catalog returns the configured catalog, or the built-in one.
func (c *cli) catalog() (*setting.Catalog, error) {
	path := c.cfg.CatalogPath()
	if path == "" {
		return setting.DefaultCatalog().WithLogger(c.logger), nil
	}
	cat, err := setting.LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	return cat.WithLogger(c.logger), nil
}

// viewModel builds the panel state from the configuration.
func (c *cli) viewModel() (*view.Model, error) {
	cat, err := c.catalog()
	if err != nil {
		return nil, err
	}
	return view.New(cat,
		view.WithExpanded(c.cfg.View.Expanded...),
		view.WithShowAdvanced(c.cfg.View.ShowAdvanced),
		view.WithShowDescriptions(c.cfg.View.ShowDescriptions),
	), nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
