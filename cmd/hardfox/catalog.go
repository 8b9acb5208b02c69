package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/hardfox-dev/hardfox/pkg/setting"
)

func catalogCmd(c *cli) *cobra.Command {
	var (
		prefs    bool
		level    string
		category string
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the settings catalog",
		Long: `List the settings of the catalog with their defaults.

With --prefs the settings are printed as pref lines, grouped by the
profile file they belong to (prefs.js for BASE, user.js for ADVANCED).

Examples:
  hardfox catalog
  hardfox catalog --category=privacy
  hardfox catalog --prefs --level=advanced`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.catalog()
			if err != nil {
				return err
			}

			settings := make(map[string]setting.Setting)
			for _, s := range cat.All() {
				if category != "" && s.Category != category {
					continue
				}
				settings[s.Key] = s
			}
			base, advanced := setting.SplitByLevel(settings)

			switch strings.ToLower(level) {
			case "", "all":
			case "base":
				advanced = nil
			case "advanced":
				base = nil
			default:
				return fmt.Errorf("unknown level %q (want base, advanced or all)", level)
			}

			out := cmd.OutOrStdout()
			if prefs {
				printPrefs(out, setting.LevelBase, base)
				printPrefs(out, setting.LevelAdvanced, advanced)
				return nil
			}
			printTable(out, append(base, advanced...))
			return nil
		},
	}

	cmd.Flags().BoolVar(&prefs, "prefs", false, "Print pref lines instead of a table")
	cmd.Flags().StringVar(&level, "level", "all", "Settings to list: base, advanced or all")
	cmd.Flags().StringVar(&category, "category", "", "Only list this category")

	return cmd
}

func printPrefs(w io.Writer, level setting.Level, settings []setting.Setting) {
	if len(settings) == 0 {
		return
	}
	fmt.Fprintf(w, "// %s\n", level.Filename())
	for _, s := range settings {
		fmt.Fprintln(w, s.PrefLine())
	}
	fmt.Fprintln(w)
}

func printTable(w io.Writer, settings []setting.Setting) {
	rows := make([][]string, len(settings))
	for i, s := range settings {
		rows[i] = []string{s.Key, s.Category, string(s.Type), s.Level.String(), setting.FormatValue(s.Value)}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("KEY", "CATEGORY", "TYPE", "LEVEL", "DEFAULT").
		Rows(rows...)
	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "%d settings\n", len(settings))
}
