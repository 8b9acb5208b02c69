package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hardfox-dev/hardfox/pkg/setting"
	"github.com/hardfox-dev/hardfox/pkg/treefile"
	"github.com/hardfox-dev/hardfox/pkg/vtree"
)

func diffCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Reconcile two tree files",
		Long: `Reconcile two panel trees and print the patch list.

Tree files are YAML or JSON lists of nodes:

  - type: category_header
    props: {category: privacy, count: 2, is_expanded: true}
  - type: setting_row
    props:
      setting: {key: privacy.a, value: true, type: toggle, category: privacy}

Examples:
  hardfox diff before.yaml after.yaml
  hardfox diff --json before.json after.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prev, err := treefile.Load(args[0])
			if err != nil {
				return err
			}
			next, err := treefile.Load(args[1])
			if err != nil {
				return err
			}

			res := vtree.Diff(prev, nil, next)
			for _, d := range res.Diagnostics {
				c.logger.Warn("duplicate key", "code", "E001", "key", d.Key)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(treefile.FromResult(res))
			}
			printResult(out, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func printResult(w io.Writer, res vtree.Result) {
	for _, p := range res.Patches {
		fmt.Fprintf(w, "%-8s %s", p.Op, p.Key)
		switch p.Op {
		case vtree.OpCreate, vtree.OpMove:
			fmt.Fprintf(w, " at %d", p.Index)
			if p.After != "" {
				fmt.Fprintf(w, " after %s", p.After)
			}
		case vtree.OpDestroy:
			if p.Index >= 0 {
				fmt.Fprintf(w, " was %d", p.Index)
			}
		}
		fmt.Fprintln(w)
		for _, ch := range p.Changes {
			fmt.Fprintf(w, "         %s: %s -> %s\n", ch.Name, formatProp(ch.Old), formatProp(ch.New))
		}
	}
	for _, d := range res.Diagnostics {
		warn(w, "%s", d.Error())
	}
	fmt.Fprintln(w)
	info(w, "%s", res.Metrics)
}

// formatProp renders a prop value on one line.
func formatProp(v any) string {
	switch val := v.(type) {
	case nil:
		return "<none>"
	case setting.Setting:
		parts := []string{"value=" + setting.FormatValue(val.Value)}
		if val.Level != setting.LevelBase {
			parts = append(parts, "level="+val.Level.String())
		}
		if val.Description != "" {
			parts = append(parts, fmt.Sprintf("description=%q", val.Description))
		}
		return "{" + strings.Join(parts, " ") + "}"
	default:
		return fmt.Sprint(v)
	}
}
