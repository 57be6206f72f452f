package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var treeJSON bool

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "List every registered command path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		commands := a.manager.Commands()
		out := cmd.OutOrStdout()

		if treeJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(commands)
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PATH\tUSAGE\tPERMISSION\tNOTES")
		for _, c := range commands {
			var notes []string
			if c.Alias {
				notes = append(notes, "alias")
			}
			if c.Group {
				notes = append(notes, "group")
			}
			if len(c.Aliases) > 0 && !c.Alias {
				notes = append(notes, "aliases: "+strings.Join(c.Aliases, ", "))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Path, c.Usage, c.Permission, strings.Join(notes, "; "))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "print JSON")
}
