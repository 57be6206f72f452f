package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/cmdcore/pkg/core/message"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration, message templates and commands",
	Long: `Loads the configuration and message file and registers the demo
command set. Reports template keys the message file does not override and
unknown keys it defines.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "config:     ok\n")
	fmt.Fprintf(out, "commands:   %d paths registered\n", a.manager.Len())
	fmt.Fprintf(out, "converters: %v\n", a.manager.Converters().Keys())

	if a.cfg.Messages.File == "" {
		fmt.Fprintf(out, "messages:   built-in templates\n")
		return nil
	}

	loaded, err := message.Load(a.cfg.Messages.File)
	if err != nil {
		return err
	}
	defaults := message.Defaults()

	var missing, unknown []string
	for _, k := range defaults.Keys() {
		if _, ok := loaded[k]; !ok {
			missing = append(missing, k)
		}
	}
	for _, k := range loaded.Keys() {
		if _, ok := defaults[k]; !ok {
			unknown = append(unknown, k)
		}
	}

	fmt.Fprintf(out, "messages:   %s (%d templates)\n", a.cfg.Messages.File, len(loaded))
	for _, k := range missing {
		fmt.Fprintf(out, "  default used: %s\n", k)
	}
	for _, k := range unknown {
		fmt.Fprintf(out, "  unknown key:  %s\n", k)
	}
	return nil
}
