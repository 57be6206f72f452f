package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cmdcore",
	Short: "cmdcore - command resolution and dispatch engine",
	Long: `cmdcore resolves dotted command paths, binds typed arguments,
gates commands by requirements and permissions and completes input.

Hosts:
  console  - interactive terminal with Tab completion
  serve    - HTTP/WebSocket gateway

Tools:
  tree     - list every registered command path
  check    - validate configuration, messages and commands`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError("command failed", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./configs/cmdcore.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SilenceErrors = true
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
