package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/cmdcore/internal/console"
	"github.com/msto63/cmdcore/internal/demo"
)

var consoleSender string

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive console",
	Long: `Starts an interactive console against the demo command set.

Keys:
  Tab      complete the current token
  Up/Down  browse history
  Esc      hide completion candidates
  Ctrl+C   quit

The console user holds every permission and starts in the world.`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().StringVar(&consoleSender, "sender", "", "sender name (default from config)")
}

func runConsole(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a.watchMessages(ctx)

	name := consoleSender
	if name == "" {
		name = a.cfg.Console.Sender
	}
	user := demo.NewUser(name, "*")
	user.Join()
	a.directory.Add(user)

	return console.Run(ctx, console.Options{
		Manager:     a.manager,
		Messages:    a.messages,
		Sender:      user,
		Prompt:      a.cfg.Console.Prompt,
		HistorySize: a.cfg.Console.HistorySize,
		Logger:      a.logger,
	})
}
