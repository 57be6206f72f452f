package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/cmdcore/foundation/core/log"
	"github.com/msto63/cmdcore/internal/audit"
	"github.com/msto63/cmdcore/internal/demo"
	"github.com/msto63/cmdcore/internal/gateway"
	"github.com/msto63/cmdcore/pkg/core/sender"
)

const (
	// maxGuests caps the users the gateway creates for unknown sender names.
	maxGuests = 1024
	guestIdle = 30 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP/WebSocket gateway",
	Long: `Starts the gateway.

Endpoints:
  GET /health    liveness and command count
  GET /commands  registered commands as JSON
  GET /ws        WebSocket; ?sender=<name> names the connection's sender

Messages are JSON objects {"type":"execute"|"complete"|"ping","id":"..","line":".."}.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a.watchMessages(ctx)
	a.directory.SetGuestLimit(maxGuests)
	go expireGuests(ctx, a.directory, guestIdle, a.logger)

	opts := gateway.Options{
		Manager:  a.manager,
		Messages: a.messages,
		Senders:  a.gatewaySender,
		Logger:   a.logger,
	}

	if a.cfg.Audit.Enabled {
		store, err := audit.Open(audit.Config{Path: a.cfg.Audit.Path})
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Audit = store
		go pruneAudit(ctx, store, a.cfg.Audit.Retention.Duration, a.logger)
	}

	srv, err := gateway.New(gateway.ConfigFrom(a.cfg), opts)
	if err != nil {
		return err
	}
	defer srv.Close()

	return srv.Start(ctx)
}

// gatewaySender returns the directory's user for name, creating a guest
// without permissions on first use. Past the guest limit the user lives for
// the request only.
func (a *app) gatewaySender(name string) sender.Sender {
	u, kept := a.directory.GetOrAdd(name)
	if !kept {
		a.logger.Debug("guest limit reached", mdwlog.Fields{"sender": name})
	}
	return u
}

// expireGuests forgets idle gateway guests every few minutes.
func expireGuests(ctx context.Context, dir *demo.Directory, idle time.Duration, logger *mdwlog.Logger) {
	ticker := time.NewTicker(idle / 6)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := dir.ExpireGuests(idle); n > 0 {
				logger.Debug("idle guests expired", mdwlog.Fields{"count": n})
			}
		}
	}
}

// pruneAudit drops audit entries past retention once an hour.
func pruneAudit(ctx context.Context, store *audit.Store, retention time.Duration, logger *mdwlog.Logger) {
	if retention <= 0 {
		return
	}
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		n, err := store.Prune(ctx, retention)
		if err != nil {
			logger.WarnWithErr("audit prune failed", err)
		} else if n > 0 {
			logger.Info("audit entries pruned", mdwlog.Fields{"count": n})
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
