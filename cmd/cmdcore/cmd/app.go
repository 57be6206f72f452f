package cmd

import (
	"context"
	"io"

	mdwlog "github.com/msto63/cmdcore/foundation/core/log"
	"github.com/msto63/cmdcore/internal/demo"
	"github.com/msto63/cmdcore/pkg/core/config"
	"github.com/msto63/cmdcore/pkg/core/dispatch"
	"github.com/msto63/cmdcore/pkg/core/logging"
	"github.com/msto63/cmdcore/pkg/core/message"
)

// app bundles what every host needs.
type app struct {
	cfg       *config.Config
	logger    *mdwlog.Logger
	closer    io.Closer
	messages  *message.Handler
	manager   *dispatch.Manager
	directory *demo.Directory
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadFromEnv()
}

// newApp loads configuration, builds the logger and message handler and
// registers the demo commands. quietConsole discards log output going to
// the terminal, for hosts that own the screen.
func newApp(quietConsole bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logCfg := logging.FromConfig("cmdcore", cfg.Log)
	if verbose {
		logCfg.Level = "debug"
	}

	var (
		logger *mdwlog.Logger
		closer io.Closer
	)
	if quietConsole && (logCfg.Output == "" || logCfg.Output == "stdout" || logCfg.Output == "stderr") {
		logger, closer = mdwlog.NewNop(), nopCloser{}
	} else {
		logger, closer, err = logging.NewLogger(logCfg)
		if err != nil {
			return nil, err
		}
	}

	messages := message.New(nil)
	if cfg.Messages.File != "" {
		if err := messages.LoadFile(cfg.Messages.File); err != nil {
			closer.Close()
			return nil, err
		}
	}

	manager := dispatch.New(dispatch.Options{
		Logger:          logger,
		Permission:      demo.Permission,
		CaseInsensitive: cfg.Engine.CaseInsensitive,
	})
	directory := demo.NewDirectory()
	if err := demo.RegisterWithDirectory(manager, directory); err != nil {
		closer.Close()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		closer:    closer,
		messages:  messages,
		manager:   manager,
		directory: directory,
	}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// watchMessages hot-reloads the message file when configured.
func (a *app) watchMessages(ctx context.Context) {
	if a.cfg.Messages.File == "" || !a.cfg.Messages.Watch {
		return
	}
	go func() {
		if err := a.messages.Watch(ctx, a.cfg.Messages.File, a.logger); err != nil {
			a.logger.WarnWithErr("message file watch stopped", err)
		}
	}()
}

func (a *app) Close() error {
	return a.closer.Close()
}
