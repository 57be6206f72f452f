package message

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/cmdcore/foundation/core/error"
	mdwlog "github.com/msto63/cmdcore/foundation/core/log"
)

// reloadDelay coalesces the bursts of events editors produce on save.
const reloadDelay = 150 * time.Millisecond

// Watch reloads path whenever it changes until ctx is done. The directory is
// watched rather than the file so editors that replace the file on save are
// picked up. A file that fails to parse keeps the previous templates.
func (h *Handler) Watch(ctx context.Context, path string, logger *mdwlog.Logger) error {
	if logger == nil {
		logger = mdwlog.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return mdwerror.Wrap(err, "cannot resolve message file").WithOperation("message.Watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "cannot create file watcher").
			WithCode(mdwerror.CodeEnvironmentError).
			WithOperation("message.Watch")
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return mdwerror.Wrap(err, "cannot watch message directory").
			WithCode(mdwerror.CodeEnvironmentError).
			WithOperation("message.Watch").
			WithDetail("path", abs)
	}

	go func() {
		defer watcher.Close()

		timer := time.NewTimer(reloadDelay)
		timer.Stop()

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					timer.Reset(reloadDelay)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.WarnWithErr("message watcher error", err)
			case <-timer.C:
				if err := h.LoadFile(abs); err != nil {
					logger.WarnWithErr("message reload failed", err, mdwlog.Fields{"path": abs})
					continue
				}
				logger.Info("messages reloaded", mdwlog.Fields{"path": abs})
			}
		}
	}()
	return nil
}
