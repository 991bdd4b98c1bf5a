package organize

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch processes new files as the collector drops them, until ctx is
// cancelled. The watch is non-recursive.
func (o *Organizer) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(o.watchDir); err != nil {
		return fmt.Errorf("watch %s: %w", o.watchDir, err)
	}

	o.logger.Info("watching for new files", "dir", o.watchDir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := o.handleEvent(ctx, event.Name); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.logger.Warn("watch error", "err", err)
		}
	}
}

// handleEvent waits for an in-progress download to settle, then moves
// the file. Files that disappear during the delay were temporary.
func (o *Organizer) handleEvent(ctx context.Context, path string) error {
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(settleDelay):
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}

	_, err = o.ProcessFile(path)
	return err
}
