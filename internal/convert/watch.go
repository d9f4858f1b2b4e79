package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/htmlstring/internal/classify"
	"github.com/hyperifyio/htmlstring/internal/encode"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 100 * time.Millisecond

// Watch converts path once and again after every change until ctx is done.
// The parent directory is watched so that editors which save by renaming a
// new file over the old one are still seen. Conversions run one at a time.
func (c *Converter) Watch(ctx context.Context, path string, mode encode.Mode, r Reporter) error {
	if !classify.IsHTMLFile(path) {
		r.OnWarning(fmt.Sprintf("%s is not an HTML file (.html or .htm).", path))
		return fmt.Errorf("%s: %w", path, ErrNotHTML)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()
	dir := filepath.Dir(abs)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Debug().Str("path", abs).Str("mode", mode.String()).Msg("watching")

	_ = c.Run(abs, mode, r)

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			timer.Reset(watchDebounce)
		case <-timer.C:
			_ = c.Run(abs, mode, r)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Str("path", abs).Msg("watch error")
		}
	}
}
