package dataset

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/teranos/songnet/errors"
	"github.com/teranos/songnet/graph"
	"github.com/teranos/songnet/logger"
)

// DebouncePeriod coalesces the burst of events an editor save produces.
const DebouncePeriod = 250 * time.Millisecond

// ChangeFunc receives each successfully reloaded dataset.
type ChangeFunc func(graph.RawData)

// Watch reloads the dataset at p whenever it changes and hands it to fn.
// Decode failures are logged and skipped, so fn only sees valid data.
// Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, p string, fn ChangeFunc) error {
	if _, err := FormatFromPath(p); err != nil {
		return err
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", p)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	defer watcher.Close()

	// The directory is watched so atomic rename-on-save keeps working.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(abs))
	}

	log := logger.ComponentLogger("dataset")
	log.Infow("Watching dataset", logger.FieldPath, abs)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		raw, err := Load(abs)
		if err != nil {
			log.Warnw("Dataset reload failed", logger.FieldPath, abs, logger.FieldError, err)
			return
		}
		log.Infow("Dataset reloaded",
			logger.FieldPath, abs,
			logger.FieldNodes, len(raw.Nodes),
			logger.FieldLinks, len(raw.Links))
		fn(raw)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debugw("Dataset change detected", logger.FieldPath, event.Name, "op", event.Op.String())

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(DebouncePeriod, func() {
				if ctx.Err() == nil {
					reload()
				}
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnw("Dataset watcher error", logger.FieldError, err)
		}
	}
}
