package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/fusionqa/internal/logger"
)

// watchBuffer is the capacity of the change channel.
const watchBuffer = 64

// Watch reports regular files created or written under dir until ctx is
// cancelled. New subdirectories are watched as they appear. The returned
// channel is closed when watching stops.
func Watch(ctx context.Context, dir string) (<-chan string, error) {
	dir = LocalPath(dir)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addTree(watcher, dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	changes := make(chan string, watchBuffer)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				path, ok := handleFsEvent(watcher, event)
				if !ok {
					continue
				}
				select {
				case changes <- path:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watch error: %v", err)
			}
		}
	}()

	return changes, nil
}

// handleFsEvent returns the path to ingest for an event, if any.
// Created directories are added to the watcher instead.
func handleFsEvent(watcher *fsnotify.Watcher, event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(filepath.Base(event.Name)) {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		// Removed again before we looked.
		return "", false
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := addTree(watcher, event.Name); err != nil {
				logger.Warn("Failed to watch %s: %v", event.Name, err)
			}
		}
		return "", false
	}
	if !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

// addTree watches root and every non-hidden directory beneath it.
func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
