// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces the burst of events an editor save produces.
const DefaultWatchDebounce = 250 * time.Millisecond

// ChangeFunc receives the reloaded config, or the error that prevented it.
type ChangeFunc func(cfg *Config, err error)

// Watch reports edits to the config file at path until ctx is done. The
// parent directory is watched so that editors which replace the file on save
// are still seen. onChange runs on the watcher goroutine.
//
// Watch blocks; it returns nil when ctx is cancelled.
func Watch(ctx context.Context, path string, debounce time.Duration, onChange ChangeFunc) error {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
		wg    sync.WaitGroup
	)
	reload := func() {
		defer wg.Done()
		if ctx.Err() != nil {
			return
		}
		cfg, err := LoadFromPath(abs)
		onChange(cfg, err)
	}
	schedule := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil && timer.Stop() {
			wg.Done()
		}
		wg.Add(1)
		timer = time.AfterFunc(debounce, reload)
	}
	defer func() {
		mu.Lock()
		if timer != nil && timer.Stop() {
			wg.Done()
		}
		mu.Unlock()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isConfigEvent(evt, abs) {
				schedule()
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onChange(nil, fmt.Errorf("watch config: %w", werr))
		}
	}
}

func isConfigEvent(evt fsnotify.Event, path string) bool {
	if filepath.Clean(evt.Name) != path {
		return false
	}
	return evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
