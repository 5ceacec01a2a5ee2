package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/folio/pkg/core"
)

// DebounceWindow is how long a path must stay quiet before its change is
// reported. Editors typically write a file in several steps.
var DebounceWindow = 50 * time.Millisecond

// Watch reports changes to candidate documents until ctx is done, then closes
// the returned channel. New directories are watched as they appear.
func (s *Source) Watch(ctx context.Context) (<-chan core.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := s.addTree(watcher, s.Path); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	events := make(chan core.Event)
	s.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		return s.watchLoop(ctx, watcher, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		s.config.Logger.Error("watcher stopped", "error", err)
	}))

	return events, nil
}

func (s *Source) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, events chan<- core.Event) (err error) {
	deb := newDebouncer(DebounceWindow)
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if s.config.Logger.Enabled(ctx, slog.LevelDebug) {
				s.config.Logger.Debug("watcher panic", "error", err, "stack", string(debug.Stack()))
			}
		}
		deb.stopAndWait(5 * time.Second)
		_ = watcher.Close()
		s.setWatcherActive(false)
		close(events)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			s.handle(ctx, watcher, deb, event, events)

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			s.config.Logger.Error("fsnotify error", "error", wErr)
		}
	}
}

func (s *Source) handle(ctx context.Context, watcher *fsnotify.Watcher, deb *debouncer, event fsnotify.Event, events chan<- core.Event) {
	rel, err := s.rel(event.Name)
	if err != nil {
		return
	}
	s.config.Logger.Debug("event received", "path", rel, "op", event.Op.String())

	if event.Has(fsnotify.Create) {
		if info, err := statDir(event.Name); err == nil && info {
			if !s.skipDir(rel, filepath.Base(rel), s.Exclude()) {
				if err := s.addTree(watcher, event.Name); err != nil {
					s.config.Logger.Warn("failed to watch new directory", "path", rel, "error", err)
				}
			}
			return
		}
	}

	if !matches(rel, s.Include(), s.Exclude()) {
		return
	}

	var eType core.EventType
	switch {
	case event.Has(fsnotify.Create):
		eType = core.EventCreate
	case event.Has(fsnotify.Write):
		eType = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		eType = core.EventDelete
	default:
		return
	}

	e := core.Event{Type: eType, Path: rel, Timestamp: time.Now().Unix()}
	deb.add(rel, func() {
		// the channel may already be closed when a late timer fires during shutdown
		defer func() { _ = recover() }()
		s.recordEvent()
		select {
		case events <- e:
		case <-ctx.Done():
		}
	})
}

// addTree watches root and every directory below it that belongs to the
// content tree.
func (s *Source) addTree(watcher *fsnotify.Watcher, root string) error {
	exclude := s.Exclude()
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := s.rel(path)
		if err != nil {
			return err
		}
		if rel != "." && s.skipDir(rel, d.Name(), exclude) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", rel, err)
		}
		return nil
	})
}

func statDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
