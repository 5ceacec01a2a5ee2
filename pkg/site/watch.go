package site

import (
	"context"
	"errors"

	lcadapter "github.com/aretw0/folio/pkg/adapters/lifecycle"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/index"
)

// ErrNotWatchable is returned by Watch when the Content Store cannot report
// changes.
var ErrNotWatchable = errors.New("content store does not support watching")

// Watch generates the site once, then again after every change reported by
// the Content Store, until ctx is done. onBuild observes each generation.
func (s *Service) Watch(ctx context.Context, sink core.Sink, onBuild func(*index.Index, error)) error {
	w, ok := s.source.(core.Watchable)
	if !ok {
		return ErrNotWatchable
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	raw, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	events := lcadapter.NewSource(raw)
	if err := events.Start(ctx); err != nil {
		return err
	}

	generate := func() {
		ix, err := s.Generate(ctx, sink)
		if onBuild != nil {
			onBuild(ix, err)
		}
	}
	generate()

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events.Events():
			if !ok {
				return nil
			}
			s.logger.Info("change detected", "event", e.String())
			// A burst touching several files triggers a single rebuild.
			drain(events.Events())
			if ctx.Err() != nil {
				return nil
			}
			generate()
		}
	}
}

func drain[T any](ch <-chan T) {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
