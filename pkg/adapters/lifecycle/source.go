// Package lifecycle bridges content-store events into the lifecycle runtime.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/folio/pkg/core"
)

type contentSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource wraps the change channel of a watchable Content Store.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &contentSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *contentSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start relays the debounced filesystem changes to the rebuild loop of
// site.Service.Watch. The relay stops when ctx is done or the watcher closes
// its channel, and Events is closed after it.
func (s *contentSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				// core.Event satisfies lifecycle.Event through String.
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
