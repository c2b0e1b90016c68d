package services

import (
	"context"
	"errors"
	"sync"

	"github.com/rpupo63/portfolio-backend/models"
	"golang.org/x/sync/errgroup"
)

// Notifier delivers a stored contact message somewhere a human will see it.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg models.ContactMessage) error
}

// FanOut notifies every channel concurrently. One failing channel does not
// stop the others; all failures are returned joined.
type FanOut struct {
	notifiers []Notifier
}

func NewFanOut(notifiers ...Notifier) *FanOut {
	var active []Notifier
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return &FanOut{notifiers: active}
}

func (f *FanOut) Name() string { return "fanout" }

func (f *FanOut) Len() int { return len(f.notifiers) }

func (f *FanOut) Notify(ctx context.Context, msg models.ContactMessage) error {
	var (
		g        errgroup.Group
		mu       sync.Mutex
		failures []error
	)
	for _, n := range f.notifiers {
		g.Go(func() error {
			if err := n.Notify(ctx, msg); err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(failures...)
}
