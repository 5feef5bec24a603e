package unread

import (
	"context"
	"time"

	"github.com/ElouanDeriaux/suprss/internal/api"
)

// DefaultPollInterval matches the refresh rate of the chat badges.
const DefaultPollInterval = 30 * time.Second

// Poller re-reads the unread messages summary on an interval.
type Poller struct {
	src      Source
	interval time.Duration
	onError  func(error)
}

// NewPoller creates a Poller. onError may be nil.
func NewPoller(src Source, interval time.Duration, onError func(error)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &Poller{src: src, interval: interval, onError: onError}
}

// Run polls until ctx is done, passing each summary to emit. The first poll
// happens immediately. A poll finishes before the next tick is read, so
// polls never overlap; ticks missed while polling are dropped.
func (p *Poller) Run(ctx context.Context, emit func(*api.UnreadSummary)) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx, emit)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx, emit)
		}
	}
}

func (p *Poller) poll(ctx context.Context, emit func(*api.UnreadSummary)) {
	if ctx.Err() != nil {
		return
	}
	summary, err := p.src.UnreadMessagesSummary(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.onError(err)
		}
		return
	}
	emit(summary)
}
