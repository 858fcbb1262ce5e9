package feed

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Poller refreshes participants and messages on independent timers and
// publishes the latest state as an immutable Snapshot.
type Poller struct {
	participants ParticipantSource
	messages     MessageSource

	participantsEvery time.Duration
	messagesEvery     time.Duration

	mu     sync.Mutex // serialises writers
	latest atomic.Pointer[Snapshot]
	logger *slog.Logger
}

// NewPoller creates a poller. Either source may be nil.
func NewPoller(ps ParticipantSource, ms MessageSource, participantsEvery, messagesEvery time.Duration, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Poller{
		participants:      ps,
		messages:          ms,
		participantsEvery: participantsEvery,
		messagesEvery:     messagesEvery,
		logger:            logger,
	}
	p.latest.Store(&Snapshot{})
	return p
}

// Latest returns the most recent snapshot. Never nil.
func (p *Poller) Latest() *Snapshot {
	return p.latest.Load()
}

// Run polls until ctx is cancelled. Both lists are fetched once immediately.
func (p *Poller) Run(ctx context.Context) {
	p.PollParticipants(ctx)
	p.PollMessages(ctx)

	pt := time.NewTicker(positive(p.participantsEvery))
	defer pt.Stop()
	mt := time.NewTicker(positive(p.messagesEvery))
	defer mt.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-pt.C:
			p.PollParticipants(ctx)
		case <-mt.C:
			p.PollMessages(ctx)
		}
	}
}

// PollParticipants fetches participants once and publishes them if they changed.
// Failures are logged and keep the previous list.
func (p *Poller) PollParticipants(ctx context.Context) {
	if p.participants == nil {
		return
	}
	list, err := p.participants.Participants(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("participant poll failed", "error", err)
		}
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	cur := p.latest.Load()
	if slices.Equal(cur.Participants, list) {
		return
	}
	next := *cur
	next.Participants = list
	next.ParticipantsVersion++
	p.latest.Store(&next)
	p.logger.Debug("participants updated", "count", len(list), "version", next.ParticipantsVersion)
}

// PollMessages fetches messages once and publishes them if they changed.
func (p *Poller) PollMessages(ctx context.Context) {
	if p.messages == nil {
		return
	}
	list, err := p.messages.Messages(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("message poll failed", "error", err)
		}
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	cur := p.latest.Load()
	if slices.Equal(cur.Messages, list) {
		return
	}
	next := *cur
	next.Messages = list
	next.MessagesVersion++
	p.latest.Store(&next)
}

func positive(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Second
	}
	return d
}
