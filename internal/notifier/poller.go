package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/go-gym-api/internal/domain"
)

// DefaultInterval is the fixed refresh period of the poll loop.
const DefaultInterval = 10 * time.Second

// Surfacer displays one notification to the user.
type Surfacer interface {
	Surface(ctx context.Context, n domain.NotificationView) error
}

// LogSurfacer surfaces notifications as structured log lines.
type LogSurfacer struct {
	Logger *slog.Logger
}

func (s LogSurfacer) Surface(_ context.Context, n domain.NotificationView) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification", "id", n.NotificationID, "title", n.Title, "message", n.Message, "deliver_at", n.DeliverAt)
	return nil
}

// PollerDeps groups the collaborators of the poll loop.
type PollerDeps struct {
	Feed     Feed
	Store    Store
	Surfacer Surfacer
	// Interval defaults to DefaultInterval.
	Interval time.Duration
	// Freshness defaults to domain.DefaultFreshness.
	Freshness time.Duration
	Now       func() time.Time
	Logger    *slog.Logger
}

// Poller runs a single-goroutine loop: each poll finishes before the next
// starts, so ShownSet mutations never interleave.
type Poller struct {
	feed      Feed
	store     Store
	surfacer  Surfacer
	interval  time.Duration
	freshness time.Duration
	now       func() time.Time
	logger    *slog.Logger
	shown     *ShownSet
}

func NewPoller(deps PollerDeps) *Poller {
	p := &Poller{
		feed:      deps.Feed,
		store:     deps.Store,
		surfacer:  deps.Surfacer,
		interval:  deps.Interval,
		freshness: deps.Freshness,
		now:       deps.Now,
		logger:    deps.Logger,
	}
	if p.interval <= 0 {
		p.interval = DefaultInterval
	}
	if p.freshness <= 0 {
		p.freshness = domain.DefaultFreshness
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Run polls immediately and then on every tick until ctx is cancelled.
// A failed poll is logged and retried on the next tick.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.load(ctx); err != nil {
		return err
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		if n, err := p.Poll(ctx); err != nil {
			p.logger.Warn("poll failed", "err", err)
		} else if n > 0 {
			p.logger.Debug("poll surfaced notifications", "count", n)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (p *Poller) load(ctx context.Context) error {
	if p.shown != nil {
		return nil
	}
	set, err := p.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load shown set: %w", err)
	}
	p.shown = set
	return nil
}

// Poll fetches the feed once and surfaces every due-and-fresh notification
// not shown before, oldest first. Each id is persisted before it is
// surfaced; when the save fails the id is rolled back and the poll stops
// without surfacing it.
func (p *Poller) Poll(ctx context.Context) (int, error) {
	if err := p.load(ctx); err != nil {
		return 0, err
	}
	now := p.now()
	views, err := p.feed.Fetch(ctx, now)
	if err != nil {
		return 0, err
	}

	pending := make([]domain.NotificationView, 0, len(views))
	for _, v := range views {
		if domain.ClassifyNotification(v.DeliverAt, now, p.freshness) != domain.NotificationDueFresh {
			continue
		}
		if p.shown.Has(v.NotificationID) {
			continue
		}
		pending = append(pending, v)
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].DeliverAt.Equal(pending[j].DeliverAt) {
			return pending[i].DeliverAt.Before(pending[j].DeliverAt)
		}
		return pending[i].NotificationID < pending[j].NotificationID
	})

	surfaced := 0
	for _, v := range pending {
		if !p.shown.Add(v.NotificationID) {
			continue
		}
		if err := p.store.Save(ctx, p.shown); err != nil {
			p.shown.Remove(v.NotificationID)
			return surfaced, fmt.Errorf("save shown set: %w", err)
		}
		if err := p.surfacer.Surface(ctx, v); err != nil {
			p.logger.Warn("surface notification", "id", v.NotificationID, "err", err)
		}
		surfaced++
	}
	return surfaced, nil
}
