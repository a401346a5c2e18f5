package schedule

import (
	"context"
	"errors"
	"log"
	"time"

	"ontoai/internal/store"
)

// Window is how long a reminder stays eligible after its trigger time.
// It matches the poll interval so each trigger falls in exactly one tick.
const Window = time.Minute

// Store is the slice of the gateway the poller reads and writes.
type Store interface {
	ListScheduledByStatus(status store.ScheduledStatus) ([]store.ScheduledSession, error)
	GetCoachee(id int64) (store.Coachee, error)
	MarkNotified(id int64) (bool, error)
}

type Poller struct {
	store    Store
	notifier Notifier
	interval time.Duration
	now      func() time.Time
}

func NewPoller(st Store, n Notifier, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Poller{store: st, notifier: n, interval: interval, now: time.Now}
}

// Due reports whether ss should be reminded at now:
// trigger <= now < trigger+Window, with trigger = scheduled time - lead time.
func Due(ss store.ScheduledSession, now time.Time) bool {
	if ss.Status != store.StatusScheduled || !ss.NotifyEnabled || ss.Notified {
		return false
	}
	trigger := ss.ScheduledAt.Add(-LeadTime(ss.NotifyTime))
	return !now.Before(trigger) && now.Before(trigger.Add(Window))
}

// Check fires every reminder due at now and returns how many were sent.
// The latch is set before delivery, so a failed delivery is not retried.
func (p *Poller) Check(ctx context.Context, now time.Time) (int, error) {
	sessions, err := p.store.ListScheduledByStatus(store.StatusScheduled)
	if err != nil {
		return 0, err
	}

	fired := 0
	for _, ss := range sessions {
		if ctx.Err() != nil {
			return fired, ctx.Err()
		}
		if !Due(ss, now) {
			continue
		}

		c, err := p.store.GetCoachee(ss.CoacheeID)
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("reminder: scheduled session %d has no coachee %d, skipping", ss.ID, ss.CoacheeID)
			continue
		}
		if err != nil {
			log.Printf("reminder: load coachee for session %d: %v", ss.ID, err)
			continue
		}

		flipped, err := p.store.MarkNotified(ss.ID)
		if err != nil {
			log.Printf("reminder: mark session %d notified: %v", ss.ID, err)
			continue
		}
		if !flipped {
			continue
		}

		if err := p.notifier.Notify(ctx, Reminder{Session: ss, Coachee: c}); err != nil {
			log.Printf("reminder: deliver session %d: %v", ss.ID, err)
		}
		fired++
	}
	return fired, nil
}

// Run checks once immediately and then on every interval until ctx ends.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if _, err := p.Check(ctx, p.now()); err != nil && ctx.Err() == nil {
			log.Printf("reminder: check failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
