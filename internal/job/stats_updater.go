package job

import (
	"context"
	"time"

	goset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/happix/internal/model"
	"github.com/emrgen/happix/internal/queue"
	"github.com/sirupsen/logrus"
)

// Recomputer is the part of the aggregate service the updater needs.
type Recomputer interface {
	RecomputeStats(ctx context.Context, resourceID string) ([]*model.ResourceStat, error)
}

// StatsUpdater listens to merge events and refreshes the stored stats of the merged
// resources. Events are batched per tick so a burst of merges recomputes a resource once.
type StatsUpdater struct {
	queue    queue.MergeQueue
	stats    Recomputer
	interval time.Duration
	done     chan struct{}
}

// NewStatsUpdater creates a new StatsUpdater instance.
func NewStatsUpdater(queue queue.MergeQueue, stats Recomputer, interval time.Duration) *StatsUpdater {
	return &StatsUpdater{
		queue:    queue,
		stats:    stats,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (u *StatsUpdater) Stop() {
	close(u.done)
}

// Run blocks until Stop is called or ctx is done.
func (u *StatsUpdater) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := u.queue.SubscribeMerges(ctx)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	pending := goset.NewThreadUnsafeSet[string]()
	for {
		select {
		case <-u.done:
			u.flush(ctx, pending)
			return nil
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				u.flush(ctx, pending)
				return nil
			}
			if event.Added+event.Updated > 0 {
				pending.Add(event.ResourceID)
			}
		case <-ticker.C:
			u.flush(ctx, pending)
		}
	}
}

func (u *StatsUpdater) flush(ctx context.Context, pending goset.Set[string]) {
	if pending.Cardinality() == 0 {
		return
	}

	for _, resourceID := range goset.Sorted(pending) {
		stats, err := u.stats.RecomputeStats(ctx, resourceID)
		if err != nil {
			logrus.Errorf("failed to recompute stats of resource %s: %v", resourceID, err)
			continue
		}
		logrus.Infof("stats of resource %s updated for %d languages", resourceID, len(stats))
	}
	pending.Clear()
}
