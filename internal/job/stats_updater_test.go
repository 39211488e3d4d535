package job

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/emrgen/happix/internal/model"
	"github.com/emrgen/happix/internal/queue"
	"github.com/emrgen/happix/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRecomputer struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingRecomputer) RecomputeStats(ctx context.Context, resourceID string) ([]*model.ResourceStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, resourceID)

	return nil, nil
}

func (r *recordingRecomputer) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.calls...)
}

func TestStatsUpdater_BatchesEvents(t *testing.T) {
	_, client := tester.Redis(t)
	q := queue.NewRedisMergeQueue(client)
	recomputer := &recordingRecomputer{}
	updater := NewStatsUpdater(q, recomputer, 200*time.Millisecond)

	ctx := context.Background()
	done := make(chan error, 1)
	go func() {
		done <- updater.Run(ctx)
	}()

	// wait for the updater to subscribe
	require.Eventually(t, func() bool {
		subs, err := client.PubSubNumSub(ctx, queue.MergeEventChannel).Result()
		return err == nil && subs[queue.MergeEventChannel] == 1
	}, 5*time.Second, 10*time.Millisecond)

	for _, event := range []*queue.MergeEvent{
		{ResourceID: "b", Language: "fr", Added: 1},
		{ResourceID: "a", Language: "de", Updated: 2},
		{ResourceID: "b", Language: "de", Added: 3},
		{ResourceID: "c", Language: "fr"},
	} {
		require.NoError(t, q.PublishMerge(ctx, event))
	}

	assert.Eventually(t, func() bool {
		calls := recomputer.snapshot()
		return slices.Contains(calls, "a") && slices.Contains(calls, "b")
	}, 5*time.Second, 20*time.Millisecond)
	// merges that changed nothing do not trigger a recompute
	assert.NotContains(t, recomputer.snapshot(), "c")

	updater.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("updater did not stop")
	}
}
