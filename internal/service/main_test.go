package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/emrgen/happix/internal/cache"
	"github.com/emrgen/happix/internal/model"
	"github.com/emrgen/happix/internal/parser"
	"github.com/emrgen/happix/internal/queue"
	"github.com/emrgen/happix/internal/store"
	"github.com/emrgen/happix/internal/stringset"
	"github.com/emrgen/happix/internal/tester"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store      *store.GormStore
	cache      cache.StatsCache
	queue      queue.MergeQueue
	scratchDir string
	resources  *ResourceService
	merge      *MergeService
	aggregate  *AggregateService
	files      *StorageFileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	_, client := tester.Redis(t)
	env := &testEnv{
		store:      store.NewGormStore(tester.TestDB(t)),
		cache:      cache.NewRedisStatsCache(client, 0),
		queue:      queue.NewRedisMergeQueue(client),
		scratchDir: t.TempDir(),
	}
	env.resources = NewResourceService(env.store, env.cache)
	env.merge = NewMergeService(env.store, env.cache, env.queue, parser.Default(), env.scratchDir)
	env.aggregate = NewAggregateService(env.store, env.cache, false)
	env.files = NewStorageFileService(env.store, parser.Default(), env.scratchDir)

	return env
}

func (e *testEnv) createResource(t *testing.T, name string) *model.Resource {
	t.Helper()

	resource, err := e.resources.CreateResource(context.Background(), "project", name, "", "en")
	require.NoError(t, err)

	return resource
}

func (e *testEnv) writeScratch(t *testing.T, file *model.StorageFile, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(e.scratchDir, file.ID+"-"+file.Name), []byte(content), 0o644))
}

func set(entries ...*stringset.Entry) *stringset.Stringset {
	s := stringset.New()
	for _, entry := range entries {
		s.Add(entry)
	}

	return s
}

func entry(source, translation string) *stringset.Entry {
	return &stringset.Entry{SourceText: source, Translation: translation}
}

var errInjected = errors.New("injected fault")

// faultyStore fails GetOrCreateTranslation once it has been called failAfter times,
// inside and outside transactions.
type faultyStore struct {
	store.Store
	failAfter int32
	calls     *atomic.Int32
}

func newFaultyStore(inner store.Store, failAfter int32) *faultyStore {
	return &faultyStore{Store: inner, failAfter: failAfter, calls: &atomic.Int32{}}
}

func (f *faultyStore) GetOrCreateTranslation(ctx context.Context, entity *model.SourceEntity, language string, number int, initial string, userID *string) (*model.Translation, bool, error) {
	if f.calls.Add(1) > f.failAfter {
		return nil, false, errInjected
	}

	return f.Store.GetOrCreateTranslation(ctx, entity, language, number, initial, userID)
}

func (f *faultyStore) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	return f.Store.Transaction(ctx, func(tx store.Store) error {
		return fn(&faultyStore{Store: tx, failAfter: f.failAfter, calls: f.calls})
	})
}
