package store

import (
	"context"
	"sync"
	"testing"

	"github.com/emrgen/happix/internal/model"
	"github.com/emrgen/happix/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResource(t *testing.T, s *GormStore) *model.Resource {
	t.Helper()

	resource := &model.Resource{
		ID:             uuid.New().String(),
		ProjectID:      "project",
		Name:           "Main " + uuid.New().String(),
		Slug:           uuid.New().String()[:8],
		SourceLanguage: "en",
	}
	require.NoError(t, s.CreateResource(context.Background(), resource))

	return resource
}

func TestGormStore_GetOrCreateSourceEntity(t *testing.T) {
	s := NewGormStore(tester.TestDB(t))
	ctx := context.Background()
	resource := newResource(t, s)

	entity, created, err := s.GetOrCreateSourceEntity(ctx, resource.ID, "Hello", "", 0)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.NoContext, entity.Context)

	again, created, err := s.GetOrCreateSourceEntity(ctx, resource.ID, "Hello", model.NoContext, 0)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, entity.ID, again.ID)

	// every part of the key separates entities
	for _, key := range []struct {
		context string
		number  int
	}{{"greeting", 0}, {"", 1}} {
		other, created, err := s.GetOrCreateSourceEntity(ctx, resource.ID, "Hello", key.context, key.number)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, entity.ID, other.ID)
	}

	_, _, err = s.GetOrCreateSourceEntity(ctx, resource.ID, "", "", 0)
	assert.ErrorIs(t, err, ErrEmptySourceString)
}

func TestGormStore_GetOrCreateSourceEntityConcurrent(t *testing.T) {
	s := NewGormStore(tester.TestDB(t))
	ctx := context.Background()
	resource := newResource(t, s)

	const callers = 10
	ids := make([]uint, callers)
	created := make([]bool, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entity, ok, err := s.GetOrCreateSourceEntity(ctx, resource.ID, "Race", "", 0)
			if assert.NoError(t, err) {
				ids[i] = entity.ID
				created[i] = ok
			}
		}(i)
	}
	wg.Wait()

	creations := 0
	for i := range ids {
		assert.Equal(t, ids[0], ids[i])
		if created[i] {
			creations++
		}
	}
	assert.Equal(t, 1, creations)

	count, err := s.CountSourceEntities(ctx, resource.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestGormStore_Translations(t *testing.T) {
	s := NewGormStore(tester.TestDB(t))
	ctx := context.Background()
	resource := newResource(t, s)

	entity, _, err := s.GetOrCreateSourceEntity(ctx, resource.ID, "Hello", "", 0)
	require.NoError(t, err)

	last, err := s.LastTranslation(ctx, resource.ID, "")
	require.NoError(t, err)
	assert.Nil(t, last)

	translation, created, err := s.GetOrCreateTranslation(ctx, entity, "fr", 0, "Bonjour", nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, resource.ID, translation.ResourceID)

	// the text is not part of the identity
	same, created, err := s.GetOrCreateTranslation(ctx, entity, "fr", 0, "Salut", nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, translation.ID, same.ID)
	assert.Equal(t, "Bonjour", same.String)

	changed, err := s.UpdateTranslationText(ctx, same, "Bonjour", nil)
	require.NoError(t, err)
	assert.False(t, changed)

	editor := "erin"
	changed, err = s.UpdateTranslationText(ctx, same, "Salut", &editor)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, same.UserID)
	assert.Equal(t, "erin", *same.UserID)

	translations, err := s.ListTranslations(ctx, resource.ID, "fr")
	require.NoError(t, err)
	require.Len(t, translations, 1)
	assert.Equal(t, "Salut", translations[0].String)

	last, err = s.LastTranslation(ctx, resource.ID, "fr")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, translation.ID, last.ID)
	require.NotNil(t, last.UserID)
	assert.Equal(t, "erin", *last.UserID)
}

func TestGormStore_TranslatedEntities(t *testing.T) {
	s := NewGormStore(tester.TestDB(t))
	ctx := context.Background()
	resource := newResource(t, s)

	var entities []*model.SourceEntity
	for _, str := range []string{"one", "two", "three"} {
		entity, _, err := s.GetOrCreateSourceEntity(ctx, resource.ID, str, "", 0)
		require.NoError(t, err)
		entities = append(entities, entity)
	}
	_, _, err := s.GetOrCreateTranslation(ctx, entities[0], "de", 0, "eins", nil)
	require.NoError(t, err)
	_, _, err = s.GetOrCreateTranslation(ctx, entities[1], "de", 0, "", nil)
	require.NoError(t, err)

	count, err := s.CountTranslatedEntities(ctx, resource.ID, "de", false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = s.CountTranslatedEntities(ctx, resource.ID, "de", true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	untranslated, err := s.ListUntranslatedEntities(ctx, resource.ID, "de", true)
	require.NoError(t, err)
	require.Len(t, untranslated, 1)
	assert.Equal(t, "three", untranslated[0].String)

	translated, err := s.ListTranslatedEntities(ctx, resource.ID, "de", false)
	require.NoError(t, err)
	require.Len(t, translated, 1)
	assert.Equal(t, "one", translated[0].String)
}

func TestGormStore_Transaction(t *testing.T) {
	s := NewGormStore(tester.TestDB(t))
	ctx := context.Background()
	resource := newResource(t, s)

	err := s.Transaction(ctx, func(tx Store) error {
		if _, _, err := tx.GetOrCreateSourceEntity(ctx, resource.ID, "kept", "", 0); err != nil {
			return err
		}
		return nil
	})
	require.NoError(t, err)

	err = s.Transaction(ctx, func(tx Store) error {
		if _, _, err := tx.GetOrCreateSourceEntity(ctx, resource.ID, "dropped", "", 0); err != nil {
			return err
		}
		return ErrConflictRetry
	})
	assert.ErrorIs(t, err, ErrConflictRetry)

	entities, err := s.ListSourceEntities(ctx, resource.ID)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "kept", entities[0].String)
}

func TestGormStore_StatsAndTemplates(t *testing.T) {
	s := NewGormStore(tester.TestDB(t))
	ctx := context.Background()
	resource := newResource(t, s)

	_, err := s.GetLatestSourceTemplate(ctx, resource.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	require.NoError(t, s.CreateSourceTemplate(ctx, &model.SourceTemplate{ResourceID: resource.ID, Content: []byte("v1"), Compression: "nop"}))
	require.NoError(t, s.CreateSourceTemplate(ctx, &model.SourceTemplate{ResourceID: resource.ID, Content: []byte("v2"), Compression: "nop"}))
	template, err := s.GetLatestSourceTemplate(ctx, resource.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), template.Content)

	require.NoError(t, s.SaveResourceStat(ctx, &model.ResourceStat{ResourceID: resource.ID, LanguageCode: "fr", Total: 4, Translated: 1, Percent: 25}))
	require.NoError(t, s.SaveResourceStat(ctx, &model.ResourceStat{ResourceID: resource.ID, LanguageCode: "fr", Total: 4, Translated: 2, Percent: 50}))
	stats, err := s.ListResourceStats(ctx, resource.ID)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 50, stats[0].Percent)

	require.NoError(t, s.DeleteResourceStats(ctx, resource.ID))
	stats, err = s.ListResourceStats(ctx, resource.ID)
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestGormStore_Resources(t *testing.T) {
	s := NewGormStore(tester.TestDB(t))
	ctx := context.Background()

	_, err := s.GetResource(ctx, "missing")
	assert.ErrorIs(t, err, ErrResourceNotFound)

	resource := newResource(t, s)
	got, err := s.GetResourceBySlug(ctx, resource.ProjectID, resource.Slug)
	require.NoError(t, err)
	assert.Equal(t, resource.ID, got.ID)

	_, err = s.GetStorageFile(ctx, "missing")
	assert.ErrorIs(t, err, ErrStorageFileNotFound)
}
