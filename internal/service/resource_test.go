package service

import (
	"context"
	"testing"

	"github.com/emrgen/happix/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceService_CreateResource(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resource, err := env.resources.CreateResource(ctx, "gnome", "Nautilus Main", "", "en_US")
	require.NoError(t, err)
	assert.NotEmpty(t, resource.ID)
	assert.Equal(t, "nautilus-main", resource.Slug)
	assert.Equal(t, "en-US", resource.SourceLanguage)

	got, err := env.resources.GetResourceBySlug(ctx, "gnome", "nautilus-main")
	require.NoError(t, err)
	assert.Equal(t, resource.ID, got.ID)

	// name and slug are unique inside a project only
	_, err = env.resources.CreateResource(ctx, "gnome", "Nautilus Main", "", "en")
	assert.Error(t, err)
	_, err = env.resources.CreateResource(ctx, "kde", "Nautilus Main", "", "en")
	assert.NoError(t, err)

	resources, err := env.resources.ListResources(ctx, "gnome")
	require.NoError(t, err)
	assert.Len(t, resources, 1)

	_, err = env.resources.CreateResource(ctx, "gnome", "", "", "en")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.resources.CreateResource(ctx, "gnome", "Other", "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResourceService_ResetResource(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	resource := env.createResource(t, "Main")
	other := env.createResource(t, "Other")

	for _, id := range []string{resource.ID, other.ID} {
		_, _, err := env.merge.MergeStringset(ctx, set(entry("Hello", "Bonjour"), entry("World", "Monde")), id, "fr", nil, true)
		require.NoError(t, err)
	}
	entities, err := env.store.ListSourceEntities(ctx, resource.ID)
	require.NoError(t, err)
	suggestions := NewSuggestionService(env.store, env.cache)
	_, err = suggestions.Suggest(ctx, entities[0].ID, "Salut", "fr", nil)
	require.NoError(t, err)
	_, err = env.aggregate.RecomputeStats(ctx, resource.ID)
	require.NoError(t, err)
	require.NoError(t, env.cache.SetInt(ctx, cache.Key{ResourceID: resource.ID, Metric: cache.MetricWordCount}, 5))

	require.NoError(t, env.resources.ResetResource(ctx, resource.ID))

	count, err := env.store.CountSourceEntities(ctx, resource.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
	count, err = env.store.CountTranslations(ctx, resource.ID, "fr")
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
	listed, err := env.store.ListSuggestions(ctx, entities[0].ID, "fr")
	require.NoError(t, err)
	assert.Empty(t, listed)
	stats, err := env.store.ListResourceStats(ctx, resource.ID)
	require.NoError(t, err)
	assert.Empty(t, stats)
	_, ok, err := env.cache.GetInt(ctx, cache.Key{ResourceID: resource.ID, Metric: cache.MetricWordCount})
	require.NoError(t, err)
	assert.False(t, ok)

	// the resource and its neighbours stay
	_, err = env.resources.GetResource(ctx, resource.ID)
	require.NoError(t, err)
	count, err = env.store.CountSourceEntities(ctx, other.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	assert.ErrorIs(t, env.resources.ResetResource(ctx, "missing"), ErrResourceNotFound)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "po-files", Slugify(" PO files "))
	assert.Equal(t, "app_main-v2", Slugify("app_main v2!"))
	assert.Equal(t, "", Slugify("!!!"))
}
