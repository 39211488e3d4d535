package service

import (
	"context"
	"testing"

	"github.com/emrgen/happix/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionService_Workflow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	resource := env.createResource(t, "Main")
	suggestions := NewSuggestionService(env.store, env.cache)

	_, _, err := env.merge.MergeStringset(ctx, set(entry("Hello", "Bonjour")), resource.ID, "fr", nil, true)
	require.NoError(t, err)
	entities, err := env.store.ListSourceEntities(ctx, resource.ID)
	require.NoError(t, err)
	entityID := entities[0].ID

	carol := "carol"
	salut, err := suggestions.Suggest(ctx, entityID, "Salut", "fr", &carol)
	require.NoError(t, err)
	again, err := suggestions.Suggest(ctx, entityID, "Salut", "fr", nil)
	require.NoError(t, err)
	assert.Equal(t, salut.ID, again.ID)

	coucou, err := suggestions.Suggest(ctx, entityID, "Coucou", "fr", nil)
	require.NoError(t, err)

	_, err = suggestions.Vote(ctx, salut.ID, 2)
	require.NoError(t, err)
	_, err = suggestions.Vote(ctx, coucou.ID, 1)
	require.NoError(t, err)
	voted, err := suggestions.Vote(ctx, salut.ID, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, voted.Score)

	listed, err := suggestions.ListSuggestions(ctx, entityID, "fr")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Salut", listed[0].String)
	assert.False(t, listed[0].Live)

	translation, err := suggestions.Promote(ctx, salut.ID, &carol)
	require.NoError(t, err)
	assert.Equal(t, "Salut", translation.String)

	translations, err := env.store.ListTranslations(ctx, resource.ID, "fr")
	require.NoError(t, err)
	require.Len(t, translations, 1)
	assert.Equal(t, "Salut", translations[0].String)

	promoted, err := env.store.GetSuggestion(ctx, salut.ID)
	require.NoError(t, err)
	assert.True(t, promoted.Live)

	_, err = suggestions.Suggest(ctx, 9999, "Salut", "fr", nil)
	assert.ErrorIs(t, err, store.ErrSourceEntityNotFound)
	_, err = suggestions.Suggest(ctx, entityID, "", "fr", nil)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = suggestions.Promote(ctx, 9999, nil)
	assert.ErrorIs(t, err, store.ErrSuggestionNotFound)
}

func TestSuggestionService_Search(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.createResource(t, "First")
	second := env.createResource(t, "Second")
	suggestions := NewSuggestionService(env.store, env.cache)

	_, _, err := env.merge.MergeStringset(ctx, set(entry("Cancel", "Annuler"), entry("OK", "OK")), first.ID, "fr", nil, true)
	require.NoError(t, err)
	_, _, err = env.merge.MergeStringset(ctx, set(entry("Cancel", "Abbrechen")), second.ID, "de", nil, true)
	require.NoError(t, err)

	results, err := suggestions.Search(ctx, "Cancel", "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Annuler", results[0].String)
	assert.Equal(t, "Abbrechen", results[1].String)

	results, err = suggestions.Search(ctx, "Cancel", "de")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, second.ID, results[0].ResourceID)

	results, err = suggestions.Search(ctx, "Missing", "")
	require.NoError(t, err)
	assert.Empty(t, results)
}
