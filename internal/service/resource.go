package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/emrgen/happix/internal/cache"
	"github.com/emrgen/happix/internal/model"
	"github.com/emrgen/happix/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9_-]+`)

// NewResourceService creates a new ResourceService.
func NewResourceService(store store.Store, cache cache.StatsCache) *ResourceService {
	return &ResourceService{
		store: store,
		cache: cache,
	}
}

// ResourceService manages the lifecycle of resources. Merges never create them.
type ResourceService struct {
	store store.Store
	cache cache.StatsCache
}

// CreateResource creates a resource. The slug is derived from the name when empty.
func (r *ResourceService) CreateResource(ctx context.Context, projectID, name, slug, sourceLanguage string) (*model.Resource, error) {
	if projectID == "" || name == "" {
		return nil, fmt.Errorf("%w: project and name are required", ErrValidation)
	}

	language, err := canonicalLanguage(sourceLanguage)
	if err != nil {
		return nil, err
	}

	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: cannot derive a slug from %q", ErrValidation, name)
	}

	resource := &model.Resource{
		ID:             uuid.New().String(),
		ProjectID:      projectID,
		Name:           name,
		Slug:           slug,
		SourceLanguage: language,
	}
	if err := r.store.CreateResource(ctx, resource); err != nil {
		return nil, err
	}

	return resource, nil
}

func (r *ResourceService) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	return r.store.GetResource(ctx, id)
}

func (r *ResourceService) GetResourceBySlug(ctx context.Context, projectID, slug string) (*model.Resource, error) {
	return r.store.GetResourceBySlug(ctx, projectID, slug)
}

func (r *ResourceService) ListResources(ctx context.Context, projectID string) ([]*model.Resource, error) {
	return r.store.ListResources(ctx, projectID)
}

// ResetResource deletes the strings, translations, suggestions and stats of a resource
// in one transaction. The resource itself stays.
func (r *ResourceService) ResetResource(ctx context.Context, id string) error {
	if _, err := r.store.GetResource(ctx, id); err != nil {
		return err
	}

	err := r.store.Transaction(ctx, func(tx store.Store) error {
		return tx.ResetResource(ctx, id)
	})
	if err != nil {
		return err
	}

	if err := r.cache.InvalidateResource(ctx, id); err != nil {
		logrus.Warnf("failed to invalidate stats of resource %s: %v", id, err)
	}
	logrus.Infof("resource %s reset", id)

	return nil
}

// Slugify lowercases name and joins its words with dashes.
func Slugify(name string) string {
	slug := nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}
