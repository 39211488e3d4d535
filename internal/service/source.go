package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/emrgen/happix/internal/cache"
	"github.com/emrgen/happix/internal/compress"
	"github.com/emrgen/happix/internal/extract"
	"github.com/emrgen/happix/internal/model"
	"github.com/emrgen/happix/internal/parser"
	"github.com/emrgen/happix/internal/store"
	"github.com/sirupsen/logrus"
)

// Component is a resource whose template is regenerated from a source checkout.
type Component struct {
	ResourceID string
	// Dir is the working directory the extraction tool runs in.
	Dir string
}

// NewSourceService creates a new SourceService.
func NewSourceService(store store.Store, cache cache.StatsCache, extractor extract.Extractor, cleaner extract.Cleaner, codec compress.Compress, parsers *parser.Registry, merge *MergeService, aggregate *AggregateService) *SourceService {
	return &SourceService{
		store:     store,
		cache:     cache,
		extractor: extractor,
		cleaner:   cleaner,
		codec:     codec,
		parsers:   parsers,
		merge:     merge,
		aggregate: aggregate,
	}
}

// SourceService keeps the source baseline of extracted resources up to date.
type SourceService struct {
	store     store.Store
	cache     cache.StatsCache
	extractor extract.Extractor
	cleaner   extract.Cleaner
	codec     compress.Compress
	parsers   *parser.Registry
	merge     *MergeService
	aggregate *AggregateService
}

// RefreshSource regenerates the template of a component, records it as the source
// baseline and recomputes the stats of every language. A failed extraction reports
// false and keeps the previous baseline, the stats are recomputed either way. The
// returned error is reserved for catalog faults. Extraction artifacts are cleaned up
// on every path.
func (s *SourceService) RefreshSource(ctx context.Context, component Component) (bool, error) {
	defer func() {
		if err := s.cleaner.Clean(component.Dir); err != nil {
			logrus.Errorf("failed to clean extraction artifacts in %s: %v", component.Dir, err)
		}
	}()

	resource, err := s.store.GetResource(ctx, component.ResourceID)
	if err != nil {
		return false, err
	}

	if err := s.store.DeleteResourceStats(ctx, resource.ID); err != nil {
		return false, err
	}
	if err := s.cache.InvalidateResource(ctx, resource.ID); err != nil {
		logrus.Warnf("failed to invalidate stats of resource %s: %v", resource.ID, err)
	}

	succeeded := true
	var recordErr error
	templatePath, err := s.extractor.Extract(ctx, component.Dir)
	if err != nil {
		logrus.Warnf("extraction failed for resource %s: %v", resource.Slug, err)
		succeeded = false
	} else if err := s.recordTemplate(ctx, resource, templatePath); err != nil {
		succeeded = false
		if IsValidation(err) {
			logrus.Warnf("regenerated template of resource %s is unusable: %v", resource.Slug, err)
		} else {
			recordErr = err
		}
	}

	if _, err := s.aggregate.RecomputeStats(ctx, resource.ID); err != nil {
		return false, errors.Join(recordErr, err)
	}
	if recordErr != nil {
		return false, recordErr
	}

	return succeeded, nil
}

// recordTemplate merges the template strings into the source language and stores the template compressed.
func (s *SourceService) recordTemplate(ctx context.Context, resource *model.Resource, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	p, ok := s.parsers.ForFilename(path)
	if !ok {
		return fmt.Errorf("%w: %w: %s", ErrValidation, ErrUnknownFormat, path)
	}

	set, err := parser.ParseFile(p, path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if set.Len() > 0 {
		fillFromSource(set)
		added, updated, err := s.merge.MergeStringset(ctx, set, resource.ID, resource.SourceLanguage, nil, true)
		if err != nil {
			return err
		}
		logrus.Infof("source of resource %s refreshed: %d added, %d updated", resource.Slug, added, updated)
	}

	encoded, err := s.codec.Encode(content)
	if err != nil {
		return err
	}

	return s.store.CreateSourceTemplate(ctx, &model.SourceTemplate{
		ResourceID:  resource.ID,
		Content:     encoded,
		Compression: s.codec.Name(),
	})
}

// LatestTemplate returns the decoded newest template of a resource.
func (s *SourceService) LatestTemplate(ctx context.Context, resourceID string) ([]byte, error) {
	template, err := s.store.GetLatestSourceTemplate(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	codec, err := compress.New(template.Compression)
	if err != nil {
		return nil, err
	}

	return codec.Decode(template.Content)
}
