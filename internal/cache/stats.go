package cache

import "context"

// Metric names a derived value of a resource.
type Metric string

const (
	MetricWordCount         Metric = "wordcount"
	MetricTotalEntities     Metric = "total_entities"
	MetricTranslatedPercent Metric = "translated_percent"
)

// Key identifies a cached metric. Language is empty for language independent metrics.
type Key struct {
	ResourceID string
	Metric     Metric
	Language   string
}

func (k Key) field() string {
	if k.Language == "" {
		return string(k.Metric)
	}
	return string(k.Metric) + ":" + k.Language
}

// StatsCache caches derived read-side values. Every merge that touches a resource
// must call InvalidateResource after commit.
//
// Readers computing a value from the store take the resource Generation first and
// store the result with SetIntAt, which refuses the write once an invalidation moved
// the generation on. A value computed from rows older than the last merge is never cached.
type StatsCache interface {
	// GetInt returns the cached value and whether it was present.
	GetInt(ctx context.Context, key Key) (int, bool, error)
	// SetInt caches a value unconditionally.
	SetInt(ctx context.Context, key Key, value int) error
	// Generation returns the invalidation counter of a resource.
	Generation(ctx context.Context, resourceID string) (int64, error)
	// SetIntAt caches a value only while the resource is still at generation and
	// reports whether it did.
	SetIntAt(ctx context.Context, key Key, value int, generation int64) (bool, error)
	// InvalidateResource drops every cached metric of a resource and advances its generation.
	InvalidateResource(ctx context.Context, resourceID string) error
}
