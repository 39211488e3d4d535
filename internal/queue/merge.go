package queue

import (
	"context"
	"time"
)

var MergeEventChannel = "happix:merge:events"

// MergeEvent is announced after a merge transaction commits.
type MergeEvent struct {
	ResourceID string    `json:"resource_id"`
	Language   string    `json:"language"`
	Added      int       `json:"added"`
	Updated    int       `json:"updated"`
	User       string    `json:"user,omitempty"`
	At         time.Time `json:"at"`
}

type MergeQueue interface {
	// PublishMerge announces a committed merge.
	PublishMerge(ctx context.Context, event *MergeEvent) error
	// SubscribeMerges streams merge events until ctx is done.
	SubscribeMerges(ctx context.Context) (<-chan *MergeEvent, error)
}
