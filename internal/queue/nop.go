package queue

import "context"

var _ MergeQueue = Nop{}

// Nop drops every event.
type Nop struct{}

func (Nop) PublishMerge(ctx context.Context, event *MergeEvent) error {
	return nil
}

func (Nop) SubscribeMerges(ctx context.Context) (<-chan *MergeEvent, error) {
	events := make(chan *MergeEvent)
	go func() {
		<-ctx.Done()
		close(events)
	}()

	return events, nil
}
