package queue

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var _ MergeQueue = (*RedisMergeQueue)(nil)

// RedisMergeQueue fans merge events out over redis pub/sub.
type RedisMergeQueue struct {
	client  *redis.Client
	channel string
}

func NewRedisMergeQueue(client *redis.Client) *RedisMergeQueue {
	return &RedisMergeQueue{client: client, channel: MergeEventChannel}
}

func (q *RedisMergeQueue) PublishMerge(ctx context.Context, event *MergeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return q.client.Publish(ctx, q.channel, payload).Err()
}

func (q *RedisMergeQueue) SubscribeMerges(ctx context.Context) (<-chan *MergeEvent, error) {
	sub := q.client.Subscribe(ctx, q.channel)
	// wait for the subscription to be confirmed, otherwise early publishes are lost
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	events := make(chan *MergeEvent)
	go func() {
		defer close(events)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				var event MergeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					logrus.Warnf("dropping malformed merge event: %v", err)
					continue
				}

				select {
				case events <- &event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
