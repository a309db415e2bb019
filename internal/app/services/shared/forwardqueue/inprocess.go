package forwardqueue

import (
	"context"

	"fhirhub-service/internal/app/contracts"
)

// InProcessQueue is a channel-backed queue for single-instance deployments
// and tests. It provides the same at-most-once handoff as the broker-backed
// service without durability.
type InProcessQueue struct {
	messages chan contracts.ForwardMessage
}

func NewInProcessQueue(buffer int) *InProcessQueue {
	if buffer <= 0 {
		buffer = 64
	}
	return &InProcessQueue{
		messages: make(chan contracts.ForwardMessage, buffer),
	}
}

func (q *InProcessQueue) Publish(ctx context.Context, msg contracts.ForwardMessage) error {
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *InProcessQueue) Consume(ctx context.Context) (<-chan contracts.ForwardMessage, error) {
	return q.messages, nil
}
