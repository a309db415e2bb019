package forwardqueue

import (
	"context"
	"testing"
	"time"

	"fhirhub-service/internal/app/contracts"

	"github.com/stretchr/testify/assert"
)

func TestInProcessQueue(t *testing.T) {
	t.Run("Delivers published messages in order", func(t *testing.T) {
		queue := NewInProcessQueue(4)
		ctx := context.Background()

		assert.NoError(t, queue.Publish(ctx, contracts.ForwardMessage{ID: "msg-1"}))
		assert.NoError(t, queue.Publish(ctx, contracts.ForwardMessage{ID: "msg-2"}))

		messages, err := queue.Consume(ctx)
		assert.NoError(t, err)

		first := <-messages
		second := <-messages
		assert.Equal(t, "msg-1", first.ID)
		assert.Equal(t, "msg-2", second.ID)
	})

	t.Run("Publish honors context cancellation when full", func(t *testing.T) {
		queue := NewInProcessQueue(1)
		ctx := context.Background()

		assert.NoError(t, queue.Publish(ctx, contracts.ForwardMessage{ID: "msg-1"}))

		cancelCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		err := queue.Publish(cancelCtx, contracts.ForwardMessage{ID: "msg-2"})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
