package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront-sync/internal/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublishOrderCreated(t *testing.T) {
	event := OrderCreated{
		OrderID:     uuid.New(),
		UserID:      uuid.New(),
		TotalAmount: decimal.NewFromInt(210),
		ItemCount:   1,
		CreatedAt:   time.Now(),
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		ch := &fakeChannel{}
		p := &amqpPublisher{channel: ch, exchange: "storefront.orders"}

		// Act
		err := p.PublishOrderCreated(t.Context(), event)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "storefront.orders", ch.exchange)
		assert.Equal(t, OrderCreatedRoutingKey, ch.key)
		assert.Equal(t, event.OrderID.String(), ch.msg.MessageId)
		assert.Equal(t, uint8(amqp.Persistent), ch.msg.DeliveryMode)

		var body struct {
			Pattern string       `json:"pattern"`
			Data    OrderCreated `json:"data"`
		}
		require.NoError(t, json.Unmarshal(ch.msg.Body, &body))
		assert.Equal(t, OrderCreatedRoutingKey, body.Pattern)
		assert.True(t, event.TotalAmount.Equal(body.Data.TotalAmount))
	})

	t.Run("Failure - Broker error", func(t *testing.T) {
		// Arrange
		p := &amqpPublisher{channel: &fakeChannel{err: errors.New("channel closed")}, exchange: "x"}

		// Act
		err := p.PublishOrderCreated(t.Context(), event)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to publish message")
	})

	t.Run("Failure - Cancelled context skips publish", func(t *testing.T) {
		// Arrange
		ch := &fakeChannel{}
		p := &amqpPublisher{channel: ch, exchange: "x"}
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		// Act
		err := p.PublishOrderCreated(ctx, event)

		// Assert
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, ch.key)
	})
}

func TestNewPublisher_NoURL(t *testing.T) {
	// Act
	p, err := NewPublisher(&config.RabbitMQ{})

	// Assert
	require.NoError(t, err)
	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.PublishOrderCreated(t.Context(), OrderCreated{}))
	assert.NoError(t, p.Close())
}
