package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/chocoqc/internal/adapter/logger"
	"github.com/YelzhanWeb/chocoqc/internal/interfaces"
)

const reconnectDelay = 5 * time.Second

type consumer struct {
	conn     Connection
	exchange string
	logger   logger.Logger
	retry    time.Duration
}

func NewConsumer(conn Connection, exchange string, logger logger.Logger) interfaces.EventConsumer {
	return &consumer{conn: conn, exchange: exchange, logger: logger, retry: reconnectDelay}
}

// ConsumeInspections keeps a subscription to the inspection exchange open until
// ctx is cancelled, resubscribing after channel failures.
func (c *consumer) ConsumeInspections(ctx context.Context, handler interfaces.InspectionHandler) error {
	for {
		err := c.consume(ctx, handler)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			return nil
		}

		c.logger.Error("consumer_disconnected", fmt.Sprintf("Inspection consumer disconnected, retrying in %s", c.retry), "", nil, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retry):
		}
	}
}

func (c *consumer) consume(ctx context.Context, handler interfaces.InspectionHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.ExchangeDeclare(c.exchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Temporary exclusive queue per subscriber
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", c.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}

			// Handler errors are logged by the handler; auto-ack keeps the stream moving
			_ = handler(ctx, msg.Body)
		}
	}
}
