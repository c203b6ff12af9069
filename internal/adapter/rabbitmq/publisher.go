package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YelzhanWeb/chocoqc/internal/interfaces"
	amqp "github.com/rabbitmq/amqp091-go"
)

type publisher struct {
	conn     Connection
	exchange string
}

// NewPublisher publishes inspection results to a fanout exchange
func NewPublisher(conn Connection, exchange string) interfaces.EventPublisher {
	return &publisher{conn: conn, exchange: exchange}
}

func (p *publisher) PublishInspection(ctx context.Context, msg interfaces.InspectionMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(p.exchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.Publish(p.exchange, msg.Process, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   msg.InspectionID,
		Timestamp:   msg.InspectedAt,
		Type:        string(msg.Status),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}
