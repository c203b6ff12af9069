package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/chocoqc/internal/domain"
)

// RabbitMQ messages
type InspectionMessage struct {
	InspectionID string               `json:"inspection_id"`
	BatchID      string               `json:"batch_id"`
	Process      string               `json:"process"`
	Variant      domain.Variant       `json:"variant"`
	Subtype      string               `json:"subtype"`
	Defects      []domain.DefectType  `json:"defects"`
	Status       domain.QualityStatus `json:"status"`
	InspectedAt  time.Time            `json:"inspected_at"`
}

func NewInspectionMessage(r domain.InspectionResult) InspectionMessage {
	defects := make([]domain.DefectType, len(r.Defects))
	copy(defects, r.Defects)
	return InspectionMessage{
		InspectionID: r.ID,
		BatchID:      r.BatchID,
		Process:      r.Process,
		Variant:      r.Variant,
		Subtype:      r.Subtype,
		Defects:      defects,
		Status:       r.Status,
		InspectedAt:  r.InspectedAt,
	}
}

// Messaging interfaces (adapter/rabbitmq)
type EventPublisher interface {
	PublishInspection(ctx context.Context, msg InspectionMessage) error
}

type EventConsumer interface {
	ConsumeInspections(ctx context.Context, handler InspectionHandler) error
}

type InspectionHandler func(ctx context.Context, body []byte) error

// NopPublisher drops every event. Used when messaging is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishInspection(context.Context, InspectionMessage) error {
	return nil
}
