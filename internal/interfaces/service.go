package interfaces

import (
	"context"

	"github.com/YelzhanWeb/chocoqc/internal/domain"
)

// Service interfaces (business logic)
type QualityControlService interface {
	RegisterSensor(process string, sensor QualitySensor) error
	InspectChocolate(ctx context.Context, chocolate *domain.Chocolate, process string) (domain.QualityStatus, error)
	GenerateReport() string
	ShowInspections() string
	Last() (domain.InspectionResult, bool)
}

type ProductionService interface {
	InspectMolded(ctx context.Context, batchID string) (*domain.Chocolate, domain.QualityStatus, error)
	InspectPackaged(ctx context.Context, batchID string) (*domain.Chocolate, domain.QualityStatus, error)
	CompleteProcess(ctx context.Context, batchID string) (*ProcessOutcome, error)
	SimulateBatch(ctx context.Context, quantity int) ([]ProcessOutcome, error)
}

// ProcessOutcome describes one unit run through molding and, if it survived, packaging.
type ProcessOutcome struct {
	MoldedBatchID   string
	MoldingStatus   domain.QualityStatus
	PackagedBatchID string
	PackagingStatus domain.QualityStatus
	Packaged        bool
}

// Approved reports whether the unit made it through packaging without rejection
func (o ProcessOutcome) Approved() bool {
	return o.Packaged && o.PackagingStatus != domain.StatusReject
}
