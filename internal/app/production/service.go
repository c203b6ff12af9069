package production

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/chocoqc/internal/adapter/logger"
	"github.com/YelzhanWeb/chocoqc/internal/domain"
	"github.com/YelzhanWeb/chocoqc/internal/interfaces"
)

const (
	ProcessMolding   = "molding"
	ProcessPackaging = "packaging"

	moldedSuffix   = "-M"
	packagedSuffix = "-P"
)

// ValidateProcessBatchID checks a base id for CompleteProcess: the id itself
// and both stage ids derived from it must be valid batch ids.
func ValidateProcessBatchID(batchID string) (string, error) {
	id, err := domain.ValidateBatchID(batchID)
	if err != nil {
		return "", err
	}
	if len(id) > domain.MaxBatchIDLen-len(moldedSuffix) {
		return "", fmt.Errorf("%w: %q is longer than %d characters", domain.ErrInvalidBatchID, id, domain.MaxBatchIDLen-len(moldedSuffix))
	}
	return id, nil
}

// Service drives units through the production line and hands them to the
// quality control registry.
type Service struct {
	quality       interfaces.QualityControlService
	logger        logger.Logger
	moldType      string
	packagingType string
	now           func() time.Time
}

func NewService(quality interfaces.QualityControlService, logger logger.Logger, moldType, packagingType string) *Service {
	return &Service{
		quality:       quality,
		logger:        logger,
		moldType:      moldType,
		packagingType: packagingType,
		now:           time.Now,
	}
}

func (s *Service) InspectMolded(ctx context.Context, batchID string) (*domain.Chocolate, domain.QualityStatus, error) {
	c, err := domain.NewMoldedChocolate(batchID, s.now(), s.moldType)
	if err != nil {
		return nil, "", err
	}
	status, err := s.quality.InspectChocolate(ctx, c, ProcessMolding)
	if err != nil {
		return nil, "", err
	}
	return c, status, nil
}

func (s *Service) InspectPackaged(ctx context.Context, batchID string) (*domain.Chocolate, domain.QualityStatus, error) {
	c, err := domain.NewPackagedChocolate(batchID, s.now(), s.packagingType)
	if err != nil {
		return nil, "", err
	}
	status, err := s.quality.InspectChocolate(ctx, c, ProcessPackaging)
	if err != nil {
		return nil, "", err
	}
	return c, status, nil
}

// CompleteProcess molds <id>-M and, unless molding rejected it, packages <id>-P.
func (s *Service) CompleteProcess(ctx context.Context, batchID string) (*interfaces.ProcessOutcome, error) {
	id, err := ValidateProcessBatchID(batchID)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, id+moldedSuffix, id+packagedSuffix)
}

// SimulateBatch runs quantity units through the line as BATCH-M-i / BATCH-P-i.
func (s *Service) SimulateBatch(ctx context.Context, quantity int) ([]interfaces.ProcessOutcome, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, quantity)
	}

	s.logger.Info("simulation_started", fmt.Sprintf("Simulating production of %d chocolates", quantity), "", map[string]interface{}{
		"quantity": quantity,
	})

	outcomes := make([]interfaces.ProcessOutcome, 0, quantity)
	approved := 0
	for i := 1; i <= quantity; i++ {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome, err := s.run(ctx, fmt.Sprintf("BATCH-M-%d", i), fmt.Sprintf("BATCH-P-%d", i))
		if err != nil {
			return outcomes, err
		}
		if outcome.Approved() {
			approved++
		}
		outcomes = append(outcomes, *outcome)
	}

	s.logger.Info("simulation_completed", fmt.Sprintf("Simulation completed: %d chocolates processed", quantity), "", map[string]interface{}{
		"quantity": quantity,
		"approved": approved,
	})
	return outcomes, nil
}

func (s *Service) run(ctx context.Context, moldedID, packagedID string) (*interfaces.ProcessOutcome, error) {
	_, moldingStatus, err := s.InspectMolded(ctx, moldedID)
	if err != nil {
		return nil, fmt.Errorf("molding %s: %w", moldedID, err)
	}

	outcome := &interfaces.ProcessOutcome{
		MoldedBatchID: moldedID,
		MoldingStatus: moldingStatus,
	}
	if moldingStatus == domain.StatusReject {
		s.logger.Debug("molding_rejected", fmt.Sprintf("Chocolate %s rejected in molding", moldedID), moldedID, nil)
		return outcome, nil
	}

	_, packagingStatus, err := s.InspectPackaged(ctx, packagedID)
	if err != nil {
		return nil, fmt.Errorf("packaging %s: %w", packagedID, err)
	}
	outcome.PackagedBatchID = packagedID
	outcome.PackagingStatus = packagingStatus
	outcome.Packaged = true

	return outcome, nil
}
