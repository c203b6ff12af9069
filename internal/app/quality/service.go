package quality

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/YelzhanWeb/chocoqc/internal/adapter/logger"
	"github.com/YelzhanWeb/chocoqc/internal/domain"
	"github.com/YelzhanWeb/chocoqc/internal/interfaces"
	"github.com/google/uuid"
)

// Service is the quality control registry. It binds process names to sensors
// and keeps an append-only log of inspection results.
type Service struct {
	mu        sync.Mutex
	sensors   map[string]interfaces.QualitySensor
	results   []domain.InspectionResult
	publisher interfaces.EventPublisher
	logger    logger.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithClock overrides the timestamp source for inspection results
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(publisher interfaces.EventPublisher, logger logger.Logger, opts ...Option) *Service {
	if publisher == nil {
		publisher = interfaces.NopPublisher{}
	}
	s := &Service{
		sensors:   make(map[string]interfaces.QualitySensor),
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterSensor binds the sensor to the process, replacing any earlier binding.
func (s *Service) RegisterSensor(process string, sensor interfaces.QualitySensor) error {
	if strings.TrimSpace(process) == "" {
		return fmt.Errorf("%w: process name is required", domain.ErrInvalidProcess)
	}
	if sensor == nil {
		return fmt.Errorf("%w: sensor is required for process %s", domain.ErrInvalidProcess, process)
	}

	s.mu.Lock()
	_, replaced := s.sensors[process]
	s.sensors[process] = sensor
	s.mu.Unlock()

	s.logger.Debug("sensor_registered", fmt.Sprintf("Sensor registered for %s", process), "", map[string]interface{}{
		"process":  process,
		"replaced": replaced,
		"sensor":   fmt.Sprintf("%T", sensor),
	})
	return nil
}

// Processes returns the registered process names in sorted order
func (s *Service) Processes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.sensors))
	for name := range s.sensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InspectChocolate runs the sensor bound to process against the chocolate,
// records the detected defects on it and logs the result. Nothing is applied
// or logged when the process has no sensor.
func (s *Service) InspectChocolate(ctx context.Context, chocolate *domain.Chocolate, process string) (domain.QualityStatus, error) {
	if chocolate == nil {
		return "", domain.ErrNilChocolate
	}

	result, err := s.record(chocolate, process)
	if err != nil {
		s.logger.Warn("unknown_process", "Inspection requested for unregistered process", chocolate.BatchID(), map[string]interface{}{
			"process": process,
		})
		return "", err
	}
	status := result.Status

	s.logger.Debug("chocolate_inspected", fmt.Sprintf("Batch %s inspected: %s", result.BatchID, status), result.ID, map[string]interface{}{
		"batch_id": result.BatchID,
		"process":  process,
		"defects":  len(result.Defects),
		"status":   status,
	})

	if err := s.publisher.PublishInspection(ctx, interfaces.NewInspectionMessage(result)); err != nil {
		// The inspection is already recorded; a lost notification does not undo it.
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish inspection result", result.ID, nil, err)
	}

	return status, nil
}

// record runs the process sensor on chocolate and stores the result.
func (s *Service) record(chocolate *domain.Chocolate, process string) (domain.InspectionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sensor, ok := s.sensors[process]
	if !ok {
		return domain.InspectionResult{}, fmt.Errorf("%w: %s", domain.ErrUnknownProcess, process)
	}

	defects := sensor.DetectDefects(chocolate)
	for _, d := range defects {
		chocolate.AddDefect(d)
	}

	result := domain.InspectionResult{
		ID:          uuid.NewString(),
		BatchID:     chocolate.BatchID(),
		Process:     process,
		Variant:     chocolate.Variant(),
		Subtype:     chocolate.Subtype(),
		Defects:     append([]domain.DefectType(nil), defects...),
		Status:      chocolate.EvaluateQuality(),
		InspectedAt: s.now(),
	}
	s.results = append(s.results, result)
	return result, nil
}

// Results returns a copy of the inspection log in chronological order
func (s *Service) Results() []domain.InspectionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.InspectionResult, len(s.results))
	for i, r := range s.results {
		out[i] = r.Clone()
	}
	return out
}

// Last returns the most recent inspection result, if any
func (s *Service) Last() (domain.InspectionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.results) == 0 {
		return domain.InspectionResult{}, false
	}
	return s.results[len(s.results)-1].Clone(), true
}

func (s *Service) GenerateReport() string {
	return RenderReport(Summarize(s.Results()))
}

func (s *Service) ShowInspections() string {
	return RenderHistory(s.Results())
}

// Summarize aggregates the current log
func (s *Service) Summarize() Report {
	return Summarize(s.Results())
}
