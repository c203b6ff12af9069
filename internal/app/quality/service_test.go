package quality_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/YelzhanWeb/chocoqc/internal/adapter/logger"
	"github.com/YelzhanWeb/chocoqc/internal/app/quality"
	"github.com/YelzhanWeb/chocoqc/internal/domain"
	"github.com/YelzhanWeb/chocoqc/internal/interfaces"
	"github.com/YelzhanWeb/chocoqc/internal/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []interfaces.InspectionMessage
	err      error
}

func (p *recordingPublisher) PublishInspection(_ context.Context, msg interfaces.InspectionMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return p.err
}

func fixedSensor(defects ...domain.DefectType) interfaces.QualitySensor {
	return interfaces.SensorFunc(func(*domain.Chocolate) []domain.DefectType {
		return append([]domain.DefectType(nil), defects...)
	})
}

func newService(pub interfaces.EventPublisher) *quality.Service {
	return quality.NewService(pub, logger.Nop(), quality.WithClock(func() time.Time { return fixedNow }))
}

func newMolded(t *testing.T, id string) *domain.Chocolate {
	t.Helper()
	c, err := domain.NewMoldedChocolate(id, fixedNow, "heart")
	require.NoError(t, err)
	return c
}

func newPackaged(t *testing.T, id string) *domain.Chocolate {
	t.Helper()
	c, err := domain.NewPackagedChocolate(id, fixedNow, "gift_box")
	require.NoError(t, err)
	return c
}

var historyEntry = regexp.MustCompile(`(?m)^\d+\. Batch: (\S+) \|`)

func TestService_RegisterSensor(t *testing.T) {
	svc := newService(nil)

	assert.ErrorIs(t, svc.RegisterSensor("", fixedSensor()), domain.ErrInvalidProcess)
	assert.ErrorIs(t, svc.RegisterSensor("molding", nil), domain.ErrInvalidProcess)

	require.NoError(t, svc.RegisterSensor("packaging", fixedSensor()))
	require.NoError(t, svc.RegisterSensor("molding", fixedSensor()))
	require.NoError(t, svc.RegisterSensor("tempering", fixedSensor()))
	assert.Equal(t, []string{"molding", "packaging", "tempering"}, svc.Processes())
}

func TestService_RegisterSensorLastWriteWins(t *testing.T) {
	svc := newService(nil)
	require.NoError(t, svc.RegisterSensor("molding", fixedSensor(domain.DefectBreakage)))
	require.NoError(t, svc.RegisterSensor("molding", fixedSensor()))

	status, err := svc.InspectChocolate(context.Background(), newMolded(t, "BATCH-001"), "molding")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPass, status)
}

func TestService_InspectUnknownProcess(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(pub)
	require.NoError(t, svc.RegisterSensor("molding", fixedSensor(domain.DefectStains)))

	c := newMolded(t, "BATCH-001")
	_, err := svc.InspectChocolate(context.Background(), c, "packaging")

	assert.ErrorIs(t, err, domain.ErrUnknownProcess)
	assert.Empty(t, svc.Results())
	assert.Empty(t, c.Defects())
	assert.Empty(t, pub.messages)
}

func TestService_SensorPanicReleasesLock(t *testing.T) {
	svc := newService(nil)
	require.NoError(t, svc.RegisterSensor("molding", interfaces.SensorFunc(func(*domain.Chocolate) []domain.DefectType {
		panic("sensor failure")
	})))

	assert.Panics(t, func() {
		_, _ = svc.InspectChocolate(context.Background(), newMolded(t, "BATCH-001"), "molding")
	})

	assert.Empty(t, svc.Results())
	require.NoError(t, svc.RegisterSensor("molding", fixedSensor()))
	status, err := svc.InspectChocolate(context.Background(), newMolded(t, "BATCH-002"), "molding")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPass, status)
	assert.Len(t, svc.Results(), 1)
}

func TestService_InspectNilChocolate(t *testing.T) {
	svc := newService(nil)
	require.NoError(t, svc.RegisterSensor("molding", fixedSensor()))

	_, err := svc.InspectChocolate(context.Background(), nil, "molding")
	assert.ErrorIs(t, err, domain.ErrNilChocolate)
	assert.Empty(t, svc.Results())
}

func TestService_InspectChocolate(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(pub)
	require.NoError(t, svc.RegisterSensor("molding", fixedSensor(domain.DefectAirBubbles, domain.DefectStains)))

	c := newMolded(t, "BATCH-001")
	status, err := svc.InspectChocolate(context.Background(), c, "molding")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusMinorDefect, status)
	assert.Equal(t, []domain.DefectType{domain.DefectAirBubbles, domain.DefectStains}, c.Defects())

	results := svc.Results()
	require.Len(t, results, 1)
	r := results[0]
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "BATCH-001", r.BatchID)
	assert.Equal(t, "molding", r.Process)
	assert.Equal(t, domain.VariantMolded, r.Variant)
	assert.Equal(t, "heart", r.Subtype)
	assert.Equal(t, domain.StatusMinorDefect, r.Status)
	assert.Equal(t, fixedNow, r.InspectedAt)

	require.Len(t, pub.messages, 1)
	assert.Equal(t, r.ID, pub.messages[0].InspectionID)
	assert.Equal(t, domain.StatusMinorDefect, pub.messages[0].Status)

	last, ok := svc.Last()
	require.True(t, ok)
	assert.Equal(t, r, last)
}

func TestService_StatusUsesAccumulatedDefects(t *testing.T) {
	svc := newService(nil)
	require.NoError(t, svc.RegisterSensor("molding", fixedSensor(domain.DefectStains)))

	c := newMolded(t, "BATCH-001")
	ctx := context.Background()

	statuses := make([]domain.QualityStatus, 0, 3)
	for i := 0; i < 3; i++ {
		s, err := svc.InspectChocolate(ctx, c, "molding")
		require.NoError(t, err)
		statuses = append(statuses, s)
	}

	assert.Equal(t, []domain.QualityStatus{domain.StatusMinorDefect, domain.StatusMinorDefect, domain.StatusReject}, statuses)
	for _, r := range svc.Results() {
		assert.Equal(t, []domain.DefectType{domain.DefectStains}, r.Defects)
	}
}

func TestService_PublishFailureKeepsResult(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newService(pub)
	require.NoError(t, svc.RegisterSensor("packaging", fixedSensor()))

	status, err := svc.InspectChocolate(context.Background(), newPackaged(t, "BATCH-P-1"), "packaging")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPass, status)
	assert.Len(t, svc.Results(), 1)
}

func TestService_HistoryAndReportCountMatch(t *testing.T) {
	svc := newService(nil)
	require.NoError(t, svc.RegisterSensor("molding", fixedSensor()))
	require.NoError(t, svc.RegisterSensor("packaging", fixedSensor(domain.DefectLabelMisalignment)))

	ctx := context.Background()
	ids := []string{"B-1", "B-2", "B-3", "B-4", "B-5"}
	for i, id := range ids {
		var err error
		if i%2 == 0 {
			_, err = svc.InspectChocolate(ctx, newMolded(t, id), "molding")
		} else {
			_, err = svc.InspectChocolate(ctx, newPackaged(t, id), "packaging")
		}
		require.NoError(t, err)
	}

	matches := historyEntry.FindAllStringSubmatch(svc.ShowInspections(), -1)
	require.Len(t, matches, len(ids))
	for i, m := range matches {
		assert.Equal(t, ids[i], m[1])
	}

	assert.Equal(t, len(ids), svc.Summarize().Total)
	assert.Contains(t, svc.GenerateReport(), "Total inspections: 5\n")
}

func TestService_SeededVisualSensorScenario(t *testing.T) {
	const seed = 7
	svc := newService(nil)
	require.NoError(t, svc.RegisterSensor("molding", sensor.NewVisualSensor(sensor.WithSeed(seed))))

	status, err := svc.InspectChocolate(context.Background(), newMolded(t, "BATCH-001"), "molding")
	require.NoError(t, err)

	expected := sensor.NewVisualSensor(sensor.WithSeed(seed)).DetectDefects(newMolded(t, "BATCH-001"))
	assert.Equal(t, domain.PolicyFor(domain.VariantMolded).Evaluate(expected), status)
	assert.Contains(t, domain.QualityStatuses(), status)

	results := svc.Results()
	require.Len(t, results, 1)
	assert.Equal(t, expected, results[0].Defects)
}

func TestService_LoggedResultsAreIndependent(t *testing.T) {
	svc := newService(nil)
	require.NoError(t, svc.RegisterSensor("molding", fixedSensor(domain.DefectAirBubbles)))

	ctx := context.Background()
	first, second := newMolded(t, "BATCH-001"), newMolded(t, "BATCH-002")
	_, err := svc.InspectChocolate(ctx, first, "molding")
	require.NoError(t, err)
	_, err = svc.InspectChocolate(ctx, second, "molding")
	require.NoError(t, err)

	first.AddDefect(domain.DefectBreakage)

	results := svc.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "BATCH-001", results[0].BatchID)
	assert.Equal(t, []domain.DefectType{domain.DefectAirBubbles}, results[0].Defects)
	assert.Equal(t, domain.StatusMinorDefect, results[0].Status)
	assert.Equal(t, "BATCH-002", results[1].BatchID)
	assert.NotEqual(t, results[0].ID, results[1].ID)

	results[1].Defects[0] = domain.DefectBreakage
	assert.Equal(t, domain.DefectAirBubbles, svc.Results()[1].Defects[0])
}

func TestService_ConcurrentInspections(t *testing.T) {
	svc := newService(&recordingPublisher{})
	require.NoError(t, svc.RegisterSensor("molding", sensor.NewVisualSensor(sensor.WithSeed(3))))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := domain.NewMoldedChocolate("BATCH-C", fixedNow, "bar")
			if err != nil {
				return
			}
			_, _ = svc.InspectChocolate(context.Background(), c, "molding")
		}()
	}
	wg.Wait()

	assert.Len(t, svc.Results(), 50)
}

func TestService_LastOnEmptyLog(t *testing.T) {
	_, ok := newService(nil).Last()
	assert.False(t, ok)
}
