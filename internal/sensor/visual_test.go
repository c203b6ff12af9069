package sensor_test

import (
	"testing"
	"time"

	"github.com/YelzhanWeb/chocoqc/internal/domain"
	"github.com/YelzhanWeb/chocoqc/internal/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed values in a loop.
type scriptedSource struct {
	values []float64
	next   int
}

func (s *scriptedSource) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func molded(t *testing.T) *domain.Chocolate {
	t.Helper()
	c, err := domain.NewMoldedChocolate("BATCH-001", time.Now(), "heart")
	require.NoError(t, err)
	return c
}

func packaged(t *testing.T) *domain.Chocolate {
	t.Helper()
	c, err := domain.NewPackagedChocolate("BATCH-002", time.Now(), "gift_box")
	require.NoError(t, err)
	return c
}

func TestVisualSensor_ScriptedSource(t *testing.T) {
	// catalogue order: air_bubbles, surface_crack, breakage, incorrect_shape, stains
	src := &scriptedSource{values: []float64{0.01, 0.9, 0.9, 0.9, 0.1}}
	s := sensor.NewVisualSensor(sensor.WithSource(src), sensor.WithDetectionRate(0.15))

	got := s.DetectDefects(molded(t))
	assert.Equal(t, []domain.DefectType{domain.DefectAirBubbles, domain.DefectStains}, got)
}

func TestVisualSensor_PackagedCatalogue(t *testing.T) {
	s := sensor.NewVisualSensor(sensor.WithSource(&scriptedSource{values: []float64{0}}))

	got := s.DetectDefects(packaged(t))
	assert.Equal(t, sensor.Catalogue(domain.VariantPackaged), got)
}

func TestVisualSensor_SeedIsDeterministic(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		a := sensor.NewVisualSensor(sensor.WithSeed(seed), sensor.WithDetectionRate(0.5))
		b := sensor.NewVisualSensor(sensor.WithSeed(seed), sensor.WithDetectionRate(0.5))

		for i := 0; i < 5; i++ {
			c := molded(t)
			assert.Equal(t, a.DetectDefects(c), b.DetectDefects(c), "seed %d call %d", seed, i)
		}
	}
}

func TestVisualSensor_RateBounds(t *testing.T) {
	never := sensor.NewVisualSensor(sensor.WithSeed(1), sensor.WithDetectionRate(-1))
	always := sensor.NewVisualSensor(sensor.WithSeed(1), sensor.WithDetectionRate(2))

	assert.Empty(t, never.DetectDefects(molded(t)))
	assert.Equal(t, sensor.Catalogue(domain.VariantMolded), always.DetectDefects(molded(t)))
}

func TestVisualSensor_OnlyCatalogueDefects(t *testing.T) {
	s := sensor.NewVisualSensor(sensor.WithSeed(42), sensor.WithDetectionRate(0.5))
	allowed := map[domain.DefectType]bool{}
	for _, d := range sensor.Catalogue(domain.VariantPackaged) {
		allowed[d] = true
	}

	for i := 0; i < 50; i++ {
		for _, d := range s.DetectDefects(packaged(t)) {
			assert.True(t, allowed[d], "unexpected defect %s", d)
		}
	}
}

func TestVisualSensor_NilChocolate(t *testing.T) {
	s := sensor.NewVisualSensor(sensor.WithSeed(1), sensor.WithDetectionRate(1))
	assert.Empty(t, s.DetectDefects(nil))
}

func TestVisualSensor_UnknownVariant(t *testing.T) {
	s := sensor.NewVisualSensor(sensor.WithSeed(1), sensor.WithDetectionRate(1))
	assert.Empty(t, s.DetectDefects(&domain.Chocolate{}))
}
