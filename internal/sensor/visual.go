package sensor

import (
	"math/rand/v2"
	"sync"

	"github.com/YelzhanWeb/chocoqc/internal/domain"
)

const DefaultDetectionRate = 0.15

// RandSource is the randomness VisualSensor draws from. *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// Defect catalogues checked per variant, in detection order.
var catalogues = map[domain.Variant][]domain.DefectType{
	domain.VariantMolded: {
		domain.DefectAirBubbles,
		domain.DefectSurfaceCrack,
		domain.DefectBreakage,
		domain.DefectIncorrectShape,
		domain.DefectStains,
	},
	domain.VariantPackaged: {
		domain.DefectBreakage,
		domain.DefectDamagedPackaging,
		domain.DefectMissingPiece,
		domain.DefectLabelMisalignment,
	},
}

// VisualSensor simulates a camera inspection: every defect in the variant's
// catalogue is reported independently with probability rate.
type VisualSensor struct {
	mu   sync.Mutex
	rng  RandSource
	rate float64
}

type Option func(*VisualSensor)

// WithSource replaces the random source, typically with a deterministic one in tests
func WithSource(src RandSource) Option {
	return func(s *VisualSensor) {
		if src != nil {
			s.rng = src
		}
	}
}

func WithSeed(seed uint64) Option {
	return WithSource(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithDetectionRate sets the per-defect probability; values are clamped to [0, 1].
func WithDetectionRate(rate float64) Option {
	return func(s *VisualSensor) {
		switch {
		case rate < 0:
			s.rate = 0
		case rate > 1:
			s.rate = 1
		default:
			s.rate = rate
		}
	}
}

func NewVisualSensor(opts ...Option) *VisualSensor {
	s := &VisualSensor{
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		rate: DefaultDetectionRate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *VisualSensor) DetectDefects(chocolate *domain.Chocolate) []domain.DefectType {
	if chocolate == nil {
		return nil
	}
	catalogue, ok := catalogues[chocolate.Variant()]
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var detected []domain.DefectType
	for _, d := range catalogue {
		if s.rng.Float64() < s.rate {
			detected = append(detected, d)
		}
	}
	return detected
}

// Catalogue returns the defects the sensor looks for on the given variant
func Catalogue(v domain.Variant) []domain.DefectType {
	out := make([]domain.DefectType, len(catalogues[v]))
	copy(out, catalogues[v])
	return out
}
