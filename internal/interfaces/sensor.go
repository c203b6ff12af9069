package interfaces

import "github.com/YelzhanWeb/chocoqc/internal/domain"

// QualitySensor detects defects on a chocolate unit. Sensors that cannot
// inspect a variant return no defects instead of failing.
type QualitySensor interface {
	DetectDefects(chocolate *domain.Chocolate) []domain.DefectType
}

// SensorFunc adapts a plain function to QualitySensor
type SensorFunc func(chocolate *domain.Chocolate) []domain.DefectType

func (f SensorFunc) DetectDefects(chocolate *domain.Chocolate) []domain.DefectType {
	return f(chocolate)
}
