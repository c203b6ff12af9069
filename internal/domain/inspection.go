package domain

import "time"

// InspectionResult is one entry of the quality control log.
// Defects holds only what the sensor detected during this inspection.
type InspectionResult struct {
	ID          string
	BatchID     string
	Process     string
	Variant     Variant
	Subtype     string
	Defects     []DefectType
	Status      QualityStatus
	InspectedAt time.Time
}

// Clone returns a copy that shares no memory with the receiver
func (r InspectionResult) Clone() InspectionResult {
	out := r
	out.Defects = append([]DefectType(nil), r.Defects...)
	return out
}
