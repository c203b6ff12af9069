package domain

import "fmt"

type DefectType string

const (
	DefectAirBubbles        DefectType = "air_bubbles"
	DefectSurfaceCrack      DefectType = "surface_crack"
	DefectBreakage          DefectType = "breakage"
	DefectIncorrectShape    DefectType = "incorrect_shape"
	DefectStains            DefectType = "stains"
	DefectMissingPiece      DefectType = "missing_piece"
	DefectDamagedPackaging  DefectType = "damaged_packaging"
	DefectLabelMisalignment DefectType = "label_misalignment"
)

// DefectTypes lists every defect kind in catalogue order. Reports rely on this order.
func DefectTypes() []DefectType {
	return []DefectType{
		DefectAirBubbles,
		DefectSurfaceCrack,
		DefectBreakage,
		DefectIncorrectShape,
		DefectStains,
		DefectMissingPiece,
		DefectDamagedPackaging,
		DefectLabelMisalignment,
	}
}

func (d DefectType) Valid() bool {
	for _, known := range DefectTypes() {
		if d == known {
			return true
		}
	}
	return false
}

// ParseDefectType converts a wire value into a DefectType
func ParseDefectType(s string) (DefectType, error) {
	d := DefectType(s)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDefectType, s)
	}
	return d, nil
}

type QualityStatus string

const (
	StatusPass        QualityStatus = "pass"
	StatusMinorDefect QualityStatus = "minor_defect"
	StatusReject      QualityStatus = "reject"
)

// QualityStatuses lists the statuses from least to most severe.
func QualityStatuses() []QualityStatus {
	return []QualityStatus{StatusPass, StatusMinorDefect, StatusReject}
}

// Severity orders statuses; unknown values report -1.
func (s QualityStatus) Severity() int {
	switch s {
	case StatusPass:
		return 0
	case StatusMinorDefect:
		return 1
	case StatusReject:
		return 2
	default:
		return -1
	}
}

func (s QualityStatus) Valid() bool {
	return s.Severity() >= 0
}

// Label returns the human readable form used in reports
func (s QualityStatus) Label() string {
	switch s {
	case StatusPass:
		return "Pass"
	case StatusMinorDefect:
		return "Minor defect"
	case StatusReject:
		return "Reject"
	default:
		return string(s)
	}
}

func ParseQualityStatus(s string) (QualityStatus, error) {
	status := QualityStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidQualityStatus, s)
	}
	return status, nil
}

type Variant string

const (
	VariantMolded   Variant = "molded"
	VariantPackaged Variant = "packaged"
)
