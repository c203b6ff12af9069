package domain

// QualityPolicy holds the evaluation thresholds for one variant.
type QualityPolicy struct {
	// RejectAt is the defect count at which a unit is rejected outright.
	RejectAt int
	Severe   map[DefectType]bool
}

var policies = map[Variant]QualityPolicy{
	VariantMolded: {
		RejectAt: 3,
		Severe: map[DefectType]bool{
			DefectBreakage:       true,
			DefectIncorrectShape: true,
			DefectSurfaceCrack:   true,
		},
	},
	VariantPackaged: {
		RejectAt: 2,
		Severe: map[DefectType]bool{
			DefectDamagedPackaging: true,
			DefectMissingPiece:     true,
			DefectBreakage:         true,
		},
	},
}

// strictPolicy applies to variants without a table entry: any defect rejects.
var strictPolicy = QualityPolicy{RejectAt: 1}

// PolicyFor returns the policy registered for the variant
func PolicyFor(v Variant) QualityPolicy {
	if p, ok := policies[v]; ok {
		return p
	}
	return strictPolicy
}

func (p QualityPolicy) IsSevere(d DefectType) bool {
	return p.Severe[d]
}

// Evaluate maps a defect list to a status:
// none -> pass, any severe defect or count >= RejectAt -> reject, otherwise minor defect.
func (p QualityPolicy) Evaluate(defects []DefectType) QualityStatus {
	if len(defects) == 0 {
		return StatusPass
	}
	if len(defects) >= p.RejectAt {
		return StatusReject
	}
	for _, d := range defects {
		if p.IsSevere(d) {
			return StatusReject
		}
	}
	return StatusMinorDefect
}

// SevereDefects lists the variant's severe defects in catalogue order
func (p QualityPolicy) SevereDefects() []DefectType {
	var out []DefectType
	for _, d := range DefectTypes() {
		if p.Severe[d] {
			out = append(out, d)
		}
	}
	return out
}
