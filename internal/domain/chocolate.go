package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MaxBatchIDLen is the longest batch id accepted, in bytes.
const MaxBatchIDLen = 64

var batchIDPattern = regexp.MustCompile(fmt.Sprintf(`^[A-Za-z0-9][A-Za-z0-9_-]{0,%d}$`, MaxBatchIDLen-1))

// Chocolate represents a chocolate unit moving through the production line.
// The variant tag selects the quality policy; the subtype is the mold type for
// molded units and the packaging type for packaged ones.
type Chocolate struct {
	batchID        string
	productionDate time.Time
	variant        Variant
	subtype        string
	defects        []DefectType
}

// NewMoldedChocolate creates a unit coming out of the molding stage
func NewMoldedChocolate(batchID string, productionDate time.Time, moldType string) (*Chocolate, error) {
	return newChocolate(batchID, productionDate, VariantMolded, moldType)
}

// NewPackagedChocolate creates a unit coming out of the packaging stage
func NewPackagedChocolate(batchID string, productionDate time.Time, packagingType string) (*Chocolate, error) {
	return newChocolate(batchID, productionDate, VariantPackaged, packagingType)
}

func newChocolate(batchID string, productionDate time.Time, variant Variant, subtype string) (*Chocolate, error) {
	id, err := ValidateBatchID(batchID)
	if err != nil {
		return nil, err
	}

	return &Chocolate{
		batchID:        id,
		productionDate: productionDate,
		variant:        variant,
		subtype:        strings.TrimSpace(subtype),
	}, nil
}

// ValidateBatchID trims the id and checks it against the batch id format.
func ValidateBatchID(batchID string) (string, error) {
	id := strings.TrimSpace(batchID)
	if id == "" {
		return "", fmt.Errorf("%w: batch id is required", ErrInvalidBatchID)
	}
	if !batchIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q must be 1-%d letters, digits, '-' or '_' starting with a letter or digit", ErrInvalidBatchID, id, MaxBatchIDLen)
	}
	return id, nil
}

func (c *Chocolate) BatchID() string {
	return c.batchID
}

func (c *Chocolate) ProductionDate() time.Time {
	return c.productionDate
}

func (c *Chocolate) Variant() Variant {
	return c.variant
}

// Subtype returns the mold type or packaging type, depending on the variant
func (c *Chocolate) Subtype() string {
	return c.subtype
}

func (c *Chocolate) MoldType() string {
	if c.variant != VariantMolded {
		return ""
	}
	return c.subtype
}

func (c *Chocolate) PackagingType() string {
	if c.variant != VariantPackaged {
		return ""
	}
	return c.subtype
}

// Defects returns a copy of the defect history in detection order
func (c *Chocolate) Defects() []DefectType {
	out := make([]DefectType, len(c.defects))
	copy(out, c.defects)
	return out
}

// AddDefect appends a defect. Repeated defects are kept.
func (c *Chocolate) AddDefect(defect DefectType) {
	c.defects = append(c.defects, defect)
}

// EvaluateQuality derives the status from the current defects using the
// variant's policy. It never caches: the result always follows the defect list.
func (c *Chocolate) EvaluateQuality() QualityStatus {
	return PolicyFor(c.variant).Evaluate(c.defects)
}

func (c *Chocolate) String() string {
	return fmt.Sprintf("%s chocolate %s (%s) - status: %s", c.variant, c.batchID, c.subtype, c.EvaluateQuality())
}
