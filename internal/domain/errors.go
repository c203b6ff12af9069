package domain

import "errors"

var (
	ErrInvalidBatchID       = errors.New("invalid batch id")
	ErrInvalidDefectType    = errors.New("invalid defect type")
	ErrUnknownProcess       = errors.New("no sensor registered for process")
	ErrInvalidProcess       = errors.New("invalid process registration")
	ErrNilChocolate         = errors.New("chocolate is required")
	ErrInvalidQuantity      = errors.New("quantity must be greater than 0")
	ErrInvalidQualityStatus = errors.New("invalid quality status")
)
