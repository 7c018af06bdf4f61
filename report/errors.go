package report

import "errors"

var (
	// ErrGeneratorRequired is returned when a reporter is constructed
	// without a completion generator.
	ErrGeneratorRequired = errors.New("completion generator required")
)
