package analysis

import (
	"errors"
	"strings"
)

// Sentinel kinds for analysis errors.
var (
	ErrSchema       = errors.New("required columns missing")
	ErrInvalidValue = errors.New("invalid cell value")
)

// SchemaError lists the required columns absent from a deliveries table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return ErrSchema.Error() + ": " + strings.Join(e.Missing, ", ")
}

// Is lets errors.Is(err, ErrSchema) match a *SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}
