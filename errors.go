package fusion

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every package of the module. Callers test
// against these with errors.Is; the concrete errors returned wrap them
// with context about the failing parameter.
var (
	// ErrConfig is returned for invalid user parameters such as
	// negative thicknesses, mismatched angle lists or an unknown plane.
	ErrConfig = errors.New("invalid configuration")
	// ErrNotConverged is returned when a numerical solver fails to reach
	// its tolerance.
	ErrNotConverged = errors.New("solver did not converge")
	// ErrGeometry is returned when the parameters are individually valid
	// but produce inconsistent geometry, e.g. overlapping components.
	ErrGeometry = errors.New("inconsistent geometry")
	// ErrUnsupported is returned for operations outside of what the
	// solid kernel can build or export.
	ErrUnsupported = errors.New("unsupported operation")
)

// Errorf wraps sentinel with a formatted message.
func Errorf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}
