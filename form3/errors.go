package form3

import (
	"fmt"
	"runtime/debug"
)

// shapeErr is a kernel panic recovered while building a solid.
type shapeErr struct {
	shape    string
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s: %s", s.shape, s.panicObj)
}

// Unwrap returns the panic value when it was an error.
func (s *shapeErr) Unwrap() error {
	err, _ := s.panicObj.(error)
	return err
}

// Stack returns the stack trace of the recovered panic.
func (s *shapeErr) Stack() string { return s.stack }

// recoverShape converts a panic raised by the kernel into an error for
// the named shape. It must be deferred directly.
func recoverShape(name string, err *error) {
	if a := recover(); a != nil {
		*err = &shapeErr{
			shape:    name,
			panicObj: a,
			stack:    string(debug.Stack()),
		}
	}
}
