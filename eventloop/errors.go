package eventloop

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Run once the loop has been closed.
var ErrClosed = errors.New("eventloop: closed")

// PanicError is returned by Run when a task panics and no panic handler is
// installed. The loop stays usable: calling Run again resumes with the
// remaining work.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("eventloop: task panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
