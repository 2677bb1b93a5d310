package runtime

import (
	"errors"
	"fmt"

	"github.com/aretw0/hyperway/pkg/action"
)

// ErrNoContentType is returned when a navigation response carries no content type.
var ErrNoContentType = errors.New("response has no content type")

// ContentTypeError is returned when a navigation response is not hypertext.
type ContentTypeError struct {
	ContentType string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("unsupported response content type %q", e.ContentType)
}

// OpError attributes a failure to the operation that raised it.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// ThrownError is raised by the throw operation and carries the author's message verbatim.
type ThrownError struct {
	Message string
}

func (e *ThrownError) Error() string {
	return e.Message
}

// SlotError reports a read of an undeclared context slot or a write to a reserved one.
type SlotError struct {
	Name     string
	Reserved bool
}

func (e *SlotError) Error() string {
	if e.Reserved {
		return fmt.Sprintf("illegal arg: context slot name %q is empty or reserved", e.Name)
	}
	return fmt.Sprintf("illegal arg: context slot %q is not declared", e.Name)
}

// attribute wraps err in an OpError unless it already names its operation.
func attribute(op string, err error) error {
	var (
		opErr  *OpError
		thrown *ThrownError
		argErr *action.ArgError
	)
	switch {
	case errors.As(err, &opErr), errors.As(err, &thrown):
		return err
	case errors.As(err, &argErr) && argErr.Op != "":
		return err
	}
	return &OpError{Op: op, Err: err}
}
