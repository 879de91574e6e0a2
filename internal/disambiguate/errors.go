package disambiguate

import (
	"errors"
	"fmt"

	"github.com/roach88/colorgraph/internal/colors"
)

// InvariantError reports a broken contract in a collaborator of the factory,
// typically the color model. It is raised with panic, never returned: it
// means the compiler has a bug, not that its input was bad, and the
// enclosing compilation must abort.
type InvariantError struct {
	// Code identifies the violated invariant.
	Code InvariantErrorCode

	// Message is a human-readable description.
	Message string

	// Color is the offending color, if any.
	Color *colors.Color
}

// InvariantErrorCode categorizes invariant violations.
type InvariantErrorCode string

const (
	// ErrCodeMalformedPrimitive indicates a primitive color that does not
	// carry exactly one native color id.
	ErrCodeMalformedPrimitive InvariantErrorCode = "MALFORMED_PRIMITIVE"

	// ErrCodeDepthExceeded indicates union nesting deeper than the factory's
	// configured bound.
	ErrCodeDepthExceeded InvariantErrorCode = "DEPTH_EXCEEDED"

	// ErrCodeMissingNative indicates the registry returned nil for a native id.
	ErrCodeMissingNative InvariantErrorCode = "MISSING_NATIVE"
)

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvariantError returns true if err is, or wraps, an InvariantError.
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// RecoverInvariant converts a recovered InvariantError panic into an error.
// Any other panic value is re-raised. Use it at the boundary of a whole
// compilation run, never inside the pass:
//
//	defer disambiguate.RecoverInvariant(&err)
func RecoverInvariant(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if ie, ok := r.(*InvariantError); ok {
		*errp = ie
		return
	}
	panic(r)
}

func newMalformedPrimitiveError(c *colors.Color) *InvariantError {
	return &InvariantError{
		Code: ErrCodeMalformedPrimitive,
		Message: fmt.Sprintf("expected primitive %s to correspond to a single native color, found %v",
			c, c.NativeColorIDs()),
		Color: c,
	}
}

func newDepthExceededError(c *colors.Color, maxDepth int) *InvariantError {
	return &InvariantError{
		Code:    ErrCodeDepthExceeded,
		Message: fmt.Sprintf("union nesting of %s exceeds max depth %d", c, maxDepth),
		Color:   c,
	}
}

func newMissingNativeError(id colors.NativeColorID) *InvariantError {
	return &InvariantError{
		Code:    ErrCodeMissingNative,
		Message: fmt.Sprintf("registry has no color for native id %s", id),
	}
}
