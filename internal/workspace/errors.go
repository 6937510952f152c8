package workspace

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure for the boundary layer.
type Kind int

const (
	// KindBadRequest covers malformed input, nonexistent referenced
	// entities, and length/format violations.
	KindBadRequest Kind = iota
	// KindForbidden covers valid entities the caller lacks standing for.
	KindForbidden
	// KindUnauthenticated covers unresolvable or revoked session tokens.
	KindUnauthenticated
)

// Error is a typed domain failure. Operations never retry these internally;
// the HTTP layer maps the kind to a status code.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func badRequest(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

var errNotAuthenticated = &Error{Kind: KindUnauthenticated, Message: "invalid or expired session"}

// KindOf extracts the failure kind from err. The second return is false for
// non-domain errors (persistence I/O and the like), which the boundary
// treats as internal.
func KindOf(err error) (Kind, bool) {
	var domain *Error
	if errors.As(err, &domain) {
		return domain.Kind, true
	}
	return 0, false
}
