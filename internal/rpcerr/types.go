// Package rpcerr defines the dispatcher's closed error taxonomy and the
// JSON-RPC 2.0 error codes each kind maps to.
// file: internal/rpcerr/types.go
package rpcerr

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors used to Mark tier-internal failures, so callers can test
// provenance with errors.Is without depending on message text.
var (
	// ErrProtocol marks a Tier 1 (protocol) validation failure.
	ErrProtocol = errors.New("protocol validation failed")
	// ErrSchema marks a Tier 2 (schema) validation failure.
	ErrSchema = errors.New("schema validation failed")
	// ErrState marks a Tier 3 (state gate) validation failure.
	ErrState = errors.New("state validation failed")
)

// DomainError is what a Handler returns to report a well-formed failure; see
// spec §4.7 and §7. It is the sum type handlers use instead of raising an
// exception — only an actual panic or an unrecognized error type becomes
// KindInternalError.
type DomainError struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewDomainError constructs a DomainError, defaulting an unrecognized kind to
// KindInternalError so a handler can never forge an out-of-band error code.
func NewDomainError(kind Kind, message string) *DomainError {
	if !kind.valid() {
		kind = KindInternalError
	}
	return &DomainError{Kind: kind, Message: message}
}

// BadRequest builds a *DomainError of kind BAD_REQUEST.
func BadRequest(format string, args ...any) *DomainError {
	return NewDomainError(KindBadRequest, fmt.Sprintf(format, args...))
}

// InvalidState builds a *DomainError of kind INVALID_STATE.
func InvalidState(format string, args ...any) *DomainError {
	return NewDomainError(KindInvalidState, fmt.Sprintf(format, args...))
}

// NotAllowed builds a *DomainError of kind NOT_ALLOWED.
func NotAllowed(format string, args ...any) *DomainError {
	return NewDomainError(KindNotAllowed, fmt.Sprintf(format, args...))
}

// Internal builds a *DomainError of kind INTERNAL_ERROR.
func Internal(format string, args ...any) *DomainError {
	return NewDomainError(KindInternalError, fmt.Sprintf(format, args...))
}

// newTierError wraps message with the tier's sentinel mark and attaches the
// kind and the given details, matching mcperror.ErrorWithDetails's convention.
func newTierError(sentinel error, kind Kind, message string, details map[string]interface{}) error {
	err := errors.Mark(errors.Newf("%s", message), sentinel)
	err = errors.WithDetailf(err, "kind:%s", kind)
	for k, v := range details {
		err = errors.WithDetailf(err, "%s:%v", k, v)
	}
	return err
}

// NewProtocolError reports a Tier 1 failure.
func NewProtocolError(message string, details map[string]interface{}) error {
	return newTierError(ErrProtocol, KindBadRequest, message, details)
}

// NewSchemaError reports a Tier 2 failure.
func NewSchemaError(message string, details map[string]interface{}) error {
	return newTierError(ErrSchema, KindBadRequest, message, details)
}

// NewStateError reports a Tier 3 failure.
func NewStateError(message string, details map[string]interface{}) error {
	return newTierError(ErrState, KindInvalidState, message, details)
}

// IsProtocolError reports whether err was produced by NewProtocolError.
func IsProtocolError(err error) bool { return errors.Is(err, ErrProtocol) }

// IsSchemaError reports whether err was produced by NewSchemaError.
func IsSchemaError(err error) bool { return errors.Is(err, ErrSchema) }

// IsStateError reports whether err was produced by NewStateError.
func IsStateError(err error) bool { return errors.Is(err, ErrState) }

// KindOf classifies any error into the Kind the peer should see. DomainError
// values carry their own Kind; tier-internal errors are classified by their
// sentinel mark; anything else (including a recovered panic value wrapped in
// an error) is KindInternalError, per spec §4.7/§7.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	switch {
	case IsProtocolError(err):
		return KindBadRequest
	case IsSchemaError(err):
		return KindBadRequest
	case IsStateError(err):
		return KindInvalidState
	default:
		return KindInternalError
	}
}
