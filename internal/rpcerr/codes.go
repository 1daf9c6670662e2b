// Package rpcerr defines the dispatcher's closed error taxonomy and the
// JSON-RPC 2.0 error codes each kind maps to.
// file: internal/rpcerr/codes.go
package rpcerr

// Kind is one of the four closed error kinds a peer can observe.
type Kind string

// The closed set of error kinds. See spec §7.
const (
	KindBadRequest    Kind = "BAD_REQUEST"
	KindInvalidState  Kind = "INVALID_STATE"
	KindNotAllowed    Kind = "NOT_ALLOWED"
	KindInternalError Kind = "INTERNAL_ERROR"
)

// Code returns the JSON-RPC 2.0 numeric error code for k.
// The table is stable; callers and tests depend on these exact values.
func (k Kind) Code() int {
	switch k {
	case KindBadRequest:
		return -32600
	case KindInvalidState:
		return -32002
	case KindNotAllowed:
		return -32003
	case KindInternalError:
		return -32603
	default:
		return -32603
	}
}

// valid reports whether k is one of the four declared kinds.
func (k Kind) valid() bool {
	switch k {
	case KindBadRequest, KindInvalidState, KindNotAllowed, KindInternalError:
		return true
	default:
		return false
	}
}
