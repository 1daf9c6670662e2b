// file: internal/rpcclient/errors.go
package rpcclient

import "fmt"

// APIError is the Go counterpart of original_source's APIError: a
// dispatcher-reported failure, distinct from a transport failure.
type APIError struct {
	Name    string
	Message string
	Code    int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// ConnectionError reports a dial, write, or read failure against the
// dispatcher, kept as a distinct type from APIError per spec §4.10.
type ConnectionError struct {
	Addr  string
	Cause error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("rpcclient: connection to %s failed: %v", e.Addr, e.Cause)
}

// Unwrap exposes the underlying I/O error to errors.Is/errors.As.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}
