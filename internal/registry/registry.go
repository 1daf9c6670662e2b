// Package registry implements the Endpoint Registry component of spec §4.4:
// a construction-time, immutable map from method name to the endpoint
// metadata the rest of the pipeline needs (schema, required states, handler,
// side-effect flags).
package registry

// file: internal/registry/registry.go

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cardrpc/dispatcher/internal/schema"
	"github.com/cardrpc/dispatcher/internal/statetag"
)

// Handler implements one endpoint's domain logic. It returns either a result
// that marshals to a JSON object, or a *rpcerr.DomainError. Any other error
// (or a panic) is converted to INTERNAL_ERROR by the Handler Executor, per
// spec §4.7.
type Handler func(ctx context.Context, params json.RawMessage) (result interface{}, err error)

// Endpoint is one registered operation, per spec §3's Endpoint record.
type Endpoint struct {
	Name             string
	Schema           schema.Schema
	RequiredStates   statetag.Set
	Handler          Handler
	ReadsGameState   bool
	MutatesGameState bool
}

// Registry is the sole source of truth for (schema, required-states,
// handler) per method name. It is built once at process start with New and
// is immutable thereafter, per spec §3's Lifecycle and §4.4.
type Registry struct {
	endpoints map[string]Endpoint
}

// New builds an immutable Registry from endpoints. A duplicate name is a
// startup error, per spec §4.4.
func New(endpoints ...Endpoint) (*Registry, error) {
	m := make(map[string]Endpoint, len(endpoints))
	for _, ep := range endpoints {
		if _, exists := m[ep.Name]; exists {
			return nil, fmt.Errorf("registry: duplicate endpoint name %q", ep.Name)
		}
		m[ep.Name] = ep
	}
	return &Registry{endpoints: m}, nil
}

// Lookup returns the endpoint registered under name, and whether it exists.
func (r *Registry) Lookup(name string) (Endpoint, bool) {
	ep, ok := r.endpoints[name]
	return ep, ok
}

// Names returns every registered method name. Order is unspecified.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	return names
}
