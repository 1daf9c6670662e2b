// Package schema implements the endpoint parameter schema and the Tier 2
// (Schema Validator) component of spec §3 and §4.5.
//
// This is deliberately NOT a JSON Schema engine: per spec §3, schemas have no
// nested object schemas, no enum constraints, no numeric ranges, and no
// min-length — those domain checks belong to the handler. Field order is
// preserved (a Schema is a slice, not a map) so construction-time iteration
// order is deterministic, even though spec §4.5 says tests must tolerate any
// reported order for the first offending field.
package schema

// file: internal/schema/schema.go

// FieldType is one of the five type tags a FieldDescriptor may declare.
type FieldType string

// The closed set of field type tags, per spec §3.
const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
	TypeArray   FieldType = "array"
	TypeTable   FieldType = "table"
)

// FieldDescriptor describes one named field of an endpoint's params object.
type FieldDescriptor struct {
	Name     string
	Required bool
	Type     FieldType
	// ItemType is consulted only when Type == TypeArray. A zero value means
	// the array's elements are unconstrained.
	ItemType FieldType
}

// Schema is an ordered list of field descriptors for one endpoint's params.
type Schema []FieldDescriptor

// Field looks up a descriptor by name, for callers (e.g. tests) that want
// to assert on a single field's rule set.
func (s Schema) Field(name string) (FieldDescriptor, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}
