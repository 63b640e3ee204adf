// Package reqschema models the four-part request shape (path, query, body,
// headers) that the upstream API code generator produces for every REST
// operation, and converts it to and from the single flat parameter set that
// is advertised to MCP tool callers.
//
// Parts are a closed sum over three kinds: absent (the operation has no
// such part), object-shaped (a named field set), or opaque (an array or
// scalar payload that is not decomposed). One level of optionality may wrap
// any part; an absent part stays absent no matter how it is wrapped.
package reqschema

// Kind discriminates the three possible shapes of a request part.
type Kind int

const (
	// KindAbsent marks a part the operation does not declare at all.
	KindAbsent Kind = iota

	// KindObject marks a part declared as a named field set.
	KindObject

	// KindOpaque marks a part declared as a single undecomposed payload,
	// such as an array body.
	KindOpaque
)

// Type is a minimal JSON-Schema-ish type descriptor for a single value.
type Type struct {
	// Name is the JSON schema type name, e.g. "string", "number",
	// "integer", "boolean", "array" or "object".
	Name string

	// Items describes array element types when Name is "array".
	Items *Type

	// Enum restricts the value to a fixed set, when non-empty.
	Enum []any

	// Format carries an optional JSON schema format hint, e.g. "uri".
	Format string

	// Description is surfaced in the generated tool schema.
	Description string
}

// Field is one named member of an object-shaped part.
type Field struct {
	Name string
	Type Type

	// Optional marks a field the caller may omit.
	Optional bool

	// HasDefault marks a field the upstream shape declares a default for.
	// A defaulted field keeps its declared optionality during flattening
	// even when its enclosing part is optional.
	HasDefault bool
}

// Part is one of the four components of a request shape.
// The zero value is an absent part.
type Part struct {
	Kind Kind

	// Optional records the single level of optionality wrapping the part.
	Optional bool

	// Fields is populated when Kind is KindObject.
	Fields []Field

	// Opaque is populated when Kind is KindOpaque.
	Opaque *Type
}

// Absent returns a part the operation does not declare.
func Absent() Part {
	return Part{Kind: KindAbsent}
}

// Object returns an object-shaped part with the given fields.
func Object(fields ...Field) Part {
	return Part{Kind: KindObject, Fields: fields}
}

// Opaque returns an undecomposed part of the given type.
func Opaque(t Type) Part {
	return Part{Kind: KindOpaque, Opaque: &t}
}

// Optional wraps a part in one level of optionality.
// Wrapping an absent part leaves it absent.
func Optional(p Part) Part {
	p.Optional = true
	return p
}

// Shape is the four-part description of one external operation's input.
type Shape struct {
	Path    Part
	Query   Part
	Body    Part
	Headers Part
}

// StructuredCall is the reconstructed call handed to the underlying
// invocation target. A nil map (or nil Body) means the part is absent;
// empty parts are never materialized.
type StructuredCall struct {
	Path  map[string]any `json:"path,omitempty"`
	Query map[string]any `json:"query,omitempty"`

	// Body holds either the collected object fields (map[string]any) or,
	// for an opaque body, the caller's synthetic "body" value verbatim.
	Body any `json:"body,omitempty"`
}
