package reqschema

// Unflatten rebuilds the structured three-part call from flat tool input.
//
// Path and object-body parts collect every declared field whose key exists
// in the input, whatever its value (explicit nils included). Query parts
// collect only declared fields with a non-nil value. A part appears in the
// result only when at least one of its fields was collected; empty parts
// are omitted entirely rather than materialized as empty objects.
//
// For an opaque body, the synthetic BodyKey value is passed through
// verbatim when the key exists. Input keys not declared anywhere in the
// shape are dropped and never reach the result.
func Unflatten(input map[string]any, shape Shape) StructuredCall {
	var call StructuredCall

	if shape.Path.Kind == KindObject {
		call.Path = collect(input, shape.Path.Fields, false)
	}
	if shape.Query.Kind == KindObject {
		call.Query = collect(input, shape.Query.Fields, true)
	}

	switch shape.Body.Kind {
	case KindObject:
		if body := collect(input, shape.Body.Fields, false); body != nil {
			call.Body = body
		}
	case KindOpaque:
		if v, ok := input[BodyKey]; ok {
			call.Body = v
		}
	case KindAbsent:
	}

	return call
}

// collect gathers declared fields out of the flat input, returning nil
// when none are present. requireValue excludes keys carrying a nil value.
func collect(input map[string]any, fields []Field, requireValue bool) map[string]any {
	var out map[string]any
	for _, f := range fields {
		v, ok := input[f.Name]
		if !ok || (requireValue && v == nil) {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[f.Name] = v
	}
	return out
}
