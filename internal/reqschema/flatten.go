package reqschema

// BodyKey is the synthetic flat field name under which an opaque
// (non-object) body is exposed to callers.
const BodyKey = "body"

// FlatField is one member of the flattened tool parameter set.
type FlatField struct {
	Name     string
	Type     Type
	Optional bool
}

// FlatSchema is the single-level parameter set produced by merging the
// path, query and body parts of a shape. Field order follows merge order:
// path first, then query, then body.
type FlatSchema struct {
	Fields []FlatField
}

// Required returns the names of all non-optional fields, in schema order.
func (s FlatSchema) Required() []string {
	var names []string
	for _, f := range s.Fields {
		if !f.Optional {
			names = append(names, f.Name)
		}
	}
	return names
}

// JSONSchema renders the flat schema as a JSON Schema object document,
// suitable for both tool registration and input validation.
func (s FlatSchema) JSONSchema() map[string]any {
	properties := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		properties[f.Name] = f.Type.jsonSchema()
	}

	doc := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if required := s.Required(); len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func (t Type) jsonSchema() map[string]any {
	prop := map[string]any{
		"type": t.Name,
	}
	if t.Description != "" {
		prop["description"] = t.Description
	}
	if t.Format != "" {
		prop["format"] = t.Format
	}
	if len(t.Enum) > 0 {
		prop["enum"] = t.Enum
	}
	if t.Items != nil {
		prop["items"] = t.Items.jsonSchema()
	}
	return prop
}

// Flatten merges a shape's path, query and body parts into one flat field
// set. Header fields are never exposed. Path fields keep their declared
// optionality. Query and object-body fields are promoted to optional when
// their whole part is optional, unless the field is already independently
// optional or carries a default. An opaque body is kept verbatim under the
// synthetic BodyKey field.
//
// Field names are assumed unique across the merged parts; on a collision
// the last-merged part wins silently (path, then query, then body).
func Flatten(shape Shape) FlatSchema {
	var schema FlatSchema
	index := make(map[string]int)

	add := func(f FlatField) {
		if i, ok := index[f.Name]; ok {
			schema.Fields[i] = f
			return
		}
		index[f.Name] = len(schema.Fields)
		schema.Fields = append(schema.Fields, f)
	}

	if shape.Path.Kind == KindObject {
		for _, f := range shape.Path.Fields {
			add(FlatField{Name: f.Name, Type: f.Type, Optional: f.Optional})
		}
	}

	// Unlike body, a non-object query part produces no synthetic field.
	if shape.Query.Kind == KindObject {
		for _, f := range shape.Query.Fields {
			add(FlatField{Name: f.Name, Type: f.Type, Optional: promoted(shape.Query, f)})
		}
	}

	switch shape.Body.Kind {
	case KindObject:
		for _, f := range shape.Body.Fields {
			add(FlatField{Name: f.Name, Type: f.Type, Optional: promoted(shape.Body, f)})
		}
	case KindOpaque:
		add(FlatField{Name: BodyKey, Type: *shape.Body.Opaque, Optional: shape.Body.Optional})
	case KindAbsent:
	}

	return schema
}

// promoted reports the flattened optionality of a query or body field:
// an optional enclosing part makes the field optional unless the field is
// already independently optional or defaulted, in which case its declared
// optionality is kept.
func promoted(part Part, f Field) bool {
	if f.Optional {
		return true
	}
	return part.Optional && !f.HasDefault
}
