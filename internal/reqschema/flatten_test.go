package reqschema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fieldNames(s FlatSchema) []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

func fieldByName(t *testing.T, s FlatSchema, name string) FlatField {
	t.Helper()
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %q not found in flat schema", name)
	return FlatField{}
}

func TestFlatten_HeadersNeverExposed(t *testing.T) {
	t.Parallel()

	shape := Shape{
		Path: Object(Field{Name: "id", Type: Type{Name: "string"}}),
		Headers: Object(
			Field{Name: "Authorization", Type: Type{Name: "string"}},
			Field{Name: "X-Account", Type: Type{Name: "string"}},
		),
	}

	schema := Flatten(shape)

	require.Equal(t, []string{"id"}, fieldNames(schema))
}

func TestFlatten_AbsentPartsYieldEmptySchema(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		shape Shape
	}{
		{
			name:  "all parts absent",
			shape: Shape{Path: Absent(), Query: Absent(), Body: Absent()},
		},
		{
			name: "absent parts wrapped in optionality",
			shape: Shape{
				Path:  Optional(Absent()),
				Query: Optional(Absent()),
				Body:  Optional(Absent()),
			},
		},
		{
			name: "headers only",
			shape: Shape{
				Headers: Object(Field{Name: "Authorization", Type: Type{Name: "string"}}),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			schema := Flatten(tc.shape)
			require.Empty(t, schema.Fields)
			require.Empty(t, schema.Required())
		})
	}
}

func TestFlatten_OptionalityPromotion(t *testing.T) {
	t.Parallel()

	shape := Shape{
		Query: Optional(Object(
			Field{Name: "page", Type: Type{Name: "number"}},
			Field{Name: "size", Type: Type{Name: "number"}, Optional: true},
		)),
	}

	schema := Flatten(shape)

	require.True(t, fieldByName(t, schema, "page").Optional)
	require.True(t, fieldByName(t, schema, "size").Optional)
	require.Empty(t, schema.Required())
}

func TestFlatten_DefaultedFieldKeepsDeclaredOptionality(t *testing.T) {
	t.Parallel()

	shape := Shape{
		Query: Optional(Object(
			Field{Name: "locale", Type: Type{Name: "string"}, HasDefault: true},
		)),
	}

	schema := Flatten(shape)

	require.False(t, fieldByName(t, schema, "locale").Optional)
	require.Equal(t, []string{"locale"}, schema.Required())
}

func TestFlatten_PathFieldsKeepOptionality(t *testing.T) {
	t.Parallel()

	shape := Shape{
		Path: Optional(Object(
			Field{Name: "accountId", Type: Type{Name: "string"}},
			Field{Name: "branch", Type: Type{Name: "string"}, Optional: true},
		)),
	}

	schema := Flatten(shape)

	require.False(t, fieldByName(t, schema, "accountId").Optional)
	require.True(t, fieldByName(t, schema, "branch").Optional)
}

func TestFlatten_BodyFanOut(t *testing.T) {
	t.Parallel()

	shape := Shape{
		Body: Object(
			Field{Name: "name", Type: Type{Name: "string"}},
			Field{Name: "price", Type: Type{Name: "number"}},
		),
	}

	schema := Flatten(shape)

	require.Equal(t, []string{"name", "price"}, fieldNames(schema))
	require.Equal(t, []string{"name", "price"}, schema.Required())
}

func TestFlatten_OpaqueBodyPassthrough(t *testing.T) {
	t.Parallel()

	shape := Shape{
		Body: Opaque(Type{Name: "array", Items: &Type{Name: "object"}}),
	}

	schema := Flatten(shape)

	require.Equal(t, []string{BodyKey}, fieldNames(schema))
	require.Equal(t, "array", fieldByName(t, schema, BodyKey).Type.Name)
	require.False(t, fieldByName(t, schema, BodyKey).Optional)
}

func TestFlatten_OptionalOpaqueBody(t *testing.T) {
	t.Parallel()

	shape := Shape{
		Body: Optional(Opaque(Type{Name: "array"})),
	}

	schema := Flatten(shape)

	require.True(t, fieldByName(t, schema, BodyKey).Optional)
}

func TestFlatten_NonObjectQuerySkipped(t *testing.T) {
	t.Parallel()

	shape := Shape{
		Query: Opaque(Type{Name: "array"}),
	}

	schema := Flatten(shape)

	require.Empty(t, schema.Fields)
}

func TestFlatten_CollisionLastMergedPartWins(t *testing.T) {
	t.Parallel()

	shape := Shape{
		Path:  Object(Field{Name: "id", Type: Type{Name: "string"}}),
		Query: Optional(Object(Field{Name: "id", Type: Type{Name: "number"}})),
	}

	schema := Flatten(shape)

	require.Len(t, schema.Fields, 1)
	got := fieldByName(t, schema, "id")
	require.Equal(t, "number", got.Type.Name)
	require.True(t, got.Optional)
}

func TestFlatSchema_JSONSchema(t *testing.T) {
	t.Parallel()

	shape := Shape{
		Path: Object(Field{Name: "productId", Type: Type{Name: "string", Description: "Product ID"}}),
		Query: Optional(Object(
			Field{Name: "page", Type: Type{Name: "integer"}},
		)),
		Body: Object(Field{Name: "tags", Type: Type{Name: "array", Items: &Type{Name: "string"}}, Optional: true}),
	}

	doc := Flatten(shape).JSONSchema()

	require.Equal(t, "object", doc["type"])
	require.Equal(t, []string{"productId"}, doc["required"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	require.Len(t, props, 3)

	tags, ok := props["tags"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "array", tags["type"])
	require.Equal(t, map[string]any{"type": "string"}, tags["items"])
}

func TestFlatSchema_JSONSchemaOmitsRequiredWhenEmpty(t *testing.T) {
	t.Parallel()

	doc := Flatten(Shape{
		Query: Optional(Object(Field{Name: "q", Type: Type{Name: "string"}})),
	}).JSONSchema()

	require.NotContains(t, doc, "required")
}
