package parquet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrType(t PhysicalType) *PhysicalType { return &t }
func ptrRep(r Repetition) *Repetition      { return &r }
func ptrI32(v int32) *int32                { return &v }

// flatSchemaElements builds a simple two-column schema: required int32 id, optional byte_array
// name.
func flatSchemaElements() []*SchemaElement {
	return []*SchemaElement{
		{Name: "schema", NumChildren: ptrI32(2)},
		{Name: "id", Type: ptrType(TypeInt32), RepetitionType: ptrRep(Required)},
		{Name: "name", Type: ptrType(TypeByteArray), RepetitionType: ptrRep(Optional)},
	}
}

func TestBuildSchemaFlat(t *testing.T) {
	schema, err := BuildSchema(flatSchemaElements())
	require.NoError(t, err)
	require.Len(t, schema.Columns, 2)

	id, err := schema.ColumnByName("id")
	require.NoError(t, err)
	assert.Equal(t, 0, id.MaxDefinitionLevel)
	assert.Equal(t, 0, id.MaxRepetitionLevel)

	name, err := schema.ColumnByName("name")
	require.NoError(t, err)
	assert.Equal(t, 1, name.MaxDefinitionLevel)
	assert.Equal(t, 0, name.MaxRepetitionLevel)

	_, err = schema.ColumnByName("missing")
	require.Error(t, err)
	perr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrSchema, perr.Kind)
}

// nestedStructSchemaElements builds: struct address { street: required byte_array,
// zip: optional int32 }, itself optional.
func nestedStructSchemaElements() []*SchemaElement {
	return []*SchemaElement{
		{Name: "schema", NumChildren: ptrI32(1)},
		{Name: "address", RepetitionType: ptrRep(Optional), NumChildren: ptrI32(2)},
		{Name: "street", Type: ptrType(TypeByteArray), RepetitionType: ptrRep(Required)},
		{Name: "zip", Type: ptrType(TypeInt32), RepetitionType: ptrRep(Optional)},
	}
}

func TestBuildSchemaNestedStruct(t *testing.T) {
	schema, err := BuildSchema(nestedStructSchemaElements())
	require.NoError(t, err)
	require.Len(t, schema.Columns, 2)

	street, err := schema.ColumnByName("address.street")
	require.NoError(t, err)
	assert.Equal(t, 1, street.MaxDefinitionLevel) // address optional
	assert.Equal(t, 0, street.MaxRepetitionLevel)

	zip, err := schema.ColumnByName("address.zip")
	require.NoError(t, err)
	assert.Equal(t, 2, zip.MaxDefinitionLevel) // address optional + zip optional

	path := schema.FieldPaths[zip.Index]
	require.Len(t, path.Steps, 2)
	assert.True(t, path.Steps[0].IsContainer)
	assert.False(t, path.Steps[0].IsRepeated)
}

// list3LevelSchemaElements builds the canonical 3-level LIST encoding:
// items (LIST, optional) -> list (repeated group) -> element (required int32).
func list3LevelSchemaElements() []*SchemaElement {
	return []*SchemaElement{
		{Name: "schema", NumChildren: ptrI32(1)},
		{Name: "items", RepetitionType: ptrRep(Optional), NumChildren: ptrI32(1), LogicalType: &LogicalType{Name: "LIST"}},
		{Name: "list", RepetitionType: ptrRep(Repeated), NumChildren: ptrI32(1)},
		{Name: "element", Type: ptrType(TypeInt32), RepetitionType: ptrRep(Required)},
	}
}

func TestBuildSchemaListLevels(t *testing.T) {
	schema, err := BuildSchema(list3LevelSchemaElements())
	require.NoError(t, err)
	require.Len(t, schema.Columns, 1)

	col := schema.Columns[0]
	assert.Equal(t, 2, col.MaxDefinitionLevel) // items optional + list repeated
	assert.Equal(t, 1, col.MaxRepetitionLevel)

	path := schema.FieldPaths[col.Index]
	require.Len(t, path.Steps, 3)
	assert.True(t, path.Steps[0].IsList)
	assert.False(t, path.Steps[0].IsRepeated)
	assert.True(t, path.Steps[1].IsRepeated)
	assert.True(t, path.Steps[1].SingleChild)
}

func TestBuildSchemaRejectsExhaustedElements(t *testing.T) {
	elements := []*SchemaElement{
		{Name: "schema", NumChildren: ptrI32(2)},
		{Name: "id", Type: ptrType(TypeInt32), RepetitionType: ptrRep(Required)},
	}
	_, err := BuildSchema(elements)
	require.Error(t, err)
	perr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCorrupt, perr.Kind)
}

func TestProjectedName(t *testing.T) {
	assert.True(t, ProjectedName("address.street", nil))
	assert.True(t, ProjectedName("address.street", []string{"address"}))
	assert.True(t, ProjectedName("address.street", []string{"address.street"}))
	assert.False(t, ProjectedName("address.zip", []string{"address.street"}))
	assert.False(t, ProjectedName("name", []string{"address"}))
}
