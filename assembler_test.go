package parquet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listOfStructSchemaElements builds the canonical 3-level LIST-of-struct encoding (spec
// §8 scenario 3): items (LIST, optional) -> list (repeated group) -> element (required
// struct: name required byte_array, quantity required int32).
func listOfStructSchemaElements() []*SchemaElement {
	return []*SchemaElement{
		{Name: "schema", NumChildren: ptrI32(1)},
		{Name: "items", RepetitionType: ptrRep(Optional), NumChildren: ptrI32(1), LogicalType: &LogicalType{Name: "LIST"}},
		{Name: "list", RepetitionType: ptrRep(Repeated), NumChildren: ptrI32(1)},
		{Name: "element", RepetitionType: ptrRep(Required), NumChildren: ptrI32(2)},
		{Name: "name", Type: ptrType(TypeByteArray), RepetitionType: ptrRep(Required)},
		{Name: "quantity", Type: ptrType(TypeInt32), RepetitionType: ptrRep(Required)},
	}
}

// TestAssemblerListOfStruct reproduces spec §8 scenario 3: row 0 has two elements, row 1
// is null (not in the spec scenario but exercises the null branch), row 2 is an empty
// list.
func TestAssemblerListOfStruct(t *testing.T) {
	schema, err := BuildSchema(listOfStructSchemaElements())
	require.NoError(t, err)

	nameCol, err := schema.ColumnByName("items.list.element.name")
	require.NoError(t, err)
	qtyCol, err := schema.ColumnByName("items.list.element.quantity")
	require.NoError(t, err)

	assembler, err := NewAssembler(schema, []*Column{nameCol, qtyCol})
	require.NoError(t, err)

	nameBatch := &NestedColumnBatch{
		Column: nameCol,
		Rep:    []uint16{0, 1, 0, 0},
		Def:    []uint16{2, 2, 0, 1},
		Values: []Value{byteArrayValue([]byte("apple")), byteArrayValue([]byte("banana")), {}, {}},
	}
	qtyBatch := &NestedColumnBatch{
		Column: qtyCol,
		Rep:    []uint16{0, 1, 0, 0},
		Def:    []uint16{2, 2, 0, 1},
		Values: []Value{int32Value(5), int32Value(10), {}, {}},
	}

	records, err := assembler.Assemble(&NestedBatch{
		Columns:     []*NestedColumnBatch{nameBatch, qtyBatch},
		RecordCount: 3,
	})
	require.NoError(t, err)
	require.Len(t, records, 3)

	itemsNode := schema.Root.Children[0]

	row0Items := records[0].Field(itemsNode.FieldIndex)
	require.False(t, row0Items.IsNull())
	elems, err := row0Items.List()
	require.NoError(t, err)
	require.Len(t, elems, 2)
	n0, err := elems[0].Struct(itemsNode.Children[0].Children[0], "name").Bytes()
	require.NoError(t, err)
	assert.Equal(t, "apple", string(n0))
	q0, err := elems[0].Struct(itemsNode.Children[0].Children[0], "quantity").Int32()
	require.NoError(t, err)
	assert.EqualValues(t, 5, q0)
	n1, err := elems[1].Struct(itemsNode.Children[0].Children[0], "name").Bytes()
	require.NoError(t, err)
	assert.Equal(t, "banana", string(n1))

	row1Items := records[1].Field(itemsNode.FieldIndex)
	assert.True(t, row1Items.IsNull())

	row2Items := records[2].Field(itemsNode.FieldIndex)
	require.False(t, row2Items.IsNull())
	elems2, err := row2Items.List()
	require.NoError(t, err)
	assert.Len(t, elems2, 0)
}

func TestAssemblerRejectsMismatchedColumnCount(t *testing.T) {
	schema, err := BuildSchema(listOfStructSchemaElements())
	require.NoError(t, err)
	nameCol, err := schema.ColumnByName("items.list.element.name")
	require.NoError(t, err)
	qtyCol, err := schema.ColumnByName("items.list.element.quantity")
	require.NoError(t, err)

	assembler, err := NewAssembler(schema, []*Column{nameCol, qtyCol})
	require.NoError(t, err)

	_, err = assembler.Assemble(&NestedBatch{
		Columns:     []*NestedColumnBatch{{Column: nameCol, Rep: []uint16{0}, Def: []uint16{2}, Values: []Value{byteArrayValue([]byte("x"))}}},
		RecordCount: 1,
	})
	require.Error(t, err)
	perr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCorrupt, perr.Kind)
}

// TestAssemblerNestedStructWithNullChild covers a plain (non-repeated) nested struct
// (spec §8 scenario 2): address is an optional struct with a required street and an
// optional zip; row 2's address is entirely null.
func TestAssemblerNestedStructWithNullChild(t *testing.T) {
	schema, err := BuildSchema(nestedStructSchemaElements())
	require.NoError(t, err)

	streetCol, err := schema.ColumnByName("address.street")
	require.NoError(t, err)
	zipCol, err := schema.ColumnByName("address.zip")
	require.NoError(t, err)

	assembler, err := NewAssembler(schema, []*Column{streetCol, zipCol})
	require.NoError(t, err)

	// Row 0: address={street:"123 Main St", zip:10001}; Row 1: address={street:"X",
	// zip:null}; Row 2: address=null.
	streetBatch := &NestedColumnBatch{
		Column: streetCol,
		Rep:    []uint16{0, 0, 0},
		Def:    []uint16{1, 1, 0},
		Values: []Value{byteArrayValue([]byte("123 Main St")), byteArrayValue([]byte("X")), {}},
	}
	zipBatch := &NestedColumnBatch{
		Column: zipCol,
		Rep:    []uint16{0, 0, 0},
		Def:    []uint16{2, 1, 0},
		Values: []Value{int32Value(10001), {}, {}},
	}

	records, err := assembler.Assemble(&NestedBatch{
		Columns:     []*NestedColumnBatch{streetBatch, zipBatch},
		RecordCount: 3,
	})
	require.NoError(t, err)

	addrNode := schema.Root.Children[0]

	addr0 := records[0].Field(addrNode.FieldIndex)
	require.False(t, addr0.IsNull())
	street0, err := addr0.Struct(addrNode, "street").Bytes()
	require.NoError(t, err)
	assert.Equal(t, "123 Main St", string(street0))
	zip0, err := addr0.Struct(addrNode, "zip").Int32()
	require.NoError(t, err)
	assert.EqualValues(t, 10001, zip0)

	addr1 := records[1].Field(addrNode.FieldIndex)
	require.False(t, addr1.IsNull())
	assert.True(t, addr1.Struct(addrNode, "zip").IsNull())

	addr2 := records[2].Field(addrNode.FieldIndex)
	assert.True(t, addr2.IsNull())
}
