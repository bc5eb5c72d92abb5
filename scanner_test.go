package parquet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDictionaryChunk assembles a column chunk byte buffer by hand (bypassing any
// encoder): a DICTIONARY_PAGE holding two PLAIN int32 values, followed by one
// DATA_PAGE_V1 of three PLAIN_DICTIONARY-encoded indices (an RLE run of three 0s),
// exercising ScanColumnChunk's dictionary-then-data-pages walk end to end.
func buildDictionaryChunk() []byte {
	dictHeader := []byte{
		0x15, 0x04, // field 1 type, zigzag(2)=4 -> DictionaryPage
		0x15, 0x10, // field 2 uncompressed_page_size, zigzag(8)=16
		0x15, 0x10, // field 3 compressed_page_size, zigzag(8)=16
		0x4C,       // field 7 dictionary_page_header, delta 4, STRUCT
		0x15, 0x04, // inner field 1 num_values, zigzag(2)=4
		0x15, 0x04, // inner field 2 encoding, zigzag(2)=4 -> PlainDictionary
		0x00, // inner STOP
		0x00, // outer STOP
	}
	dictPayload := []byte{
		0x64, 0x00, 0x00, 0x00, // int32 100
		0xC8, 0x00, 0x00, 0x00, // int32 200
	}

	dataHeader := []byte{
		0x15, 0x00, // field 1 type, zigzag(0)=0 -> DataPageV1
		0x15, 0x06, // field 2 uncompressed_page_size, zigzag(3)=6
		0x15, 0x06, // field 3 compressed_page_size, zigzag(3)=6
		0x2C,       // field 5 data_page_header, delta 2, STRUCT
		0x15, 0x06, // inner field 1 num_values, zigzag(3)=6
		0x15, 0x04, // inner field 2 encoding, zigzag(2)=4 -> PlainDictionary
		0x00, // inner STOP
		0x00, // outer STOP
	}
	dataPayload := []byte{
		0x01,       // dictionary index stream bit width = 1
		0x06, 0x00, // RLE run: count=3 (header=(3<<1)|0=6), index value 0
	}

	var chunk []byte
	chunk = append(chunk, dictHeader...)
	chunk = append(chunk, dictPayload...)
	chunk = append(chunk, dataHeader...)
	chunk = append(chunk, dataPayload...)
	return chunk
}

func TestScanColumnChunkWithDictionary(t *testing.T) {
	schema, err := BuildSchema(flatSchemaElements())
	require.NoError(t, err)
	idCol, err := schema.ColumnByName("id")
	require.NoError(t, err)

	chunk := buildDictionaryChunk()
	dictOffset := int64(0)
	meta := &ColumnMetaData{
		Type:                 TypeInt32,
		Codec:                CodecUncompressed,
		NumValues:            3,
		DictionaryPageOffset: &dictOffset,
	}

	pages, err := ScanColumnChunk(chunk, 100, idCol, meta, nil, "test.parquet", 0, nil)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	page := pages[0]
	require.NotNil(t, page.Dictionary)
	assert.Equal(t, 2, page.Dictionary.Len())
	assert.Equal(t, PageTypeDataPageV1, page.Header.Type)
	assert.EqualValues(t, 3, page.Header.DataPageHeader.NumValues)

	decoder := NewDecoder(nil, nil)
	decoded, err := decoder.Decode(page)
	require.NoError(t, err)
	require.Len(t, decoded.Values, 3)
	for _, v := range decoded.Values {
		assert.EqualValues(t, 100, v.Int32)
	}
}

func TestScanColumnChunkRejectsSecondDictionaryPage(t *testing.T) {
	schema, err := BuildSchema(flatSchemaElements())
	require.NoError(t, err)
	idCol, err := schema.ColumnByName("id")
	require.NoError(t, err)

	// Two dictionary-page headers back to back: the second is unexpected per spec's
	// "at most one dictionary page, always first" layout assumption.
	dictHeader := []byte{
		0x15, 0x04, 0x15, 0x10, 0x15, 0x10, 0x4C,
		0x15, 0x04, 0x15, 0x04, 0x00, 0x00,
	}
	dictPayload := []byte{0x64, 0x00, 0x00, 0x00, 0xC8, 0x00, 0x00, 0x00}

	var chunk []byte
	chunk = append(chunk, dictHeader...)
	chunk = append(chunk, dictPayload...)
	chunk = append(chunk, dictHeader...)
	chunk = append(chunk, dictPayload...)

	dictOffset := int64(0)
	meta := &ColumnMetaData{
		Type:                 TypeInt32,
		Codec:                CodecUncompressed,
		NumValues:            3,
		DictionaryPageOffset: &dictOffset,
	}

	_, err = ScanColumnChunk(chunk, 0, idCol, meta, nil, "test.parquet", 0, nil)
	require.Error(t, err)
	perr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCorrupt, perr.Kind)
}
