package parquet

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDictionaryInt32(t *testing.T) {
	want := []int32{10, 20, 30}
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, want))

	dict, err := ParseDictionary(buf.Bytes(), len(want), TypeInt32, 0)
	require.NoError(t, err)
	require.Equal(t, 3, dict.Len())

	for i, v := range want {
		got, err := dict.At(int32(i))
		require.NoError(t, err)
		assert.Equal(t, v, got.Int32)
	}
}

func TestDictionaryAtOutOfRange(t *testing.T) {
	dict, err := ParseDictionary(nil, 0, TypeInt32, 0)
	require.NoError(t, err)

	_, err = dict.At(0)
	require.Error(t, err)
	perr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCorrupt, perr.Kind)

	_, err = dict.At(-1)
	require.Error(t, err)
}

func TestDecodeDictionaryValuesIndirection(t *testing.T) {
	dictValues := []int32{100, 200, 300, 400}
	var dictBuf bytes.Buffer
	require.NoError(t, binary.Write(&dictBuf, binary.LittleEndian, dictValues))
	dict, err := ParseDictionary(dictBuf.Bytes(), len(dictValues), TypeInt32, 0)
	require.NoError(t, err)

	// indices: bit width 2 (range [0,4)), RLE run of value 3, length 6.
	var stream bytes.Buffer
	stream.WriteByte(2) // bit width
	putUvarint(&stream, uint64(6)<<1)
	stream.WriteByte(3)

	out, err := decodeDictionaryValues(bytes.NewReader(stream.Bytes()), 6, dict)
	require.NoError(t, err)
	for _, v := range out {
		assert.Equal(t, int32(400), v.Int32)
	}
}

func TestDecodeDictionaryValuesOutOfRangeIndex(t *testing.T) {
	dict, err := ParseDictionary(nil, 0, TypeInt32, 0)
	require.NoError(t, err)

	var stream bytes.Buffer
	stream.WriteByte(1)
	putUvarint(&stream, uint64(1)<<1)
	stream.WriteByte(1)

	_, err = decodeDictionaryValues(bytes.NewReader(stream.Bytes()), 1, dict)
	require.Error(t, err)
	perr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCorrupt, perr.Kind)
}

func TestDecodeDictionaryValuesWithoutDictionary(t *testing.T) {
	_, err := decodeDictionaryValues(bytes.NewReader(nil), 1, nil)
	require.Error(t, err)
}
