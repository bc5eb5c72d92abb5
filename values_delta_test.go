package parquet

import (
	"bytes"
	"encoding/binary"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putVarint(buf *bytes.Buffer, x int64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutVarint(tmp[:], x)
	buf.Write(tmp[:n])
}

// encodeDeltaBinaryPacked builds a single-block DELTA_BINARY_PACKED stream (the format
// deltaBinaryPackedDecoder reads) for values, using the given mini-block layout. Every
// mini-block is fully packed (padded with zero-valued slots beyond len(values)-1 deltas)
// so the decoder's per-mini-block body read is exercised at its declared width even when
// miniBlockValueCount exceeds the 8 values a single bit-pack group holds.
func encodeDeltaBinaryPacked(values []int64, blockSize, miniBlockCount int64) []byte {
	miniBlockValueCount := blockSize / miniBlockCount
	deltas := make([]int64, len(values)-1)
	minDelta := int64(0)
	for i := 1; i < len(values); i++ {
		deltas[i-1] = values[i] - values[i-1]
		if i == 1 || deltas[i-1] < minDelta {
			minDelta = deltas[i-1]
		}
	}

	var buf bytes.Buffer
	putUvarint(&buf, uint64(blockSize))
	putUvarint(&buf, uint64(miniBlockCount))
	putUvarint(&buf, uint64(len(values)))
	putVarint(&buf, values[0])

	putVarint(&buf, minDelta)

	widths := make([]uint8, miniBlockCount)
	adjusted := make([][]int64, miniBlockCount)
	for mb := int64(0); mb < miniBlockCount; mb++ {
		slots := make([]int64, miniBlockValueCount)
		maxBits := 0
		for j := int64(0); j < miniBlockValueCount; j++ {
			idx := mb*miniBlockValueCount + j
			if idx < int64(len(deltas)) {
				slots[j] = deltas[idx] - minDelta
				if w := bits.Len64(uint64(slots[j])); w > maxBits {
					maxBits = w
				}
			}
		}
		widths[mb] = uint8(maxBits)
		adjusted[mb] = slots
	}
	buf.Write(widths)

	for mb := int64(0); mb < miniBlockCount; mb++ {
		buf.Write(packBitsLE(adjusted[mb], int(widths[mb])))
	}

	return buf.Bytes()
}

func TestDeltaBinaryPackedSingleSmallMiniBlock(t *testing.T) {
	values := []int64{100, 103, 99, 150, 150}
	stream := encodeDeltaBinaryPacked(values, 128, 1)

	got, err := decodeDeltaBinaryPackedInt64(bytes.NewReader(stream), len(values))
	require.NoError(t, err)
	for i, v := range values {
		assert.Equal(t, v, got[i].Int64, "index %d", i)
	}
}

// TestDeltaBinaryPackedWideMiniBlock exercises a mini-block of 32 values (4 groups of 8
// bit-packed values sharing one bit width) — the case that desyncs a decoder that
// advances its mini-block/bit-width index every 8 values instead of every
// miniBlockValueCount values.
func TestDeltaBinaryPackedWideMiniBlock(t *testing.T) {
	values := []int64{1000}
	for i := 0; i < 40; i++ {
		values = append(values, values[len(values)-1]+int64(i%7)-3)
	}
	stream := encodeDeltaBinaryPacked(values, 128, 4)

	got, err := decodeDeltaBinaryPackedInt64(bytes.NewReader(stream), len(values))
	require.NoError(t, err)
	for i, v := range values {
		assert.Equal(t, v, got[i].Int64, "index %d", i)
	}
}

func TestDeltaBinaryPackedInt32Narrowing(t *testing.T) {
	values := []int64{5, 6, 4, 10, 1}
	stream := encodeDeltaBinaryPacked(values, 128, 1)

	got, err := decodeDeltaBinaryPackedInt32(bytes.NewReader(stream), len(values))
	require.NoError(t, err)
	for i, v := range values {
		assert.EqualValues(t, v, got[i].Int32, "index %d", i)
	}
}

func TestDecodeDeltaLengthByteArray(t *testing.T) {
	words := [][]byte{[]byte("alpha"), []byte("b"), []byte(""), []byte("delta!")}
	lengths := make([]int64, len(words))
	for i, w := range words {
		lengths[i] = int64(len(w))
	}
	var buf bytes.Buffer
	buf.Write(encodeDeltaBinaryPacked(lengths, 128, 1))
	for _, w := range words {
		buf.Write(w)
	}

	got, err := decodeDeltaLengthByteArray(bytes.NewReader(buf.Bytes()), len(words))
	require.NoError(t, err)
	for i, w := range words {
		assert.Equal(t, w, got[i].Bytes, "index %d", i)
	}
}

func TestDecodeDeltaByteArray(t *testing.T) {
	words := []string{"parquet", "parrot", "part", "party", "partition"}
	prefixLens := make([]int64, len(words))
	suffixes := make([]string, len(words))
	var prev string
	for i, w := range words {
		pl := commonPrefixLen(prev, w)
		prefixLens[i] = int64(pl)
		suffixes[i] = w[pl:]
		prev = w
	}
	suffixLens := make([]int64, len(words))
	for i, s := range suffixes {
		suffixLens[i] = int64(len(s))
	}

	var buf bytes.Buffer
	buf.Write(encodeDeltaBinaryPacked(prefixLens, 128, 1))
	buf.Write(encodeDeltaBinaryPacked(suffixLens, 128, 1))
	for _, s := range suffixes {
		buf.WriteString(s)
	}

	got, err := decodeDeltaByteArray(bytes.NewReader(buf.Bytes()), len(words))
	require.NoError(t, err)
	for i, w := range words {
		assert.Equal(t, w, string(got[i].Bytes), "index %d", i)
	}
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
