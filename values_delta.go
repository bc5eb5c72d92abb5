package parquet

// DELTA_BINARY_PACKED and the two encodings built on top of it (DELTA_LENGTH_BYTE_ARRAY,
// DELTA_BYTE_ARRAY), specialized to int32/int64 without generics since only the
// reader path (no encoder half) is needed here.

import (
	"encoding/binary"
	"io"
)

// deltaBinaryPackedDecoder decodes one DELTA_BINARY_PACKED i64 stream (spec §4.2); i32
// streams reuse it and narrow the result.
type deltaBinaryPackedDecoder struct {
	r io.Reader

	blockSize           int64
	miniBlockCount      int64
	miniBlockValueCount int64
	valuesCount         int64

	previousValue int64
	minDelta      int64

	miniBlockBitWidths []uint8
	currentMiniBlock   int64

	miniBlockValues []int64
	miniBlockPos    int64

	position int64
	first    bool
}

func newDeltaBinaryPackedDecoder(r io.Reader) (*deltaBinaryPackedDecoder, error) {
	d := &deltaBinaryPackedDecoder{r: r, first: true}
	if err := d.readBlockHeader(); err != nil {
		return nil, err
	}
	if d.valuesCount > 0 {
		if err := d.readMiniBlockHeader(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *deltaBinaryPackedDecoder) readBlockHeader() error {
	br := byteReaderOf(d.r)

	blockSize, err := binary.ReadUvarint(br)
	if err != nil {
		return wrapCorrupt(err, "delta binary packed: block size")
	}
	d.blockSize = int64(blockSize)
	if d.blockSize <= 0 || d.blockSize%128 != 0 {
		return corruptf("delta binary packed: invalid block size %d", d.blockSize)
	}

	miniBlockCount, err := binary.ReadUvarint(br)
	if err != nil {
		return wrapCorrupt(err, "delta binary packed: mini-block count")
	}
	d.miniBlockCount = int64(miniBlockCount)
	if d.miniBlockCount <= 0 || d.blockSize%d.miniBlockCount != 0 {
		return corruptf("delta binary packed: invalid mini-block count %d", d.miniBlockCount)
	}
	d.miniBlockValueCount = d.blockSize / d.miniBlockCount

	valuesCount, err := binary.ReadUvarint(br)
	if err != nil {
		return wrapCorrupt(err, "delta binary packed: total value count")
	}
	d.valuesCount = int64(valuesCount)

	first, err := binary.ReadVarint(br)
	if err != nil {
		return wrapCorrupt(err, "delta binary packed: first value")
	}
	d.previousValue = first

	return nil
}

func (d *deltaBinaryPackedDecoder) readMiniBlockHeader() error {
	br := byteReaderOf(d.r)

	minDelta, err := binary.ReadVarint(br)
	if err != nil {
		return wrapCorrupt(err, "delta binary packed: min delta")
	}
	d.minDelta = minDelta

	d.miniBlockBitWidths = make([]uint8, d.miniBlockCount)
	if _, err := io.ReadFull(d.r, d.miniBlockBitWidths); err != nil {
		return wrapCorrupt(err, "delta binary packed: mini-block bit widths")
	}
	for _, w := range d.miniBlockBitWidths {
		if w > 64 {
			return corruptf("delta binary packed: invalid mini-block bit width %d", w)
		}
	}
	d.currentMiniBlock = 0
	return nil
}

func (d *deltaBinaryPackedDecoder) next() (int64, error) {
	if d.position >= d.valuesCount {
		return 0, io.EOF
	}
	if d.first {
		d.first = false
		d.position++
		return d.previousValue, nil
	}

	if d.miniBlockPos >= int64(len(d.miniBlockValues)) {
		if d.currentMiniBlock >= d.miniBlockCount {
			if err := d.readMiniBlockHeader(); err != nil {
				return 0, err
			}
		}
		if err := d.readMiniBlockBody(); err != nil {
			return 0, err
		}
	}

	delta := d.miniBlockValues[d.miniBlockPos] + d.minDelta
	d.previousValue += delta
	d.miniBlockPos++
	d.position++
	return d.previousValue, nil
}

// readMiniBlockBody reads one whole mini-block's worth of values (miniBlockValueCount,
// not just the 8 a single unpack8Int64 call produces) packed at the bit width declared
// for the current mini-block index, then advances past it.
func (d *deltaBinaryPackedDecoder) readMiniBlockBody() error {
	w := int(d.miniBlockBitWidths[d.currentMiniBlock])
	d.currentMiniBlock++

	groups := int((d.miniBlockValueCount + 7) / 8)
	values := make([]int64, 0, groups*8)
	for g := 0; g < groups; g++ {
		buf := make([]byte, w)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return wrapCorrupt(err, "delta binary packed: mini-block body")
		}
		group := unpack8Int64(w, buf)
		values = append(values, group[:]...)
	}
	d.miniBlockValues = values[:d.miniBlockValueCount]
	d.miniBlockPos = 0
	return nil
}

func decodeDeltaBinaryPackedInt64(r io.Reader, n int) ([]Value, error) {
	d, err := newDeltaBinaryPackedDecoder(r)
	if err != nil {
		return nil, err
	}
	out := make([]Value, n)
	for i := 0; i < n; i++ {
		v, err := d.next()
		if err != nil {
			return nil, wrapCorrupt(err, "delta binary packed: value %d", i)
		}
		out[i] = int64Value(v)
	}
	return out, nil
}

func decodeDeltaBinaryPackedInt32(r io.Reader, n int) ([]Value, error) {
	d, err := newDeltaBinaryPackedDecoder(r)
	if err != nil {
		return nil, err
	}
	out := make([]Value, n)
	for i := 0; i < n; i++ {
		v, err := d.next()
		if err != nil {
			return nil, wrapCorrupt(err, "delta binary packed: value %d", i)
		}
		out[i] = int32Value(int32(v))
	}
	return out, nil
}

// decodeDeltaInt32Stream decodes a raw DELTA_BINARY_PACKED i32 stream of exactly n
// lengths, used as a building block by DELTA_LENGTH_BYTE_ARRAY/DELTA_BYTE_ARRAY.
func decodeDeltaInt32Stream(r io.Reader, n int) ([]int32, error) {
	d, err := newDeltaBinaryPackedDecoder(r)
	if err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		v, err := d.next()
		if err != nil {
			return nil, wrapCorrupt(err, "delta length stream: value %d", i)
		}
		out[i] = int32(v)
	}
	return out, nil
}

// decodeDeltaLengthByteArray: one DELTA_BINARY_PACKED i32 length stream followed by the
// concatenated byte bodies (spec §4.2).
func decodeDeltaLengthByteArray(r io.Reader, n int) ([]Value, error) {
	lengths, err := decodeDeltaInt32Stream(r, n)
	if err != nil {
		return nil, wrapCorrupt(err, "delta length byte array: lengths")
	}
	out := make([]Value, n)
	for i, l := range lengths {
		if l < 0 {
			return nil, corruptf("delta length byte array: negative length %d at %d", l, i)
		}
		buf := make([]byte, l)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, wrapCorrupt(err, "delta length byte array: body of value %d", i)
		}
		out[i] = byteArrayValue(buf)
	}
	return out, nil
}

// decodeDeltaByteArray: two DELTA_BINARY_PACKED i32 streams (prefix lengths, suffix
// lengths) then concatenated suffix bytes; value[i] = prev[0:prefix[i]] + suffix[i].
func decodeDeltaByteArray(r io.Reader, n int) ([]Value, error) {
	prefixLens, err := decodeDeltaInt32Stream(r, n)
	if err != nil {
		return nil, wrapCorrupt(err, "delta byte array: prefix lengths")
	}
	suffixLens, err := decodeDeltaInt32Stream(r, n)
	if err != nil {
		return nil, wrapCorrupt(err, "delta byte array: suffix lengths")
	}

	out := make([]Value, n)
	var prev []byte
	for i := 0; i < n; i++ {
		pl, sl := prefixLens[i], suffixLens[i]
		if pl < 0 || sl < 0 || int(pl) > len(prev) {
			return nil, corruptf("delta byte array: invalid prefix/suffix length at %d", i)
		}
		suffix := make([]byte, sl)
		if _, err := io.ReadFull(r, suffix); err != nil {
			return nil, wrapCorrupt(err, "delta byte array: suffix body of value %d", i)
		}
		v := make([]byte, pl+sl)
		copy(v, prev[:pl])
		copy(v[pl:], suffix)
		out[i] = byteArrayValue(v)
		prev = v
	}
	return out, nil
}
