package parquet

// Dictionary holds the ordered typed array parsed once from a column chunk's dictionary
// page (spec §3 "Dictionary"); pages reference it by index, never copy it.

import "io"

type Dictionary struct {
	values []Value
}

func (d *Dictionary) Len() int { return len(d.values) }

func (d *Dictionary) At(i int32) (Value, error) {
	if i < 0 || int(i) >= len(d.values) {
		return Value{}, corruptf("dictionary index %d out of range [0,%d)", i, len(d.values))
	}
	return d.values[i], nil
}

// ParseDictionary decodes a dictionary page's already-decompressed payload (spec §4.1):
// fixed-width for numerics, [len:u32][bytes] for byte arrays.
func ParseDictionary(data []byte, numValues int, typ PhysicalType, typeLength int32) (*Dictionary, error) {
	r := newByteSliceReader(data)
	values, err := decodePlainValues(r, numValues, typ, typeLength)
	if err != nil {
		return nil, wrapCorrupt(err, "dictionary: parse %d values of type %v", numValues, typ)
	}
	return &Dictionary{values: values}, nil
}

// dictionaryIndexDecoder decodes PLAIN_DICTIONARY/RLE_DICTIONARY index streams (spec
// §4.2 step 4): a leading bit-width byte, then an RLE-bit-packed hybrid stream of
// indices.
type dictionaryIndexDecoder struct {
	hd *hybridDecoder
}

func newDictionaryIndexDecoder(r io.Reader) (*dictionaryIndexDecoder, error) {
	var widthBuf [1]byte
	if _, err := io.ReadFull(r, widthBuf[:]); err != nil {
		return nil, wrapCorrupt(err, "dictionary index stream: bit width")
	}
	width := int(widthBuf[0])
	if width < 0 || width > 32 {
		return nil, corruptf("dictionary index stream: invalid bit width %d", width)
	}
	hd := newHybridDecoder(width)
	if err := hd.init(r); err != nil {
		return nil, err
	}
	return &dictionaryIndexDecoder{hd: hd}, nil
}

func (d *dictionaryIndexDecoder) decodeIndices(n int) ([]int32, error) {
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		v, err := d.hd.next()
		if err != nil {
			return nil, wrapCorrupt(err, "dictionary index stream: index %d", i)
		}
		out[i] = v
	}
	return out, nil
}

// decodeDictionaryValues decodes n dictionary-encoded values by resolving indices
// against dict, verifying every index is in range (spec §8 "Dictionary indirection").
func decodeDictionaryValues(r io.Reader, n int, dict *Dictionary) ([]Value, error) {
	if dict == nil {
		return nil, corruptf("dictionary-encoded page without a dictionary")
	}
	dec, err := newDictionaryIndexDecoder(r)
	if err != nil {
		return nil, err
	}
	indices, err := dec.decodeIndices(n)
	if err != nil {
		return nil, err
	}
	out := make([]Value, n)
	for i, idx := range indices {
		v, err := dict.At(idx)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type byteSliceReader struct {
	data []byte
	pos  int
}

func newByteSliceReader(data []byte) *byteSliceReader {
	return &byteSliceReader{data: data}
}

func (b *byteSliceReader) Read(p []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n, nil
}
