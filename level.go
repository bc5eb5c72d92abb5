package parquet

// RLE/bit-packed hybrid decoder, expressed as a single sliding bit-cursor rather than a
// per-bit-width unpacker table. Used both for rep/def level streams (spec §4.2 step 3)
// and for dictionary-index streams (spec §4.2 PLAIN_/RLE_DICTIONARY).

import (
	"encoding/binary"
	"io"
	"math/bits"
)

// hybridDecoder decodes an RLE/bit-packed hybrid stream of the given bit width, per the
// canonical encoding described in spec §6: a run header tags the run as RLE
// (run_len << 1) or bit-packed ((num_groups << 1) | 1), and bit-packed groups are always
// 8 values wide.
type hybridDecoder struct {
	bitWidth int
	r        io.Reader

	rleCount uint32
	rleValue int32

	bpGroupsLeft uint32
	bpPos        uint8
	bpGroup      [8]int32
}

func newHybridDecoder(bitWidth int) *hybridDecoder {
	return &hybridDecoder{bitWidth: bitWidth}
}

func (hd *hybridDecoder) init(r io.Reader) error {
	hd.r = r
	return nil
}

// initWithLength reads the v1 u32 length prefix before installing a limited reader, per
// spec §4.2 step 3.
func (hd *hybridDecoder) initWithLength(r io.Reader) error {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return wrapCorrupt(err, "level stream: length prefix")
	}
	hd.r = io.LimitReader(r, int64(size))
	return nil
}

func (hd *hybridDecoder) next() (int32, error) {
	if hd.rleCount == 0 && hd.bpGroupsLeft == 0 && hd.bpPos == 0 {
		if err := hd.readRunHeader(); err != nil {
			return 0, err
		}
	}

	switch {
	case hd.rleCount > 0:
		v := hd.rleValue
		hd.rleCount--
		return v, nil
	case hd.bpGroupsLeft > 0 || hd.bpPos > 0:
		if hd.bpPos == 0 {
			if err := hd.readBitPackedGroup(); err != nil {
				return 0, err
			}
			hd.bpGroupsLeft--
		}
		v := hd.bpGroup[hd.bpPos]
		hd.bpPos = (hd.bpPos + 1) % 8
		return v, nil
	default:
		return 0, io.EOF
	}
}

func (hd *hybridDecoder) readRunHeader() error {
	h, err := binary.ReadUvarint(byteReaderOf(hd.r))
	if err != nil {
		return wrapCorrupt(err, "level stream: run header")
	}
	if h&1 == 1 {
		hd.bpGroupsLeft = uint32(h >> 1)
		hd.bpPos = 0
		if hd.bpGroupsLeft == 0 {
			return corruptf("level stream: empty bit-packed run")
		}
		return nil
	}
	hd.rleCount = uint32(h >> 1)
	if hd.rleCount == 0 {
		return corruptf("level stream: empty RLE run")
	}
	return hd.readRLEValue()
}

func (hd *hybridDecoder) readRLEValue() error {
	n := (hd.bitWidth + 7) / 8
	buf := make([]byte, n)
	if _, err := io.ReadFull(hd.r, buf); err != nil {
		return wrapCorrupt(err, "level stream: RLE run value")
	}
	var v uint32
	for i := 0; i < n; i++ {
		v |= uint32(buf[i]) << (8 * i)
	}
	if hd.bitWidth < 32 && bits.LeadingZeros32(v) < 32-hd.bitWidth {
		return corruptf("level stream: RLE run value exceeds bit width %d", hd.bitWidth)
	}
	hd.rleValue = int32(v)
	return nil
}

func (hd *hybridDecoder) readBitPackedGroup() error {
	nBytes := hd.bitWidth // 8 values * bitWidth bits / 8 bits-per-byte
	buf := make([]byte, nBytes)
	if _, err := io.ReadFull(hd.r, buf); err != nil {
		return wrapCorrupt(err, "level stream: bit-packed group")
	}
	hd.bpGroup = unpack8Int32(hd.bitWidth, buf)
	return nil
}

// unpack8Int32 extracts 8 consecutive bitWidth-wide little-endian bit-packed values.
func unpack8Int32(bitWidth int, data []byte) [8]int32 {
	var out [8]int32
	if bitWidth == 0 {
		return out
	}
	bitPos := 0
	for i := 0; i < 8; i++ {
		out[i] = readBitsLE(data, bitPos, bitWidth)
		bitPos += bitWidth
	}
	return out
}

// unpack8Int64 is unpack8Int32's 64-bit-safe counterpart, used by DELTA_BINARY_PACKED
// mini-blocks over INT64 columns where bitWidth can exceed 32.
func unpack8Int64(bitWidth int, data []byte) [8]int64 {
	var out [8]int64
	if bitWidth == 0 {
		return out
	}
	bitPos := 0
	for i := 0; i < 8; i++ {
		out[i] = readBitsLE64(data, bitPos, bitWidth)
		bitPos += bitWidth
	}
	return out
}

func readBitsLE64(data []byte, bitOffset, bitWidth int) int64 {
	byteStart := bitOffset / 8
	bitStart := bitOffset % 8
	nBytes := (bitStart + bitWidth + 7) / 8

	var lo, hi uint64
	for i := 0; i < nBytes; i++ {
		idx := byteStart + i
		var b byte
		if idx < len(data) {
			b = data[idx]
		}
		if i < 8 {
			lo |= uint64(b) << uint(8*i)
		} else {
			hi |= uint64(b) << uint(8*(i-8))
		}
	}
	lo >>= uint(bitStart)
	if hi != 0 {
		lo |= hi << uint(64-bitStart)
	}
	if bitWidth >= 64 {
		return int64(lo)
	}
	mask := uint64(1)<<uint(bitWidth) - 1
	return int64(lo & mask)
}

func readBitsLE(data []byte, bitOffset, bitWidth int) int32 {
	byteStart := bitOffset / 8
	bitStart := bitOffset % 8
	nBytes := (bitStart + bitWidth + 7) / 8

	var v uint64
	for i := 0; i < nBytes; i++ {
		idx := byteStart + i
		var b byte
		if idx < len(data) {
			b = data[idx]
		}
		v |= uint64(b) << uint(8*i)
	}
	v >>= uint(bitStart)
	mask := uint64(1)<<uint(bitWidth) - 1
	return int32(v & mask)
}

// bitWidthFor returns ceil(log2(maxLevel+1)), per spec §4.2 step 3.
func bitWidthFor(maxLevel int) int {
	if maxLevel == 0 {
		return 0
	}
	return bits.Len(uint(maxLevel))
}

type byteReaderAdapter struct {
	io.Reader
}

func (b byteReaderAdapter) ReadByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(b.Reader, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func byteReaderOf(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return byteReaderAdapter{r}
}

// zeroLevelDecoder is the "level 0 yields an all-zero virtual stream" case of spec §4.2
// step 3 — no bytes are consumed at all.
type zeroLevelDecoder struct{}

func (zeroLevelDecoder) next() (int32, error) { return 0, nil }

// levelSource is the minimal interface the page decoder needs from either a real hybrid
// stream or the zero-width virtual stream.
type levelSource interface {
	next() (int32, error)
}

func decodeLevels(src levelSource, n int) ([]uint16, error) {
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		v, err := src.next()
		if err != nil {
			return nil, wrapCorrupt(err, "level stream: value %d", i)
		}
		out[i] = uint16(v)
	}
	return out, nil
}
