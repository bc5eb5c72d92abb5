package parquet

// Decompressor registry, covering snappy, gzip, zstd, brotli, and lz4 raw via
// klauspost/compress, andybalholm/brotli, and pierrec/lz4/v4. Spec §1 treats codecs as
// an external collaborator (`decompress(src, expected_len) -> bytes`); this file is the
// reader's default implementation of that contract, injected via WithDecompressors
// (spec §6 "The surrounding host is expected to supply ... a decompressor lookup").

import (
	"bytes"
	"compress/gzip"
	"io"
	"sync"

	"github.com/andybalholm/brotli"
	kgzip "github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/golang/snappy"
	lz4 "github.com/pierrec/lz4/v4"
)

// Decompressor is the single-method interface spec §9 calls for ("Polymorphic
// 'decompressor' is a small interface with a single decompress method").
type Decompressor interface {
	Decompress(src []byte, expectedUncompressedLen int) ([]byte, error)
}

type plainDecompressor struct{}

func (plainDecompressor) Decompress(src []byte, expected int) ([]byte, error) {
	if len(src) != expected {
		return nil, corruptf("uncompressed: size mismatch, expected %d got %d", expected, len(src))
	}
	return src, nil
}

type snappyDecompressor struct{}

func (snappyDecompressor) Decompress(src []byte, expected int) ([]byte, error) {
	out, err := snappy.Decode(make([]byte, 0, expected), src)
	if err != nil {
		return nil, wrapCorrupt(err, "snappy: decode")
	}
	if len(out) != expected {
		return nil, corruptf("snappy: size mismatch, expected %d got %d", expected, len(out))
	}
	return out, nil
}

type gzipDecompressor struct{ useKlauspost bool }

func (g gzipDecompressor) Decompress(src []byte, expected int) ([]byte, error) {
	var r io.Reader
	var err error
	if g.useKlauspost {
		r, err = kgzip.NewReader(bytes.NewReader(src))
	} else {
		r, err = gzip.NewReader(bytes.NewReader(src))
	}
	if err != nil {
		return nil, wrapCorrupt(err, "gzip: open reader")
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, wrapCorrupt(err, "gzip: read")
	}
	if len(out) != expected {
		return nil, corruptf("gzip: size mismatch, expected %d got %d", expected, len(out))
	}
	return out, nil
}

type zstdDecompressor struct {
	mu      sync.Mutex
	decoder *zstd.Decoder
}

func (z *zstdDecompressor) Decompress(src []byte, expected int) ([]byte, error) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.decoder == nil {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, wrapCorrupt(err, "zstd: new decoder")
		}
		z.decoder = dec
	}
	out, err := z.decoder.DecodeAll(src, make([]byte, 0, expected))
	if err != nil {
		return nil, wrapCorrupt(err, "zstd: decode")
	}
	if len(out) != expected {
		return nil, corruptf("zstd: size mismatch, expected %d got %d", expected, len(out))
	}
	return out, nil
}

type brotliDecompressor struct{}

func (brotliDecompressor) Decompress(src []byte, expected int) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(src))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, wrapCorrupt(err, "brotli: read")
	}
	if len(out) != expected {
		return nil, corruptf("brotli: size mismatch, expected %d got %d", expected, len(out))
	}
	return out, nil
}

// lz4RawDecompressor handles LZ4_RAW: a single raw LZ4 block, not Hadoop's/legacy LZ4's
// framed, length-prefixed concatenation of blocks (which is left Unsupported — spec
// §4.2 explicitly anticipates "lz4-hadoop without library").
type lz4RawDecompressor struct{}

func (lz4RawDecompressor) Decompress(src []byte, expected int) ([]byte, error) {
	out := make([]byte, expected)
	n, err := lz4.UncompressBlock(src, out)
	if err != nil {
		return nil, wrapCorrupt(err, "lz4_raw: uncompress block")
	}
	if n != expected {
		return nil, corruptf("lz4_raw: size mismatch, expected %d got %d", expected, n)
	}
	return out, nil
}

type unsupportedCodec struct{ name string }

func (u unsupportedCodec) Decompress([]byte, int) ([]byte, error) {
	return nil, unsupportedf("codec %s has no decoder available", u.name)
}

var (
	decompressorsMu sync.RWMutex
	decompressors   = map[CompressionCodec]Decompressor{
		CodecUncompressed: plainDecompressor{},
		CodecSnappy:       snappyDecompressor{},
		CodecGzip:         gzipDecompressor{useKlauspost: true},
		CodecZstd:         &zstdDecompressor{},
		CodecBrotli:       brotliDecompressor{},
		CodecLZ4Raw:       lz4RawDecompressor{},
		CodecLZOUnsupported: unsupportedCodec{name: "LZO"},
		CodecLZ4Unsupported: unsupportedCodec{name: "LZ4 (hadoop-framed)"},
	}
)

// RegisterDecompressor lets a host override or add a codec implementation (spec §6: the
// host supplies "a decompressor lookup").
func RegisterDecompressor(codec CompressionCodec, d Decompressor) {
	decompressorsMu.Lock()
	defer decompressorsMu.Unlock()
	decompressors[codec] = d
}

// DefaultDecompressors returns a copy of the built-in codec table, suitable as a starting
// point for WithDecompressors.
func DefaultDecompressors() map[CompressionCodec]Decompressor {
	decompressorsMu.RLock()
	defer decompressorsMu.RUnlock()
	out := make(map[CompressionCodec]Decompressor, len(decompressors))
	for k, v := range decompressors {
		out[k] = v
	}
	return out
}

func lookupDecompressor(table map[CompressionCodec]Decompressor, codec CompressionCodec) (Decompressor, error) {
	if table != nil {
		if d, ok := table[codec]; ok {
			return d, nil
		}
	}
	decompressorsMu.RLock()
	d, ok := decompressors[codec]
	decompressorsMu.RUnlock()
	if !ok {
		return nil, unsupportedf("codec %v is not registered", codec)
	}
	return d, nil
}
