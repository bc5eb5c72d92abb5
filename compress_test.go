package parquet

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainDecompressorRoundTrip(t *testing.T) {
	data := []byte("uncompressed payload")
	out, err := plainDecompressor{}.Decompress(data, len(data))
	require.NoError(t, err)
	assert.Equal(t, data, out)

	_, err = plainDecompressor{}.Decompress(data, len(data)+1)
	require.Error(t, err)
}

func TestSnappyDecompressorRoundTrip(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeatedly, for compression")
	compressed := snappy.Encode(nil, data)

	out, err := snappyDecompressor{}.Decompress(compressed, len(data))
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestSnappyDecompressorSizeMismatch(t *testing.T) {
	data := []byte("abc")
	compressed := snappy.Encode(nil, data)
	_, err := snappyDecompressor{}.Decompress(compressed, len(data)+5)
	require.Error(t, err)
	perr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCorrupt, perr.Kind)
}

func TestGzipDecompressorRoundTrip(t *testing.T) {
	data := []byte("gzip round trip content, long enough to actually compress a little bit")
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	g := gzipDecompressor{useKlauspost: true}
	out, err := g.Decompress(buf.Bytes(), len(data))
	require.NoError(t, err)
	assert.Equal(t, data, out)

	g2 := gzipDecompressor{useKlauspost: false}
	out2, err := g2.Decompress(buf.Bytes(), len(data))
	require.NoError(t, err)
	assert.Equal(t, data, out2)
}

func TestLookupDecompressorDefaultsAndOverride(t *testing.T) {
	d, err := lookupDecompressor(nil, CodecSnappy)
	require.NoError(t, err)
	assert.IsType(t, snappyDecompressor{}, d)

	custom := fakeDecompressor{tag: "custom"}
	table := map[CompressionCodec]Decompressor{CodecSnappy: custom}
	d2, err := lookupDecompressor(table, CodecSnappy)
	require.NoError(t, err)
	assert.Equal(t, custom, d2)

	// falls through to the global registry for a codec the override table doesn't cover.
	d3, err := lookupDecompressor(table, CodecGzip)
	require.NoError(t, err)
	assert.IsType(t, gzipDecompressor{}, d3)
}

func TestLookupDecompressorUnknownCodec(t *testing.T) {
	_, err := lookupDecompressor(nil, CompressionCodec(123))
	require.Error(t, err)
	perr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrUnsupported, perr.Kind)
}

func TestUnsupportedCodecsSurfaceUnsupported(t *testing.T) {
	for _, codec := range []CompressionCodec{CodecLZOUnsupported, CodecLZ4Unsupported} {
		d, err := lookupDecompressor(nil, codec)
		require.NoError(t, err)
		_, derr := d.Decompress(nil, 0)
		require.Error(t, derr)
		perr, ok := AsError(derr)
		require.True(t, ok)
		assert.Equal(t, ErrUnsupported, perr.Kind)
	}
}

func TestRegisterDecompressorOverridesGlobalDefault(t *testing.T) {
	orig := DefaultDecompressors()[CodecZstd]
	defer RegisterDecompressor(CodecZstd, orig)

	custom := fakeDecompressor{tag: "zstd-override"}
	RegisterDecompressor(CodecZstd, custom)

	d, err := lookupDecompressor(nil, CodecZstd)
	require.NoError(t, err)
	assert.Equal(t, custom, d)
}

type fakeDecompressor struct{ tag string }

func (f fakeDecompressor) Decompress(src []byte, expected int) ([]byte, error) {
	return src, nil
}
