package parquet

// PhysicalType is the on-disk representation of a primitive leaf, per spec §3.
type PhysicalType int

const (
	TypeBoolean PhysicalType = iota
	TypeInt32
	TypeInt64
	TypeInt96
	TypeFloat
	TypeDouble
	TypeByteArray
	TypeFixedLenByteArray
)

func (t PhysicalType) String() string {
	switch t {
	case TypeBoolean:
		return "BOOLEAN"
	case TypeInt32:
		return "INT32"
	case TypeInt64:
		return "INT64"
	case TypeInt96:
		return "INT96"
	case TypeFloat:
		return "FLOAT"
	case TypeDouble:
		return "DOUBLE"
	case TypeByteArray:
		return "BYTE_ARRAY"
	case TypeFixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// Repetition is one of required, optional or repeated (spec §3).
type Repetition int

const (
	Required Repetition = iota
	Optional
	Repeated
)

func (r Repetition) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return "UNKNOWN"
	}
}

// Encoding is the page-level value encoding (spec §4.2).
type Encoding int

const (
	EncodingPlain Encoding = iota
	EncodingPlainDictionary
	EncodingRLE
	EncodingRLEDictionary
	EncodingDeltaBinaryPacked
	EncodingDeltaLengthByteArray
	EncodingDeltaByteArray
	EncodingByteStreamSplit
)

func (e Encoding) String() string {
	switch e {
	case EncodingPlain:
		return "PLAIN"
	case EncodingPlainDictionary:
		return "PLAIN_DICTIONARY"
	case EncodingRLE:
		return "RLE"
	case EncodingRLEDictionary:
		return "RLE_DICTIONARY"
	case EncodingDeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case EncodingDeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case EncodingDeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case EncodingByteStreamSplit:
		return "BYTE_STREAM_SPLIT"
	default:
		return "UNKNOWN"
	}
}

// CompressionCodec identifies the block compressor applied to a page's payload.
type CompressionCodec int

const (
	CodecUncompressed CompressionCodec = iota
	CodecSnappy
	CodecGzip
	CodecLZOUnsupported
	CodecBrotli
	CodecLZ4Unsupported
	CodecZstd
	CodecLZ4Raw
)

func (c CompressionCodec) String() string {
	switch c {
	case CodecUncompressed:
		return "UNCOMPRESSED"
	case CodecSnappy:
		return "SNAPPY"
	case CodecGzip:
		return "GZIP"
	case CodecLZOUnsupported:
		return "LZO"
	case CodecBrotli:
		return "BROTLI"
	case CodecLZ4Unsupported:
		return "LZ4"
	case CodecZstd:
		return "ZSTD"
	case CodecLZ4Raw:
		return "LZ4_RAW"
	default:
		return "UNKNOWN"
	}
}

// PageType distinguishes the three page kinds of §3.
type PageType int

const (
	PageTypeDataPageV1 PageType = iota
	PageTypeIndexPage
	PageTypeDictionaryPage
	PageTypeDataPageV2
)
