package parquet

import (
	"context"
	"io"

	"github.com/apache/thrift/lib/go/thrift"
)

// PageHeader is the compact wire-format struct described in spec §6: a common header
// (type, sizes, optional crc) plus exactly one of three nested headers.
type PageHeader struct {
	Type                 PageType
	UncompressedPageSize int32
	CompressedPageSize   int32
	CRC                  *int32

	DataPageHeader       *DataPageHeader
	IndexPageHeader      *struct{}
	DictionaryPageHeader *DictionaryPageHeader
	DataPageHeaderV2     *DataPageHeaderV2
}

// DataPageHeader is the nested header for a DATA_PAGE (v1).
type DataPageHeader struct {
	NumValues               int32
	Encoding                Encoding
	DefinitionLevelEncoding Encoding
	RepetitionLevelEncoding Encoding
}

// DataPageHeaderV2 is the nested header for a DATA_PAGE_V2.
type DataPageHeaderV2 struct {
	NumValues                  int32
	NumNulls                   int32
	NumRows                    int32
	Encoding                   Encoding
	DefinitionLevelsByteLength int32
	RepetitionLevelsByteLength int32
	IsCompressed               bool
}

// DictionaryPageHeader is the nested header for a DICTIONARY_PAGE.
type DictionaryPageHeader struct {
	NumValues int32
	Encoding  Encoding
}

// countingReader tracks how many bytes have been pulled through it, so the scanner can
// learn the header size without the protocol exposing it directly.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

// ReadPageHeader parses one PageHeader from r using the thrift compact protocol (spec §6)
// and reports the number of bytes consumed so the caller can locate the page payload.
func ReadPageHeader(r io.Reader) (*PageHeader, int, error) {
	cr := &countingReader{r: r}
	// The transport reads straight from cr with no read-ahead buffer, so r is left
	// positioned at the first byte after the header.
	transport := &thrift.StreamTransport{Reader: cr}
	proto := thrift.NewTCompactProtocol(transport)
	ctx := context.Background()

	if _, err := proto.ReadStructBegin(ctx); err != nil {
		return nil, 0, wrapCorrupt(err, "page header: struct begin")
	}

	ph := &PageHeader{}
	for {
		_, fieldType, fieldID, err := proto.ReadFieldBegin(ctx)
		if err != nil {
			return nil, 0, wrapCorrupt(err, "page header: field begin")
		}
		if fieldType == thrift.STOP {
			break
		}

		switch fieldID {
		case 1: // type
			v, err := proto.ReadI32(ctx)
			if err != nil {
				return nil, 0, wrapCorrupt(err, "page header: type")
			}
			pt, err := pageTypeFromThrift(v)
			if err != nil {
				return nil, 0, err
			}
			ph.Type = pt
		case 2: // uncompressed_page_size
			v, err := proto.ReadI32(ctx)
			if err != nil {
				return nil, 0, wrapCorrupt(err, "page header: uncompressed_page_size")
			}
			ph.UncompressedPageSize = v
		case 3: // compressed_page_size
			v, err := proto.ReadI32(ctx)
			if err != nil {
				return nil, 0, wrapCorrupt(err, "page header: compressed_page_size")
			}
			ph.CompressedPageSize = v
		case 4: // crc
			v, err := proto.ReadI32(ctx)
			if err != nil {
				return nil, 0, wrapCorrupt(err, "page header: crc")
			}
			ph.CRC = &v
		case 5: // data_page_header
			dph, err := readDataPageHeader(ctx, proto)
			if err != nil {
				return nil, 0, err
			}
			ph.DataPageHeader = dph
		case 7: // dictionary_page_header
			dph, err := readDictionaryPageHeader(ctx, proto)
			if err != nil {
				return nil, 0, err
			}
			ph.DictionaryPageHeader = dph
		case 8: // data_page_header_v2
			dph, err := readDataPageHeaderV2(ctx, proto)
			if err != nil {
				return nil, 0, err
			}
			ph.DataPageHeaderV2 = dph
		default:
			if err := proto.Skip(ctx, fieldType); err != nil {
				return nil, 0, wrapCorrupt(err, "page header: skip field %d", fieldID)
			}
		}

		if err := proto.ReadFieldEnd(ctx); err != nil {
			return nil, 0, wrapCorrupt(err, "page header: field end")
		}
	}

	if err := proto.ReadStructEnd(ctx); err != nil {
		return nil, 0, wrapCorrupt(err, "page header: struct end")
	}

	return ph, cr.n, nil
}

func readDataPageHeader(ctx context.Context, proto thrift.TProtocol) (*DataPageHeader, error) {
	if _, err := proto.ReadStructBegin(ctx); err != nil {
		return nil, wrapCorrupt(err, "data page header: struct begin")
	}
	dph := &DataPageHeader{}
	for {
		_, fieldType, fieldID, err := proto.ReadFieldBegin(ctx)
		if err != nil {
			return nil, wrapCorrupt(err, "data page header: field begin")
		}
		if fieldType == thrift.STOP {
			break
		}
		switch fieldID {
		case 1:
			v, err := proto.ReadI32(ctx)
			if err != nil {
				return nil, wrapCorrupt(err, "data page header: num_values")
			}
			dph.NumValues = v
		case 2:
			v, err := proto.ReadI32(ctx)
			if err != nil {
				return nil, wrapCorrupt(err, "data page header: encoding")
			}
			enc, err := encodingFromThrift(v)
			if err != nil {
				return nil, err
			}
			dph.Encoding = enc
		case 3:
			v, err := proto.ReadI32(ctx)
			if err != nil {
				return nil, wrapCorrupt(err, "data page header: definition_level_encoding")
			}
			enc, err := encodingFromThrift(v)
			if err != nil {
				return nil, err
			}
			dph.DefinitionLevelEncoding = enc
		case 4:
			v, err := proto.ReadI32(ctx)
			if err != nil {
				return nil, wrapCorrupt(err, "data page header: repetition_level_encoding")
			}
			enc, err := encodingFromThrift(v)
			if err != nil {
				return nil, err
			}
			dph.RepetitionLevelEncoding = enc
		default:
			if err := proto.Skip(ctx, fieldType); err != nil {
				return nil, wrapCorrupt(err, "data page header: skip field %d", fieldID)
			}
		}
		if err := proto.ReadFieldEnd(ctx); err != nil {
			return nil, wrapCorrupt(err, "data page header: field end")
		}
	}
	return dph, proto.ReadStructEnd(ctx)
}

func readDataPageHeaderV2(ctx context.Context, proto thrift.TProtocol) (*DataPageHeaderV2, error) {
	if _, err := proto.ReadStructBegin(ctx); err != nil {
		return nil, wrapCorrupt(err, "data page header v2: struct begin")
	}
	dph := &DataPageHeaderV2{IsCompressed: true} // default per format spec
	for {
		_, fieldType, fieldID, err := proto.ReadFieldBegin(ctx)
		if err != nil {
			return nil, wrapCorrupt(err, "data page header v2: field begin")
		}
		if fieldType == thrift.STOP {
			break
		}
		switch fieldID {
		case 1:
			v, err := proto.ReadI32(ctx)
			if err != nil {
				return nil, err
			}
			dph.NumValues = v
		case 2:
			v, err := proto.ReadI32(ctx)
			if err != nil {
				return nil, err
			}
			dph.NumNulls = v
		case 3:
			v, err := proto.ReadI32(ctx)
			if err != nil {
				return nil, err
			}
			dph.NumRows = v
		case 4:
			v, err := proto.ReadI32(ctx)
			if err != nil {
				return nil, err
			}
			enc, err := encodingFromThrift(v)
			if err != nil {
				return nil, err
			}
			dph.Encoding = enc
		case 5:
			v, err := proto.ReadI32(ctx)
			if err != nil {
				return nil, err
			}
			dph.DefinitionLevelsByteLength = v
		case 6:
			v, err := proto.ReadI32(ctx)
			if err != nil {
				return nil, err
			}
			dph.RepetitionLevelsByteLength = v
		case 7:
			v, err := proto.ReadBool(ctx)
			if err != nil {
				return nil, err
			}
			dph.IsCompressed = v
		default:
			if err := proto.Skip(ctx, fieldType); err != nil {
				return nil, err
			}
		}
		if err := proto.ReadFieldEnd(ctx); err != nil {
			return nil, err
		}
	}
	return dph, proto.ReadStructEnd(ctx)
}

func readDictionaryPageHeader(ctx context.Context, proto thrift.TProtocol) (*DictionaryPageHeader, error) {
	if _, err := proto.ReadStructBegin(ctx); err != nil {
		return nil, wrapCorrupt(err, "dictionary page header: struct begin")
	}
	dph := &DictionaryPageHeader{}
	for {
		_, fieldType, fieldID, err := proto.ReadFieldBegin(ctx)
		if err != nil {
			return nil, wrapCorrupt(err, "dictionary page header: field begin")
		}
		if fieldType == thrift.STOP {
			break
		}
		switch fieldID {
		case 1:
			v, err := proto.ReadI32(ctx)
			if err != nil {
				return nil, err
			}
			dph.NumValues = v
		case 2:
			v, err := proto.ReadI32(ctx)
			if err != nil {
				return nil, err
			}
			enc, err := encodingFromThrift(v)
			if err != nil {
				return nil, err
			}
			dph.Encoding = enc
		default:
			if err := proto.Skip(ctx, fieldType); err != nil {
				return nil, err
			}
		}
		if err := proto.ReadFieldEnd(ctx); err != nil {
			return nil, err
		}
	}
	return dph, proto.ReadStructEnd(ctx)
}

func pageTypeFromThrift(v int32) (PageType, error) {
	switch v {
	case 0:
		return PageTypeDataPageV1, nil
	case 1:
		return PageTypeIndexPage, nil
	case 2:
		return PageTypeDictionaryPage, nil
	case 3:
		return PageTypeDataPageV2, nil
	default:
		return 0, corruptf("page header: unknown page type ordinal %d", v)
	}
}

func encodingFromThrift(v int32) (Encoding, error) {
	switch v {
	case 0:
		return EncodingPlain, nil
	case 2:
		return EncodingPlainDictionary, nil
	case 3:
		return EncodingRLE, nil
	case 4:
		return EncodingRLE, nil // BIT_PACKED, deprecated; no current writer emits it
	case 5:
		return EncodingDeltaBinaryPacked, nil
	case 6:
		return EncodingDeltaLengthByteArray, nil
	case 7:
		return EncodingDeltaByteArray, nil
	case 8:
		return EncodingRLEDictionary, nil
	case 9:
		return EncodingByteStreamSplit, nil
	default:
		return 0, unsupportedf("page header: unknown encoding ordinal %d", v)
	}
}
