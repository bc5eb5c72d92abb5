package parquet

// Page Scanner (spec §4.1): walks one column chunk's byte range, reads each page header
// via the compact wire format (format_pageheader.go), eagerly decodes any dictionary
// page, and emits an ordered PageInfo list referencing (not copying) the data page
// payloads.

import (
	"bytes"
	"io"
)

// PageInfo is one scanned-but-not-yet-decoded page (spec §4.1): a byte slice, its parsed
// header, and a shared reference to the column chunk's dictionary (nil if the chunk
// carries none). Data page bytes are a slice of the chunk buffer, not a copy.
type PageInfo struct {
	Header     *PageHeader
	Payload    []byte // exactly Header.CompressedPageSize bytes, as stored
	Dictionary *Dictionary
	Column     *Column
	Codec      CompressionCodec
	FileName   string
	Offset     int64 // absolute offset of Payload's first byte, for error reporting
}

// ScanColumnChunk implements spec §4.1: chunk is the byte buffer covering one column
// chunk (offset from dictionary or data page start, length = total compressed size, per
// spec's Inputs), starting at absolute file offset chunkOffset. rowGroup identifies the
// chunk's row group for the completion debug line (SPEC_FULL.md §1.2); logger may be nil.
func ScanColumnChunk(chunk []byte, chunkOffset int64, col *Column, meta *ColumnMetaData, decompressors map[CompressionCodec]Decompressor, fileName string, rowGroup int, logger Logger) ([]*PageInfo, error) {
	if logger == nil {
		logger = nopLogger{}
	}
	r := bytes.NewReader(chunk)

	var dict *Dictionary
	if meta.DictionaryPageOffset != nil {
		d, consumed, err := scanDictionaryPage(r, col, meta, decompressors)
		if err != nil {
			return nil, wrapCorrupt(err, "scan chunk: dictionary page").WithColumn(col.FlatName).WithFile(fileName)
		}
		dict = d
		_ = consumed
	}

	var pages []*PageInfo
	var valuesSeen int64
	for valuesSeen < meta.NumValues && r.Len() > 0 {
		headerStart := int64(len(chunk)) - int64(r.Len())
		header, n, err := ReadPageHeader(r)
		if err != nil {
			return nil, wrapCorrupt(err, "scan chunk: page header at offset %d", headerStart).WithColumn(col.FlatName).WithFile(fileName)
		}
		_ = n

		if header.Type == PageTypeDictionaryPage {
			// Per-chunk layout puts at most one dictionary page, always first; a second
			// one here would indicate a corrupt or unsupported layout (e.g. column
			// index interleaving), which spec §1 excludes.
			return nil, corruptf("scan chunk: unexpected second dictionary page").WithColumn(col.FlatName).WithFile(fileName)
		}
		if header.Type == PageTypeIndexPage {
			// Page indexes are out of scope (spec §1); skip the payload and continue.
			if err := skipN(r, int(header.CompressedPageSize)); err != nil {
				return nil, wrapCorrupt(err, "scan chunk: skip index page").WithColumn(col.FlatName).WithFile(fileName)
			}
			continue
		}

		payloadStart := int64(len(chunk)) - int64(r.Len())
		payload := make([]byte, header.CompressedPageSize)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, wrapCorrupt(err, "scan chunk: page payload at offset %d", payloadStart).WithColumn(col.FlatName).WithFile(fileName)
		}

		var numValues int32
		switch header.Type {
		case PageTypeDataPageV1:
			if header.DataPageHeader == nil {
				return nil, corruptf("scan chunk: data page v1 missing header").WithColumn(col.FlatName).WithFile(fileName)
			}
			numValues = header.DataPageHeader.NumValues
		case PageTypeDataPageV2:
			if header.DataPageHeaderV2 == nil {
				return nil, corruptf("scan chunk: data page v2 missing header").WithColumn(col.FlatName).WithFile(fileName)
			}
			numValues = header.DataPageHeaderV2.NumValues
		default:
			return nil, corruptf("scan chunk: unexpected page type %v", header.Type).WithColumn(col.FlatName).WithFile(fileName)
		}

		pages = append(pages, &PageInfo{
			Header:     header,
			Payload:    payload,
			Dictionary: dict,
			Column:     col,
			Codec:      meta.Codec,
			FileName:   fileName,
			Offset:     chunkOffset + payloadStart,
		})
		valuesSeen += int64(numValues)
	}
	// Extra trailing bytes after the last page are tolerated (spec §4.1 Termination).

	logger.Debugf("page scan: row_group=%d column=%s pages=%d", rowGroup, col.FlatName, len(pages))
	return pages, nil
}

// scanDictionaryPage decodes the chunk's dictionary page, if any, per spec §4.1: detected
// by page-header type, decompressed once with the column's codec, parsed according to the
// column's physical type.
func scanDictionaryPage(r *bytes.Reader, col *Column, meta *ColumnMetaData, decompressors map[CompressionCodec]Decompressor) (*Dictionary, int, error) {
	start := r.Len()
	header, _, err := ReadPageHeader(r)
	if err != nil {
		return nil, 0, wrapCorrupt(err, "dictionary page: header")
	}
	if header.Type != PageTypeDictionaryPage {
		return nil, 0, corruptf("dictionary page: expected DICTIONARY_PAGE, got %v", header.Type)
	}
	if header.DictionaryPageHeader == nil {
		return nil, 0, corruptf("dictionary page: missing nested header")
	}

	payload := make([]byte, header.CompressedPageSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, 0, wrapCorrupt(err, "dictionary page: payload")
	}
	if header.CRC != nil {
		if err := ValidateCRC(payload, *header.CRC); err != nil {
			return nil, 0, err
		}
	}

	dec, err := lookupDecompressor(decompressors, meta.Codec)
	if err != nil {
		return nil, 0, err
	}
	plain, err := dec.Decompress(payload, int(header.UncompressedPageSize))
	if err != nil {
		return nil, 0, wrapCorrupt(err, "dictionary page: decompress")
	}

	dict, err := ParseDictionary(plain, int(header.DictionaryPageHeader.NumValues), col.PhysicalType, col.TypeLength)
	if err != nil {
		return nil, 0, err
	}
	return dict, start - r.Len(), nil
}

func skipN(r *bytes.Reader, n int) error {
	if n < 0 {
		return corruptf("skip: negative length %d", n)
	}
	_, err := r.Seek(int64(n), io.SeekCurrent)
	return err
}
