package parquet

// File-level driver (spec §6): the consumer-facing entry point tying metadata, a
// read-only byte mapping, an executor and a decompressor table together into row
// readers. Drives the scanner/cursor/assembly pipeline built in
// scanner.go/cursor.go/assembly.go/assembler.go against an io.ReaderAt so concurrent
// page decode (spec §5) can issue overlapping random reads against one memory-mapped
// file.

import "io"

const defaultBatchCapacity = 1024

// FileHandle is the open file's handle (spec §6's FileHandle).
type FileHandle struct {
	schema        *Schema
	rowGroups     []*RowGroup
	mapping       io.ReaderAt
	executor      Executor
	decompressors map[CompressionCodec]Decompressor
	logger        Logger
	batchCapacity int
	prefetchInit  int
	prefetchMax   int
	fileName      string
}

// Open implements spec §6's `open(metadata, mapping, executor, decompressors) ->
// FileHandle`. metadata is the already-parsed footer — turning footer bytes into a
// *FileMetaData is an external collaborator's job (spec §1, out of scope). mapping is a
// read-only random-access view of the file (a memory map, or any io.ReaderAt). opts tune
// the ambient stack (SPEC_FULL.md §1.3); WithExecutor and WithDecompressors let the host
// substitute the ones spec §6 says it's expected to supply, instead of the defaults.
func Open(metadata *FileMetaData, mapping io.ReaderAt, opts ...OpenOption) (*FileHandle, error) {
	if metadata == nil {
		return nil, corruptf("open: nil metadata")
	}
	schema, err := BuildSchema(metadata.Schema)
	if err != nil {
		return nil, err
	}
	h := &FileHandle{
		schema:        schema,
		rowGroups:     metadata.RowGroups,
		mapping:       mapping,
		executor:      NewPoolExecutor(4),
		logger:        nopLogger{},
		batchCapacity: defaultBatchCapacity,
		prefetchInit:  prefetchInitialDepth,
		prefetchMax:   prefetchMaxDepth,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Schema exposes the parsed schema tree for callers that want to inspect it before
// building a projection.
func (h *FileHandle) Schema() *Schema { return h.schema }

// CreateRowReader implements spec §6's `FileHandle::create_row_reader(projection?) ->
// RowReader`. A nil projection selects every column. The concrete reader variant (flat
// or nested) is chosen per spec §4.6 from the projected columns' own shape, not the
// whole file's schema, so projecting away every repeated/nested column still yields a
// FlatRowReader.
func (h *FileHandle) CreateRowReader(projection []string) (RowReader, error) {
	cols := h.projectedColumns(projection)
	if len(cols) == 0 {
		return nil, schemaf("create row reader: projection %v selects no column", projection)
	}

	cursors := make([]*PageCursor, len(cols))
	for i, col := range cols {
		pages, err := h.scanColumn(col)
		if err != nil {
			return nil, err
		}
		cursors[i] = NewPageCursorWithDepth(pages, NewDecoder(h.decompressors, h.logger), h.executor, h.logger, col.FlatName, h.prefetchInit, h.prefetchMax)
	}

	if isFlatProjection(cols) {
		return newFlatRowReader(cols, cursors, h.batchCapacity), nil
	}
	assembler, err := NewAssembler(h.schema, cols)
	if err != nil {
		return nil, err
	}
	loader := NewNestedBatchLoader(cols, cursors, h.batchCapacity)
	return newNestedRowReader(h.schema, cols, assembler, loader), nil
}

func (h *FileHandle) projectedColumns(projection []string) []*Column {
	if projection == nil {
		return h.schema.Columns
	}
	var out []*Column
	for _, c := range h.schema.Columns {
		if ProjectedName(c.FlatName, projection) {
			out = append(out, c)
		}
	}
	return out
}

// scanColumn concatenates one column's pages across every row group, in file order, so
// a single PageCursor can prefetch across row-group boundaries (spec §5's "pages are
// emitted in file order per column" makes no exception for row groups).
func (h *FileHandle) scanColumn(col *Column) ([]*PageInfo, error) {
	var pages []*PageInfo
	for rgIdx, rg := range h.rowGroups {
		if col.Index >= len(rg.Columns) {
			return nil, corruptf("scan column: row group has %d columns, column %s needs index %d", len(rg.Columns), col.FlatName, col.Index)
		}
		meta := rg.Columns[col.Index].MetaData
		chunk, offset, ferr := readColumnChunkBytes(h.mapping, meta)
		if ferr != nil {
			return nil, ferr.WithColumn(col.FlatName).WithFile(h.fileName)
		}
		chunkPages, err := ScanColumnChunk(chunk, offset, col, meta, h.decompressors, h.fileName, rgIdx, h.logger)
		if err != nil {
			return nil, err
		}
		pages = append(pages, chunkPages...)
	}
	return pages, nil
}

func readColumnChunkBytes(mapping io.ReaderAt, meta *ColumnMetaData) ([]byte, int64, *Error) {
	start := meta.DataPageOffset
	if meta.DictionaryPageOffset != nil && *meta.DictionaryPageOffset < start {
		start = *meta.DictionaryPageOffset
	}
	buf := make([]byte, meta.TotalCompressedSize)
	n, err := mapping.ReadAt(buf, start)
	if n != len(buf) {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, 0, wrapCorrupt(err, "read column chunk at offset %d", start)
	}
	return buf, start, nil
}

// isFlatProjection reports whether every projected column sits directly under the root
// with no repetition anywhere along its path — spec §4.6's flat/nested split.
func isFlatProjection(cols []*Column) bool {
	for _, c := range cols {
		if c.MaxRepetitionLevel > 0 || c.Node.Parent == nil || c.Node.Parent.Parent != nil {
			return false
		}
	}
	return true
}
