package parquet

// The types in this file are the external contract of spec §3/§6: a file-footer parser
// (out of scope per spec §1) is expected to hand the reader a *FileMetaData built this
// way. Nothing in this package parses the compact-encoded footer itself; SchemaElement's
// shape below mirrors the standard Parquet thrift IDL model.

// SchemaElement is one node of the flattened, depth-first schema tree as stored in the
// file footer (group nodes have Type == nil).
type SchemaElement struct {
	Type           *PhysicalType
	TypeLength     *int32
	RepetitionType *Repetition
	Name           string
	NumChildren    *int32
	LogicalType    *LogicalType
	Scale          *int32
	Precision      *int32
	FieldID        *int32
}

// LogicalType annotates a primitive or group node with the domain-level interpretation
// the external converter (spec §1, out of scope) uses; the reader only needs to recognize
// LIST and MAP so it can assign the right container semantics to a group node.
type LogicalType struct {
	Name string // e.g. "LIST", "MAP", "STRING", "TIMESTAMP", "DECIMAL", ...
}

// FileMetaData is the fully-parsed footer (spec §3 "File metadata").
type FileMetaData struct {
	Version   int32
	Schema    []*SchemaElement
	NumRows   int64
	RowGroups []*RowGroup
}

// RowGroup is a horizontal partition of the file (Glossary).
type RowGroup struct {
	Columns       []*ColumnChunk
	TotalByteSize int64
	NumRows       int64
}

// ColumnChunk is one column's data within one row group (Glossary).
type ColumnChunk struct {
	MetaData *ColumnMetaData
}

// ColumnMetaData carries the byte-range and encoding facts the Page Scanner needs.
type ColumnMetaData struct {
	Type                 PhysicalType
	Encodings            []Encoding
	PathInSchema         []string
	Codec                CompressionCodec
	NumValues            int64
	TotalUncompressedSize int64
	TotalCompressedSize   int64
	DataPageOffset        int64
	DictionaryPageOffset  *int64
	PageCRCEnabled        bool
}
