package parquet

// Row Reader (spec §4.6): the consumer-facing iterator over a projection, in either flat
// or nested mode, split into two concrete types because flat and nested projections hand
// back structurally different row shapes (spec §4.6's own split).

import "io"

// RowReader is the common lifecycle every CreateRowReader result satisfies.
type RowReader interface {
	// Next advances to the next row, loading further batches as needed. Returns io.EOF
	// once every projected column is exhausted.
	Next() error
	// Stats reports each projected column's adaptive-prefetch statistics
	// (SPEC_FULL.md §3), keyed by flat column name.
	Stats() map[string]PrefetchStats
	Close() error
}

// FlatRowReader implements spec §4.6's flat mode: every projected column sits directly
// under the root with no repetition, so each row is one value (or null) per column.
type FlatRowReader struct {
	cols    []*Column
	byName  map[string]int
	buffers []*AssemblyBuffer
	batches []*FlatBatch
	pos     int
	closed  bool
	err     error
}

func newFlatRowReader(cols []*Column, cursors []*PageCursor, batchCapacity int) *FlatRowReader {
	buffers := make([]*AssemblyBuffer, len(cols))
	byName := make(map[string]int, len(cols))
	for i, c := range cols {
		buffers[i] = NewAssemblyBuffer(c, cursors[i], batchCapacity)
		byName[c.FlatName] = i
	}
	return &FlatRowReader{
		cols:    cols,
		byName:  byName,
		buffers: buffers,
		batches: make([]*FlatBatch, len(cols)),
		pos:     -1,
	}
}

func (f *FlatRowReader) currentBatchRows() int {
	if f.batches[0] == nil {
		return 0
	}
	return f.batches[0].NumRows
}

// Next implements RowReader.Next; every buffer's batch is refilled together, since a
// valid file gives every flat column the same total row count. Per spec §7's "on any
// terminal error the row reader must be rendered unusable", the first non-nil result is
// latched and replayed verbatim on every subsequent call.
func (f *FlatRowReader) Next() error {
	if f.err != nil {
		return f.err
	}
	err := f.next()
	if err != nil {
		f.err = err
	}
	return err
}

func (f *FlatRowReader) next() error {
	if f.pos+1 < f.currentBatchRows() {
		f.pos++
		return nil
	}
	for i, b := range f.buffers {
		nb, err := b.AwaitNextBatch(f.batches[i])
		if err != nil {
			return err
		}
		if nb == nil {
			if i == 0 {
				return io.EOF
			}
			return corruptf("flat row reader: column %s ended before column %s", f.cols[i].FlatName, f.cols[0].FlatName)
		}
		if i > 0 && nb.NumRows != f.batches[0].NumRows {
			return corruptf("flat row reader: column %s batch has %d rows, column %s has %d", f.cols[i].FlatName, nb.NumRows, f.cols[0].FlatName, f.batches[0].NumRows)
		}
		f.batches[i] = nb
	}
	f.pos = 0
	return nil
}

// Value returns the current row's value for the named projected column, and whether it
// is present (false for a null optional field).
func (f *FlatRowReader) Value(name string) (Value, bool, error) {
	i, ok := f.byName[name]
	if !ok {
		return Value{}, false, schemaf("flat row reader: column %q is not projected", name)
	}
	b := f.batches[i]
	if b == nil {
		return Value{}, false, corruptf("flat row reader: Next was not called")
	}
	if b.Nulls != nil && !b.Nulls.IsSet(f.pos) {
		return Value{}, false, nil
	}
	return b.Values[f.pos], true, nil
}

// Columns lists the projected columns in their fixed positional order.
func (f *FlatRowReader) Columns() []*Column { return f.cols }

func (f *FlatRowReader) Stats() map[string]PrefetchStats {
	out := make(map[string]PrefetchStats, len(f.cols))
	for i, c := range f.cols {
		out[c.FlatName] = f.buffers[i].cursor.Stats()
	}
	return out
}

func (f *FlatRowReader) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	for _, b := range f.buffers {
		b.Close()
	}
	return nil
}

// NestedRowReader implements spec §4.6's nested mode: rows are materialized Record trees
// rebuilt by the Record Assembler from lock-stepped batches.
type NestedRowReader struct {
	schema    *Schema
	cols      []*Column
	assembler *Assembler
	loader    *NestedBatchLoader
	records   []*Record
	pos       int
	closed    bool
	err       error
}

func newNestedRowReader(schema *Schema, cols []*Column, assembler *Assembler, loader *NestedBatchLoader) *NestedRowReader {
	return &NestedRowReader{schema: schema, cols: cols, assembler: assembler, loader: loader, pos: -1}
}

// Next implements RowReader.Next. Per spec §7's "on any terminal error the row reader
// must be rendered unusable", the first non-nil result is latched and replayed verbatim
// on every subsequent call.
func (n *NestedRowReader) Next() error {
	if n.err != nil {
		return n.err
	}
	err := n.next()
	if err != nil {
		n.err = err
	}
	return err
}

func (n *NestedRowReader) next() error {
	if n.pos+1 < len(n.records) {
		n.pos++
		return nil
	}
	batch, err := n.loader.LoadNext()
	if err != nil {
		return err
	}
	if batch == nil {
		return io.EOF
	}
	records, err := n.assembler.Assemble(batch)
	if err != nil {
		return err
	}
	n.records = records
	n.pos = 0
	return nil
}

// Row returns the current row's root Record (always RecordStruct).
func (n *NestedRowReader) Row() *Record {
	if n.pos < 0 || n.pos >= len(n.records) {
		return nullRecord()
	}
	return n.records[n.pos]
}

// Field returns the current row's top-level field by its schema name.
func (n *NestedRowReader) Field(name string) *Record {
	for _, child := range n.schema.Root.Children {
		if child.Name == name {
			return n.Row().Field(child.FieldIndex)
		}
	}
	return nullRecord()
}

func (n *NestedRowReader) Stats() map[string]PrefetchStats {
	out := make(map[string]PrefetchStats, len(n.cols))
	for i, c := range n.cols {
		out[c.FlatName] = n.loader.accs[i].cursor.Stats()
	}
	return out
}

func (n *NestedRowReader) Close() error {
	if n.closed {
		return nil
	}
	n.closed = true
	n.loader.Close()
	return nil
}
