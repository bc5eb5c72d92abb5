package parquet

// Nested-mode batch loading (spec §4.6's "batch loading in nested mode joins one decode
// future per column"): unlike the flat Assembly Buffer, nested assembly needs every
// projected column's rep/def/value streams cut at the same record boundary before a
// batch can be handed to the Record Assembler, so there is no per-column producer
// goroutine here — one nestedColumnAccumulator per column pulls pages from its own
// PageCursor on demand, and NestedBatchLoader aligns them all to a shared record count.

// NestedColumnBatch is one projected column's slice of a nested batch: rep/def streams
// and the matching values, holes included, spanning exactly RecordCount records.
type NestedColumnBatch struct {
	Column *Column
	Rep    []uint16
	Def    []uint16
	Values []Value
}

// NestedBatch is one lock-stepped batch across every projected column, ready for
// Assembler.Assemble (spec §4.5).
type NestedBatch struct {
	Columns     []*NestedColumnBatch
	RecordCount int
}

type nestedColumnAccumulator struct {
	col    *Column
	cursor *PageCursor
	rep    []uint16
	def    []uint16
	values []Value
	done   bool
}

func newNestedColumnAccumulator(col *Column, cursor *PageCursor) *nestedColumnAccumulator {
	return &nestedColumnAccumulator{col: col, cursor: cursor}
}

func (a *nestedColumnAccumulator) recordsAvailable() int {
	return countZeroRep(a.rep)
}

// fillTo pulls decoded pages until at least n whole records are buffered or the
// underlying cursor is exhausted.
func (a *nestedColumnAccumulator) fillTo(n int) error {
	// The n-th record is whole only once the (n+1)-th record has started (or the
	// cursor is exhausted), so keep pulling while at most n record starts are buffered.
	for !a.done && a.recordsAvailable() <= n {
		page, err := a.cursor.NextPage()
		if err != nil {
			return wrapCorrupt(err, "nested batch: column %s", a.col.FlatName)
		}
		if page == nil {
			a.done = true
			break
		}
		a.rep = append(a.rep, page.Rep...)
		a.def = append(a.def, page.Def...)
		a.values = append(a.values, page.Values...)
	}
	return nil
}

// take removes and returns exactly n records' worth of data from the front of the
// accumulator, leaving any remainder buffered for the next batch.
func (a *nestedColumnAccumulator) take(n int) (rep, def []uint16, values []Value) {
	if n == 0 {
		return nil, nil, nil
	}
	cut := nthRecordBoundary(a.rep, n)
	rep, def, values = a.rep[:cut], a.def[:cut], a.values[:cut]
	a.rep, a.def, a.values = a.rep[cut:], a.def[cut:], a.values[cut:]
	return
}

// nthRecordBoundary returns the index just past the n-th complete record in rep (the
// position of the (n+1)-th rep==0 entry), or len(rep) if it holds exactly n records.
func nthRecordBoundary(rep []uint16, n int) int {
	seen := 0
	for i, v := range rep {
		if v == 0 {
			if seen == n {
				return i
			}
			seen++
		}
	}
	return len(rep)
}

// NestedBatchLoader implements spec §4.6's nested-mode batch assembly: it keeps every
// projected column's accumulator topped up and hands back batches whose record count is
// the minimum any one column could supply, so a column running out of pages first
// defines the final, possibly-partial batch for all of them.
type NestedBatchLoader struct {
	accs     []*nestedColumnAccumulator
	capacity int
}

// NewNestedBatchLoader builds a loader over one accumulator per projected column, each
// wrapping its own PageCursor, batching up to capacity records at a time.
func NewNestedBatchLoader(cols []*Column, cursors []*PageCursor, capacity int) *NestedBatchLoader {
	accs := make([]*nestedColumnAccumulator, len(cols))
	for i, c := range cols {
		accs[i] = newNestedColumnAccumulator(c, cursors[i])
	}
	return &NestedBatchLoader{accs: accs, capacity: capacity}
}

// LoadNext returns the next lock-stepped batch, or (nil, nil) once every column is
// exhausted.
func (l *NestedBatchLoader) LoadNext() (*NestedBatch, error) {
	for _, a := range l.accs {
		if err := a.fillTo(l.capacity); err != nil {
			return nil, err
		}
	}
	recordCount := l.capacity
	for _, a := range l.accs {
		if n := a.recordsAvailable(); n < recordCount {
			recordCount = n
		}
	}
	if recordCount == 0 {
		return nil, nil
	}

	cols := make([]*NestedColumnBatch, len(l.accs))
	for i, a := range l.accs {
		rep, def, values := a.take(recordCount)
		cols[i] = &NestedColumnBatch{Column: a.col, Rep: rep, Def: def, Values: values}
	}
	return &NestedBatch{Columns: cols, RecordCount: recordCount}, nil
}

// Close releases every column's cursor.
func (l *NestedBatchLoader) Close() {
	for _, a := range l.accs {
		a.cursor.Close()
	}
}
