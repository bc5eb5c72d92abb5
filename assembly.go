package parquet

// Assembly Buffer (spec §4.4, flat columns only): a bounded single-producer/single-
// consumer pipeline where a dedicated goroutine pulls decoded pages from the column's
// PageCursor and copies their values into a pre-allocated array, publishing it once full
// (or once the column is exhausted). Ported in spirit from the Java original's
// PageCursor.java-adjacent ColumnAssemblyBuffer (see DESIGN.md): bounded ready queue
// (capacity 2) plus a reusable array pool (capacity 3) so steady-state operation
// allocates nothing per batch.

import "sync"

type flatArray struct {
	values []Value
	nulls  *Bitset
	n      int
}

func newFlatArray(capacity int, nullable bool) *flatArray {
	a := &flatArray{values: make([]Value, capacity)}
	if nullable {
		a.nulls = NewBitset(capacity)
	}
	return a
}

func (a *flatArray) reset() {
	a.n = 0
	if a.nulls != nil {
		a.nulls.Clear()
	}
}

// FlatBatch is the flat-column batch shape of spec §3: one value per row plus an optional
// null bitset (nil for required columns, which can never carry a hole).
type FlatBatch struct {
	Column  *Column
	Values  []Value
	Nulls   *Bitset
	NumRows int

	arr *flatArray
}

// AssemblyBuffer implements spec §4.4 for one projected flat column.
type AssemblyBuffer struct {
	column   *Column
	cursor   *PageCursor
	capacity int
	nullable bool

	ready chan *flatArray
	pool  chan *flatArray

	mu   sync.Mutex
	err  error
	cur  *flatArray

	stopped chan struct{}
	once    sync.Once
}

// NewAssemblyBuffer wires a dedicated producer goroutine over cursor, batching into
// arrays of batchCapacity records (spec §4.4: ready queue capacity 2, array pool
// capacity 3).
func NewAssemblyBuffer(column *Column, cursor *PageCursor, batchCapacity int) *AssemblyBuffer {
	nullable := column.MaxDefinitionLevel > 0
	b := &AssemblyBuffer{
		column:   column,
		cursor:   cursor,
		capacity: batchCapacity,
		nullable: nullable,
		ready:    make(chan *flatArray, 2),
		pool:     make(chan *flatArray, 3),
		stopped:  make(chan struct{}),
	}
	for i := 0; i < 3; i++ {
		b.pool <- newFlatArray(batchCapacity, nullable)
	}
	b.cur = <-b.pool
	go b.produce()
	return b
}

func (b *AssemblyBuffer) produce() {
	for {
		page, err := b.cursor.NextPage()
		if err != nil {
			b.setErr(err)
			return
		}
		if page == nil {
			b.publishPartial()
			close(b.ready)
			return
		}
		if err := b.appendPage(page); err != nil {
			b.setErr(err)
			return
		}
	}
}

// appendPage copies a decoded page's values into the currently-filling array, building
// the null bitset incrementally as pages arrive (spec §4.4: "built as pages are copied,
// to avoid a second pass"), publishing the array once it reaches capacity records.
func (b *AssemblyBuffer) appendPage(page *Page) error {
	for i := 0; i < page.NumValues(); i++ {
		present := page.PresentAt(i)
		if b.nullable {
			if present {
				b.cur.nulls.Set(b.cur.n)
			} else {
				b.cur.nulls.Clear1(b.cur.n)
			}
		} else if !present {
			return corruptf("assembly buffer: column %s is required but page carries a null", b.column.FlatName)
		}
		if present {
			b.cur.values[b.cur.n] = page.Values[i]
		}
		b.cur.n++
		if b.cur.n == b.capacity {
			select {
			case b.ready <- b.cur:
			case <-b.stopped:
				return nil
			}
			select {
			case next := <-b.pool:
				next.reset()
				b.cur = next
			case <-b.stopped:
				return nil
			}
		}
	}
	return nil
}

func (b *AssemblyBuffer) publishPartial() {
	if b.cur.n == 0 {
		return
	}
	select {
	case b.ready <- b.cur:
	case <-b.stopped:
	}
}

func (b *AssemblyBuffer) setErr(err error) {
	b.mu.Lock()
	b.err = err
	b.mu.Unlock()
	close(b.ready)
}

// AwaitNextBatch implements spec §4.4's consumer protocol: returns prev's array to the
// pool, then blocks for the next ready batch. Returns (nil, nil) at a clean end of
// stream, or the producer's latched error if it failed.
func (b *AssemblyBuffer) AwaitNextBatch(prev *FlatBatch) (*FlatBatch, error) {
	if prev != nil && prev.arr != nil {
		b.pool <- prev.arr
	}
	arr, ok := <-b.ready
	if !ok {
		b.mu.Lock()
		err := b.err
		b.mu.Unlock()
		return nil, err
	}
	return &FlatBatch{
		Column:  b.column,
		Values:  arr.values[:arr.n],
		Nulls:   arr.nulls,
		NumRows: arr.n,
		arr:     arr,
	}, nil
}

// Close stops the producer goroutine and releases the underlying cursor.
func (b *AssemblyBuffer) Close() {
	b.once.Do(func() { close(b.stopped) })
	b.cursor.Close()
}
