package parquet

// Bitset is a compact presence bitset used by the flat-column assembly buffer (spec §4.4)
// to mark which rows are non-null without allocating a bool per row.
type Bitset struct {
	bits []uint64
	n    int
}

// NewBitset allocates a bitset over n positions, all initially clear.
func NewBitset(n int) *Bitset {
	return &Bitset{bits: make([]uint64, (n+63)/64), n: n}
}

// Set marks position i present.
func (b *Bitset) Set(i int) { b.bits[i/64] |= 1 << uint(i%64) }

// Clear1 marks position i absent (null).
func (b *Bitset) Clear1(i int) { b.bits[i/64] &^= 1 << uint(i%64) }

// IsSet reports whether position i is present.
func (b *Bitset) IsSet(i int) bool { return b.bits[i/64]&(1<<uint(i%64)) != 0 }

// Len reports the bitset's logical size.
func (b *Bitset) Len() int { return b.n }

// Clear resets every position to absent, for pool reuse.
func (b *Bitset) Clear() {
	for i := range b.bits {
		b.bits[i] = 0
	}
}
