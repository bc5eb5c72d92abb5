package parquet

// Record Assembler (spec §4.5): rebuilds nested records from independent per-column
// rep/def/value streams. Ported conceptually from the Java original's
// RecordAssembler.java (see DESIGN.md) — each column is walked independently against a
// shared idx[0..=max_rep_level] index vector, addressing the same structural positions
// in the output tree that a sibling column addressed, because Dremel striping guarantees
// every leaf under a shared ancestor agrees on that ancestor's own definition level.

// Assembler rebuilds one batch of Records from a NestedBatch (spec §4.5).
type Assembler struct {
	schema *Schema
	paths  []*FieldPath
}

// NewAssembler builds an assembler for the given projected leaf columns, in the exact
// order their NestedColumnBatch data will arrive in.
func NewAssembler(schema *Schema, leafColumns []*Column) (*Assembler, error) {
	paths := make([]*FieldPath, len(leafColumns))
	for i, c := range leafColumns {
		if c.Index < 0 || c.Index >= len(schema.FieldPaths) {
			return nil, schemaf("record assembler: column %s has no field path", c.FlatName)
		}
		paths[i] = schema.FieldPaths[c.Index]
	}
	return &Assembler{schema: schema, paths: paths}, nil
}

// Assemble consumes one NestedBatch — whose Columns must align 1:1 with the assembler's
// projected leaf columns — and returns one Record per row.
func (a *Assembler) Assemble(batch *NestedBatch) ([]*Record, error) {
	if len(batch.Columns) != len(a.paths) {
		return nil, corruptf("record assembler: batch has %d columns, assembler expects %d", len(batch.Columns), len(a.paths))
	}
	records := make([]*Record, batch.RecordCount)
	for i := range records {
		records[i] = &Record{Kind: RecordStruct}
	}
	for i, cb := range batch.Columns {
		if err := insertColumn(records, a.paths[i], cb); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func kindFor(step PathStep) RecordKind {
	switch {
	case step.IsMap:
		return RecordMap
	case step.IsList:
		return RecordList
	default:
		return RecordStruct
	}
}

func ensureChildSlots(rec *Record, n int) {
	for len(rec.Children) < n {
		rec.Children = append(rec.Children, nil)
	}
}

// descendChild returns parent's existing child at fieldIndex, creating one of kind if
// absent. A parent still carrying the RecordNull placeholder default is promoted to
// RecordStruct on first real use.
func descendChild(parent *Record, fieldIndex int, kind RecordKind) *Record {
	if parent.Kind == RecordNull {
		parent.Kind = RecordStruct
	}
	ensureChildSlots(parent, fieldIndex+1)
	if parent.Children[fieldIndex] == nil {
		parent.Children[fieldIndex] = &Record{Kind: kind}
	}
	return parent.Children[fieldIndex]
}

func setChild(parent *Record, fieldIndex int, child *Record) {
	if parent.Kind == RecordNull {
		parent.Kind = RecordStruct
	}
	ensureChildSlots(parent, fieldIndex+1)
	parent.Children[fieldIndex] = child
}

func setChildNullIfUnset(parent *Record, fieldIndex int) {
	if parent.Kind == RecordNull {
		parent.Kind = RecordStruct
	}
	ensureChildSlots(parent, fieldIndex+1)
	if parent.Children[fieldIndex] == nil {
		parent.Children[fieldIndex] = nullRecord()
	}
}

func ensureElementsLen(rec *Record, n int) {
	for len(rec.Elements) < n {
		rec.Elements = append(rec.Elements, nullRecord())
	}
}

func ensureKindIfUnset(rec *Record, kind RecordKind) {
	if rec.Kind == RecordNull {
		rec.Kind = kind
	}
}

// insertColumn implements spec §4.5's independent per-column insertion algorithm for
// one leaf column's rep/def/value triples.
func insertColumn(records []*Record, path *FieldPath, cb *NestedColumnBatch) error {
	maxRep := path.MaxRepLevel
	idx := make([]int, maxRep+1)
	rowIdx := -1
	containerSteps := path.Steps[:len(path.Steps)-1]
	leafStep := path.Steps[len(path.Steps)-1]

	n := len(cb.Rep)
	if len(cb.Def) != n || len(cb.Values) != n {
		return corruptf("record assembler: column %s level/value length mismatch", cb.Column.FlatName)
	}

	for i := 0; i < n; i++ {
		r := int(cb.Rep[i])
		d := int(cb.Def[i])
		if r > maxRep || d > path.MaxDefLevel {
			return corruptf("record assembler: column %s level exceeds declared maximum (r=%d d=%d)", cb.Column.FlatName, r, d)
		}

		// Rule 1: reset idx below the restarted level, or start a new record at r==0.
		for k := r + 1; k <= maxRep; k++ {
			idx[k] = 0
		}
		if r == 0 {
			rowIdx++
			if rowIdx >= len(records) {
				return corruptf("record assembler: column %s yields more records than the batch's record count", cb.Column.FlatName)
			}
		} else {
			idx[r]++
		}

		cur := records[rowIdx]
		repLevel := 0
		// transparent is true when cur is itself the unnamed content of the last
		// repeated step walked (a 3-level list's synthetic element, i.e. the sole child of
		// a SingleChild repeated group) rather than a struct/map pair whose fields are
		// addressed by a real field index.
		transparent := false
		structuralNull := false

		for _, step := range containerSteps {
			if d < step.DefinitionLevel {
				if !step.IsRepeated && !transparent {
					setChildNullIfUnset(cur, step.FieldIndex)
				}
				structuralNull = true
				break
			}

			if step.IsRepeated {
				if cur.Kind != RecordList && cur.Kind != RecordMap {
					cur = descendChild(cur, step.FieldIndex, RecordList)
				}
				repLevel++
				ensureElementsLen(cur, idx[repLevel]+1)
				cur = cur.Elements[idx[repLevel]]
				transparent = step.SingleChild
				continue
			}

			if transparent {
				ensureKindIfUnset(cur, kindFor(step))
			} else {
				cur = descendChild(cur, step.FieldIndex, kindFor(step))
			}
			transparent = false
		}

		if structuralNull {
			continue
		}

		v := cb.Values[i]
		present := d == path.MaxDefLevel

		switch {
		case leafStep.IsRepeated:
			// Bare `repeated <primitive>`, no wrapper group at all.
			if cur.Kind != RecordList {
				cur = descendChild(cur, leafStep.FieldIndex, RecordList)
			}
			repLevel++
			ensureElementsLen(cur, idx[repLevel]+1)
			if present {
				cur.Elements[idx[repLevel]] = leafRecord(v)
			} else {
				cur.Elements[idx[repLevel]] = nullRecord()
			}
		case transparent:
			if present {
				cur.Kind, cur.Leaf, cur.Defined = RecordLeaf, v, true
			} else {
				cur.Kind = RecordNull
			}
		default:
			if present {
				setChild(cur, leafStep.FieldIndex, leafRecord(v))
			} else {
				setChildNullIfUnset(cur, leafStep.FieldIndex)
			}
		}
	}

	if rowIdx != len(records)-1 {
		return corruptf("record assembler: column %s produced %d records, batch expects %d", cb.Column.FlatName, rowIdx+1, len(records))
	}
	return nil
}
