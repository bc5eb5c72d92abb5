package parquet

// Typed accessors (spec §6's "typed scalar and nested views over a row") layered on top
// of the flat Value tagged union and the nested Record tree. Each scalar accessor
// returns a Type error on a physical-type mismatch and a NullAccess error when asked
// for a value that is actually absent, rather than silently returning a zero value.

// AsBool returns v's boolean payload, or a Type error if v is not a TypeBoolean value.
func (v Value) AsBool() (bool, error) {
	if v.Kind != TypeBoolean {
		return false, typef("value accessor: expected %s, got %s", TypeBoolean, v.Kind)
	}
	return v.Bool, nil
}

func (v Value) AsInt32() (int32, error) {
	if v.Kind != TypeInt32 {
		return 0, typef("value accessor: expected %s, got %s", TypeInt32, v.Kind)
	}
	return v.Int32, nil
}

func (v Value) AsInt64() (int64, error) {
	if v.Kind != TypeInt64 {
		return 0, typef("value accessor: expected %s, got %s", TypeInt64, v.Kind)
	}
	return v.Int64, nil
}

func (v Value) AsFloat32() (float32, error) {
	if v.Kind != TypeFloat {
		return 0, typef("value accessor: expected %s, got %s", TypeFloat, v.Kind)
	}
	return v.Float32, nil
}

func (v Value) AsFloat64() (float64, error) {
	if v.Kind != TypeDouble {
		return 0, typef("value accessor: expected %s, got %s", TypeDouble, v.Kind)
	}
	return v.Float64, nil
}

func (v Value) AsBytes() ([]byte, error) {
	if v.Kind != TypeByteArray && v.Kind != TypeFixedLenByteArray {
		return nil, typef("value accessor: expected a byte array, got %s", v.Kind)
	}
	return v.Bytes, nil
}

func (v Value) AsInt96() ([12]byte, error) {
	if v.Kind != TypeInt96 {
		return [12]byte{}, typef("value accessor: expected %s, got %s", TypeInt96, v.Kind)
	}
	return v.Int96, nil
}

// Record-level scalar accessors: each requires the receiver to be a defined RecordLeaf,
// raising a NullAccess error for a null receiver and a Type error for any other non-leaf,
// then defers to the matching Value accessor above.

func (r *Record) requireLeaf() (Value, error) {
	if r == nil || r.IsNull() {
		return Value{}, nullAccessf("record accessor: value is null")
	}
	if r.Kind != RecordLeaf || !r.Defined {
		return Value{}, typef("record accessor: expected a leaf value, got %s", r.Kind)
	}
	return r.Leaf, nil
}

func (r *Record) Bool() (bool, error) {
	v, err := r.requireLeaf()
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

func (r *Record) Int32() (int32, error) {
	v, err := r.requireLeaf()
	if err != nil {
		return 0, err
	}
	return v.AsInt32()
}

func (r *Record) Int64() (int64, error) {
	v, err := r.requireLeaf()
	if err != nil {
		return 0, err
	}
	return v.AsInt64()
}

func (r *Record) Float32() (float32, error) {
	v, err := r.requireLeaf()
	if err != nil {
		return 0, err
	}
	return v.AsFloat32()
}

func (r *Record) Float64() (float64, error) {
	v, err := r.requireLeaf()
	if err != nil {
		return 0, err
	}
	return v.AsFloat64()
}

func (r *Record) Bytes() ([]byte, error) {
	v, err := r.requireLeaf()
	if err != nil {
		return nil, err
	}
	return v.AsBytes()
}

// Struct returns r's named field view, requiring r itself to be a RecordStruct.
func (r *Record) Struct(node *Node, name string) *Record {
	if r == nil || r.Kind != RecordStruct {
		return nullRecord()
	}
	for _, child := range node.Children {
		if child.Name == name {
			return r.Field(child.FieldIndex)
		}
	}
	return nullRecord()
}

// List requires r to be a RecordList and returns its elements. A null list yields a
// NullAccess error; an empty list yields zero elements (possibly a nil slice) and no
// error.
func (r *Record) List() ([]*Record, error) {
	if r == nil || r.IsNull() {
		return nil, nullAccessf("record accessor: list is null")
	}
	if r.Kind != RecordList {
		return nil, typef("record accessor: expected a list, got %s", r.Kind)
	}
	return r.Elements, nil
}

// Map requires r to be a RecordMap (or null) and returns its entries.
func (r *Record) Map() ([]MapEntry, error) {
	if r == nil || r.IsNull() {
		return nil, nullAccessf("record accessor: map is null")
	}
	if r.Kind != RecordMap {
		return nil, typef("record accessor: expected a map, got %s", r.Kind)
	}
	return r.Entries(), nil
}
