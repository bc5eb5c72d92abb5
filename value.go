package parquet

// Value is the tagged union spec §9 calls for in place of per-physical-type class
// hierarchies: decoders specialize on Kind, and a Page's Values slice is one flat array
// of these regardless of which physical type produced them.
type Value struct {
	Kind    PhysicalType
	Bool    bool
	Int32   int32
	Int64   int64
	Int96   [12]byte
	Float32 float32
	Float64 float64
	Bytes   []byte // byte_array and fixed_len_byte_array
}

func boolValue(b bool) Value          { return Value{Kind: TypeBoolean, Bool: b} }
func int32Value(v int32) Value        { return Value{Kind: TypeInt32, Int32: v} }
func int64Value(v int64) Value        { return Value{Kind: TypeInt64, Int64: v} }
func floatValue(v float32) Value      { return Value{Kind: TypeFloat, Float32: v} }
func doubleValue(v float64) Value     { return Value{Kind: TypeDouble, Float64: v} }
func byteArrayValue(b []byte) Value   { return Value{Kind: TypeByteArray, Bytes: b} }
func int96Value(b [12]byte) Value     { return Value{Kind: TypeInt96, Int96: b} }
