package wire

// FieldType identifies the on-the-wire type of a field (uint8 for memory alignment and performance).
type FieldType uint8

const (
	TypeUnknown FieldType = iota
	TypeBool
	TypeChar
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUInt8
	TypeUInt16
	TypeUInt32
	TypeUInt64
	TypeFloat32
	TypeFloat64
	TypeReal // fixed-point mantissa + scale hint
	TypeDateTime
	TypeString
	TypeBuffer
	TypeEnum
	TypeMessage // nested sub-message
	TypeVectorString
	TypeVectorInt32
	TypeVectorMessage // composite vector, not decodable

	typeCount
)

var typeNames = [typeCount]string{
	TypeUnknown:       "unknown",
	TypeBool:          "bool",
	TypeChar:          "char",
	TypeInt8:          "i8",
	TypeInt16:         "i16",
	TypeInt32:         "i32",
	TypeInt64:         "i64",
	TypeUInt8:         "u8",
	TypeUInt16:        "u16",
	TypeUInt32:        "u32",
	TypeUInt64:        "u64",
	TypeFloat32:       "f32",
	TypeFloat64:       "f64",
	TypeReal:          "real",
	TypeDateTime:      "datetime",
	TypeString:        "string",
	TypeBuffer:        "buffer",
	TypeEnum:          "enum",
	TypeMessage:       "message",
	TypeVectorString:  "vector_string",
	TypeVectorInt32:   "vector_i32",
	TypeVectorMessage: "vector_message",
}

func (t FieldType) String() string {
	if t < typeCount {
		return typeNames[t]
	}
	return "unknown"
}

// SubType is the semantic hint attached to real-typed fields by the dictionary.
// It decides the normalized target representation, because the wire scale hint
// alone is sometimes absent or generic.
type SubType uint8

const (
	SubTypeNone SubType = iota
	SubTypePrice
	SubTypeInteger
	SubTypeText
)
