// Package dict merges the vendor wire dictionary with the user-supplied
// field-map table into the single lookup structure shared by the decoder and
// encoder.
package dict

import (
	"log/slog"
	"os"
	"strings"

	"github.com/feedmill/mdbridge/wire"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger allows setting a custom logger
func SetLogger(l *slog.Logger) {
	logger = l
}

// Type is the normalized (vendor-neutral) field type.
type Type uint8

const (
	TypeUnknown Type = iota
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
	TypePrice
	TypeDateTime
	TypeString
	TypeMessage
	TypeVectorString
	TypeVectorInt32

	typeCount
)

var typeNames = [typeCount]string{
	TypeUnknown:      "unknown",
	TypeBool:         "bool",
	TypeChar:         "char",
	TypeInt8:         "i8",
	TypeInt16:        "i16",
	TypeInt32:        "i32",
	TypeInt64:        "i64",
	TypeUInt8:        "u8",
	TypeUInt16:       "u16",
	TypeUInt32:       "u32",
	TypeUInt64:       "u64",
	TypeFloat32:      "f32",
	TypeFloat64:      "f64",
	TypePrice:        "price",
	TypeDateTime:     "datetime",
	TypeString:       "string",
	TypeMessage:      "message",
	TypeVectorString: "vector_string",
	TypeVectorInt32:  "vector_i32",
}

func (t Type) String() string {
	if t < typeCount {
		return typeNames[t]
	}
	return "unknown"
}

var typeTokens = func() map[string]Type {
	m := make(map[string]Type, typeCount)
	for t := TypeUnknown + 1; t < typeCount; t++ {
		m[typeNames[t]] = t
	}
	return m
}()

// ParseFieldType resolves a normalized type token from a field-map table row.
func ParseFieldType(token string) (Type, bool) {
	t, ok := typeTokens[strings.ToLower(strings.TrimSpace(token))]
	return t, ok
}

// TypeForWire is the normalized type a wire type maps to when the field-map
// table does not say otherwise (pass-through entries).
func TypeForWire(wt wire.FieldType, sub wire.SubType) Type {
	switch wt {
	case wire.TypeBool:
		return TypeBool
	case wire.TypeChar:
		return TypeChar
	case wire.TypeInt8:
		return TypeInt8
	case wire.TypeInt16:
		return TypeInt16
	case wire.TypeInt32:
		return TypeInt32
	case wire.TypeInt64:
		return TypeInt64
	case wire.TypeUInt8:
		return TypeUInt8
	case wire.TypeUInt16:
		return TypeUInt16
	case wire.TypeUInt32:
		return TypeUInt32
	case wire.TypeUInt64:
		return TypeUInt64
	case wire.TypeFloat32:
		return TypeFloat32
	case wire.TypeFloat64:
		return TypeFloat64
	case wire.TypeReal:
		// Dictionary metadata decides the target representation for reals;
		// the wire hint alone is not reliable.
		switch sub {
		case wire.SubTypeInteger:
			return TypeInt64
		case wire.SubTypeText:
			return TypeString
		default:
			return TypePrice
		}
	case wire.TypeDateTime:
		return TypeDateTime
	case wire.TypeString, wire.TypeBuffer, wire.TypeEnum:
		return TypeString
	case wire.TypeMessage:
		return TypeMessage
	case wire.TypeVectorString:
		return TypeVectorString
	case wire.TypeVectorInt32:
		return TypeVectorInt32
	default:
		return TypeUnknown
	}
}

// FieldDescriptor describes one translated field. Immutable once built.
type FieldDescriptor struct {
	WireID     uint16
	NormID     uint16
	Name       string
	Type       Type
	ExplicitID bool // normalized id came from the map table, not pass-through
}

// FieldDictionary is the merged wire-id -> descriptor lookup plus its reverse
// mapping. Built once per subscription context; read-only afterward; shared by
// the decoder and encoder.
type FieldDictionary struct {
	byWire [wire.MaxFID + 1]*FieldDescriptor
	byNorm map[uint16]uint16 // normalized id -> wire id
	wire   *wire.Dictionary
}

// Resolve returns the descriptor for a wire field id. Nil means the field is
// not representable and is dropped silently unless pass-through is enabled.
func (fd *FieldDictionary) Resolve(wireFid uint16) *FieldDescriptor {
	if wireFid > wire.MaxFID {
		return nil
	}
	return fd.byWire[wireFid]
}

// ResolveNorm is the reverse lookup: normalized id -> wire id.
func (fd *FieldDictionary) ResolveNorm(normID uint16) (uint16, bool) {
	fid, ok := fd.byNorm[normID]
	return fid, ok
}

// WireDef exposes the underlying vendor definition for a wire field id.
func (fd *FieldDictionary) WireDef(wireFid uint16) *wire.FieldDef {
	return fd.wire.Lookup(wireFid)
}

// Len returns the number of translated fields.
func (fd *FieldDictionary) Len() int {
	return len(fd.byNorm)
}
