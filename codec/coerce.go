package codec

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/feedmill/mdbridge/dict"
	"github.com/feedmill/mdbridge/wire"
)

// encodeResult classifies the outcome of a single-field encode.
type encodeResult uint8

const (
	encodeOK   encodeResult = iota
	encodeSkip              // field dropped, encode as a whole still usable
	encodeFail              // structural failure, flags the whole encode
)

// coercion holds the decode and encode rules for one wire type. Decode,
// DecodeBookEntry and Encode all consult this table; there is deliberately no
// second switch anywhere.
type coercion struct {
	decode func(w *warnSet, f wire.Field, def *wire.FieldDef, target dict.Type) (Value, bool)
	encode func(w *warnSet, v Value, def *wire.FieldDef) (wire.Field, encodeResult)
}

var coercions = map[wire.FieldType]coercion{
	wire.TypeBool: {
		decode: func(_ *warnSet, f wire.Field, _ *wire.FieldDef, _ dict.Type) (Value, bool) {
			return Value{Kind: dict.TypeBool, Bool: !f.Blank && f.Int != 0}, true
		},
		encode: func(_ *warnSet, v Value, def *wire.FieldDef) (wire.Field, encodeResult) {
			out := wire.Field{FID: def.FID, Type: wire.TypeBool}
			if v.Bool {
				out.Int = 1
			}
			return out, encodeOK
		},
	},
	wire.TypeChar: {
		decode: func(_ *warnSet, f wire.Field, _ *wire.FieldDef, _ dict.Type) (Value, bool) {
			return Value{Kind: dict.TypeChar, Str: f.Str}, true
		},
		encode: encodeString(wire.TypeChar),
	},
	wire.TypeInt8:  {decode: decodeSigned, encode: encodeSigned(wire.TypeInt8)},
	wire.TypeInt16: {decode: decodeSigned, encode: encodeSigned(wire.TypeInt16)},
	wire.TypeInt32: {decode: decodeSigned, encode: encodeSigned(wire.TypeInt32)},
	wire.TypeInt64: {decode: decodeSigned, encode: encodeSigned(wire.TypeInt64)},

	wire.TypeUInt8:  {decode: decodeUnsigned, encode: encodeUnsigned(wire.TypeUInt8)},
	wire.TypeUInt16: {decode: decodeUnsigned, encode: encodeUnsigned(wire.TypeUInt16)},
	wire.TypeUInt32: {decode: decodeUnsigned, encode: encodeUnsigned(wire.TypeUInt32)},
	wire.TypeUInt64: {decode: decodeUnsigned, encode: encodeUnsigned(wire.TypeUInt64)},

	wire.TypeFloat32: {
		decode: decodeFloat,
		encode: func(_ *warnSet, v Value, def *wire.FieldDef) (wire.Field, encodeResult) {
			return wire.Field{FID: def.FID, Type: wire.TypeFloat32, Float: v.Float}, encodeOK
		},
	},
	wire.TypeFloat64: {
		decode: decodeFloat,
		encode: func(_ *warnSet, v Value, def *wire.FieldDef) (wire.Field, encodeResult) {
			return wire.Field{FID: def.FID, Type: wire.TypeFloat64, Float: v.Float}, encodeOK
		},
	},

	wire.TypeReal: {decode: decodeReal, encode: encodeReal},
	wire.TypeEnum: {decode: decodeEnum, encode: encodeEnum},

	wire.TypeDateTime: {
		decode: func(_ *warnSet, f wire.Field, _ *wire.FieldDef, _ dict.Type) (Value, bool) {
			if f.Blank || f.Time.IsZero() {
				// Blank data decodes to the epoch-start sentinel, never an error.
				return TimeValue(epochStart), true
			}
			return TimeValue(f.Time), true
		},
		encode: func(_ *warnSet, v Value, def *wire.FieldDef) (wire.Field, encodeResult) {
			return wire.Field{FID: def.FID, Type: wire.TypeDateTime, Time: v.Time}, encodeOK
		},
	},

	wire.TypeString: {
		decode: decodeText,
		encode: encodeString(wire.TypeString),
	},
	wire.TypeBuffer: {
		decode: decodeText,
		encode: encodeString(wire.TypeBuffer),
	},

	wire.TypeVectorString: {
		decode: func(_ *warnSet, f wire.Field, _ *wire.FieldDef, _ dict.Type) (Value, bool) {
			return Value{Kind: dict.TypeVectorString, Strs: f.Strs}, true
		},
		encode: func(_ *warnSet, v Value, def *wire.FieldDef) (wire.Field, encodeResult) {
			return wire.Field{FID: def.FID, Type: wire.TypeVectorString, Strs: v.Strs}, encodeOK
		},
	},
	wire.TypeVectorInt32: {
		decode: func(_ *warnSet, f wire.Field, _ *wire.FieldDef, _ dict.Type) (Value, bool) {
			return Value{Kind: dict.TypeVectorInt32, Ints: f.Ints}, true
		},
		encode: func(_ *warnSet, v Value, def *wire.FieldDef) (wire.Field, encodeResult) {
			return wire.Field{FID: def.FID, Type: wire.TypeVectorInt32, Ints: v.Ints}, encodeOK
		},
	},
}

// signedRange returns the inclusive bounds of a signed normalized type.
func signedRange(t dict.Type) (int64, int64, bool) {
	switch t {
	case dict.TypeInt8:
		return math.MinInt8, math.MaxInt8, true
	case dict.TypeInt16:
		return math.MinInt16, math.MaxInt16, true
	case dict.TypeInt32:
		return math.MinInt32, math.MaxInt32, true
	case dict.TypeInt64:
		return math.MinInt64, math.MaxInt64, true
	}
	return 0, 0, false
}

// unsignedMax returns the upper bound of an unsigned normalized type.
func unsignedMax(t dict.Type) (uint64, bool) {
	switch t {
	case dict.TypeUInt8:
		return math.MaxUint8, true
	case dict.TypeUInt16:
		return math.MaxUint16, true
	case dict.TypeUInt32:
		return math.MaxUint32, true
	case dict.TypeUInt64:
		return math.MaxUint64, true
	}
	return 0, false
}

func decodeSigned(w *warnSet, f wire.Field, def *wire.FieldDef, target dict.Type) (Value, bool) {
	v := f.Int
	if f.Blank {
		v = 0
	}

	if min, max, ok := signedRange(target); ok {
		if v < min || v > max {
			if w.once(f.FID) {
				logger.Warn("integer narrowed with truncation", "fid", f.FID, "name", def.Name,
					"value", v, "target", target.String())
			}
			v = truncateSigned(v, target)
		}
		return IntValue(target, v), true
	}
	if max, ok := unsignedMax(target); ok {
		u := uint64(v)
		if v < 0 || u > max {
			if w.once(f.FID) {
				logger.Warn("integer narrowed with truncation", "fid", f.FID, "name", def.Name,
					"value", v, "target", target.String())
			}
			u = uint64(v) & max
		}
		return UIntValue(target, u), true
	}

	// Non-integer target keeps the widest signed representation.
	return IntValue(dict.TypeInt64, v), true
}

func decodeUnsigned(w *warnSet, f wire.Field, def *wire.FieldDef, target dict.Type) (Value, bool) {
	v := f.UInt
	if f.Blank {
		v = 0
	}

	if max, ok := unsignedMax(target); ok {
		if v > max {
			if w.once(f.FID) {
				logger.Warn("integer narrowed with truncation", "fid", f.FID, "name", def.Name,
					"value", v, "target", target.String())
			}
			v &= max
		}
		return UIntValue(target, v), true
	}
	if min, max, ok := signedRange(target); ok {
		s := int64(v)
		if v > uint64(max) || s < min {
			if w.once(f.FID) {
				logger.Warn("integer narrowed with truncation", "fid", f.FID, "name", def.Name,
					"value", v, "target", target.String())
			}
			s = truncateSigned(int64(v), target)
		}
		return IntValue(target, s), true
	}

	return UIntValue(dict.TypeUInt64, v), true
}

// truncateSigned performs Go conversion truncation to the target width.
func truncateSigned(v int64, t dict.Type) int64 {
	switch t {
	case dict.TypeInt8:
		return int64(int8(v))
	case dict.TypeInt16:
		return int64(int16(v))
	case dict.TypeInt32:
		return int64(int32(v))
	}
	return v
}

func decodeFloat(_ *warnSet, f wire.Field, _ *wire.FieldDef, target dict.Type) (Value, bool) {
	v := f.Float
	if f.Blank {
		v = 0
	}
	kind := target
	if kind != dict.TypeFloat32 && kind != dict.TypeFloat64 {
		kind = dict.TypeFloat64
	}
	return Value{Kind: kind, Float: v}, true
}

// decodeReal picks the target representation from dictionary metadata, not
// from the wire hint alone: the hint is sometimes absent or generic.
func decodeReal(_ *warnSet, f wire.Field, _ *wire.FieldDef, target dict.Type) (Value, bool) {
	if f.Blank {
		switch target {
		case dict.TypeString:
			return StringValue(""), true
		case dict.TypeInt64, dict.TypeInt32, dict.TypeInt16, dict.TypeInt8,
			dict.TypeUInt64, dict.TypeUInt32, dict.TypeUInt16, dict.TypeUInt8:
			return IntValue(dict.TypeInt64, 0), true
		default:
			return PriceValue(decimal.Zero, wire.PrecisionUnknown), true
		}
	}

	switch target {
	case dict.TypeString:
		return StringValue(f.Price.Render()), true
	case dict.TypeInt64, dict.TypeInt32, dict.TypeInt16, dict.TypeInt8,
		dict.TypeUInt64, dict.TypeUInt32, dict.TypeUInt16, dict.TypeUInt8:
		return IntValue(dict.TypeInt64, f.Price.Decimal().IntPart()), true
	case dict.TypeFloat32, dict.TypeFloat64:
		return Value{Kind: dict.TypeFloat64, Float: f.Price.Decimal().InexactFloat64()}, true
	default:
		return PriceValue(f.Price.Decimal(), wire.PrecisionForHint(f.Price.Hint)), true
	}
}

func decodeEnum(w *warnSet, f wire.Field, def *wire.FieldDef, _ dict.Type) (Value, bool) {
	if f.Blank {
		return StringValue("0"), true
	}

	if def.Enum != nil {
		if display, ok := def.Enum.Display(f.Enum); ok {
			return StringValue(display), true
		}
	}

	// No table hit: the literal numeric code travels on as a string.
	if w.once(f.FID) {
		logger.Warn("enum code not in enumeration table", "fid", f.FID, "name", def.Name, "code", f.Enum)
	}
	return StringValue(strconv.FormatUint(uint64(f.Enum), 10)), true
}

func decodeText(_ *warnSet, f wire.Field, _ *wire.FieldDef, _ dict.Type) (Value, bool) {
	if f.Blank {
		return StringValue(""), true
	}
	return StringValue(f.Str), true
}

func encodeSigned(wt wire.FieldType) func(*warnSet, Value, *wire.FieldDef) (wire.Field, encodeResult) {
	return func(w *warnSet, v Value, def *wire.FieldDef) (wire.Field, encodeResult) {
		out := wire.Field{FID: def.FID, Type: wt}
		switch v.Kind {
		case dict.TypeUInt8, dict.TypeUInt16, dict.TypeUInt32, dict.TypeUInt64:
			out.Int = int64(v.UInt)
		case dict.TypeFloat32, dict.TypeFloat64:
			out.Int = int64(v.Float)
		case dict.TypePrice:
			out.Int = v.Dec.IntPart()
		default:
			out.Int = v.Int
		}
		return out, encodeOK
	}
}

func encodeUnsigned(wt wire.FieldType) func(*warnSet, Value, *wire.FieldDef) (wire.Field, encodeResult) {
	return func(w *warnSet, v Value, def *wire.FieldDef) (wire.Field, encodeResult) {
		out := wire.Field{FID: def.FID, Type: wt}
		switch v.Kind {
		case dict.TypeInt8, dict.TypeInt16, dict.TypeInt32, dict.TypeInt64:
			out.UInt = uint64(v.Int)
		case dict.TypeFloat32, dict.TypeFloat64:
			out.UInt = uint64(v.Float)
		default:
			out.UInt = v.UInt
		}
		return out, encodeOK
	}
}

func encodeString(wt wire.FieldType) func(*warnSet, Value, *wire.FieldDef) (wire.Field, encodeResult) {
	return func(_ *warnSet, v Value, def *wire.FieldDef) (wire.Field, encodeResult) {
		return wire.Field{FID: def.FID, Type: wt, Str: v.Str}, encodeOK
	}
}

// encodeReal encodes prices through the fixed precision-to-hint mapping and
// plain numerics at scale 0. An unrepresentable price becomes the wire-level
// blank marker, never a crash.
func encodeReal(_ *warnSet, v Value, def *wire.FieldDef) (wire.Field, encodeResult) {
	switch v.Kind {
	case dict.TypePrice:
		p, ok := wire.NewPrice(v.Dec, v.Precision)
		if !ok {
			return wire.BlankField(def.FID, wire.TypeReal), encodeOK
		}
		return wire.Field{FID: def.FID, Type: wire.TypeReal, Price: p}, encodeOK
	case dict.TypeInt8, dict.TypeInt16, dict.TypeInt32, dict.TypeInt64:
		return wire.Field{FID: def.FID, Type: wire.TypeReal,
			Price: wire.Price{Mantissa: v.Int, Hint: wire.HintInt}}, encodeOK
	case dict.TypeUInt8, dict.TypeUInt16, dict.TypeUInt32, dict.TypeUInt64:
		return wire.Field{FID: def.FID, Type: wire.TypeReal,
			Price: wire.Price{Mantissa: int64(v.UInt), Hint: wire.HintInt}}, encodeOK
	case dict.TypeFloat32, dict.TypeFloat64:
		p, ok := wire.NewPrice(decimal.NewFromFloat(v.Float), wire.Precision6Dp)
		if !ok {
			return wire.BlankField(def.FID, wire.TypeReal), encodeOK
		}
		return wire.Field{FID: def.FID, Type: wire.TypeReal, Price: p}, encodeOK
	default:
		return wire.Field{}, encodeFail
	}
}

// encodeEnum resolves a wire enum from a normalized string or numeric source.
// String matching is case-sensitive and exact-length: some enumerations
// differ only by case.
func encodeEnum(w *warnSet, v Value, def *wire.FieldDef) (wire.Field, encodeResult) {
	out := wire.Field{FID: def.FID, Type: wire.TypeEnum}

	switch v.Kind {
	case dict.TypeString, dict.TypeChar:
		if def.Enum != nil {
			if code, ok := def.Enum.Code(v.Str); ok {
				out.Enum = code
				return out, encodeOK
			}
		}
		// Fall back to the string as a raw numeric code.
		code, err := strconv.ParseUint(v.Str, 10, 16)
		if err != nil {
			if w.once(def.FID) {
				logger.Warn("enum display has no code and is not numeric",
					"fid", def.FID, "name", def.Name, "display", v.Str)
			}
			return wire.Field{}, encodeSkip
		}
		if w.once(def.FID) {
			logger.Warn("enum display not in enumeration table, encoding raw code",
				"fid", def.FID, "name", def.Name, "display", v.Str)
		}
		out.Enum = uint16(code)
		return out, encodeOK

	case dict.TypeInt8, dict.TypeInt16, dict.TypeInt32, dict.TypeInt64,
		dict.TypeUInt8, dict.TypeUInt16, dict.TypeUInt32, dict.TypeUInt64:
		code := v.UInt
		switch v.Kind {
		case dict.TypeInt8, dict.TypeInt16, dict.TypeInt32, dict.TypeInt64:
			if v.Int < 0 {
				return wire.Field{}, encodeSkip
			}
			code = uint64(v.Int)
		}
		if code > math.MaxUint16 || (def.Enum != nil && !def.Enum.Valid(uint16(code))) {
			if w.once(def.FID) {
				logger.Warn("enum code rejected by enumeration table",
					"fid", def.FID, "name", def.Name, "code", code)
			}
			return wire.Field{}, encodeSkip
		}
		out.Enum = uint16(code)
		return out, encodeOK

	default:
		return wire.Field{}, encodeFail
	}
}
