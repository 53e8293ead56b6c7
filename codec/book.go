package codec

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/feedmill/mdbridge/book"
	"github.com/feedmill/mdbridge/dict"
	"github.com/feedmill/mdbridge/wire"
)

// Well-known wire field ids for order-book events. Book semantics require
// these specific fields regardless of how the general schema maps them, so
// the book decode path selects on this fixed set instead of the dictionary.
const (
	FIDOrderID     uint16 = 3426
	FIDOrderPrice  uint16 = 3427
	FIDOrderSide   uint16 = 3428
	FIDOrderSize   uint16 = 3429
	FIDOrderCount  uint16 = 3430
	FIDOrderTime   uint16 = 3431
	FIDOrderTone   uint16 = 3432
	FIDMarketMaker uint16 = 212
)

// Side enumeration codes as they appear on the wire.
const (
	wireSideBid uint16 = 1
	wireSideAsk uint16 = 2
)

// DecodeBookEntry assembles a book entry from an order-book event's framed
// fields. action comes from the event envelope, not from a field. ok is false
// when the event carries no usable order id; everything else decodes
// best-effort with type-appropriate zero defaults.
func (d *Decoder) DecodeBookEntry(action book.Action, fields []wire.Field) (*book.Entry, bool) {
	entry := &book.Entry{
		Action: action,
		Side:   book.Bid,
	}

	for _, f := range fields {
		switch f.FID {
		case FIDOrderID:
			entry.OrderID = f.Str

		case FIDOrderSide:
			entry.Side = decodeSide(f)

		case FIDOrderPrice:
			// The book keys levels by the wire-exact price, so the raw
			// mantissa and hint are kept; blank decodes to the zero price.
			if f.Blank {
				entry.Price = wire.Price{}
			} else {
				entry.Price = f.Price
			}

		case FIDOrderSize:
			entry.Size = decodeSize(d.warned, f)

		case FIDOrderTime:
			v, _ := coercions[wire.TypeDateTime].decode(d.warned, f,
				&wire.FieldDef{FID: f.FID, Type: wire.TypeDateTime}, dict.TypeDateTime)
			entry.Time = v.Time

		case FIDOrderTone:
			if !f.Blank {
				entry.Tone = f.Str
			}

		case FIDMarketMaker:
			if !f.Blank {
				entry.MarketMaker = f.Str
			}
		}
	}

	if entry.OrderID == "" {
		logger.Warn("book event without order id dropped", "action", action.String())
		return nil, false
	}

	return entry, true
}

// decodeSide accepts the side either as the wire enum or as a 'B'/'A' char
// from feeds that predate the enum table.
func decodeSide(f wire.Field) book.Side {
	switch f.Type {
	case wire.TypeEnum:
		if f.Enum == wireSideAsk {
			return book.Ask
		}
		return book.Bid
	case wire.TypeChar, wire.TypeString:
		if f.Str == "A" || f.Str == "S" {
			return book.Ask
		}
		return book.Bid
	default:
		if f.Int == int64(wireSideAsk) {
			return book.Ask
		}
		return book.Bid
	}
}

// decodeSize accepts the size as a real, an integer, or a numeric string.
func decodeSize(w *warnSet, f wire.Field) decimal.Decimal {
	if f.Blank {
		return decimal.Zero
	}
	switch f.Type {
	case wire.TypeReal:
		return f.Price.Decimal()
	case wire.TypeInt8, wire.TypeInt16, wire.TypeInt32, wire.TypeInt64:
		v, _ := decodeSigned(w, f, &wire.FieldDef{FID: f.FID, Type: f.Type}, dict.TypeInt64)
		return decimal.NewFromInt(v.Int)
	case wire.TypeUInt8, wire.TypeUInt16, wire.TypeUInt32, wire.TypeUInt64:
		v, _ := decodeUnsigned(w, f, &wire.FieldDef{FID: f.FID, Type: f.Type}, dict.TypeUInt64)
		return decimal.NewFromUint64(v.UInt)
	case wire.TypeString:
		d, err := decimal.NewFromString(f.Str)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// FormatSide renders a side back into its wire enum code string, used by the
// pass-through republication path.
func FormatSide(s book.Side) string {
	if s == book.Ask {
		return strconv.FormatUint(uint64(wireSideAsk), 10)
	}
	return strconv.FormatUint(uint64(wireSideBid), 10)
}
