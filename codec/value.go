// Package codec translates between wire-protocol fields and normalized
// message values. The decoder, the book-entry decode path and the encoder all
// dispatch through one coercion table, so the three call sites cannot drift
// apart.
package codec

import (
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feedmill/mdbridge/dict"
	"github.com/feedmill/mdbridge/wire"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger allows setting a custom logger
func SetLogger(l *slog.Logger) {
	logger = l
}

// Value is a normalized field value: a kind tag plus the payload slot it
// selects.
type Value struct {
	Kind dict.Type

	Bool      bool
	Int       int64
	UInt      uint64
	Float     float64
	Dec       decimal.Decimal
	Precision wire.Precision // set for price values
	Str       string
	Time      time.Time
	Strs      []string
	Ints      []int64
}

// IntValue builds a signed integer value of the given kind.
func IntValue(kind dict.Type, v int64) Value {
	return Value{Kind: kind, Int: v}
}

// UIntValue builds an unsigned integer value of the given kind.
func UIntValue(kind dict.Type, v uint64) Value {
	return Value{Kind: kind, UInt: v}
}

// PriceValue builds a price value at a normalized precision.
func PriceValue(v decimal.Decimal, prec wire.Precision) Value {
	return Value{Kind: dict.TypePrice, Dec: v, Precision: prec}
}

// StringValue builds a string value.
func StringValue(s string) Value {
	return Value{Kind: dict.TypeString, Str: s}
}

// TimeValue builds a datetime value.
func TimeValue(t time.Time) Value {
	return Value{Kind: dict.TypeDateTime, Time: t}
}

// epochStart is the documented sentinel for blank datetime data.
var epochStart = time.Unix(0, 0).UTC()

// NormField pairs a normalized field id with its value inside a normalized
// message.
type NormField struct {
	NormID uint16
	Value  Value
}

// warnSet deduplicates per-field warnings. Each codec instance owns its own
// set, so warning state never leaks across unrelated sessions.
type warnSet struct {
	seen map[uint16]struct{}
}

func newWarnSet() *warnSet {
	return &warnSet{seen: make(map[uint16]struct{})}
}

// once reports true the first time it is called for a field id.
func (w *warnSet) once(fid uint16) bool {
	if _, ok := w.seen[fid]; ok {
		return false
	}
	w.seen[fid] = struct{}{}
	return true
}
