package wire

import (
	"github.com/shopspring/decimal"
)

// ScaleHint encodes a fixed-point value's decimal scale or fractional
// denominator as it appears on the wire.
type ScaleHint uint8

const (
	HintNone ScaleHint = iota // no scaling information on the wire
	HintInt                   // 10^0
	Hint1Dp                   // 10^-1
	Hint2Dp
	Hint3Dp
	Hint4Dp
	Hint5Dp
	Hint6Dp
	Hint7Dp
	Hint8Dp
	Hint9Dp
	Hint10Dp
	HintHalf // 1/2, fractional-quoted instruments
	HintQuarter
	HintEighth
	Hint16th
	Hint32nd
	Hint64th
	Hint128th
	Hint256th

	hintCount
)

// hintExponent maps decimal hints to their power-of-ten exponent.
// Fractional hints are not present here; see hintDenominator.
var hintExponent = map[ScaleHint]int32{
	HintInt:  0,
	Hint1Dp:  -1,
	Hint2Dp:  -2,
	Hint3Dp:  -3,
	Hint4Dp:  -4,
	Hint5Dp:  -5,
	Hint6Dp:  -6,
	Hint7Dp:  -7,
	Hint8Dp:  -8,
	Hint9Dp:  -9,
	Hint10Dp: -10,
}

// hintDenominator maps fractional hints to their denominator.
var hintDenominator = map[ScaleHint]int64{
	HintHalf:    2,
	HintQuarter: 4,
	HintEighth:  8,
	Hint16th:    16,
	Hint32nd:    32,
	Hint64th:    64,
	Hint128th:   128,
	Hint256th:   256,
}

// hintRenderDp is the fixed mapping from scale hint to the decimal precision
// used when rendering a price into an output message.
var hintRenderDp = [hintCount]int32{
	HintNone:    6,
	HintInt:     0,
	Hint1Dp:     1,
	Hint2Dp:     2,
	Hint3Dp:     3,
	Hint4Dp:     4,
	Hint5Dp:     5,
	Hint6Dp:     6,
	Hint7Dp:     7,
	Hint8Dp:     8,
	Hint9Dp:     9,
	Hint10Dp:    10,
	HintHalf:    1,
	HintQuarter: 2,
	HintEighth:  3,
	Hint16th:    4,
	Hint32nd:    5,
	Hint64th:    6,
	Hint128th:   7,
	Hint256th:   8,
}

// RenderDp returns the number of decimal places used to render values carrying
// this hint.
func (h ScaleHint) RenderDp() int32 {
	if h < hintCount {
		return hintRenderDp[h]
	}
	return hintRenderDp[HintNone]
}

// IsFractional reports whether the hint denotes a fractional denominator.
func (h ScaleHint) IsFractional() bool {
	_, ok := hintDenominator[h]
	return ok
}

// Price is a wire-exact fixed-point price: a raw mantissa plus the scale hint
// it arrived with. Two prices are the same key only when both mantissa and
// hint are equal; prices that render to the same floating value but differ in
// hint are deliberately distinct to avoid float-drift level duplication.
type Price struct {
	Mantissa int64
	Hint     ScaleHint
}

// Decimal converts the wire representation into an exact decimal value.
func (p Price) Decimal() decimal.Decimal {
	if denom, ok := hintDenominator[p.Hint]; ok {
		return decimal.NewFromInt(p.Mantissa).Div(decimal.NewFromInt(denom))
	}
	exp, ok := hintExponent[p.Hint]
	if !ok {
		// HintNone carries the mantissa as-is.
		exp = 0
	}
	return decimal.New(p.Mantissa, exp)
}

// Render formats the price with the precision derived from its scale hint.
func (p Price) Render() string {
	return p.Decimal().StringFixed(p.Hint.RenderDp())
}

// IsZero reports whether the price is the zero value.
func (p Price) IsZero() bool {
	return p.Mantissa == 0
}

// Less orders prices by raw key (mantissa first, then hint). This is the side
// map's natural key order, not a value-normalized order; see the level map.
func (p Price) Less(o Price) bool {
	if p.Mantissa != o.Mantissa {
		return p.Mantissa < o.Mantissa
	}
	return p.Hint < o.Hint
}

// Precision is the normalized decimal-precision enum carried by normalized
// price values.
type Precision uint8

const (
	PrecisionUnknown Precision = iota
	PrecisionInt
	Precision1Dp
	Precision2Dp
	Precision3Dp
	Precision4Dp
	Precision5Dp
	Precision6Dp
	Precision7Dp
	Precision8Dp
	Precision9Dp
	Precision10Dp
	PrecisionHalf
	PrecisionQuarter
	PrecisionEighth
	Precision16th
	Precision32nd
	Precision64th
	Precision128th
	Precision256th

	precisionCount
)

// precisionHint is the fixed, total mapping from normalized precision to wire
// scale hint used by the encoder.
var precisionHint = [precisionCount]ScaleHint{
	PrecisionUnknown: HintNone,
	PrecisionInt:     HintInt,
	Precision1Dp:     Hint1Dp,
	Precision2Dp:     Hint2Dp,
	Precision3Dp:     Hint3Dp,
	Precision4Dp:     Hint4Dp,
	Precision5Dp:     Hint5Dp,
	Precision6Dp:     Hint6Dp,
	Precision7Dp:     Hint7Dp,
	Precision8Dp:     Hint8Dp,
	Precision9Dp:     Hint9Dp,
	Precision10Dp:    Hint10Dp,
	PrecisionHalf:    HintHalf,
	PrecisionQuarter: HintQuarter,
	PrecisionEighth:  HintEighth,
	Precision16th:    Hint16th,
	Precision32nd:    Hint32nd,
	Precision64th:    Hint64th,
	Precision128th:   Hint128th,
	Precision256th:   Hint256th,
}

// Hint converts a normalized precision to its wire scale hint. The mapping is
// total: unknown precision maps to HintNone.
func (p Precision) Hint() ScaleHint {
	if p < precisionCount {
		return precisionHint[p]
	}
	return HintNone
}

// PrecisionForHint is the reverse mapping used when a decoded price travels
// back out through the encoder unchanged.
func PrecisionForHint(h ScaleHint) Precision {
	for p := PrecisionUnknown; p < precisionCount; p++ {
		if precisionHint[p] == h {
			return p
		}
	}
	return PrecisionUnknown
}

// NewPrice builds a Price from a decimal value and a normalized precision.
// The second return is false when the value cannot be represented exactly at
// that precision; callers encode a blank marker in that case.
func NewPrice(v decimal.Decimal, prec Precision) (Price, bool) {
	hint := prec.Hint()
	if denom, ok := hintDenominator[hint]; ok {
		num := v.Mul(decimal.NewFromInt(denom))
		if !num.IsInteger() {
			return Price{}, false
		}
		return Price{Mantissa: num.IntPart(), Hint: hint}, true
	}
	exp, ok := hintExponent[hint]
	if !ok {
		exp = 0
	}
	scaled := v.Shift(-exp)
	if !scaled.IsInteger() {
		return Price{}, false
	}
	return Price{Mantissa: scaled.IntPart(), Hint: hint}, true
}
