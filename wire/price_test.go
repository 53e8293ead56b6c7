package wire

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceDecimal(t *testing.T) {
	t.Run("decimal hints", func(t *testing.T) {
		p := Price{Mantissa: 10150, Hint: Hint2Dp}
		assert.True(t, p.Decimal().Equal(decimal.RequireFromString("101.50")))
		assert.Equal(t, "101.50", p.Render())
	})

	t.Run("fractional hints", func(t *testing.T) {
		p := Price{Mantissa: 110*32 + 5, Hint: Hint32nd}
		assert.True(t, p.Decimal().Equal(decimal.RequireFromString("110.15625")))
	})

	t.Run("no hint keeps the mantissa", func(t *testing.T) {
		p := Price{Mantissa: 42, Hint: HintNone}
		assert.True(t, p.Decimal().Equal(decimal.NewFromInt(42)))
	})
}

func TestPriceKeyOrder(t *testing.T) {
	// Keys order by raw mantissa first; values rendering identically under
	// different hints stay distinct and order by hint.
	a := Price{Mantissa: 100, Hint: Hint1Dp}
	b := Price{Mantissa: 100, Hint: Hint2Dp}
	c := Price{Mantissa: 200, Hint: Hint1Dp}

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
	assert.NotEqual(t, a, b)
}

func TestPrecisionHintMapping(t *testing.T) {
	t.Run("the mapping is total", func(t *testing.T) {
		for p := PrecisionUnknown; p < precisionCount; p++ {
			_ = p.Hint() // must not panic for any precision
		}
	})

	t.Run("round trips through the reverse mapping", func(t *testing.T) {
		for _, p := range []Precision{PrecisionInt, Precision2Dp, Precision6Dp, PrecisionHalf, Precision256th} {
			assert.Equal(t, p, PrecisionForHint(p.Hint()))
		}
	})
}

func TestNewPrice(t *testing.T) {
	t.Run("decimal precision", func(t *testing.T) {
		p, ok := NewPrice(decimal.RequireFromString("101.50"), Precision2Dp)
		require.True(t, ok)
		assert.Equal(t, int64(10150), p.Mantissa)
		assert.Equal(t, Hint2Dp, p.Hint)
	})

	t.Run("fractional precision", func(t *testing.T) {
		p, ok := NewPrice(decimal.RequireFromString("110.15625"), Precision32nd)
		require.True(t, ok)
		assert.Equal(t, int64(3525), p.Mantissa)
		assert.Equal(t, Hint32nd, p.Hint)
	})

	t.Run("unrepresentable values are reported", func(t *testing.T) {
		_, ok := NewPrice(decimal.RequireFromString("101.505"), Precision2Dp)
		assert.False(t, ok)

		_, ok = NewPrice(decimal.RequireFromString("110.16"), Precision32nd)
		assert.False(t, ok)
	})
}
