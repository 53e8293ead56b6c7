package codec

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedmill/mdbridge/dict"
	"github.com/feedmill/mdbridge/wire"
)

func TestEncode(t *testing.T) {
	t.Run("price encodes through the precision mapping", func(t *testing.T) {
		e := NewEncoder(testDictionary(t))

		out, ok := e.Encode([]NormField{
			{NormID: 101, Value: PriceValue(decimal.RequireFromString("101.50"), wire.Precision2Dp)},
		})
		require.True(t, ok)
		require.Len(t, out, 1)
		assert.Equal(t, uint16(6), out[0].FID)
		assert.Equal(t, wire.TypeReal, out[0].Type)
		assert.Equal(t, wire.Price{Mantissa: 10150, Hint: wire.Hint2Dp}, out[0].Price)
	})

	t.Run("fractional precision encodes fractional hints", func(t *testing.T) {
		e := NewEncoder(testDictionary(t))

		out, ok := e.Encode([]NormField{
			{NormID: 101, Value: PriceValue(decimal.RequireFromString("110.15625"), wire.Precision32nd)},
		})
		require.True(t, ok)
		require.Len(t, out, 1)
		assert.Equal(t, wire.Price{Mantissa: 3525, Hint: wire.Hint32nd}, out[0].Price)
	})

	t.Run("unrepresentable price encodes as blank, not a crash", func(t *testing.T) {
		e := NewEncoder(testDictionary(t))

		out, ok := e.Encode([]NormField{
			{NormID: 101, Value: PriceValue(decimal.RequireFromString("101.505"), wire.Precision2Dp)},
		})
		require.True(t, ok)
		require.Len(t, out, 1)
		assert.True(t, out[0].Blank)
	})

	t.Run("plain numeric encodes at scale zero", func(t *testing.T) {
		e := NewEncoder(testDictionary(t))

		out, ok := e.Encode([]NormField{
			{NormID: 102, Value: IntValue(dict.TypeInt64, 123456)},
		})
		require.True(t, ok)
		require.Len(t, out, 1)
		assert.Equal(t, wire.Price{Mantissa: 123456, Hint: wire.HintInt}, out[0].Price)
	})

	t.Run("unmapped normalized fields are skipped, not failed", func(t *testing.T) {
		e := NewEncoder(testDictionary(t))

		out, ok := e.Encode([]NormField{
			{NormID: 999, Value: StringValue("nope")},
			{NormID: 107, Value: StringValue("ACME CORP")},
		})
		require.True(t, ok)
		require.Len(t, out, 1)
		assert.Equal(t, uint16(1021), out[0].FID)
	})

	t.Run("enum display matching is case-sensitive", func(t *testing.T) {
		e := NewEncoder(testDictionary(t))

		out, ok := e.Encode([]NormField{
			{NormID: 104, Value: StringValue("cls")},
		})
		require.True(t, ok)
		require.Len(t, out, 1)
		assert.Equal(t, uint16(2), out[0].Enum)

		out, ok = e.Encode([]NormField{
			{NormID: 104, Value: StringValue("CLS")},
		})
		require.True(t, ok)
		require.Len(t, out, 1)
		assert.Equal(t, uint16(3), out[0].Enum)
	})

	t.Run("unmatched enum display falls back to a raw numeric code", func(t *testing.T) {
		e := NewEncoder(testDictionary(t))

		out, ok := e.Encode([]NormField{
			{NormID: 104, Value: StringValue("7")},
		})
		require.True(t, ok)
		require.Len(t, out, 1)
		assert.Equal(t, uint16(7), out[0].Enum)
	})

	t.Run("non-numeric unmatched enum display is dropped", func(t *testing.T) {
		e := NewEncoder(testDictionary(t))

		out, ok := e.Encode([]NormField{
			{NormID: 104, Value: StringValue("NOPE")},
		})
		require.True(t, ok) // dropped, but the encode as a whole is usable
		assert.Empty(t, out)
	})

	t.Run("invalid numeric enum code is rejected", func(t *testing.T) {
		e := NewEncoder(testDictionary(t))

		out, ok := e.Encode([]NormField{
			{NormID: 104, Value: UIntValue(dict.TypeUInt16, 42)},
		})
		require.True(t, ok)
		assert.Empty(t, out)

		out, ok = e.Encode([]NormField{
			{NormID: 104, Value: UIntValue(dict.TypeUInt16, 1)},
		})
		require.True(t, ok)
		require.Len(t, out, 1)
		assert.Equal(t, uint16(1), out[0].Enum)
	})

	t.Run("a single failure flags the result but processing continues", func(t *testing.T) {
		e := NewEncoder(testDictionary(t))

		out, ok := e.Encode([]NormField{
			{NormID: 101, Value: TimeValue(epochStart)}, // datetime into a real field
			{NormID: 107, Value: StringValue("STILL HERE")},
		})
		assert.False(t, ok)
		require.Len(t, out, 1)
		assert.Equal(t, "STILL HERE", out[0].Str)
	})
}

func TestWarningDedup(t *testing.T) {
	// One warning per field id per codec instance: the dedup set must not be
	// shared across instances.
	e1 := NewEncoder(testDictionary(t))
	assert.True(t, e1.warned.once(118))
	assert.False(t, e1.warned.once(118))

	e2 := NewEncoder(testDictionary(t))
	assert.True(t, e2.warned.once(118))
}
